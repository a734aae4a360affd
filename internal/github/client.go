// Package github wraps the go-github client with the narrow surface the
// sync layer needs: per-thread notification calls on behalf of a user and
// app-installation endpoints.
package github

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/go-github/v62/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// SubjectPayload is the reduced subject resource fetched for enrichment.
type SubjectPayload struct {
	Title   string
	State   string
	HTMLURL string
	Author  string
	Labels  []LabelPayload
}

// LabelPayload is one label attached to a fetched subject.
type LabelPayload struct {
	ID    int64
	Name  string
	Color string
}

// Client is an authenticated per-user wrapper around the go-github client.
type Client struct {
	gh     *github.Client
	logger *zap.SugaredLogger
}

// NewUserClient creates a client authenticated with the user's token.
func NewUserClient(token string, logger *zap.SugaredLogger) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)

	return &Client{
		gh:     github.NewClient(tc),
		logger: logger,
	}
}

// MarkThreadRead marks one notification thread as read.
func (c *Client) MarkThreadRead(ctx context.Context, threadID string) error {
	_, err := c.gh.Activity.MarkThreadRead(ctx, threadID)
	return err
}

// IgnoreThreadSubscription disables future notifications for a thread.
func (c *Client) IgnoreThreadSubscription(ctx context.Context, threadID string) error {
	ignored := true
	_, _, err := c.gh.Activity.SetThreadSubscription(ctx, threadID, &github.Subscription{Ignored: &ignored})
	return err
}

// GetSubject fetches the subject resource behind a notification by its API
// URL. The same reduced shape covers issues, pull requests, commits and
// releases; fields absent for a given type stay empty.
func (c *Client) GetSubject(ctx context.Context, url string) (*SubjectPayload, error) {
	req, err := c.gh.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Title   string `json:"title"`
		Name    string `json:"name"`
		State   string `json:"state"`
		Merged  *bool  `json:"merged"`
		HTMLURL string `json:"html_url"`
		User    struct {
			Login string `json:"login"`
		} `json:"user"`
		Author struct {
			Login string `json:"login"`
		} `json:"author"`
		Labels []struct {
			ID    int64  `json:"id"`
			Name  string `json:"name"`
			Color string `json:"color"`
		} `json:"labels"`
	}
	if _, err := c.gh.Do(ctx, req, &raw); err != nil {
		return nil, err
	}

	payload := &SubjectPayload{
		Title:   raw.Title,
		State:   raw.State,
		HTMLURL: raw.HTMLURL,
		Author:  raw.User.Login,
	}
	if payload.Title == "" {
		payload.Title = raw.Name
	}
	if payload.Author == "" {
		payload.Author = raw.Author.Login
	}
	if raw.Merged != nil && *raw.Merged {
		payload.State = "merged"
	}
	for _, l := range raw.Labels {
		payload.Labels = append(payload.Labels, LabelPayload{ID: l.ID, Name: l.Name, Color: l.Color})
	}

	return payload, nil
}

// IsAccessError reports whether the error is an authorization or not-found
// response, e.g. the user lost access to a repository between enqueue and
// execution.
func IsAccessError(err error) bool {
	var resp *github.ErrorResponse
	if !errors.As(err, &resp) || resp.Response == nil {
		return false
	}
	return resp.Response.StatusCode == http.StatusForbidden ||
		resp.Response.StatusCode == http.StatusNotFound
}
