package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v62/github"
	"go.uber.org/zap"

	installationModel "github.com/festy23/github_inbox/internal/installation/model"
)

// AppClient issues requests as the GitHub App itself or as one of its
// installations. Installation transports mint short-lived access tokens on
// demand.
type AppClient struct {
	appID      int64
	privateKey []byte
	logger     *zap.SugaredLogger
}

// NewAppClient creates an app-level client from the app credentials.
func NewAppClient(appID int64, privateKey []byte, logger *zap.SugaredLogger) (*AppClient, error) {
	if appID == 0 {
		return nil, fmt.Errorf("github app id is empty")
	}
	if len(privateKey) == 0 {
		return nil, fmt.Errorf("github app private key is empty")
	}

	return &AppClient{
		appID:      appID,
		privateKey: privateKey,
		logger:     logger,
	}, nil
}

func (a *AppClient) appClient() (*github.Client, error) {
	tr, err := ghinstallation.NewAppsTransport(http.DefaultTransport, a.appID, a.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create app transport: %w", err)
	}
	return github.NewClient(&http.Client{Transport: tr}), nil
}

func (a *AppClient) installationClient(installID int64) (*github.Client, error) {
	tr, err := ghinstallation.New(http.DefaultTransport, a.appID, installID, a.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create installation transport: %w", err)
	}
	return github.NewClient(&http.Client{Transport: tr}), nil
}

// GetInstallation fetches one installation resource with app credentials.
func (a *AppClient) GetInstallation(ctx context.Context, githubID int64) (installationModel.RemoteInstallation, error) {
	client, err := a.appClient()
	if err != nil {
		return installationModel.RemoteInstallation{}, err
	}

	installation, _, err := client.Apps.GetInstallation(ctx, githubID)
	if err != nil {
		return installationModel.RemoteInstallation{}, fmt.Errorf("failed to get installation %d: %w", githubID, err)
	}

	return toRemoteInstallation(installation), nil
}

// ListInstallationRepos fetches the complete list of repositories visible to
// an installation, following all pages.
func (a *AppClient) ListInstallationRepos(ctx context.Context, installID int64) ([]installationModel.RemoteRepository, error) {
	client, err := a.installationClient(installID)
	if err != nil {
		return nil, err
	}

	var allRepos []installationModel.RemoteRepository
	opts := &github.ListOptions{PerPage: 100}

	for {
		result, resp, err := client.Apps.ListRepos(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list installation repos: %w", err)
		}

		for _, repo := range result.Repositories {
			allRepos = append(allRepos, installationModel.RemoteRepository{
				ID:       repo.GetID(),
				FullName: repo.GetFullName(),
				Private:  repo.GetPrivate(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	a.logger.Debugw("listed installation repositories", "install_id", installID, "count", len(allRepos))

	return allRepos, nil
}

// toRemoteInstallation translates a go-github installation into the local
// remote shape.
func toRemoteInstallation(i *github.Installation) installationModel.RemoteInstallation {
	return installationModel.RemoteInstallation{
		ID:         i.GetID(),
		AppID:      i.GetAppID(),
		TargetType: i.GetTargetType(),
		TargetID:   i.GetTargetID(),
		Account: installationModel.RemoteAccount{
			Login: i.GetAccount().GetLogin(),
			ID:    i.GetAccount().GetID(),
			Type:  i.GetAccount().GetType(),
		},
		Permissions: installationModel.RemotePermissions{
			PullRequests: i.GetPermissions().GetPullRequests(),
			Issues:       i.GetPermissions().GetIssues(),
			Statuses:     i.GetPermissions().GetStatuses(),
		},
	}
}
