// Package service provides business logic layer for the notification module:
// reconciliation of raw API payloads, bulk state changes and their remote
// propagation.
package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/festy23/github_inbox/internal/config"
	githubclient "github.com/festy23/github_inbox/internal/github"
	notificationModel "github.com/festy23/github_inbox/internal/notification/model"
	"github.com/festy23/github_inbox/internal/notification/repository"
	repoModel "github.com/festy23/github_inbox/internal/repo/model"
	subjectModel "github.com/festy23/github_inbox/internal/subject/model"
	userModel "github.com/festy23/github_inbox/internal/user/model"
)

// Background task kinds understood by the task runner.
const (
	TaskMarkRead = "notifications.mark_read"
	TaskMute     = "notifications.mute"
)

// ThreadClient is the per-user authenticated surface used for thread calls
// and subject fetches.
type ThreadClient interface {
	MarkThreadRead(ctx context.Context, threadID string) error
	IgnoreThreadSubscription(ctx context.Context, threadID string) error
	GetSubject(ctx context.Context, url string) (*githubclient.SubjectPayload, error)
}

// ClientFactory builds a ThreadClient for a user token.
type ClientFactory func(token string) ThreadClient

// Dispatcher enqueues background remote-sync tasks. A nil dispatcher is a
// valid configuration: local updates proceed without remote propagation.
type Dispatcher interface {
	Enqueue(ctx context.Context, kind string, userID int64, githubIDs []string) error
}

// Service defines the interface for notification business logic operations.
type Service interface {
	// UpdateFromAPIResponse reconciles one local record against a raw
	// notification payload, persisting only when something changed.
	UpdateFromAPIResponse(ctx context.Context, n *notificationModel.Notification, payload map[string]any, unarchive bool) error

	// SyncBatch reconciles a batch of payloads for one user, skipping
	// records that fail without aborting the batch.
	SyncBatch(ctx context.Context, req *notificationModel.SyncRequest) (*notificationModel.SyncResponse, error)

	// Archive bulk-sets the archived flag and marks the selection read.
	Archive(ctx context.Context, ids []int64, value string) error

	// MarkRead marks the unread part of the selection read, locally at once
	// and remotely through the task runner.
	MarkRead(ctx context.Context, notifications []notificationModel.Notification) error

	// MarkReadByIDs loads the selection and delegates to MarkRead.
	MarkReadByIDs(ctx context.Context, ids []int64) error

	// Mute archives, marks read and stamps muted_at on the selection,
	// propagating the mute remotely through the task runner.
	Mute(ctx context.Context, ids []int64) error

	// MarkReadOnGithub issues one mark-read call per thread, concurrently
	// and best-effort.
	MarkReadOnGithub(ctx context.Context, user *userModel.User, githubIDs []string) error

	// MuteOnGithub issues one mark-read and one ignore-subscription call per
	// thread, concurrently and best-effort.
	MuteOnGithub(ctx context.Context, user *userModel.User, githubIDs []string) error

	// ExecuteRemote loads the user and runs one remote-sync task by kind.
	ExecuteRemote(ctx context.Context, kind string, userID int64, githubIDs []string) error

	// SetDispatcher attaches an optional background task runner.
	SetDispatcher(d Dispatcher)
}

type service struct {
	repo       repository.Repository
	clients    ClientFactory
	dispatcher Dispatcher
	cfg        config.GithubConfig
	logger     *zap.SugaredLogger
}

// New creates a new notification service instance. The dispatcher starts out
// unset; wire one with SetDispatcher when a task runner is configured.
func New(repo repository.Repository, clients ClientFactory, cfg config.GithubConfig, logger *zap.SugaredLogger) Service {
	return &service{
		repo:    repo,
		clients: clients,
		cfg:     cfg,
		logger:  logger,
	}
}

// SetDispatcher attaches an optional background task runner.
func (s *service) SetDispatcher(d Dispatcher) {
	s.dispatcher = d
}

// UpdateFromAPIResponse reconciles one local record against a raw payload.
func (s *service) UpdateFromAPIResponse(ctx context.Context, n *notificationModel.Notification, payload map[string]any, unarchive bool) error {
	attrs, err := notificationModel.AttributesFromAPIResponse(payload)
	if err != nil {
		return err
	}

	previousUpdatedAt := n.UpdatedAt
	wasArchived := n.IsArchived()

	changed := n.Assign(attrs)

	// fixup legacy rows where archived is NULL
	if n.Archived == nil {
		n.SetArchived(false)
		changed = true
	}

	if unarchive && wasArchived && n.UnarchiveIfUpdated(previousUpdatedAt) {
		changed = true
	}

	if changed {
		if err := s.repo.Save(ctx, n); err != nil {
			return err
		}
	}

	// Subject and repository enrichment runs even when nothing changed: a
	// related row may still be missing from an earlier partial sync.
	s.updateRepository(ctx, n, payload)
	s.updateSubject(ctx, n)

	return nil
}

// SyncBatch reconciles a batch of payloads for one user.
func (s *service) SyncBatch(ctx context.Context, req *notificationModel.SyncRequest) (*notificationModel.SyncResponse, error) {
	resp := &notificationModel.SyncResponse{}

	for _, payload := range req.Notifications {
		attrs, err := notificationModel.AttributesFromAPIResponse(payload)
		if err != nil {
			resp.Skipped++
			s.logger.Warnw("skipping malformed notification payload", "user_id", req.UserID, "error", err)
			continue
		}

		githubID, _ := attrs["github_id"].(string)
		n, err := s.repo.FindByGithubID(ctx, req.UserID, githubID)
		if err != nil {
			if err != notificationModel.ErrNotificationNotFound {
				return nil, err
			}
			n = &notificationModel.Notification{UserID: req.UserID, Unread: true}
		}

		if err := s.UpdateFromAPIResponse(ctx, n, payload, req.Unarchive); err != nil {
			resp.Skipped++
			s.logger.Warnw("skipping notification", "user_id", req.UserID, "github_id", githubID, "error", err)
			continue
		}
		resp.Synced++
	}

	return resp, nil
}

// Archive bulk-sets the archived flag and then unconditionally runs the
// mark-read path: archiving implies read.
func (s *service) Archive(ctx context.Context, ids []int64, value string) error {
	if len(ids) == 0 {
		return nil
	}

	archived := true
	if value != "" {
		archived = notificationModel.CastBool(value)
	}

	if err := s.repo.BulkSetArchived(ctx, ids, archived); err != nil {
		return err
	}

	notifications, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}

	return s.MarkRead(ctx, notifications)
}

// MarkRead filters the selection down to unread records; an all-read
// selection is a complete no-op. The local write is optimistic and does not
// wait for the remote call.
func (s *service) MarkRead(ctx context.Context, notifications []notificationModel.Notification) error {
	unread := make([]notificationModel.Notification, 0, len(notifications))
	for _, n := range notifications {
		if n.Unread {
			unread = append(unread, n)
		}
	}
	if len(unread) == 0 {
		return nil
	}

	// batches are per user
	userID := unread[0].UserID

	ids := make([]int64, 0, len(unread))
	githubIDs := make([]string, 0, len(unread))
	for _, n := range unread {
		ids = append(ids, n.ID)
		githubIDs = append(githubIDs, n.GithubID)
	}

	s.enqueue(ctx, TaskMarkRead, userID, githubIDs)

	return s.repo.BulkSetUnread(ctx, ids, false)
}

// MarkReadByIDs loads the selection and delegates to MarkRead.
func (s *service) MarkReadByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	notifications, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	return s.MarkRead(ctx, notifications)
}

// Mute archives, marks read and stamps muted_at on the selection.
func (s *service) Mute(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	notifications, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(notifications) == 0 {
		return nil
	}

	userID := notifications[0].UserID

	muteIDs := make([]int64, 0, len(notifications))
	githubIDs := make([]string, 0, len(notifications))
	for _, n := range notifications {
		muteIDs = append(muteIDs, n.ID)
		githubIDs = append(githubIDs, n.GithubID)
	}

	s.enqueue(ctx, TaskMute, userID, githubIDs)

	return s.repo.BulkMute(ctx, muteIDs, time.Now())
}

// MarkReadOnGithub issues one mark-read call per thread through a shared
// bounded-concurrency group. Authorization and not-found failures are
// expected when the user lost access to a repository and are suppressed.
func (s *service) MarkReadOnGithub(ctx context.Context, user *userModel.User, githubIDs []string) error {
	client := s.clients(user.EffectiveToken())

	var g errgroup.Group
	g.SetLimit(s.cfg.MaxConcurrency)
	for _, id := range githubIDs {
		g.Go(func() error {
			if err := client.MarkThreadRead(ctx, id); err != nil && !githubclient.IsAccessError(err) {
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

// MuteOnGithub marks each thread read and disables its future notifications,
// with the same concurrency bound and failure suppression as MarkReadOnGithub.
func (s *service) MuteOnGithub(ctx context.Context, user *userModel.User, githubIDs []string) error {
	client := s.clients(user.EffectiveToken())

	var g errgroup.Group
	g.SetLimit(s.cfg.MaxConcurrency)
	for _, id := range githubIDs {
		g.Go(func() error {
			if err := client.MarkThreadRead(ctx, id); err != nil && !githubclient.IsAccessError(err) {
				return err
			}
			if err := client.IgnoreThreadSubscription(ctx, id); err != nil && !githubclient.IsAccessError(err) {
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

// ExecuteRemote loads the user and runs one remote-sync task by kind. It is
// the entry point the task runner calls back into.
func (s *service) ExecuteRemote(ctx context.Context, kind string, userID int64, githubIDs []string) error {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	switch kind {
	case TaskMarkRead:
		return s.MarkReadOnGithub(ctx, user, githubIDs)
	case TaskMute:
		return s.MuteOnGithub(ctx, user, githubIDs)
	default:
		return fmt.Errorf("unknown task kind %q", kind)
	}
}

// enqueue hands a remote-sync task to the runner when one is configured.
// Absence of a runner degrades to the local-only effect.
func (s *service) enqueue(ctx context.Context, kind string, userID int64, githubIDs []string) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Enqueue(ctx, kind, userID, githubIDs); err != nil {
		s.logger.Warnw("failed to enqueue remote sync task", "kind", kind, "user_id", userID, "error", err)
	}
}

// updateRepository lazily creates or refreshes the repository row referenced
// by the notification. Failures here never fail the reconciliation.
func (s *service) updateRepository(ctx context.Context, n *notificationModel.Notification, payload map[string]any) {
	if n.RepositoryFullName == "" {
		return
	}

	repo, err := s.repo.FindRepositoryByFullName(ctx, n.RepositoryFullName)
	if err != nil {
		s.logger.Warnw("failed to look up repository", "full_name", n.RepositoryFullName, "error", err)
		return
	}

	remote := remoteRepositoryAttrs(payload)
	if repo == nil {
		if remote.githubID == 0 {
			return
		}
		repo = remote.newRepository(n.RepositoryFullName)
	} else if !remote.refresh(repo) {
		return
	}

	if err := s.repo.SaveRepository(ctx, repo); err != nil {
		s.logger.Warnw("failed to save repository", "full_name", n.RepositoryFullName, "error", err)
	}
}

// updateSubject lazily associates the notification with its subject row,
// fetching the subject resource when enrichment is enabled for this record.
func (s *service) updateSubject(ctx context.Context, n *notificationModel.Notification) {
	display, user := s.displayContext(ctx, n)
	if !display {
		return
	}

	subject, err := s.repo.FindSubjectByURL(ctx, n.SubjectURL)
	if err != nil {
		s.logger.Warnw("failed to look up subject", "url", n.SubjectURL, "error", err)
		return
	}

	if subject != nil {
		if subject.Title == n.SubjectTitle {
			return
		}
		subject.Title = n.SubjectTitle
		if err := s.repo.SaveSubject(ctx, subject); err != nil {
			s.logger.Warnw("failed to refresh subject", "url", n.SubjectURL, "error", err)
		}
		return
	}

	if user == nil || user.EffectiveToken() == "" {
		return
	}

	payload, err := s.clients(user.EffectiveToken()).GetSubject(ctx, n.SubjectURL)
	if err != nil {
		s.logger.Warnw("failed to fetch subject", "url", n.SubjectURL, "error", err)
		return
	}

	subject = &subjectModel.Subject{
		URL:                n.SubjectURL,
		HTMLURL:            payload.HTMLURL,
		Title:              payload.Title,
		State:              payload.State,
		Author:             payload.Author,
		RepositoryFullName: n.RepositoryFullName,
	}
	if subject.Title == "" {
		subject.Title = n.SubjectTitle
	}
	for _, l := range payload.Labels {
		subject.Labels = append(subject.Labels, subjectModel.Label{GithubID: l.ID, Name: l.Name, Color: l.Color})
	}

	if err := s.repo.SaveSubject(ctx, subject); err != nil {
		s.logger.Warnw("failed to save subject", "url", n.SubjectURL, "error", err)
	}
}

// displayContext decides whether the enriched subject applies to this
// notification and returns the owning user when it does.
func (s *service) displayContext(ctx context.Context, n *notificationModel.Notification) (bool, *userModel.User) {
	user, err := s.repo.GetUser(ctx, n.UserID)
	if err != nil {
		user = nil
	}

	appInstalled := false
	if s.cfg.AppConfigured() && user != nil && user.AppAuthorized() {
		repo, err := s.repo.FindRepositoryByFullName(ctx, n.RepositoryFullName)
		if err == nil && repo != nil {
			appInstalled = repo.DisplaySubject
		}
	}

	return n.DisplaySubject(s.cfg.FetchSubject, appInstalled), user
}

// remoteRepoAttrs is the repository slice of a notification payload.
type remoteRepoAttrs struct {
	githubID int64
	private  bool
	owner    string
}

func remoteRepositoryAttrs(payload map[string]any) remoteRepoAttrs {
	attrs := remoteRepoAttrs{}
	repo, _ := payload["repository"].(map[string]any)
	if repo == nil {
		return attrs
	}
	if id, ok := repo["id"].(float64); ok {
		attrs.githubID = int64(id)
	}
	if private, ok := repo["private"].(bool); ok {
		attrs.private = private
	}
	if owner, ok := repo["owner"].(map[string]any); ok {
		attrs.owner, _ = owner["login"].(string)
	}
	return attrs
}

func (a remoteRepoAttrs) newRepository(fullName string) *repoModel.Repository {
	owner := a.owner
	if owner == "" {
		owner = repoModel.OwnerFromFullName(fullName)
	}
	return &repoModel.Repository{
		GithubID: a.githubID,
		FullName: fullName,
		Private:  a.private,
		Owner:    owner,
	}
}

// refresh updates an existing row in place and reports whether it changed.
func (a remoteRepoAttrs) refresh(repo *repoModel.Repository) bool {
	changed := false
	if a.githubID != 0 && repo.GithubID != a.githubID {
		repo.GithubID = a.githubID
		changed = true
	}
	if repo.Private != a.private {
		repo.Private = a.private
		changed = true
	}
	return changed
}
