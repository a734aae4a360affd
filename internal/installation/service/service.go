// Package service provides business logic layer for the installation module:
// webhook-driven repository membership and on-demand installation sync.
package service

import (
	"context"

	"go.uber.org/zap"

	githubclient "github.com/festy23/github_inbox/internal/github"
	installationModel "github.com/festy23/github_inbox/internal/installation/model"
	"github.com/festy23/github_inbox/internal/installation/repository"
)

// AppAPI is the app-credentialed remote surface the service syncs from.
type AppAPI interface {
	GetInstallation(ctx context.Context, githubID int64) (installationModel.RemoteInstallation, error)
	ListInstallationRepos(ctx context.Context, installID int64) ([]installationModel.RemoteRepository, error)
}

// Service defines the interface for installation business logic operations.
type Service interface {
	// Sync refreshes one installation from the remote resource, creating the
	// local row when absent.
	Sync(ctx context.Context, githubID int64) (*installationModel.AppInstallation, error)

	// SyncRepositories pulls the full repository list of an installation and
	// upserts it. Repositories that disappeared remotely are left in place;
	// removal arrives through the webhook.
	SyncRepositories(ctx context.Context, githubID int64) (*installationModel.SyncRepositoriesResponse, error)

	// HandleRepositoriesEvent applies an installation_repositories webhook.
	HandleRepositoriesEvent(ctx context.Context, req *installationModel.RepositoriesEventRequest) error
}

type service struct {
	repo   repository.Repository
	api    AppAPI
	logger *zap.SugaredLogger
}

// New creates a new installation service instance. The api is nil when the
// app credentials are not configured; webhook handling still works then.
func New(repo repository.Repository, api AppAPI, logger *zap.SugaredLogger) Service {
	return &service{repo: repo, api: api, logger: logger}
}

var _ AppAPI = (*githubclient.AppClient)(nil)

// Sync refreshes one installation from the remote resource.
func (s *service) Sync(ctx context.Context, githubID int64) (*installationModel.AppInstallation, error) {
	if s.api == nil {
		return nil, installationModel.ErrAppNotConfigured
	}

	remote, err := s.api.GetInstallation(ctx, githubID)
	if err != nil {
		return nil, err
	}

	inst, err := s.repo.GetByGithubID(ctx, githubID)
	if err != nil {
		if err != installationModel.ErrInstallationNotFound {
			return nil, err
		}
		inst = &installationModel.AppInstallation{}
	}

	inst.AssignFromRemote(remote)
	if err := s.repo.Save(ctx, inst); err != nil {
		return nil, err
	}

	s.logger.Infow("synced app installation", "github_id", githubID, "account", inst.AccountLogin)

	return inst, nil
}

// SyncRepositories pulls the full repository list of an installation.
func (s *service) SyncRepositories(ctx context.Context, githubID int64) (*installationModel.SyncRepositoriesResponse, error) {
	if s.api == nil {
		return nil, installationModel.ErrAppNotConfigured
	}

	inst, err := s.repo.GetByGithubID(ctx, githubID)
	if err != nil {
		return nil, err
	}

	remotes, err := s.api.ListInstallationRepos(ctx, inst.GithubID)
	if err != nil {
		return nil, err
	}

	synced, err := s.repo.AddRepositories(ctx, inst, remotes)
	if err != nil {
		return nil, err
	}

	return &installationModel.SyncRepositoriesResponse{Synced: synced}, nil
}

// HandleRepositoriesEvent applies an installation_repositories webhook.
// The installation row is refreshed from the event payload first so a
// webhook can arrive before any explicit sync.
func (s *service) HandleRepositoriesEvent(ctx context.Context, req *installationModel.RepositoriesEventRequest) error {
	switch req.Action {
	case "added", "removed":
	default:
		return installationModel.ErrUnknownAction
	}

	inst, err := s.repo.GetByGithubID(ctx, req.Installation.ID)
	if err != nil {
		if err != installationModel.ErrInstallationNotFound {
			return err
		}
		inst = &installationModel.AppInstallation{}
	}
	inst.AssignFromRemote(req.Installation)
	if err := s.repo.Save(ctx, inst); err != nil {
		return err
	}

	if len(req.RepositoriesAdded) > 0 {
		if _, err := s.repo.AddRepositories(ctx, inst, req.RepositoriesAdded); err != nil {
			return err
		}
	}
	if len(req.RepositoriesRemoved) > 0 {
		if err := s.repo.RemoveRepositories(ctx, req.RepositoriesRemoved); err != nil {
			return err
		}
	}

	s.logger.Infow("applied installation_repositories event",
		"action", req.Action,
		"installation", req.Installation.ID,
		"added", len(req.RepositoriesAdded),
		"removed", len(req.RepositoriesRemoved),
	)

	return nil
}
