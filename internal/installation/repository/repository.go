// Package repository provides data access layer for the installation module.
package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	installationModel "github.com/festy23/github_inbox/internal/installation/model"
	notificationModel "github.com/festy23/github_inbox/internal/notification/model"
	repoModel "github.com/festy23/github_inbox/internal/repo/model"
	subjectModel "github.com/festy23/github_inbox/internal/subject/model"
)

// Repository defines the interface for installation data access operations.
type Repository interface {
	// GetByGithubID finds an installation by its remote id.
	GetByGithubID(ctx context.Context, githubID int64) (*installationModel.AppInstallation, error)

	// Save persists an installation row.
	Save(ctx context.Context, inst *installationModel.AppInstallation) error

	// Delete removes an installation row together with its permission links.
	Delete(ctx context.Context, inst *installationModel.AppInstallation) error

	// AddRepositories upserts the given repositories under an installation
	// and touches notifications whose subjects point into them.
	AddRepositories(ctx context.Context, inst *installationModel.AppInstallation, remotes []installationModel.RemoteRepository) (int, error)

	// RemoveRepositories destroys the given repositories and their subjects.
	// Repositories not present locally are skipped.
	RemoveRepositories(ctx context.Context, remotes []installationModel.RemoteRepository) error
}

type repository struct {
	db *gorm.DB
}

// New creates a new installation repository instance.
func New(db *gorm.DB) Repository {
	return &repository{db: db}
}

// GetByGithubID finds an installation by its remote id.
func (r *repository) GetByGithubID(ctx context.Context, githubID int64) (*installationModel.AppInstallation, error) {
	var inst installationModel.AppInstallation
	err := r.db.WithContext(ctx).
		Where("github_id = ?", githubID).
		First(&inst).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, installationModel.ErrInstallationNotFound
		}
		return nil, err
	}
	return &inst, nil
}

// Save persists an installation row.
func (r *repository) Save(ctx context.Context, inst *installationModel.AppInstallation) error {
	return r.db.WithContext(ctx).Save(inst).Error
}

// Delete removes an installation row together with its permission links.
func (r *repository) Delete(ctx context.Context, inst *installationModel.AppInstallation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("app_installation_id = ?", inst.ID).
			Delete(&installationModel.AppInstallationPermission{}).Error; err != nil {
			return err
		}
		return tx.Delete(inst).Error
	})
}

// AddRepositories upserts repositories by remote id. Newly visible and
// refreshed rows get the installation's subject capability, and notifications
// referencing their subjects are touched so pollers pick the change up.
func (r *repository) AddRepositories(ctx context.Context, inst *installationModel.AppInstallation, remotes []installationModel.RemoteRepository) (int, error) {
	synced := 0
	now := time.Now()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, remote := range remotes {
			var repo repoModel.Repository
			err := tx.Where("github_id = ?", remote.ID).First(&repo).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			repo.GithubID = remote.ID
			repo.FullName = remote.FullName
			repo.Private = remote.Private
			repo.Owner = repoModel.OwnerFromFullName(remote.FullName)
			repo.DisplaySubject = inst.SubjectPermissions()
			repo.LastSyncedAt = &now
			repo.AppInstallationID = &inst.ID

			if err := tx.Save(&repo).Error; err != nil {
				return err
			}
			synced++

			subjectURLs := tx.Model(&subjectModel.Subject{}).
				Select("url").
				Where("repository_full_name = ?", repo.FullName)
			if err := tx.Model(&notificationModel.Notification{}).
				Where("subject_url IN (?)", subjectURLs).
				UpdateColumn("updated_at", now).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return synced, nil
}

// RemoveRepositories destroys repositories and the subjects under them.
// Notifications keep their rows; they reference repositories by name only.
func (r *repository) RemoveRepositories(ctx context.Context, remotes []installationModel.RemoteRepository) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, remote := range remotes {
			var repo repoModel.Repository
			err := tx.Where("github_id = ?", remote.ID).First(&repo).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return err
			}

			subjects := tx.Session(&gorm.Session{NewDB: true}).
				Model(&subjectModel.Subject{}).
				Select("id").
				Where("repository_full_name = ?", repo.FullName)
			if err := tx.Where("subject_id IN (?)", subjects).
				Delete(&subjectModel.Label{}).Error; err != nil {
				return err
			}
			if err := tx.Where("repository_full_name = ?", repo.FullName).
				Delete(&subjectModel.Subject{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&repo).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
