// Package repository provides data access layer for the notification module.
package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	notificationModel "github.com/festy23/github_inbox/internal/notification/model"
	repoModel "github.com/festy23/github_inbox/internal/repo/model"
	subjectModel "github.com/festy23/github_inbox/internal/subject/model"
	userModel "github.com/festy23/github_inbox/internal/user/model"
)

// Repository defines the interface for notification data access operations.
type Repository interface {
	// GetByIDs loads notifications by primary key, in id order.
	GetByIDs(ctx context.Context, ids []int64) ([]notificationModel.Notification, error)

	// FindByGithubID finds a user's notification by remote thread id.
	FindByGithubID(ctx context.Context, userID int64, githubID string) (*notificationModel.Notification, error)

	// Save persists the record without touching its remote updated_at.
	Save(ctx context.Context, n *notificationModel.Notification) error

	// BulkSetArchived sets the archived flag on all matching rows in one statement.
	BulkSetArchived(ctx context.Context, ids []int64, archived bool) error

	// BulkSetUnread sets the unread flag on all matching rows in one statement.
	BulkSetUnread(ctx context.Context, ids []int64, unread bool) error

	// BulkMute archives, marks read and stamps muted_at in one statement.
	BulkMute(ctx context.Context, ids []int64, mutedAt time.Time) error

	// GetUser loads the owning user.
	GetUser(ctx context.Context, userID int64) (*userModel.User, error)

	// FindSubjectByURL finds the subject row behind a notification.
	// Absence is a valid state and yields (nil, nil).
	FindSubjectByURL(ctx context.Context, url string) (*subjectModel.Subject, error)

	// SaveSubject persists a subject row.
	SaveSubject(ctx context.Context, s *subjectModel.Subject) error

	// FindRepositoryByFullName finds the repository row behind a notification.
	// Absence is a valid state and yields (nil, nil).
	FindRepositoryByFullName(ctx context.Context, fullName string) (*repoModel.Repository, error)

	// SaveRepository persists a repository row.
	SaveRepository(ctx context.Context, r *repoModel.Repository) error
}

type repository struct {
	db *gorm.DB
}

// New creates a new notification repository instance.
func New(db *gorm.DB) Repository {
	return &repository{db: db}
}

// GetByIDs loads notifications by primary key, in id order.
func (r *repository) GetByIDs(ctx context.Context, ids []int64) ([]notificationModel.Notification, error) {
	var notifications []notificationModel.Notification
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// FindByGithubID finds a user's notification by remote thread id.
func (r *repository) FindByGithubID(ctx context.Context, userID int64, githubID string) (*notificationModel.Notification, error) {
	var n notificationModel.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND github_id = ?", userID, githubID).
		First(&n).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notificationModel.ErrNotificationNotFound
		}
		return nil, err
	}
	return &n, nil
}

// Save persists the record. A missing subject URL is a constraint violation
// surfaced to the caller before any write happens.
func (r *repository) Save(ctx context.Context, n *notificationModel.Notification) error {
	if n.SubjectURL == "" {
		return notificationModel.ErrSubjectURLRequired
	}
	return r.db.WithContext(ctx).Save(n).Error
}

// BulkSetArchived sets the archived flag on all matching rows in one statement.
func (r *repository) BulkSetArchived(ctx context.Context, ids []int64, archived bool) error {
	return r.db.WithContext(ctx).
		Model(&notificationModel.Notification{}).
		Where("id IN ?", ids).
		Update("archived", archived).Error
}

// BulkSetUnread sets the unread flag on all matching rows in one statement.
func (r *repository) BulkSetUnread(ctx context.Context, ids []int64, unread bool) error {
	return r.db.WithContext(ctx).
		Model(&notificationModel.Notification{}).
		Where("id IN ?", ids).
		Update("unread", unread).Error
}

// BulkMute archives, marks read and stamps muted_at in one statement.
func (r *repository) BulkMute(ctx context.Context, ids []int64, mutedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&notificationModel.Notification{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"archived": true,
			"unread":   false,
			"muted_at": mutedAt,
		}).Error
}

// GetUser loads the owning user.
func (r *repository) GetUser(ctx context.Context, userID int64) (*userModel.User, error) {
	var user userModel.User
	err := r.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notificationModel.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindSubjectByURL finds the subject row behind a notification.
func (r *repository) FindSubjectByURL(ctx context.Context, url string) (*subjectModel.Subject, error) {
	var subject subjectModel.Subject
	err := r.db.WithContext(ctx).
		Where("url = ?", url).
		First(&subject).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &subject, nil
}

// SaveSubject persists a subject row.
func (r *repository) SaveSubject(ctx context.Context, s *subjectModel.Subject) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// FindRepositoryByFullName finds the repository row behind a notification.
func (r *repository) FindRepositoryByFullName(ctx context.Context, fullName string) (*repoModel.Repository, error) {
	var repo repoModel.Repository
	err := r.db.WithContext(ctx).
		Where("full_name = ?", fullName).
		First(&repo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &repo, nil
}

// SaveRepository persists a repository row.
func (r *repository) SaveRepository(ctx context.Context, repo *repoModel.Repository) error {
	return r.db.WithContext(ctx).Save(repo).Error
}
