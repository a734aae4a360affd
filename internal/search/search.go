// Package search provides full-text lookup of notifications by the title of
// their subject.
package search

import (
	"context"

	"gorm.io/gorm"

	notificationModel "github.com/festy23/github_inbox/internal/notification/model"
)

// Service defines the interface for notification search operations.
type Service interface {
	// BySubjectTitle returns the user's notifications whose subject title
	// matches the query, newest first.
	BySubjectTitle(ctx context.Context, userID int64, query string, limit int) ([]notificationModel.Notification, error)
}

type service struct {
	db *gorm.DB
}

// New creates a new search service instance.
func New(db *gorm.DB) Service {
	return &service{db: db}
}

const defaultLimit = 50

// BySubjectTitle matches against the denormalized subject_title column. On
// postgres the match goes through the full-text index; other dialects fall
// back to a substring scan, which keeps the sqlite test setup working.
func (s *service) BySubjectTitle(ctx context.Context, userID int64, query string, limit int) ([]notificationModel.Notification, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	tx := s.db.WithContext(ctx).
		Where("user_id = ?", userID)

	if s.db.Dialector.Name() == "postgres" {
		tx = tx.Where("to_tsvector('english', subject_title) @@ plainto_tsquery('english', ?)", query)
	} else {
		tx = tx.Where("subject_title LIKE ?", "%"+query+"%")
	}

	var notifications []notificationModel.Notification
	err := tx.Order("updated_at DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}
