// Package model provides the repository entity mirrored from the remote service.
package model

import (
	"strings"
	"time"
)

// Repository represents a GitHub repository visible to the inbox.
// Matches the repositories table schema. Notifications reference repositories
// weakly by full name, and an absent row is a valid state.
type Repository struct {
	ID                int64      `gorm:"primaryKey;column:id;type:bigserial"                                  json:"id"`
	GithubID          int64      `gorm:"column:github_id;not null;uniqueIndex:idx_repositories_github_id"     json:"github_id"`
	FullName          string     `gorm:"column:full_name;type:varchar(255);not null;uniqueIndex:idx_repositories_full_name" json:"full_name"`
	Private           bool       `gorm:"column:private;not null;default:false"                                json:"private"`
	Owner             string     `gorm:"column:owner;type:varchar(255);index:idx_repositories_owner"          json:"owner"`
	DisplaySubject    bool       `gorm:"column:display_subject;not null;default:false"                        json:"display_subject"`
	LastSyncedAt      *time.Time `gorm:"column:last_synced_at;type:timestamptz"                               json:"last_synced_at,omitempty"`
	AppInstallationID *int64     `gorm:"column:app_installation_id;index:idx_repositories_app_installation_id" json:"app_installation_id,omitempty"`
	CreatedAt         time.Time  `gorm:"column:created_at;type:timestamptz;not null;default:now()"            json:"-"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;type:timestamptz;not null;default:now()"            json:"-"`
}

// TableName specifies the table name for GORM.
func (Repository) TableName() string {
	return "repositories"
}

// OwnerFromFullName derives the owner segment of an "owner/name" full name.
func OwnerFromFullName(fullName string) string {
	owner, _, _ := strings.Cut(fullName, "/")
	return owner
}

// Managed reports whether the repository is tracked through an app installation.
func (r *Repository) Managed() bool {
	return r.AppInstallationID != nil
}
