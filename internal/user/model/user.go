// Package model provides the user entity owning synced notifications.
package model

import (
	"time"
)

// User represents an inbox owner.
// Matches the users table schema.
type User struct {
	ID           int64      `gorm:"primaryKey;column:id;type:bigserial"                       json:"id"`
	GithubID     int64      `gorm:"column:github_id;not null;uniqueIndex:idx_users_github_id" json:"github_id"`
	GithubLogin  string     `gorm:"column:github_login;type:varchar(255);not null"            json:"github_login"`
	AccessToken  string     `gorm:"column:access_token;type:varchar(255)"                     json:"-"`
	AppToken     string     `gorm:"column:app_token;type:varchar(255)"                        json:"-"`
	LastSyncedAt *time.Time `gorm:"column:last_synced_at;type:timestamptz"                    json:"last_synced_at,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at;type:timestamptz;not null;default:now()" json:"-"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;type:timestamptz;not null;default:now()" json:"-"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}

// AppAuthorized reports whether the user authorized the GitHub App.
// The app token is only minted through the app OAuth flow.
func (u *User) AppAuthorized() bool {
	return u.AppToken != ""
}

// EffectiveToken returns the token used for API calls on behalf of the user,
// preferring the app-scoped token when present.
func (u *User) EffectiveToken() string {
	if u.AppToken != "" {
		return u.AppToken
	}
	return u.AccessToken
}
