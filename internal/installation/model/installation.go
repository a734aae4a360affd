// Package model provides the app installation entity and the remote
// payload shapes it is reconciled from.
package model

import (
	"time"
)

// AppInstallation represents one installation of the GitHub App on a user
// or organization account. Matches the app_installations table schema.
type AppInstallation struct {
	ID                     int64     `gorm:"primaryKey;column:id;type:bigserial"                                  json:"id"`
	GithubID               int64     `gorm:"column:github_id;not null;uniqueIndex:idx_app_installations_github_id" json:"github_id"`
	AppID                  int64     `gorm:"column:app_id"                                                        json:"app_id"`
	AccountLogin           string    `gorm:"column:account_login;type:varchar(255);not null"                      json:"account_login"`
	AccountID              int64     `gorm:"column:account_id;not null;index:idx_app_installations_account_id"    json:"account_id"`
	AccountType            string    `gorm:"column:account_type;type:varchar(255)"                                json:"account_type"`
	TargetType             string    `gorm:"column:target_type;type:varchar(255)"                                 json:"target_type"`
	TargetID               int64     `gorm:"column:target_id"                                                     json:"target_id"`
	PermissionPullRequests string    `gorm:"column:permission_pull_requests;type:varchar(255)"                    json:"permission_pull_requests"`
	PermissionIssues       string    `gorm:"column:permission_issues;type:varchar(255)"                           json:"permission_issues"`
	PermissionStatuses     string    `gorm:"column:permission_statuses;type:varchar(255)"                         json:"permission_statuses"`
	CreatedAt              time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"            json:"-"`
	UpdatedAt              time.Time `gorm:"column:updated_at;type:timestamptz;not null;default:now()"            json:"-"`
}

// TableName specifies the table name for GORM.
func (AppInstallation) TableName() string {
	return "app_installations"
}

// AssignFromRemote overwrites the fixed field list from the remote
// installation resource.
func (i *AppInstallation) AssignFromRemote(remote RemoteInstallation) {
	i.GithubID = remote.ID
	i.AppID = remote.AppID
	i.AccountLogin = remote.Account.Login
	i.AccountID = remote.Account.ID
	i.AccountType = remote.Account.Type
	i.TargetType = remote.TargetType
	i.TargetID = remote.TargetID
	i.PermissionPullRequests = remote.Permissions.PullRequests
	i.PermissionIssues = remote.Permissions.Issues
	i.PermissionStatuses = remote.Permissions.Statuses
}

// SubjectPermissions reports whether the installation can read the resources
// needed to display enriched subjects.
func (i *AppInstallation) SubjectPermissions() bool {
	return i.PermissionPullRequests != "" && i.PermissionIssues != ""
}

// AppInstallationPermission links an installation to a user who authorized it.
type AppInstallationPermission struct {
	ID                int64 `gorm:"primaryKey;column:id;type:bigserial"                                            json:"id"`
	AppInstallationID int64 `gorm:"column:app_installation_id;not null;index:idx_app_installation_permissions_installation" json:"app_installation_id"`
	UserID            int64 `gorm:"column:user_id;not null;index:idx_app_installation_permissions_user"            json:"user_id"`
}

// TableName specifies the table name for GORM.
func (AppInstallationPermission) TableName() string {
	return "app_installation_permissions"
}

// SubscriptionPurchase is the billing entitlement keyed by account id.
// Only the entitlement flag is consulted here.
type SubscriptionPurchase struct {
	ID                         int64 `gorm:"primaryKey;column:id;type:bigserial"                                      json:"id"`
	AccountID                  int64 `gorm:"column:account_id;not null;uniqueIndex:idx_subscription_purchases_account" json:"account_id"`
	PrivateRepositoriesEnabled bool  `gorm:"column:private_repositories_enabled;not null;default:false"               json:"private_repositories_enabled"`
}

// TableName specifies the table name for GORM.
func (SubscriptionPurchase) TableName() string {
	return "subscription_purchases"
}
