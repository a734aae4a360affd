package model

// RemoteInstallation mirrors the installation resource shape delivered by
// the API and by installation webhooks.
type RemoteInstallation struct {
	ID          int64             `json:"id"`
	AppID       int64             `json:"app_id"`
	Account     RemoteAccount     `json:"account"`
	TargetType  string            `json:"target_type"`
	TargetID    int64             `json:"target_id"`
	Permissions RemotePermissions `json:"permissions"`
}

// RemoteAccount is the account owning an installation.
type RemoteAccount struct {
	Login string `json:"login"`
	ID    int64  `json:"id"`
	Type  string `json:"type"`
}

// RemotePermissions carries the permission grants of an installation.
type RemotePermissions struct {
	PullRequests string `json:"pull_requests"`
	Issues       string `json:"issues"`
	Statuses     string `json:"statuses"`
}

// RemoteRepository is one repository descriptor from a list-repositories
// response or an installation_repositories webhook.
type RemoteRepository struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Private  bool   `json:"private"`
}

// RepositoriesEventRequest is the installation_repositories webhook body.
type RepositoriesEventRequest struct {
	Action              string             `json:"action"       binding:"required"`
	Installation        RemoteInstallation `json:"installation" binding:"required"`
	RepositoriesAdded   []RemoteRepository `json:"repositories_added"`
	RepositoriesRemoved []RemoteRepository `json:"repositories_removed"`
}

// SyncRepositoriesResponse reports the outcome of a repository list sync.
type SyncRepositoriesResponse struct {
	Synced int `json:"synced"`
}
