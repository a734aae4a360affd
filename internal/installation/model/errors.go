package model

import "errors"

var (
	// ErrInstallationNotFound indicates the requested installation does not exist locally.
	ErrInstallationNotFound = errors.New("app installation not found")
	// ErrUnknownAction indicates an installation_repositories event with an unsupported action.
	ErrUnknownAction = errors.New("unknown installation repositories action")
	// ErrAppNotConfigured indicates the GitHub App credentials are not configured.
	ErrAppNotConfigured = errors.New("github app is not configured")
)
