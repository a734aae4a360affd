package model

import "errors"

var (
	// ErrMalformedPayload indicates that the root of an API payload is not traversable.
	ErrMalformedPayload = errors.New("notification payload is not traversable")
	// ErrSubjectURLRequired indicates a notification without a subject URL cannot be persisted.
	ErrSubjectURLRequired = errors.New("subject_url is required")
	// ErrNotificationNotFound indicates the requested notification does not exist.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrUserNotFound indicates the owning user does not exist.
	ErrUserNotFound = errors.New("user not found")
)
