package domain

import "errors"

var (
	ErrProjectNotFound      = errors.New("project not found")
	ErrDocumentNotFound     = errors.New("document not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrForbidden            = errors.New("access forbidden")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAccountDisabled      = errors.New("account disabled")
	ErrTokenInvalid         = errors.New("token invalid or expired")
	ErrValidation           = errors.New("validation failed")
)
