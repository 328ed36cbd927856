package services

import "errors"

// Shared error taxonomy, mapped to HTTP statuses in the handlers package.
var (
	// Not found (404)
	ErrNotFound              = errors.New("requested resource not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrTeamNotFound          = errors.New("team not found")
	ErrEventNotFound         = errors.New("event not found")
	ErrPostNotFound          = errors.New("post not found")
	ErrParticipationNotFound = errors.New("event participation not found")

	// Conflicts (409)
	ErrEmailConflict         = errors.New("email address is already in use")
	ErrParticipationConflict = errors.New("already participating in this event")

	// Validation and bad references (400)
	ErrValidationFailed   = errors.New("validation failed")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrInvalidReference   = errors.New("referenced resource does not exist")
	ErrNoFieldsToUpdate   = errors.New("no fields provided for update")
	ErrUnsupportedImage   = errors.New("unsupported image content type")
	ErrImageUploadMissing = errors.New("image storage is not configured")

	// Authentication and authorization (401 / 403)
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")
	ErrNotPostAuthor      = errors.New("only the author can modify this post")
)
