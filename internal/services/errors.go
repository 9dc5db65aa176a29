package services

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrDeadlineInPast carries the exact message shown to the user on the
	// task form.
	ErrDeadlineInPast = errors.New("Deadline cannot be in the past!")

	ErrInvalidPriority = errors.New("invalid priority")
	ErrSlugConflict    = errors.New("slug already in use")
	ErrNameConflict    = errors.New("name already in use")
	ErrUsernameTaken   = errors.New("username already in use")
	ErrNameRequired    = errors.New("name must not be empty")
)

// IsNotFound reports whether err means the requested entity does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsValidation reports whether err should surface as a form-level validation
// message rather than a server failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrDeadlineInPast) ||
		errors.Is(err, ErrInvalidPriority) ||
		errors.Is(err, ErrSlugConflict) ||
		errors.Is(err, ErrNameConflict) ||
		errors.Is(err, ErrUsernameTaken) ||
		errors.Is(err, ErrNameRequired)
}
