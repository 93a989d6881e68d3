package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the repository and service layers. Handlers
// translate these into client-facing status codes; anything else surfaces as
// a generic internal error.
var (
	ErrNewsletterNotFound  = errors.New("newsletter not found")
	ErrSubscriberNotFound  = errors.New("subscriber not found")
	ErrPostNotFound        = errors.New("post not found")
	ErrAdminNotFound       = errors.New("admin user not found")
	ErrDuplicateEmail      = errors.New("email already subscribed")
	ErrNoActiveSubscribers = errors.New("no active subscribers")
	ErrAlreadyNotified     = errors.New("subscribers already notified for this newsletter")
	ErrInvalidCredentials  = errors.New("invalid email or password")
)

// ValidationError is a client error: the input shape was wrong. Code is a
// stable machine-checkable identifier, Message is human-readable.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError creates a validation error with a stable code
func NewValidationError(code, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Validation error codes
const (
	CodeMissingFile       = "MISSING_FILE"
	CodeInvalidFileType   = "INVALID_FILE_TYPE"
	CodeFileTooLarge      = "FILE_TOO_LARGE"
	CodeInvalidSections   = "INVALID_SECTIONS"
	CodeMissingTitle      = "MISSING_TITLE"
	CodeInvalidEmail      = "INVALID_EMAIL"
	CodeInvalidID         = "INVALID_ID"
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeMissingContent    = "MISSING_CONTENT"
	CodeUnpublishedNoFile = "UNPUBLISHED_NO_FILE"
)

// AsValidation unwraps err into a *ValidationError if it is one
func AsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
