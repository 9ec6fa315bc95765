package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameters signals a caller input error (bad access filter, sort property, range).
	ErrInvalidParameters = errors.New("invalid params")
	// ErrUnknownType signals an object type missing from the type → index table.
	ErrUnknownType = errors.New("unknown type")
	// ErrAuth signals a failure of the workspace (authorization) service.
	ErrAuth = errors.New("auth error")
	// ErrUnknownIndex signals that the engine has no index matching the selector.
	ErrUnknownIndex = errors.New("unknown index")
	// ErrSearchEngine signals any other search engine failure.
	ErrSearchEngine = errors.New("elasticsearch server error")
	// ErrNoAccessGroup signals a hit without an access group, an upstream indexing defect.
	ErrNoAccessGroup = errors.New("missing access group")
	// ErrUserProfileService signals a failure of the user profile service.
	ErrUserProfileService = errors.New("user profile service error")
	// ErrNoUserProfile signals a workspace owner without a user profile.
	ErrNoUserProfile = errors.New("missing user profile")
)

// Error attaches a diagnostic message to one of the sentinel errors.
// The message is what callers see as the error detail.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

// NewError creates a typed error of the given kind.
func NewError(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Errorf creates a typed error of the given kind with a formatted message.
func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// InvalidParams is shorthand for an ErrInvalidParameters error.
func InvalidParams(format string, args ...any) error {
	return Errorf(ErrInvalidParameters, format, args...)
}

// Detail returns the diagnostic message carried by err, or "" if there is none.
func Detail(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}

// UserProfileServiceError carries the failing URL and raw response text.
type UserProfileServiceError struct {
	URL      string
	Response string
}

func (e *UserProfileServiceError) Error() string {
	return fmt.Sprintf("%s\nResponse: %s\nURL: %s", ErrUserProfileService.Error(), e.Response, e.URL)
}

func (e *UserProfileServiceError) Unwrap() error { return ErrUserProfileService }
