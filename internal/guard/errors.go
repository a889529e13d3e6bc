package guard

import (
	"errors"
)

// AccessDeniedError is raised when the current actor lacks the permission an
// operation requires. It is the only domain error this package produces at
// enforcement time; oracle and storage failures propagate unmodified.
type AccessDeniedError struct {
	Reason string
}

func (e *AccessDeniedError) Error() string {
	return e.Reason
}

// IsAccessDenied reports whether err is (or wraps) an AccessDeniedError.
func IsAccessDenied(err error) bool {
	var denied *AccessDeniedError
	return errors.As(err, &denied)
}

// ErrImproperlyConfigured is returned when a value that does not implement
// storage.Entity is registered for permission checks. It fails fast at
// startup, never at enforcement time.
var ErrImproperlyConfigured = errors.New("guard: improperly configured")
