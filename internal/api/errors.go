package api

import "fmt"

// FetchError is any failed read against the platform API. Callers keep
// showing last-known-good data when they see one.
type FetchError struct {
	Resource   string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: http %d", e.Resource, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.Resource, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// MutationError is any failed write against the platform API.
type MutationError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *MutationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: http %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

// AuthError distinguishes rejected credentials on login (recoverable,
// surfaced on the form) from an expired session elsewhere (terminal, forces
// logout).
type AuthError struct {
	Message    string
	StatusCode int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth: %s (http %d)", e.Message, e.StatusCode)
}
