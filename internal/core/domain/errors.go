package domain

import "errors"

// Authentication failures. Any of these means the caller must re-authenticate.
var (
	ErrCredentialMismatch = errors.New("invalid credentials")
	ErrTokenMalformed     = errors.New("token is malformed")
	ErrTokenExpired       = errors.New("token is expired")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrSubjectNotFound    = errors.New("token subject not found")
	ErrSubjectInactive    = errors.New("token subject is inactive")
)

// Authorization failures: the caller is known but not allowed.
var (
	ErrRoleForbidden      = errors.New("role not permitted")
	ErrOwnershipForbidden = errors.New("not a direct report of the caller")
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("email already registered")
	ErrInvalidRole      = errors.New("invalid role")
	ErrInvalidManager   = errors.New("manager not found or specified user is not a manager")
	ErrValidation       = errors.New("validation failed")
	ErrFeedbackNotFound = errors.New("feedback not found")
	ErrAbusiveContent   = errors.New("abusive content is not allowed")
	ErrKPINotFound      = errors.New("kpi not found")
)

var unauthenticated = []error{
	ErrCredentialMismatch,
	ErrTokenMalformed,
	ErrTokenExpired,
	ErrTokenRevoked,
	ErrSubjectNotFound,
	ErrSubjectInactive,
}

// IsUnauthenticated reports whether err means the caller's identity could not
// be established.
func IsUnauthenticated(err error) bool {
	for _, target := range unauthenticated {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsForbidden reports whether err means the caller is authenticated but not
// allowed to perform the operation.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrRoleForbidden) || errors.Is(err, ErrOwnershipForbidden)
}
