package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidCreds      = "INVALID_CREDENTIALS"
	TextCodeDuplicateName     = "DUPLICATE_NAME"
	TextCodeStoreUnavailable  = "STORE_UNAVAILABLE"
	TextCodeInvalidSignature  = "INVALID_SIGNATURE"
	TextCodeTokenExpired      = "TOKEN_EXPIRED"
	TextCodeTokenMalformed    = "TOKEN_MALFORMED"
	TextCodeInsufficientScope = "INSUFFICIENT_SCOPE"
	TextCodeOwnershipMismatch = "OWNERSHIP_MISMATCH"
)

// ErrInvalidCredentials covers both an unknown name and a wrong password.
// Callers must not be able to tell the two apart.
var ErrInvalidCredentials = errors.New("name or password is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrDuplicateName is the registration conflict error
var ErrDuplicateName = errors.New("a principal with that name already exists", errors.CategoryConflict).
	WithTextCode(TextCodeDuplicateName).
	WithCode(errors.CodeConflict)

// ErrStoreUnavailable is an infrastructure fault, kept distinct from any
// authentication failure
var ErrStoreUnavailable = errors.New("credential store unavailable", errors.CategoryInternal).
	WithTextCode(TextCodeStoreUnavailable).
	WithCode(errors.CodeInternal)

// ErrInvalidSignature is returned when a token fails signature verification
var ErrInvalidSignature = errors.New("token signature is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidSignature).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when a token's exp claim is in the past
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned for tokens we cannot parse at all
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrInsufficientScope is a valid identity lacking the required scope token
var ErrInsufficientScope = errors.New("token scope does not allow this operation", errors.CategoryAuthz).
	WithTextCode(TextCodeInsufficientScope).
	WithCode(errors.CodeForbidden)

// ErrOwnershipMismatch is an identity check failure, distinct from scope
var ErrOwnershipMismatch = errors.New("token subject does not own this resource", errors.CategoryAuthz).
	WithTextCode(TextCodeOwnershipMismatch).
	WithCode(errors.CodeForbidden)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsDuplicateNameError reports whether err is the registration conflict,
// including clones carrying metadata.
func IsDuplicateNameError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicateName) {
		return true
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.TextCode == TextCodeDuplicateName
	}
	return false
}

// IsStoreUnavailableError reports whether err is an infrastructure fault
// raised by the credential store rather than an authentication failure.
func IsStoreUnavailableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrStoreUnavailable) {
		return true
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.TextCode == TextCodeStoreUnavailable
	}
	return false
}
