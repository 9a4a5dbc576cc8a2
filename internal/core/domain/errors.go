package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("access forbidden")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email is already in use")
	ErrProtectedAccount   = errors.New("admin accounts cannot be managed through this endpoint")

	ErrCurrentPasswordRequired = errors.New("current password is required to set a new password")
	ErrCurrentPasswordMismatch = errors.New("current password is incorrect")
)

// ValidationError carries a human-readable description of malformed input.
type ValidationError struct {
	Message string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string { return e.Message }

// TokenFailure classifies why a bearer token was rejected.
type TokenFailure string

const (
	TokenMalformed        TokenFailure = "malformed"
	TokenExpired          TokenFailure = "expired"
	TokenSignatureInvalid TokenFailure = "signature_invalid"
	TokenRevoked          TokenFailure = "revoked"
	TokenStale            TokenFailure = "stale"
	TokenUserMissing      TokenFailure = "user_missing"
	TokenUserInactive     TokenFailure = "inactive"
)

// TokenError is returned by token verification. It matches ErrInvalidToken
// under errors.Is so callers can collapse every reason into one response.
type TokenError struct {
	Reason TokenFailure
	Err    error
}

func (e *TokenError) Error() string {
	if e.Err != nil {
		return "invalid token (" + string(e.Reason) + "): " + e.Err.Error()
	}
	return "invalid token (" + string(e.Reason) + ")"
}

func (e *TokenError) Unwrap() error { return e.Err }

func (e *TokenError) Is(target error) bool { return target == ErrInvalidToken }
