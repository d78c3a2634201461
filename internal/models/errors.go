package models

import "errors"

// Application-wide standard errors
var (
	// User & Authentication Errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserPending        = errors.New("user is pending activation")
	ErrUserAlreadyActive  = errors.New("user is already active")
	ErrUserNotActive      = errors.New("user is not active")
	ErrInvalidCredentials = errors.New("user or password doesnt match")
	ErrUnauthorized       = errors.New("unauthorized")

	// Verification code errors
	ErrInvalidVerificationCode = errors.New("invalid verification code")
	ErrVerificationCodeInUse   = errors.New("verification code already assigned")

	// Token Errors
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenNotFound  = errors.New("token not found in storage")

	// OAuth errors
	ErrOAuthStateInvalid = errors.New("oauth state is invalid or expired")
	ErrTicketNotFound    = errors.New("ticket not found or already used")
	ErrProviderFailure   = errors.New("identity provider failure")
)

// ValidationError is returned when request input fails a format check.
// Message is safe to show to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Message
}

// NewValidationError builds a ValidationError with the given client message.
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}
