package core

import "errors"

// Authentication errors
var (
	ErrAccountExists      = errors.New("account already exists")      // 409 Conflict
	ErrAccountNotFound    = errors.New("account not found")           // 404 Not Found
	ErrInvalidCredentials = errors.New("invalid email or password")   // 400 Bad Request
	ErrIdentityNotFound   = errors.New("linked identity not found")   // internal to the resolver
	ErrDuplicate          = errors.New("unique constraint violation") // storage-level conflict
)

// Token errors
var (
	ErrMissingAuthHeader    = errors.New("missing authorization header")                            // 401
	ErrInvalidAuthHeader    = errors.New("invalid authorization format, expected 'Bearer <token>'") // 401
	ErrInvalidToken         = errors.New("invalid access token")                                    // 401
	ErrInvalidRefreshToken  = errors.New("invalid refresh token")                                   // 400
	ErrRefreshTokenNotFound = errors.New("refresh token not found")                                 // storage miss
)

// Identity resolution errors
var (
	ErrNoEmail             = errors.New("provider response contains no email claim")
	ErrProviderUnavailable = errors.New("identity provider unavailable")
	ErrLinkFailed          = errors.New("failed to link provider identity")
	ErrProvisionFailed     = errors.New("failed to provision account")
)

// Validation errors (client input)
var (
	ErrEmailRequired    = errors.New("email is required")     // 400
	ErrPasswordRequired = errors.New("password is required")  // 400
	ErrPasswordTooShort = errors.New("password is too short") // 400
	ErrPasswordTooLong  = errors.New("password is too long")  // 400
	ErrInvalidEmail     = errors.New("invalid email format")  // 400
)

// Wedding content errors
var (
	ErrGiftNotFound          = errors.New("gift not found")      // 404
	ErrGiftTaken             = errors.New("gift already locked") // 409
	ErrGiftNotOwned          = errors.New("gift locked by another account")
	ErrMessageRequired       = errors.New("message body is required")
	ErrParticipationNotFound = errors.New("participation not found") // 404
)
