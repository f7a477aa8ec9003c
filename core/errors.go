package core

import "errors"

// Identity Related Errors
var (
	// User errors
	ErrEmailTaken   = errors.New("user with this email already exists") // 409 Conflict
	ErrUserNotFound = errors.New("user not found")                      // never leaves the core

	// Session errors
	ErrUnauthenticated = errors.New("unauthorized")                // 401
	ErrSessionTaken    = errors.New("session token already bound") // never leaves the core
)

// Meal errors
var (
	ErrMealNotFound = errors.New("meal not found") // 404, also returned for meals owned by someone else
)

// Validation errors (client input, rejected by the transport before reaching the core)
var (
	ErrValidation   = errors.New("validation error")     // 400
	ErrInvalidDate  = errors.New("invalid date")         // 400
	ErrInvalidEmail = errors.New("invalid email format") // 400
)

// Cache errors
var (
	ErrCacheMiss = errors.New("cache miss")
)

// Config errors (server-side configuration)
var (
	ErrDBAdapterRequired   = errors.New("database adapter is required") // 500
	ErrHTTPAdapterRequired = errors.New("http adapter is required")     // 500
	ErrSecretRequired      = errors.New("secret is required")           // 500
	ErrSecretTooShort      = errors.New("secret too short")             // 500
)
