package domain

import "errors"

// ErrNotFound is returned by repo and feature handlers when the requested
// entity does not exist within the caller's tenant. An entity that exists
// under a different tenant reports the same error, so callers cannot probe
// for other tenants' data.
// The HTTP layer maps this to 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (e.g. missing required field, malformed email).
// The HTTP layer maps this to 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a request would violate a uniqueness rule,
// such as creating a user with a username already taken in the tenant.
// The HTTP layer maps this to 409 Conflict.
var ErrConflict = errors.New("conflict")

// ErrUnauthorized is returned when credentials or tokens fail verification.
// It deliberately carries no detail about which part failed.
// The HTTP layer maps this to 401.
var ErrUnauthorized = errors.New("unauthorized")
