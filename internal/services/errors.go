package services

import "errors"

// Terminal pipeline and auth failures. Handlers map these onto HTTP status
// codes and generic user-facing messages; internal detail is only logged.
var (
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrInvalidCode          = errors.New("invalid login code")
	ErrCreationFailed       = errors.New("failed to create user account")
	ErrInsertReturnedEmpty  = errors.New("entry insert returned no row")
	ErrVerificationMismatch = errors.New("entry verification mismatch")
)
