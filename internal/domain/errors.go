package domain

import "errors"

// Expected domain outcomes and validation failures. Anything else coming up
// from a repository is a store failure and propagates as-is.
var (
	ErrNotFound            = errors.New("not found")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrInvalidPriority     = errors.New("invalid priority")
	ErrEmptyTitle          = errors.New("title must not be empty")
)

// Error codes used in API envelopes.
const (
	CodeDBError             = "DB_ERROR"
	CodeConstraintViolation = "DB_CONSTRAINT_VIOLATION"
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeResourceNotFound    = "RESOURCE_NOT_FOUND"
	CodeInternalError       = "INTERNAL_SERVER_ERROR"
)
