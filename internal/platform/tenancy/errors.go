package tenancy

import "errors"

// Sentinel errors for the isolation layer. Services and repositories return
// these (wrapped with fmt.Errorf and %w) so callers can branch with errors.Is.
var (
	// ErrNoTenant means the acting user has no clinic assignment and the
	// operation is not tenant-agnostic.
	ErrNoTenant = errors.New("no clinic assigned to actor")

	// ErrCrossTenant means an operation targeted a record owned by another
	// clinic. It is never surfaced to API clients as anything other than a
	// plain not-found response.
	ErrCrossTenant = errors.New("record belongs to another clinic")

	// ErrNotFound means the record does not exist within the caller's clinic.
	ErrNotFound = errors.New("record not found")
)
