// Package tenancy enforces clinic isolation at the data-access boundary.
// Every repository entry point takes a Scope, a witness that the caller's
// clinic was resolved from the authenticated actor and nowhere else. List
// queries go through the scoped query builder, which binds the clinic
// predicate before any caller-supplied filter; single-record mutations are
// guarded with AssertSameTenant. A cross-tenant attempt is a hard failure,
// distinct from not-found internally and indistinguishable from it at the
// HTTP boundary.
package tenancy

import (
	"fmt"

	"github.com/google/uuid"
)

// Scope identifies the clinic an operation runs under. The clinic ID is
// unexported so a Scope can only be obtained through NewScope or Resolve,
// never assembled from client-supplied input at a call site.
type Scope struct {
	clinicID uuid.UUID
}

// NewScope builds a scope for the given clinic. It rejects the nil UUID so a
// zero-value scope can never match real rows.
func NewScope(clinicID uuid.UUID) (Scope, error) {
	if clinicID == uuid.Nil {
		return Scope{}, fmt.Errorf("scope requires a clinic id: %w", ErrNoTenant)
	}
	return Scope{clinicID: clinicID}, nil
}

// ClinicID returns the clinic this scope is bound to.
func (s Scope) ClinicID() uuid.UUID {
	return s.clinicID
}

// IsZero reports whether the scope was never resolved.
func (s Scope) IsZero() bool {
	return s.clinicID == uuid.Nil
}

// Resolve derives the active clinic scope from the authenticated actor.
// Platform actors carry no clinic and fail with ErrNoTenant; they may only
// use tenant-agnostic routes, which never call Resolve.
func Resolve(actor *Actor) (Scope, error) {
	if actor == nil || actor.ClinicID == nil {
		return Scope{}, ErrNoTenant
	}
	return NewScope(*actor.ClinicID)
}

// AssertSameTenant rejects a mutation or read of a record owned by another
// clinic. It is called after every primary-key fetch, so a record reached
// outside the scoped query path still cannot cross the boundary.
func AssertSameTenant(ownerID uuid.UUID, scope Scope) error {
	if scope.IsZero() {
		return ErrNoTenant
	}
	if ownerID != scope.clinicID {
		return ErrCrossTenant
	}
	return nil
}
