package patient

import (
	"context"

	"github.com/google/uuid"

	"github.com/tobitaks/health-dash-be/internal/platform/tenancy"
)

// Filter narrows List results. Filters only ever narrow within the caller's
// clinic; the clinic predicate itself is bound by the scoped query builder.
type Filter struct {
	Status string
	Name   string
}

type Repository interface {
	// Create persists a new patient, stamping the owning clinic from scope.
	Create(ctx context.Context, scope tenancy.Scope, p *Patient) error
	// GetByID fetches by primary key without a tenant filter; callers must
	// guard the result with tenancy.AssertSameTenant before use.
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, scope tenancy.Scope, p *Patient) error
	Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error
	List(ctx context.Context, scope tenancy.Scope, f Filter, limit, offset int) ([]*Patient, int, error)
}
