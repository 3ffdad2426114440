package laborder

import (
	"context"

	"github.com/google/uuid"

	"github.com/tobitaks/health-dash-be/internal/platform/tenancy"
)

type Filter struct {
	Status    string
	PatientID uuid.UUID
}

type Repository interface {
	Create(ctx context.Context, scope tenancy.Scope, o *LabOrder) error
	// GetByID fetches by primary key without a tenant filter; callers must
	// guard the result with tenancy.AssertSameTenant before use.
	GetByID(ctx context.Context, id uuid.UUID) (*LabOrder, error)
	Update(ctx context.Context, scope tenancy.Scope, o *LabOrder) error
	List(ctx context.Context, scope tenancy.Scope, f Filter, limit, offset int) ([]*LabOrder, int, error)
}
