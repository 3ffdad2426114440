package consultation

import (
	"context"

	"github.com/google/uuid"

	"github.com/tobitaks/health-dash-be/internal/platform/tenancy"
)

type Filter struct {
	PatientID uuid.UUID
}

type Repository interface {
	Create(ctx context.Context, scope tenancy.Scope, con *Consultation) error
	// GetByID fetches by primary key without a tenant filter; callers must
	// guard the result with tenancy.AssertSameTenant before use.
	GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error)
	Update(ctx context.Context, scope tenancy.Scope, con *Consultation) error
	List(ctx context.Context, scope tenancy.Scope, f Filter, limit, offset int) ([]*Consultation, int, error)
}
