package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tobitaks/health-dash-be/internal/platform/tenancy"
)

type Filter struct {
	Status    string
	PatientID uuid.UUID
	From      time.Time
	To        time.Time
}

type Repository interface {
	Create(ctx context.Context, scope tenancy.Scope, a *Appointment) error
	// GetByID fetches by primary key without a tenant filter; callers must
	// guard the result with tenancy.AssertSameTenant before use.
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, scope tenancy.Scope, a *Appointment) error
	Delete(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error
	List(ctx context.Context, scope tenancy.Scope, f Filter, limit, offset int) ([]*Appointment, int, error)
}
