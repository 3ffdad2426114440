package invoice

import (
	"context"

	"github.com/google/uuid"

	"github.com/tobitaks/health-dash-be/internal/platform/tenancy"
)

type Filter struct {
	Status    string
	PatientID uuid.UUID
}

// Repository persists invoices together with their line items. Create and
// Update are transactional over both tables; GetByID and List return
// invoices with items loaded.
type Repository interface {
	Create(ctx context.Context, scope tenancy.Scope, inv *Invoice) error
	// GetByID fetches by primary key without a tenant filter; callers must
	// guard the result with tenancy.AssertSameTenant before use.
	GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	Update(ctx context.Context, scope tenancy.Scope, inv *Invoice) error
	List(ctx context.Context, scope tenancy.Scope, f Filter, limit, offset int) ([]*Invoice, int, error)
}
