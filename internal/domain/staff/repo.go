package staff

import (
	"context"

	"github.com/google/uuid"

	"github.com/tobitaks/health-dash-be/internal/platform/tenancy"
)

type Filter struct {
	Role   string
	Active *bool
}

type Repository interface {
	Create(ctx context.Context, scope tenancy.Scope, s *Staff) error
	// GetByID fetches by primary key without a tenant filter; callers must
	// guard the result with tenancy.AssertSameTenant before use.
	GetByID(ctx context.Context, id uuid.UUID) (*Staff, error)
	Update(ctx context.Context, scope tenancy.Scope, s *Staff) error
	Deactivate(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error
	List(ctx context.Context, scope tenancy.Scope, f Filter, limit, offset int) ([]*Staff, int, error)
}
