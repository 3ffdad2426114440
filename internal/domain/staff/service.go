package staff

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tobitaks/health-dash-be/internal/platform/auth"
	"github.com/tobitaks/health-dash-be/internal/platform/tenancy"
)

type Service struct {
	repo  Repository
	audit *tenancy.Auditor
	now   func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) SetAuditor(a *tenancy.Auditor) { s.audit = a }

func (s *Service) SetClock(now func() time.Time) { s.now = now }

func (s *Service) CreateStaff(ctx context.Context, scope tenancy.Scope, m *Staff) error {
	if err := validate(m); err != nil {
		return err
	}
	m.Active = true
	m.Timestamps.Init(s.now().UTC())
	return s.repo.Create(ctx, scope, m)
}

func (s *Service) GetStaff(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*Staff, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := tenancy.AssertSameTenant(m.ClinicID, scope); err != nil {
		s.audit.CrossTenantDenied(ctx, scope, "staff", id)
		return nil, err
	}
	return m, nil
}

func (s *Service) UpdateStaff(ctx context.Context, scope tenancy.Scope, m *Staff) error {
	existing, err := s.GetStaff(ctx, scope, m.ID)
	if err != nil {
		return err
	}
	if err := validate(m); err != nil {
		return err
	}
	m.ClinicID = existing.ClinicID
	m.CreatedAt = existing.CreatedAt
	m.Active = existing.Active
	m.Touch(s.now().UTC())
	return s.repo.Update(ctx, scope, m)
}

// DeactivateStaff retires a staff member without deleting the row.
func (s *Service) DeactivateStaff(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	if _, err := s.GetStaff(ctx, scope, id); err != nil {
		return err
	}
	return s.repo.Deactivate(ctx, scope, id)
}

func (s *Service) ListStaff(ctx context.Context, scope tenancy.Scope, f Filter, limit, offset int) ([]*Staff, int, error) {
	return s.repo.List(ctx, scope, f, limit, offset)
}

func validate(m *Staff) error {
	m.FirstName = strings.TrimSpace(m.FirstName)
	m.LastName = strings.TrimSpace(m.LastName)
	m.Email = strings.TrimSpace(m.Email)
	if m.FirstName == "" || m.LastName == "" {
		return fmt.Errorf("first and last name are required")
	}
	if m.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !auth.ValidStaffRole(m.Role) {
		return fmt.Errorf("invalid role: %s", m.Role)
	}
	return nil
}
