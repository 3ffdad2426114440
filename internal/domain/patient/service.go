package patient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tobitaks/health-dash-be/internal/platform/sequence"
	"github.com/tobitaks/health-dash-be/internal/platform/tenancy"
)

var patientKind = sequence.Kind{Entity: "patient", Prefix: "PT", Width: 4}

var validStatuses = map[string]bool{
	"active":   true,
	"archived": true,
}

type Service struct {
	repo  Repository
	codes *sequence.Generator
	audit *tenancy.Auditor
	now   func() time.Time
}

func NewService(repo Repository, codes *sequence.Generator) *Service {
	return &Service{repo: repo, codes: codes, now: time.Now}
}

// SetAuditor installs the cross-tenant denial auditor. A nil auditor is
// safe; denials are then only reflected in the returned error.
func (s *Service) SetAuditor(a *tenancy.Auditor) { s.audit = a }

func (s *Service) SetClock(now func() time.Time) { s.now = now }

// CreatePatient validates the payload, mints the clinic-facing code and
// persists the record. Any clinic_id or code supplied by the caller is
// discarded; both are owned by the server.
func (s *Service) CreatePatient(ctx context.Context, scope tenancy.Scope, p *Patient) error {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	if p.FirstName == "" || p.LastName == "" {
		return fmt.Errorf("first and last name are required")
	}
	if p.Status == "" {
		p.Status = "active"
	}
	if !validStatuses[p.Status] {
		return fmt.Errorf("invalid status: %s", p.Status)
	}

	code, err := s.codes.Next(ctx, scope.ClinicID(), patientKind)
	if err != nil {
		return err
	}
	p.Code = code
	p.Timestamps.Init(s.now().UTC())
	return s.repo.Create(ctx, scope, p)
}

func (s *Service) GetPatient(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := tenancy.AssertSameTenant(p.ClinicID, scope); err != nil {
		s.audit.CrossTenantDenied(ctx, scope, "patient", id)
		return nil, err
	}
	return p, nil
}

// UpdatePatient rewrites the mutable fields of an existing record. The
// code, owning clinic and creation timestamp always carry over from the
// stored row.
func (s *Service) UpdatePatient(ctx context.Context, scope tenancy.Scope, p *Patient) error {
	existing, err := s.GetPatient(ctx, scope, p.ID)
	if err != nil {
		return err
	}

	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	if p.FirstName == "" || p.LastName == "" {
		return fmt.Errorf("first and last name are required")
	}
	if p.Status == "" {
		p.Status = existing.Status
	}
	if !validStatuses[p.Status] {
		return fmt.Errorf("invalid status: %s", p.Status)
	}

	p.Code = existing.Code
	p.ClinicID = existing.ClinicID
	p.CreatedAt = existing.CreatedAt
	p.Touch(s.now().UTC())
	return s.repo.Update(ctx, scope, p)
}

func (s *Service) DeletePatient(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	if _, err := s.GetPatient(ctx, scope, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, scope, id)
}

func (s *Service) ListPatients(ctx context.Context, scope tenancy.Scope, f Filter, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, scope, f, limit, offset)
}
