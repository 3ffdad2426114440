package laborder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tobitaks/health-dash-be/internal/platform/sequence"
	"github.com/tobitaks/health-dash-be/internal/platform/tenancy"
)

var labOrderKind = sequence.Kind{Entity: "laborder", Prefix: "LAB", Width: 4}

var validStatuses = map[string]bool{
	"ordered":   true,
	"completed": true,
	"cancelled": true,
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

func (s *Service) SetAuditor(a *tenancy.Auditor) { s.audit = a }

func (s *Service) SetClock(now func() time.Time) { s.now = now }

func (s *Service) CreateLabOrder(ctx context.Context, scope tenancy.Scope, o *LabOrder) error {
	if o.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if err := validateTests(o.Tests); err != nil {
		return err
	}
	if o.Status == "" {
		o.Status = "ordered"
	}
	if !validStatuses[o.Status] {
		return fmt.Errorf("invalid status: %s", o.Status)
	}
	if o.OrderedAt.IsZero() {
		o.OrderedAt = s.now().UTC()
	}

	code, err := s.codes.Next(ctx, scope.ClinicID(), labOrderKind)
	if err != nil {
		return err
	}
	o.Code = code
	o.Timestamps.Init(s.now().UTC())
	return s.repo.Create(ctx, scope, o)
}

func (s *Service) GetLabOrder(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*LabOrder, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := tenancy.AssertSameTenant(o.ClinicID, scope); err != nil {
		s.audit.CrossTenantDenied(ctx, scope, "laborder", id)
		return nil, err
	}
	return o, nil
}

func (s *Service) UpdateLabOrder(ctx context.Context, scope tenancy.Scope, o *LabOrder) error {
	existing, err := s.GetLabOrder(ctx, scope, o.ID)
	if err != nil {
		return err
	}
	if o.PatientID == uuid.Nil {
		o.PatientID = existing.PatientID
	}
	if len(o.Tests) == 0 {
		o.Tests = existing.Tests
	} else if err := validateTests(o.Tests); err != nil {
		return err
	}
	if o.Status == "" {
		o.Status = existing.Status
	}
	if !validStatuses[o.Status] {
		return fmt.Errorf("invalid status: %s", o.Status)
	}
	if o.OrderedAt.IsZero() {
		o.OrderedAt = existing.OrderedAt
	}

	o.Code = existing.Code
	o.ClinicID = existing.ClinicID
	o.CreatedAt = existing.CreatedAt
	o.Touch(s.now().UTC())
	return s.repo.Update(ctx, scope, o)
}

func (s *Service) ListLabOrders(ctx context.Context, scope tenancy.Scope, f Filter, limit, offset int) ([]*LabOrder, int, error) {
	return s.repo.List(ctx, scope, f, limit, offset)
}

func validateTests(tests []LabTest) error {
	if len(tests) == 0 {
		return fmt.Errorf("at least one test is required")
	}
	for i, lt := range tests {
		if strings.TrimSpace(lt.Name) == "" {
			return fmt.Errorf("test %d: name is required", i+1)
		}
	}
	return nil
}
