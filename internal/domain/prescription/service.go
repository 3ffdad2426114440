package prescription

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tobitaks/health-dash-be/internal/platform/sequence"
	"github.com/tobitaks/health-dash-be/internal/platform/tenancy"
)

var prescriptionKind = sequence.Kind{Entity: "prescription", Prefix: "RX", Width: 4}

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

func (s *Service) CreatePrescription(ctx context.Context, scope tenancy.Scope, p *Prescription) error {
	if p.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if err := validateMedications(p.Medications); err != nil {
		return err
	}
	if p.PrescribedAt.IsZero() {
		p.PrescribedAt = s.now().UTC()
	}

	code, err := s.codes.Next(ctx, scope.ClinicID(), prescriptionKind)
	if err != nil {
		return err
	}
	p.Code = code
	p.Timestamps.Init(s.now().UTC())
	return s.repo.Create(ctx, scope, p)
}

func (s *Service) GetPrescription(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*Prescription, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := tenancy.AssertSameTenant(p.ClinicID, scope); err != nil {
		s.audit.CrossTenantDenied(ctx, scope, "prescription", id)
		return nil, err
	}
	return p, nil
}

func (s *Service) UpdatePrescription(ctx context.Context, scope tenancy.Scope, p *Prescription) error {
	existing, err := s.GetPrescription(ctx, scope, p.ID)
	if err != nil {
		return err
	}
	if p.PatientID == uuid.Nil {
		p.PatientID = existing.PatientID
	}
	if len(p.Medications) == 0 {
		p.Medications = existing.Medications
	} else if err := validateMedications(p.Medications); err != nil {
		return err
	}
	if p.PrescribedAt.IsZero() {
		p.PrescribedAt = existing.PrescribedAt
	}

	p.Code = existing.Code
	p.ClinicID = existing.ClinicID
	p.CreatedAt = existing.CreatedAt
	p.Touch(s.now().UTC())
	return s.repo.Update(ctx, scope, p)
}

func (s *Service) ListPrescriptions(ctx context.Context, scope tenancy.Scope, f Filter, limit, offset int) ([]*Prescription, int, error) {
	return s.repo.List(ctx, scope, f, limit, offset)
}

func validateMedications(meds []Medication) error {
	if len(meds) == 0 {
		return fmt.Errorf("at least one medication is required")
	}
	for i, m := range meds {
		if strings.TrimSpace(m.Name) == "" {
			return fmt.Errorf("medication %d: name is required", i+1)
		}
		if strings.TrimSpace(m.Dosage) == "" {
			return fmt.Errorf("medication %d: dosage is required", i+1)
		}
	}
	return nil
}
