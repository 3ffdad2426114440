package consultation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tobitaks/health-dash-be/internal/platform/sequence"
	"github.com/tobitaks/health-dash-be/internal/platform/tenancy"
)

var consultationKind = sequence.Kind{Entity: "consultation", Prefix: "CONS", Width: 4}

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

func (s *Service) CreateConsultation(ctx context.Context, scope tenancy.Scope, con *Consultation) error {
	con.ChiefComplaint = strings.TrimSpace(con.ChiefComplaint)
	if con.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if con.ChiefComplaint == "" {
		return fmt.Errorf("chief_complaint is required")
	}
	if con.ConsultedAt.IsZero() {
		con.ConsultedAt = s.now().UTC()
	}

	code, err := s.codes.Next(ctx, scope.ClinicID(), consultationKind)
	if err != nil {
		return err
	}
	con.Code = code
	con.Timestamps.Init(s.now().UTC())
	return s.repo.Create(ctx, scope, con)
}

func (s *Service) GetConsultation(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*Consultation, error) {
	con, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := tenancy.AssertSameTenant(con.ClinicID, scope); err != nil {
		s.audit.CrossTenantDenied(ctx, scope, "consultation", id)
		return nil, err
	}
	return con, nil
}

func (s *Service) UpdateConsultation(ctx context.Context, scope tenancy.Scope, con *Consultation) error {
	existing, err := s.GetConsultation(ctx, scope, con.ID)
	if err != nil {
		return err
	}
	con.ChiefComplaint = strings.TrimSpace(con.ChiefComplaint)
	if con.ChiefComplaint == "" {
		con.ChiefComplaint = existing.ChiefComplaint
	}
	if con.PatientID == uuid.Nil {
		con.PatientID = existing.PatientID
	}
	if con.ConsultedAt.IsZero() {
		con.ConsultedAt = existing.ConsultedAt
	}

	con.Code = existing.Code
	con.ClinicID = existing.ClinicID
	con.CreatedAt = existing.CreatedAt
	con.Touch(s.now().UTC())
	return s.repo.Update(ctx, scope, con)
}

func (s *Service) ListConsultations(ctx context.Context, scope tenancy.Scope, f Filter, limit, offset int) ([]*Consultation, int, error) {
	return s.repo.List(ctx, scope, f, limit, offset)
}
