package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tobitaks/health-dash-be/internal/platform/sequence"
	"github.com/tobitaks/health-dash-be/internal/platform/tenancy"
)

var appointmentKind = sequence.Kind{Entity: "appointment", Prefix: "APT", Width: 4}

var validStatuses = map[string]bool{
	"scheduled":   true,
	"confirmed":   true,
	"in-progress": true,
	"completed":   true,
	"cancelled":   true,
	"no-show":     true,
}

const defaultDurationMinutes = 30

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

func (s *Service) CreateAppointment(ctx context.Context, scope tenancy.Scope, a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if a.ScheduledAt.IsZero() {
		return fmt.Errorf("scheduled_at is required")
	}
	if a.DurationMinutes <= 0 {
		a.DurationMinutes = defaultDurationMinutes
	}
	if a.Status == "" {
		a.Status = "scheduled"
	}
	if !validStatuses[a.Status] {
		return fmt.Errorf("invalid status: %s", a.Status)
	}

	code, err := s.codes.Next(ctx, scope.ClinicID(), appointmentKind)
	if err != nil {
		return err
	}
	a.Code = code
	a.Timestamps.Init(s.now().UTC())
	return s.repo.Create(ctx, scope, a)
}

func (s *Service) GetAppointment(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := tenancy.AssertSameTenant(a.ClinicID, scope); err != nil {
		s.audit.CrossTenantDenied(ctx, scope, "appointment", id)
		return nil, err
	}
	return a, nil
}

func (s *Service) UpdateAppointment(ctx context.Context, scope tenancy.Scope, a *Appointment) error {
	existing, err := s.GetAppointment(ctx, scope, a.ID)
	if err != nil {
		return err
	}
	if a.PatientID == uuid.Nil {
		a.PatientID = existing.PatientID
	}
	if a.ScheduledAt.IsZero() {
		a.ScheduledAt = existing.ScheduledAt
	}
	if a.DurationMinutes <= 0 {
		a.DurationMinutes = existing.DurationMinutes
	}
	if a.Status == "" {
		a.Status = existing.Status
	}
	if !validStatuses[a.Status] {
		return fmt.Errorf("invalid status: %s", a.Status)
	}

	a.Code = existing.Code
	a.ClinicID = existing.ClinicID
	a.CreatedAt = existing.CreatedAt
	a.Touch(s.now().UTC())
	return s.repo.Update(ctx, scope, a)
}

func (s *Service) DeleteAppointment(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	if _, err := s.GetAppointment(ctx, scope, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, scope, id)
}

func (s *Service) ListAppointments(ctx context.Context, scope tenancy.Scope, f Filter, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.List(ctx, scope, f, limit, offset)
}
