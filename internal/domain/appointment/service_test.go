package appointment

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tobitaks/health-dash-be/internal/platform/sequence"
	"github.com/tobitaks/health-dash-be/internal/platform/tenancy"
)

type mockRepo struct {
	appts map[uuid.UUID]*Appointment
}

func newMockRepo() *mockRepo {
	return &mockRepo{appts: make(map[uuid.UUID]*Appointment)}
}

func (m *mockRepo) Create(_ context.Context, scope tenancy.Scope, a *Appointment) error {
	a.ID = uuid.New()
	a.ClinicID = scope.ClinicID()
	m.appts[a.ID] = a
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, fmt.Errorf("appointment %s: %w", id, tenancy.ErrNotFound)
	}
	return a, nil
}

func (m *mockRepo) Update(_ context.Context, scope tenancy.Scope, a *Appointment) error {
	existing, ok := m.appts[a.ID]
	if !ok || existing.ClinicID != scope.ClinicID() {
		return fmt.Errorf("appointment %s: %w", a.ID, tenancy.ErrNotFound)
	}
	m.appts[a.ID] = a
	return nil
}

func (m *mockRepo) Delete(_ context.Context, scope tenancy.Scope, id uuid.UUID) error {
	existing, ok := m.appts[id]
	if !ok || existing.ClinicID != scope.ClinicID() {
		return fmt.Errorf("appointment %s: %w", id, tenancy.ErrNotFound)
	}
	delete(m.appts, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, scope tenancy.Scope, f Filter, limit, offset int) ([]*Appointment, int, error) {
	var result []*Appointment
	for _, a := range m.appts {
		if a.ClinicID != scope.ClinicID() {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.PatientID != uuid.Nil && a.PatientID != f.PatientID {
			continue
		}
		result = append(result, a)
	}
	return result, len(result), nil
}

func newTestService(repo Repository) *Service {
	gen := sequence.NewGenerator(sequence.NewMemStore())
	gen.SetClock(func() time.Time {
		return time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	})
	svc := NewService(repo, gen)
	svc.SetClock(func() time.Time {
		return time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	})
	return svc
}

func mustScope(t *testing.T) tenancy.Scope {
	t.Helper()
	scope, err := tenancy.NewScope(uuid.New())
	if err != nil {
		t.Fatalf("scope: %v", err)
	}
	return scope
}

func newAppointment() *Appointment {
	return &Appointment{
		PatientID:   uuid.New(),
		ScheduledAt: time.Date(2026, time.March, 5, 14, 0, 0, 0, time.UTC),
	}
}

func TestCreateAppointment(t *testing.T) {
	svc := newTestService(newMockRepo())
	scope := mustScope(t)

	a := newAppointment()
	if err := svc.CreateAppointment(context.Background(), scope, a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Code != "APT-2026-0001" {
		t.Errorf("code = %q, want APT-2026-0001", a.Code)
	}
	if a.Status != "scheduled" {
		t.Errorf("status = %q, want scheduled", a.Status)
	}
	if a.DurationMinutes != defaultDurationMinutes {
		t.Errorf("duration = %d, want default %d", a.DurationMinutes, defaultDurationMinutes)
	}
}

func TestCreateAppointment_Validation(t *testing.T) {
	svc := newTestService(newMockRepo())
	scope := mustScope(t)

	if err := svc.CreateAppointment(context.Background(), scope, &Appointment{
		ScheduledAt: time.Now(),
	}); err == nil {
		t.Error("expected error for missing patient")
	}
	if err := svc.CreateAppointment(context.Background(), scope, &Appointment{
		PatientID: uuid.New(),
	}); err == nil {
		t.Error("expected error for missing scheduled_at")
	}

	a := newAppointment()
	a.Status = "overbooked"
	if err := svc.CreateAppointment(context.Background(), scope, a); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestUpdateAppointment_StatusTransitions(t *testing.T) {
	svc := newTestService(newMockRepo())
	scope := mustScope(t)

	a := newAppointment()
	if err := svc.CreateAppointment(context.Background(), scope, a); err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, status := range []string{"confirmed", "in-progress", "completed"} {
		upd := &Appointment{ID: a.ID, Status: status}
		if err := svc.UpdateAppointment(context.Background(), scope, upd); err != nil {
			t.Fatalf("transition to %s: %v", status, err)
		}
		if upd.Code != a.Code {
			t.Errorf("code changed on %s transition", status)
		}
	}

	bad := &Appointment{ID: a.ID, Status: "teleported"}
	if err := svc.UpdateAppointment(context.Background(), scope, bad); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestUpdateAppointment_KeepsUnsetFields(t *testing.T) {
	svc := newTestService(newMockRepo())
	scope := mustScope(t)

	a := newAppointment()
	a.DurationMinutes = 45
	if err := svc.CreateAppointment(context.Background(), scope, a); err != nil {
		t.Fatalf("create: %v", err)
	}

	upd := &Appointment{ID: a.ID, Status: "confirmed"}
	if err := svc.UpdateAppointment(context.Background(), scope, upd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upd.PatientID != a.PatientID {
		t.Error("unset patient_id must carry over")
	}
	if upd.DurationMinutes != 45 {
		t.Errorf("duration = %d, want carried-over 45", upd.DurationMinutes)
	}
	if !upd.ScheduledAt.Equal(a.ScheduledAt) {
		t.Error("unset scheduled_at must carry over")
	}
}

func TestAppointment_CrossTenant(t *testing.T) {
	svc := newTestService(newMockRepo())
	owner := mustScope(t)
	other := mustScope(t)

	a := newAppointment()
	svc.CreateAppointment(context.Background(), owner, a)

	if _, err := svc.GetAppointment(context.Background(), other, a.ID); !errors.Is(err, tenancy.ErrCrossTenant) {
		t.Errorf("get: expected ErrCrossTenant, got %v", err)
	}
	if err := svc.DeleteAppointment(context.Background(), other, a.ID); !errors.Is(err, tenancy.ErrCrossTenant) {
		t.Errorf("delete: expected ErrCrossTenant, got %v", err)
	}
}

func TestListAppointments_FilterByPatient(t *testing.T) {
	svc := newTestService(newMockRepo())
	scope := mustScope(t)

	target := newAppointment()
	svc.CreateAppointment(context.Background(), scope, target)
	svc.CreateAppointment(context.Background(), scope, newAppointment())

	appts, total, err := svc.ListAppointments(context.Background(), scope,
		Filter{PatientID: target.PatientID}, 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(appts) != 1 || appts[0].ID != target.ID {
		t.Errorf("patient filter returned %d appointments", len(appts))
	}
}
