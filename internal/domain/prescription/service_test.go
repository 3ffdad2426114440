package prescription

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
	scripts map[uuid.UUID]*Prescription
}

func newMockRepo() *mockRepo {
	return &mockRepo{scripts: make(map[uuid.UUID]*Prescription)}
}

func (m *mockRepo) Create(_ context.Context, scope tenancy.Scope, p *Prescription) error {
	p.ID = uuid.New()
	p.ClinicID = scope.ClinicID()
	m.scripts[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Prescription, error) {
	p, ok := m.scripts[id]
	if !ok {
		return nil, fmt.Errorf("prescription %s: %w", id, tenancy.ErrNotFound)
	}
	return p, nil
}

func (m *mockRepo) Update(_ context.Context, scope tenancy.Scope, p *Prescription) error {
	existing, ok := m.scripts[p.ID]
	if !ok || existing.ClinicID != scope.ClinicID() {
		return fmt.Errorf("prescription %s: %w", p.ID, tenancy.ErrNotFound)
	}
	m.scripts[p.ID] = p
	return nil
}

func (m *mockRepo) List(_ context.Context, scope tenancy.Scope, f Filter, limit, offset int) ([]*Prescription, int, error) {
	var result []*Prescription
	for _, p := range m.scripts {
		if p.ClinicID != scope.ClinicID() {
			continue
		}
		if f.PatientID != uuid.Nil && p.PatientID != f.PatientID {
			continue
		}
		result = append(result, p)
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

func amoxicillin() []Medication {
	return []Medication{{
		Name: "Amoxicillin", Dosage: "500mg", Frequency: "3x daily", Duration: "7 days",
	}}
}

func TestCreatePrescription(t *testing.T) {
	svc := newTestService(newMockRepo())
	scope := mustScope(t)

	p := &Prescription{PatientID: uuid.New(), Medications: amoxicillin()}
	if err := svc.CreatePrescription(context.Background(), scope, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Code != "RX-2026-0001" {
		t.Errorf("code = %q, want RX-2026-0001", p.Code)
	}
	if p.PrescribedAt.IsZero() {
		t.Error("prescribed_at should default to now")
	}
}

func TestCreatePrescription_KeepsFormularyLink(t *testing.T) {
	svc := newTestService(newMockRepo())
	scope := mustScope(t)

	medicineID := uuid.New()
	meds := amoxicillin()
	meds[0].MedicineID = &medicineID

	p := &Prescription{PatientID: uuid.New(), Medications: meds}
	if err := svc.CreatePrescription(context.Background(), scope, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Medications[0].MedicineID == nil || *p.Medications[0].MedicineID != medicineID {
		t.Error("formulary link dropped on create")
	}

	// A line without a formulary link stays valid.
	free := &Prescription{PatientID: uuid.New(), Medications: amoxicillin()}
	if err := svc.CreatePrescription(context.Background(), scope, free); err != nil {
		t.Fatalf("free-text line rejected: %v", err)
	}
}

func TestCreatePrescription_Validation(t *testing.T) {
	svc := newTestService(newMockRepo())
	scope := mustScope(t)

	cases := []*Prescription{
		{Medications: amoxicillin()},                  // no patient
		{PatientID: uuid.New()},                       // no medications
		{PatientID: uuid.New(), Medications: []Medication{{Dosage: "500mg"}}}, // unnamed drug
		{PatientID: uuid.New(), Medications: []Medication{{Name: "Amoxicillin"}}}, // no dosage
	}
	for i, p := range cases {
		if err := svc.CreatePrescription(context.Background(), scope, p); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestUpdatePrescription_CodeImmutable(t *testing.T) {
	svc := newTestService(newMockRepo())
	scope := mustScope(t)

	p := &Prescription{PatientID: uuid.New(), Medications: amoxicillin()}
	if err := svc.CreatePrescription(context.Background(), scope, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	upd := &Prescription{ID: p.ID, Code: "RX-2026-9999"}
	if err := svc.UpdatePrescription(context.Background(), scope, upd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upd.Code != p.Code {
		t.Errorf("code changed on update: %q -> %q", p.Code, upd.Code)
	}
	if len(upd.Medications) != 1 {
		t.Error("unset medications must carry over")
	}
}

func TestPrescription_CrossTenant(t *testing.T) {
	svc := newTestService(newMockRepo())
	owner := mustScope(t)
	other := mustScope(t)

	p := &Prescription{PatientID: uuid.New(), Medications: amoxicillin()}
	svc.CreatePrescription(context.Background(), owner, p)

	if _, err := svc.GetPrescription(context.Background(), other, p.ID); !errors.Is(err, tenancy.ErrCrossTenant) {
		t.Errorf("expected ErrCrossTenant, got %v", err)
	}
}
