package patient

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
	patients   map[uuid.UUID]*Patient
	failCreate bool
}

func newMockRepo() *mockRepo {
	return &mockRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockRepo) Create(_ context.Context, scope tenancy.Scope, p *Patient) error {
	if m.failCreate {
		return fmt.Errorf("insert failed")
	}
	p.ID = uuid.New()
	p.ClinicID = scope.ClinicID()
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, fmt.Errorf("patient %s: %w", id, tenancy.ErrNotFound)
	}
	return p, nil
}

func (m *mockRepo) Update(_ context.Context, scope tenancy.Scope, p *Patient) error {
	existing, ok := m.patients[p.ID]
	if !ok || existing.ClinicID != scope.ClinicID() {
		return fmt.Errorf("patient %s: %w", p.ID, tenancy.ErrNotFound)
	}
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) Delete(_ context.Context, scope tenancy.Scope, id uuid.UUID) error {
	existing, ok := m.patients[id]
	if !ok || existing.ClinicID != scope.ClinicID() {
		return fmt.Errorf("patient %s: %w", id, tenancy.ErrNotFound)
	}
	delete(m.patients, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, scope tenancy.Scope, f Filter, limit, offset int) ([]*Patient, int, error) {
	var result []*Patient
	for _, p := range m.patients {
		if p.ClinicID != scope.ClinicID() {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		result = append(result, p)
	}
	return result, len(result), nil
}

func newTestService(repo Repository) (*Service, *sequence.MemStore) {
	store := sequence.NewMemStore()
	gen := sequence.NewGenerator(store)
	gen.SetClock(func() time.Time {
		return time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	})
	svc := NewService(repo, gen)
	svc.SetClock(func() time.Time {
		return time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	})
	return svc, store
}

func mustScope(t *testing.T) tenancy.Scope {
	t.Helper()
	scope, err := tenancy.NewScope(uuid.New())
	if err != nil {
		t.Fatalf("scope: %v", err)
	}
	return scope
}

func TestCreatePatient_MintsCode(t *testing.T) {
	svc, _ := newTestService(newMockRepo())
	scope := mustScope(t)

	first := &Patient{FirstName: "Maria", LastName: "Santos"}
	if err := svc.CreatePatient(context.Background(), scope, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Code != "PT-2026-0001" {
		t.Errorf("code = %q, want PT-2026-0001", first.Code)
	}

	second := &Patient{FirstName: "Jose", LastName: "Reyes"}
	if err := svc.CreatePatient(context.Background(), scope, second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Code != "PT-2026-0002" {
		t.Errorf("code = %q, want PT-2026-0002", second.Code)
	}
}

func TestCreatePatient_IgnoresSpoofedOwnership(t *testing.T) {
	svc, _ := newTestService(newMockRepo())
	scope := mustScope(t)

	p := &Patient{
		FirstName: "Maria",
		LastName:  "Santos",
		ClinicID:  uuid.New(), // attacker-controlled payload field
		Code:      "PT-2026-9999",
	}
	if err := svc.CreatePatient(context.Background(), scope, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ClinicID != scope.ClinicID() {
		t.Errorf("clinic = %s, want scope clinic %s", p.ClinicID, scope.ClinicID())
	}
	if p.Code != "PT-2026-0001" {
		t.Errorf("code = %q, payload code must be discarded", p.Code)
	}
}

func TestCreatePatient_DefaultsAndValidation(t *testing.T) {
	svc, _ := newTestService(newMockRepo())
	scope := mustScope(t)

	p := &Patient{FirstName: " Maria ", LastName: " Santos "}
	if err := svc.CreatePatient(context.Background(), scope, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.FirstName != "Maria" || p.LastName != "Santos" {
		t.Errorf("names not trimmed: %q %q", p.FirstName, p.LastName)
	}
	if p.Status != "active" {
		t.Errorf("status = %q, want active", p.Status)
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt != p.CreatedAt {
		t.Errorf("timestamps not initialized: %v / %v", p.CreatedAt, p.UpdatedAt)
	}

	if err := svc.CreatePatient(context.Background(), scope, &Patient{FirstName: "Maria"}); err == nil {
		t.Error("expected error for missing last name")
	}
	if err := svc.CreatePatient(context.Background(), scope, &Patient{
		FirstName: "Maria", LastName: "Santos", Status: "frozen",
	}); err == nil {
		t.Error("expected error for invalid status")
	}
}

func TestCreatePatient_FailedInsertBurnsSequenceValue(t *testing.T) {
	repo := newMockRepo()
	svc, store := newTestService(repo)
	scope := mustScope(t)

	repo.failCreate = true
	err := svc.CreatePatient(context.Background(), scope, &Patient{FirstName: "Maria", LastName: "Santos"})
	if err == nil {
		t.Fatal("expected insert failure")
	}
	if got := store.Value(scope.ClinicID(), "patient", 2026); got != 1 {
		t.Fatalf("counter = %d, want 1 (value burned)", got)
	}

	repo.failCreate = false
	p := &Patient{FirstName: "Jose", LastName: "Reyes"}
	if err := svc.CreatePatient(context.Background(), scope, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Code != "PT-2026-0002" {
		t.Errorf("code = %q, want PT-2026-0002 after burned 0001", p.Code)
	}
}

func TestGetPatient_CrossTenant(t *testing.T) {
	repo := newMockRepo()
	svc, _ := newTestService(repo)
	owner := mustScope(t)
	other := mustScope(t)

	p := &Patient{FirstName: "Maria", LastName: "Santos"}
	if err := svc.CreatePatient(context.Background(), owner, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.GetPatient(context.Background(), owner, p.ID); err != nil {
		t.Errorf("owner read failed: %v", err)
	}
	_, err := svc.GetPatient(context.Background(), other, p.ID)
	if !errors.Is(err, tenancy.ErrCrossTenant) {
		t.Errorf("expected ErrCrossTenant, got %v", err)
	}
}

func TestUpdatePatient_PreservesIdentityFields(t *testing.T) {
	svc, _ := newTestService(newMockRepo())
	scope := mustScope(t)

	p := &Patient{FirstName: "Maria", LastName: "Santos"}
	if err := svc.CreatePatient(context.Background(), scope, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	created := p.CreatedAt

	svc.SetClock(func() time.Time {
		return time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	})
	upd := &Patient{
		ID:        p.ID,
		FirstName: "Maria Clara",
		LastName:  "Santos",
		Code:      "PT-2026-4242", // must be ignored
		ClinicID:  uuid.New(),     // must be ignored
	}
	if err := svc.UpdatePatient(context.Background(), scope, upd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upd.Code != p.Code {
		t.Errorf("code changed on update: %q -> %q", p.Code, upd.Code)
	}
	if upd.ClinicID != scope.ClinicID() {
		t.Errorf("clinic changed on update: %s", upd.ClinicID)
	}
	if upd.CreatedAt != created {
		t.Error("update must not change creation timestamp")
	}
	if !upd.UpdatedAt.After(created) {
		t.Error("update must advance the update timestamp")
	}
}

func TestUpdatePatient_CrossTenant(t *testing.T) {
	svc, _ := newTestService(newMockRepo())
	owner := mustScope(t)
	other := mustScope(t)

	p := &Patient{FirstName: "Maria", LastName: "Santos"}
	svc.CreatePatient(context.Background(), owner, p)

	err := svc.UpdatePatient(context.Background(), other, &Patient{
		ID: p.ID, FirstName: "Hijacked", LastName: "Record",
	})
	if !errors.Is(err, tenancy.ErrCrossTenant) {
		t.Errorf("expected ErrCrossTenant, got %v", err)
	}
}

func TestDeletePatient_CrossTenant(t *testing.T) {
	repo := newMockRepo()
	svc, _ := newTestService(repo)
	owner := mustScope(t)
	other := mustScope(t)

	p := &Patient{FirstName: "Maria", LastName: "Santos"}
	svc.CreatePatient(context.Background(), owner, p)

	if err := svc.DeletePatient(context.Background(), other, p.ID); !errors.Is(err, tenancy.ErrCrossTenant) {
		t.Errorf("expected ErrCrossTenant, got %v", err)
	}
	if _, ok := repo.patients[p.ID]; !ok {
		t.Error("cross-tenant delete must not remove the record")
	}
	if err := svc.DeletePatient(context.Background(), owner, p.ID); err != nil {
		t.Errorf("owner delete failed: %v", err)
	}
}

func TestListPatients_ScopedToClinic(t *testing.T) {
	svc, _ := newTestService(newMockRepo())
	clinicA := mustScope(t)
	clinicB := mustScope(t)

	svc.CreatePatient(context.Background(), clinicA, &Patient{FirstName: "Maria", LastName: "Santos"})
	svc.CreatePatient(context.Background(), clinicA, &Patient{FirstName: "Jose", LastName: "Reyes"})
	svc.CreatePatient(context.Background(), clinicB, &Patient{FirstName: "Ana", LastName: "Cruz"})

	patients, total, err := svc.ListPatients(context.Background(), clinicA, Filter{}, 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(patients) != 2 {
		t.Errorf("clinic A sees %d patients, want 2", len(patients))
	}
	for _, p := range patients {
		if p.ClinicID != clinicA.ClinicID() {
			t.Errorf("foreign record leaked into list: %s", p.ID)
		}
	}
}
