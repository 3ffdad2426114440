package tenancy

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type memRecorder struct {
	denials map[string]int
}

func (r *memRecorder) CrossTenantDenied(entity string) {
	if r.denials == nil {
		r.denials = make(map[string]int)
	}
	r.denials[entity]++
}

func TestAuditor_CrossTenantDenied(t *testing.T) {
	var buf bytes.Buffer
	auditor := NewAuditor(zerolog.New(&buf))
	rec := &memRecorder{}
	auditor.SetRecorder(rec)

	clinicID := uuid.New()
	scope, _ := NewScope(clinicID)
	recordID := uuid.New()
	ctx := WithActor(context.Background(), &Actor{UserID: "u1", Role: "doctor", ClinicID: &clinicID})

	auditor.CrossTenantDenied(ctx, scope, "patient", recordID)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("audit log is not json: %v", err)
	}
	if entry["event"] != "cross_tenant_denied" {
		t.Errorf("expected cross_tenant_denied event, got %v", entry["event"])
	}
	if entry["clinic_id"] != clinicID.String() {
		t.Errorf("expected clinic %s, got %v", clinicID, entry["clinic_id"])
	}
	if entry["actor_id"] != "u1" {
		t.Errorf("expected actor u1, got %v", entry["actor_id"])
	}
	if rec.denials["patient"] != 1 {
		t.Errorf("expected 1 recorded denial, got %d", rec.denials["patient"])
	}
}

func TestAuditor_NilSafe(t *testing.T) {
	var auditor *Auditor
	scope, _ := NewScope(uuid.New())
	// Must not panic.
	auditor.CrossTenantDenied(context.Background(), scope, "patient", uuid.New())
}
