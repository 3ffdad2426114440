package integration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tobitaks/health-dash-be/internal/platform/sequence"
)

// Each clinic's numbering starts at 0001 regardless of what other clinics
// have issued, and codes come out of the full service path.
func TestSequenceCodesPerClinic(t *testing.T) {
	ctx := context.Background()
	scopeA := newTestClinic(t, ctx, "Sequence Clinic A")
	scopeB := newTestClinic(t, ctx, "Sequence Clinic B")

	svc := newPatientService()
	year := time.Now().UTC().Year()

	a1 := createTestPatient(t, ctx, svc, scopeA, "First", "OfA")
	a2 := createTestPatient(t, ctx, svc, scopeA, "Second", "OfA")
	a3 := createTestPatient(t, ctx, svc, scopeA, "Third", "OfA")
	b1 := createTestPatient(t, ctx, svc, scopeB, "First", "OfB")

	if want := fmt.Sprintf("PT-%d-0001", year); a1.Code != want {
		t.Errorf("clinic A first code = %s, want %s", a1.Code, want)
	}
	if want := fmt.Sprintf("PT-%d-0002", year); a2.Code != want {
		t.Errorf("clinic A second code = %s, want %s", a2.Code, want)
	}
	if want := fmt.Sprintf("PT-%d-0003", year); a3.Code != want {
		t.Errorf("clinic A third code = %s, want %s", a3.Code, want)
	}
	if want := fmt.Sprintf("PT-%d-0001", year); b1.Code != want {
		t.Errorf("clinic B first code = %s, want %s", b1.Code, want)
	}
}

// Concurrent creations for the same (clinic, entity, year) must never mint
// the same value. The counter is advanced by a single upsert-returning
// statement, so this holds across connections, not just goroutines.
func TestSequenceConcurrentMints(t *testing.T) {
	ctx := context.Background()
	scope := newTestClinic(t, ctx, "Concurrent Clinic")

	gen := newCodes()
	kind := sequence.Kind{Entity: "stress", Prefix: "ST", Width: 4}

	const n = 25
	codes := make([]string, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i], errs[i] = gen.Next(ctx, scope.ClinicID(), kind)
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("mint %d: %v", i, errs[i])
		}
		if seen[codes[i]] {
			t.Fatalf("duplicate code minted: %s", codes[i])
		}
		seen[codes[i]] = true
	}

	// All values 1..n must be present: contiguous under success, no skips.
	year := time.Now().UTC().Year()
	for v := 1; v <= n; v++ {
		code := fmt.Sprintf("ST-%d-%04d", year, v)
		if !seen[code] {
			t.Errorf("missing code %s", code)
		}
	}
}

// A new year starts a fresh counter; the old year's counter keeps counting
// where it left off if a backdated record is ever issued.
func TestSequenceYearRollover(t *testing.T) {
	ctx := context.Background()
	scope := newTestClinic(t, ctx, "Rollover Clinic")

	gen := newCodes()
	kind := sequence.Kind{Entity: "rollover", Prefix: "RO", Width: 4}

	for i := 1; i <= 3; i++ {
		code, err := gen.NextForYear(ctx, scope.ClinicID(), kind, 2025)
		if err != nil {
			t.Fatalf("mint 2025 #%d: %v", i, err)
		}
		if want := fmt.Sprintf("RO-2025-%04d", i); code != want {
			t.Errorf("2025 code = %s, want %s", code, want)
		}
	}

	code, err := gen.NextForYear(ctx, scope.ClinicID(), kind, 2026)
	if err != nil {
		t.Fatalf("mint 2026: %v", err)
	}
	if code != "RO-2026-0001" {
		t.Errorf("first 2026 code = %s, want RO-2026-0001", code)
	}

	code, err = gen.NextForYear(ctx, scope.ClinicID(), kind, 2025)
	if err != nil {
		t.Fatalf("mint 2025 again: %v", err)
	}
	if code != "RO-2025-0004" {
		t.Errorf("2025 counter after rollover = %s, want RO-2025-0004", code)
	}
}

// Entity types count independently within one clinic.
func TestSequenceIndependentEntities(t *testing.T) {
	ctx := context.Background()
	scope := newTestClinic(t, ctx, "Entities Clinic")

	gen := newCodes()
	year := time.Now().UTC().Year()

	first, err := gen.Next(ctx, scope.ClinicID(), sequence.Kind{Entity: "alpha", Prefix: "AL", Width: 4})
	if err != nil {
		t.Fatalf("mint alpha: %v", err)
	}
	second, err := gen.Next(ctx, scope.ClinicID(), sequence.Kind{Entity: "beta", Prefix: "BE", Width: 4})
	if err != nil {
		t.Fatalf("mint beta: %v", err)
	}

	if want := fmt.Sprintf("AL-%d-0001", year); first != want {
		t.Errorf("alpha code = %s, want %s", first, want)
	}
	if want := fmt.Sprintf("BE-%d-0001", year); second != want {
		t.Errorf("beta code = %s, want %s", second, want)
	}
}

// The generator refuses to issue a code wider than its kind allows.
func TestSequenceOverflow(t *testing.T) {
	ctx := context.Background()
	scope := newTestClinic(t, ctx, "Overflow Clinic")

	gen := newCodes()
	kind := sequence.Kind{Entity: "tiny", Prefix: "TN", Width: 1}

	for i := 1; i <= 9; i++ {
		if _, err := gen.Next(ctx, scope.ClinicID(), kind); err != nil {
			t.Fatalf("mint %d: %v", i, err)
		}
	}
	if _, err := gen.Next(ctx, scope.ClinicID(), kind); !errors.Is(err, sequence.ErrOverflow) {
		t.Errorf("10th mint err = %v, want ErrOverflow", err)
	}
}
