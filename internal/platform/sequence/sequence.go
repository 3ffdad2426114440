// Package sequence mints the human-readable display codes carried by clinic
// records: PT-2026-0001, INV-2026-0001 and so on. Codes are unique per
// (clinic, entity type, year) and monotonically increasing in commit order.
// The counter behind each key is advanced by a single atomic
// increment-and-return, never read-modify-written, so concurrent creations
// can never receive the same value. Aborted creations burn their value;
// gaps are accepted, duplicates are not.
package sequence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrOverflow means a counter outgrew its kind's zero-padded width. The
// generator fails loudly rather than truncating or silently widening, since
// either would produce ambiguous codes.
var ErrOverflow = errors.New("sequence exceeds code width")

// Kind fixes the code shape for one entity type. Width is set at
// configuration time and never changes for issued codes.
type Kind struct {
	Entity string // counter key segment, e.g. "patient"
	Prefix string // code prefix, e.g. "PT"
	Width  int    // zero-padded digits in the sequence part
}

// CounterStore is the persistence contract for sequence counters. Increment
// advances the counter for (clinicID, entity, year) and returns the new
// value as one indivisible operation; a missing counter starts at 1 in the
// same step.
type CounterStore interface {
	Increment(ctx context.Context, clinicID uuid.UUID, entity string, year int) (int64, error)
}

// Recorder observes issued codes, typically for metrics.
type Recorder interface {
	CodeIssued(entity string)
}

// Generator mints codes from a CounterStore and a clock.
type Generator struct {
	store    CounterStore
	now      func() time.Time
	recorder Recorder
}

// NewGenerator creates a generator over the given store using wall-clock time.
func NewGenerator(store CounterStore) *Generator {
	return &Generator{store: store, now: time.Now}
}

// SetClock overrides the clock, for tests and year-rollover scenarios.
func (g *Generator) SetClock(now func() time.Time) {
	g.now = now
}

// SetRecorder attaches an optional issue recorder.
func (g *Generator) SetRecorder(r Recorder) {
	g.recorder = r
}

// Next mints the next code for the clinic and kind in the current year.
func (g *Generator) Next(ctx context.Context, clinicID uuid.UUID, kind Kind) (string, error) {
	return g.NextForYear(ctx, clinicID, kind, g.now().UTC().Year())
}

// NextForYear mints the next code for an explicit year. The year is part of
// the counter key, so the first creation of a new year starts a fresh
// counter at 1 while prior years' counters stay frozen for auditing.
func (g *Generator) NextForYear(ctx context.Context, clinicID uuid.UUID, kind Kind, year int) (string, error) {
	if clinicID == uuid.Nil {
		return "", fmt.Errorf("sequence %s: clinic id is required", kind.Entity)
	}

	value, err := g.store.Increment(ctx, clinicID, kind.Entity, year)
	if err != nil {
		return "", fmt.Errorf("increment %s counter: %w", kind.Entity, err)
	}

	if value >= pow10(kind.Width) {
		return "", fmt.Errorf("%s counter at %d for clinic %s year %d: %w",
			kind.Entity, value, clinicID, year, ErrOverflow)
	}

	if g.recorder != nil {
		g.recorder.CodeIssued(kind.Entity)
	}
	return fmt.Sprintf("%s-%d-%0*d", kind.Prefix, year, kind.Width, value), nil
}

func pow10(n int) int64 {
	v := int64(1)
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}
