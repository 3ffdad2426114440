// Package clinic manages the tenants themselves. Clinic routes are
// tenant-agnostic and restricted to platform operators; everything else in
// the system hangs off a clinic id minted here.
package clinic

import (
	"github.com/google/uuid"

	"github.com/tobitaks/health-dash-be/pkg/record"
)

// Clinic maps to the clinics table. A clinic is never hard-deleted; offboarding
// flips Active so historical records and counters stay intact.
type Clinic struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	ContactNumber *string   `db:"contact_number" json:"contact_number,omitempty"`
	Email         *string   `db:"email" json:"email,omitempty"`
	Address       *string   `db:"address" json:"address,omitempty"`
	Timezone      string    `db:"timezone" json:"timezone"`
	Currency      string    `db:"currency" json:"currency"`
	Active        bool      `db:"active" json:"active"`
	record.Timestamps
}
