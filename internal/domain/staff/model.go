// Package staff manages clinic staff accounts. Staff carry no display code
// and are soft-deactivated, never hard-deleted, so audit references to past
// providers stay resolvable.
package staff

import (
	"github.com/google/uuid"

	"github.com/tobitaks/health-dash-be/pkg/record"
)

type Staff struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ClinicID  uuid.UUID `db:"clinic_id" json:"clinic_id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Email     string    `db:"email" json:"email"`
	Role      string    `db:"role" json:"role"`
	Owner     bool      `db:"owner" json:"owner"`
	Active    bool      `db:"active" json:"active"`
	record.Timestamps
}
