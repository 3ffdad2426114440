// Package appointment manages scheduled visits, the APT-prefixed entity.
package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/tobitaks/health-dash-be/pkg/record"
)

type Appointment struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	ClinicID        uuid.UUID  `db:"clinic_id" json:"clinic_id"`
	Code            string     `db:"code" json:"code"`
	PatientID       uuid.UUID  `db:"patient_id" json:"patient_id"`
	StaffID         *uuid.UUID `db:"staff_id" json:"staff_id,omitempty"`
	ScheduledAt     time.Time  `db:"scheduled_at" json:"scheduled_at"`
	DurationMinutes int        `db:"duration_minutes" json:"duration_minutes"`
	Reason          string     `db:"reason" json:"reason"`
	Status          string     `db:"status" json:"status"`
	Notes           *string    `db:"notes" json:"notes,omitempty"`
	record.Timestamps
}
