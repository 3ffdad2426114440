// Package consultation stores visit records, the CONS-prefixed entity. This
// is a plain record store; it does not model clinical workflow.
package consultation

import (
	"time"

	"github.com/google/uuid"

	"github.com/tobitaks/health-dash-be/pkg/record"
)

// Vitals is a free-form measurement map (e.g. "bp", "temp_c", "pulse")
// persisted as JSONB. Keys are clinic convention, not a fixed schema.
type Vitals map[string]interface{}

type Consultation struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	ClinicID       uuid.UUID  `db:"clinic_id" json:"clinic_id"`
	Code           string     `db:"code" json:"code"`
	PatientID      uuid.UUID  `db:"patient_id" json:"patient_id"`
	AppointmentID  *uuid.UUID `db:"appointment_id" json:"appointment_id,omitempty"`
	ChiefComplaint string     `db:"chief_complaint" json:"chief_complaint"`
	Diagnosis      *string    `db:"diagnosis" json:"diagnosis,omitempty"`
	TreatmentPlan  *string    `db:"treatment_plan" json:"treatment_plan,omitempty"`
	Vitals         Vitals     `db:"vitals" json:"vitals,omitempty"`
	Notes          *string    `db:"notes" json:"notes,omitempty"`
	ConsultedAt    time.Time  `db:"consulted_at" json:"consulted_at"`
	record.Timestamps
}
