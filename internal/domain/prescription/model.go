// Package prescription manages issued prescriptions, the RX-prefixed entity.
package prescription

import (
	"time"

	"github.com/google/uuid"

	"github.com/tobitaks/health-dash-be/pkg/record"
)

// Medication is one line item of a prescription, persisted inside the
// medications JSONB array. MedicineID optionally links the line to a
// formulary entry; free-text lines without one are equally valid.
type Medication struct {
	MedicineID   *uuid.UUID `json:"medicine_id,omitempty"`
	Name         string     `json:"name"`
	Dosage       string     `json:"dosage"`
	Frequency    string     `json:"frequency"`
	Duration     string     `json:"duration"`
	Instructions string     `json:"instructions,omitempty"`
}

type Prescription struct {
	ID             uuid.UUID    `db:"id" json:"id"`
	ClinicID       uuid.UUID    `db:"clinic_id" json:"clinic_id"`
	Code           string       `db:"code" json:"code"`
	PatientID      uuid.UUID    `db:"patient_id" json:"patient_id"`
	ConsultationID *uuid.UUID   `db:"consultation_id" json:"consultation_id,omitempty"`
	Medications    []Medication `db:"medications" json:"medications"`
	Notes          *string      `db:"notes" json:"notes,omitempty"`
	PrescribedAt   time.Time    `db:"prescribed_at" json:"prescribed_at"`
	record.Timestamps
}
