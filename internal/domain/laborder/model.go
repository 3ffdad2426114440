// Package laborder manages laboratory orders, the LAB-prefixed entity.
package laborder

import (
	"time"

	"github.com/google/uuid"

	"github.com/tobitaks/health-dash-be/pkg/record"
)

// LabTest is one requested test, persisted inside the tests JSONB array.
// Result and ReferenceRange are filled in when the order completes.
type LabTest struct {
	Name           string `json:"name"`
	Result         string `json:"result,omitempty"`
	ReferenceRange string `json:"reference_range,omitempty"`
}

type LabOrder struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	ClinicID       uuid.UUID  `db:"clinic_id" json:"clinic_id"`
	Code           string     `db:"code" json:"code"`
	PatientID      uuid.UUID  `db:"patient_id" json:"patient_id"`
	ConsultationID *uuid.UUID `db:"consultation_id" json:"consultation_id,omitempty"`
	Tests          []LabTest  `db:"tests" json:"tests"`
	Status         string     `db:"status" json:"status"`
	Notes          *string    `db:"notes" json:"notes,omitempty"`
	OrderedAt      time.Time  `db:"ordered_at" json:"ordered_at"`
	record.Timestamps
}
