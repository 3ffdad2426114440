// Package patient manages clinic patient records, the PT-prefixed entity.
package patient

import (
	"time"

	"github.com/google/uuid"

	"github.com/tobitaks/health-dash-be/pkg/record"
)

// Patient maps to the patients table. ClinicID and Code are assigned at
// creation and never change; Code is the clinic-facing identifier printed
// on charts and receipts.
type Patient struct {
	ID                   uuid.UUID  `db:"id" json:"id"`
	ClinicID             uuid.UUID  `db:"clinic_id" json:"clinic_id"`
	Code                 string     `db:"code" json:"code"`
	FirstName            string     `db:"first_name" json:"first_name"`
	MiddleName           *string    `db:"middle_name" json:"middle_name,omitempty"`
	LastName             string     `db:"last_name" json:"last_name"`
	Suffix               *string    `db:"suffix" json:"suffix,omitempty"`
	DateOfBirth          *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender               *string    `db:"gender" json:"gender,omitempty"`
	CivilStatus          *string    `db:"civil_status" json:"civil_status,omitempty"`
	ContactNumber        *string    `db:"contact_number" json:"contact_number,omitempty"`
	Email                *string    `db:"email" json:"email,omitempty"`
	Address              *string    `db:"address" json:"address,omitempty"`
	EmergencyName        *string    `db:"emergency_name" json:"emergency_name,omitempty"`
	EmergencyPhone       *string    `db:"emergency_phone" json:"emergency_phone,omitempty"`
	EmergencyRelation    *string    `db:"emergency_relation" json:"emergency_relation,omitempty"`
	BloodType            *string    `db:"blood_type" json:"blood_type,omitempty"`
	Allergies            []string   `db:"allergies" json:"allergies,omitempty"`
	MedicalConditions    []string   `db:"medical_conditions" json:"medical_conditions,omitempty"`
	Status               string     `db:"status" json:"status"`
	record.Timestamps
}
