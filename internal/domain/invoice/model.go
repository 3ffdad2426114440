// Package invoice manages billing records, the INV-prefixed entity. Totals
// are the plain sum of line amounts; discounts, balances and payment state
// live outside this system.
package invoice

import (
	"time"

	"github.com/google/uuid"

	"github.com/tobitaks/health-dash-be/pkg/record"
)

// Item is one invoice line. Amount is always derived server-side as
// Quantity * UnitPrice.
type Item struct {
	ID          uuid.UUID `db:"id" json:"id"`
	InvoiceID   uuid.UUID `db:"invoice_id" json:"invoice_id"`
	Description string    `db:"description" json:"description"`
	Quantity    int       `db:"quantity" json:"quantity"`
	UnitPrice   float64   `db:"unit_price" json:"unit_price"`
	Amount      float64   `db:"amount" json:"amount"`
}

type Invoice struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	ClinicID       uuid.UUID  `db:"clinic_id" json:"clinic_id"`
	Code           string     `db:"code" json:"code"`
	PatientID      uuid.UUID  `db:"patient_id" json:"patient_id"`
	ConsultationID *uuid.UUID `db:"consultation_id" json:"consultation_id,omitempty"`
	Status         string     `db:"status" json:"status"`
	Currency       string     `db:"currency" json:"currency"`
	Total          float64    `db:"total" json:"total"`
	IssuedAt       time.Time  `db:"issued_at" json:"issued_at"`
	Notes          *string    `db:"notes" json:"notes,omitempty"`
	Items          []Item     `db:"-" json:"items"`
	record.Timestamps
}
