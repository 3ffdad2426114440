// Package medicine manages the per-clinic formulary, the drug catalog a
// clinic prescribes from. Entries carry no display code and deactivate
// rather than delete, so prescription items that reference them stay
// resolvable.
package medicine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/tobitaks/health-dash-be/pkg/record"
)

type Medicine struct {
	ID              uuid.UUID `db:"id" json:"id"`
	ClinicID        uuid.UUID `db:"clinic_id" json:"clinic_id"`
	GenericName     string    `db:"generic_name" json:"generic_name"`
	BrandName       *string   `db:"brand_name" json:"brand_name,omitempty"`
	Strength        string    `db:"strength" json:"strength"`
	Form            string    `db:"form" json:"form"`
	Category        string    `db:"category" json:"category"`
	DefaultSig      *string   `db:"default_sig" json:"default_sig,omitempty"`
	DefaultQuantity *int      `db:"default_quantity" json:"default_quantity,omitempty"`
	Notes           *string   `db:"notes" json:"notes,omitempty"`
	Active          bool      `db:"active" json:"active"`
	record.Timestamps
}

// DisplayName is the label shown in prescription pickers, e.g.
// "Amoxicillin (Amoxil) 500mg capsule".
func (m *Medicine) DisplayName() string {
	name := m.GenericName
	if m.BrandName != nil && *m.BrandName != "" {
		name = fmt.Sprintf("%s (%s)", name, *m.BrandName)
	}
	return fmt.Sprintf("%s %s %s", name, m.Strength, m.Form)
}
