package medicine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tobitaks/health-dash-be/internal/platform/tenancy"
)

var validForms = map[string]bool{
	"tablet":      true,
	"capsule":     true,
	"syrup":       true,
	"suspension":  true,
	"injection":   true,
	"cream":       true,
	"ointment":    true,
	"gel":         true,
	"drops":       true,
	"inhaler":     true,
	"nasal_spray": true,
	"powder":      true,
	"softgel":     true,
	"suppository": true,
	"patch":       true,
	"solution":    true,
	"lotion":      true,
	"nebule":      true,
}

var validCategories = map[string]bool{
	"antibiotic":       true,
	"analgesic":        true,
	"antipyretic":      true,
	"antihistamine":    true,
	"antihypertensive": true,
	"antidiabetic":     true,
	"antacid":          true,
	"bronchodilator":   true,
	"corticosteroid":   true,
	"vitamin":          true,
	"nsaid":            true,
	"antiemetic":       true,
	"antidiarrheal":    true,
	"laxative":         true,
	"antifungal":       true,
	"antiviral":        true,
	"cardiovascular":   true,
	"cns":              true,
	"dermatological":   true,
	"ophthalmic":       true,
	"otic":             true,
	"other":            true,
}

type Service struct {
	repo  Repository
	audit *tenancy.Auditor
	now   func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) SetAuditor(a *tenancy.Auditor) { s.audit = a }

func (s *Service) SetClock(now func() time.Time) { s.now = now }

func (s *Service) CreateMedicine(ctx context.Context, scope tenancy.Scope, m *Medicine) error {
	if err := validate(m); err != nil {
		return err
	}
	m.Active = true
	m.Timestamps.Init(s.now().UTC())
	return s.repo.Create(ctx, scope, m)
}

func (s *Service) GetMedicine(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*Medicine, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := tenancy.AssertSameTenant(m.ClinicID, scope); err != nil {
		s.audit.CrossTenantDenied(ctx, scope, "medicine", id)
		return nil, err
	}
	return m, nil
}

func (s *Service) UpdateMedicine(ctx context.Context, scope tenancy.Scope, m *Medicine) error {
	existing, err := s.GetMedicine(ctx, scope, m.ID)
	if err != nil {
		return err
	}
	if err := validate(m); err != nil {
		return err
	}
	m.ClinicID = existing.ClinicID
	m.CreatedAt = existing.CreatedAt
	m.Active = existing.Active
	m.Touch(s.now().UTC())
	return s.repo.Update(ctx, scope, m)
}

// DeactivateMedicine pulls an entry from the formulary without deleting the
// row, so prescriptions written against it keep their reference.
func (s *Service) DeactivateMedicine(ctx context.Context, scope tenancy.Scope, id uuid.UUID) error {
	if _, err := s.GetMedicine(ctx, scope, id); err != nil {
		return err
	}
	return s.repo.Deactivate(ctx, scope, id)
}

func (s *Service) ListMedicines(ctx context.Context, scope tenancy.Scope, f Filter, limit, offset int) ([]*Medicine, int, error) {
	return s.repo.List(ctx, scope, f, limit, offset)
}

func validate(m *Medicine) error {
	m.GenericName = strings.TrimSpace(m.GenericName)
	m.Strength = strings.TrimSpace(m.Strength)
	if m.GenericName == "" {
		return fmt.Errorf("generic name is required")
	}
	if m.Strength == "" {
		return fmt.Errorf("strength is required")
	}
	if !validForms[m.Form] {
		return fmt.Errorf("invalid form: %s", m.Form)
	}
	if m.Category == "" {
		m.Category = "other"
	}
	if !validCategories[m.Category] {
		return fmt.Errorf("invalid category: %s", m.Category)
	}
	if m.DefaultQuantity != nil && *m.DefaultQuantity <= 0 {
		return fmt.Errorf("default quantity must be positive")
	}
	return nil
}
