package invoice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tobitaks/health-dash-be/internal/platform/sequence"
	"github.com/tobitaks/health-dash-be/internal/platform/tenancy"
)

var invoiceKind = sequence.Kind{Entity: "invoice", Prefix: "INV", Width: 4}

var validStatuses = map[string]bool{
	"draft":     true,
	"pending":   true,
	"paid":      true,
	"cancelled": true,
}

const defaultCurrency = "PHP"

type Service struct {
	repo  Repository
	codes *sequence.Generator
	audit *tenancy.Auditor
	now   func() time.Time
}

func NewService(repo Repository, codes *sequence.Generator) *Service {
	return &Service{repo: repo, codes: codes, now: time.Now}
}

func (s *Service) SetAuditor(a *tenancy.Auditor) { s.audit = a }

func (s *Service) SetClock(now func() time.Time) { s.now = now }

func (s *Service) CreateInvoice(ctx context.Context, scope tenancy.Scope, inv *Invoice) error {
	if inv.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if err := priceItems(inv); err != nil {
		return err
	}
	if inv.Status == "" {
		inv.Status = "draft"
	}
	if !validStatuses[inv.Status] {
		return fmt.Errorf("invalid status: %s", inv.Status)
	}
	if inv.Currency == "" {
		inv.Currency = defaultCurrency
	}
	if inv.IssuedAt.IsZero() {
		inv.IssuedAt = s.now().UTC()
	}

	code, err := s.codes.Next(ctx, scope.ClinicID(), invoiceKind)
	if err != nil {
		return err
	}
	inv.Code = code
	inv.Timestamps.Init(s.now().UTC())
	return s.repo.Create(ctx, scope, inv)
}

func (s *Service) GetInvoice(ctx context.Context, scope tenancy.Scope, id uuid.UUID) (*Invoice, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := tenancy.AssertSameTenant(inv.ClinicID, scope); err != nil {
		s.audit.CrossTenantDenied(ctx, scope, "invoice", id)
		return nil, err
	}
	return inv, nil
}

func (s *Service) UpdateInvoice(ctx context.Context, scope tenancy.Scope, inv *Invoice) error {
	existing, err := s.GetInvoice(ctx, scope, inv.ID)
	if err != nil {
		return err
	}
	if inv.PatientID == uuid.Nil {
		inv.PatientID = existing.PatientID
	}
	if len(inv.Items) == 0 {
		inv.Items = existing.Items
	}
	if err := priceItems(inv); err != nil {
		return err
	}
	if inv.Status == "" {
		inv.Status = existing.Status
	}
	if !validStatuses[inv.Status] {
		return fmt.Errorf("invalid status: %s", inv.Status)
	}
	if inv.Currency == "" {
		inv.Currency = existing.Currency
	}
	if inv.IssuedAt.IsZero() {
		inv.IssuedAt = existing.IssuedAt
	}

	inv.Code = existing.Code
	inv.ClinicID = existing.ClinicID
	inv.CreatedAt = existing.CreatedAt
	inv.Touch(s.now().UTC())
	return s.repo.Update(ctx, scope, inv)
}

func (s *Service) ListInvoices(ctx context.Context, scope tenancy.Scope, f Filter, limit, offset int) ([]*Invoice, int, error) {
	return s.repo.List(ctx, scope, f, limit, offset)
}

// priceItems derives each line amount and the invoice total. Client-supplied
// amounts and totals are always recomputed.
func priceItems(inv *Invoice) error {
	if len(inv.Items) == 0 {
		return fmt.Errorf("at least one line item is required")
	}
	total := 0.0
	for i := range inv.Items {
		item := &inv.Items[i]
		if strings.TrimSpace(item.Description) == "" {
			return fmt.Errorf("item %d: description is required", i+1)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("item %d: quantity must be positive", i+1)
		}
		if item.UnitPrice < 0 {
			return fmt.Errorf("item %d: unit price must not be negative", i+1)
		}
		item.Amount = float64(item.Quantity) * item.UnitPrice
		total += item.Amount
	}
	inv.Total = total
	return nil
}
