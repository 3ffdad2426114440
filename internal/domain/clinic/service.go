package clinic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultTimezone = "Asia/Manila"
	defaultCurrency = "PHP"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// SetClock overrides the clock, for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// CreateClinic onboards a new tenant.
func (s *Service) CreateClinic(ctx context.Context, c *Clinic) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	if c.Currency == "" {
		c.Currency = defaultCurrency
	}
	c.Active = true
	c.Timestamps.Init(s.now().UTC())
	return s.repo.Create(ctx, c)
}

func (s *Service) GetClinic(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateClinic(ctx context.Context, c *Clinic) error {
	existing, err := s.repo.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.Timezone == "" {
		c.Timezone = existing.Timezone
	}
	if c.Currency == "" {
		c.Currency = existing.Currency
	}
	c.Active = existing.Active
	c.CreatedAt = existing.CreatedAt
	c.Touch(s.now().UTC())
	return s.repo.Update(ctx, c)
}

// DeactivateClinic soft-retires a tenant. Its records and counters remain.
func (s *Service) DeactivateClinic(ctx context.Context, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, id)
}

func (s *Service) ListClinics(ctx context.Context, limit, offset int) ([]*Clinic, int, error) {
	return s.repo.List(ctx, limit, offset)
}
