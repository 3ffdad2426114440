package tenancy

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DenialRecorder receives cross-tenant denial events, typically to bump a
// metrics counter. Decoupled as an interface so the telemetry package stays
// optional and tests can observe denials directly.
type DenialRecorder interface {
	CrossTenantDenied(entity string)
}

// Auditor records isolation events on the internal audit trail. The HTTP
// response for a cross-tenant attempt is a plain 404; this is where the real
// cause is kept.
type Auditor struct {
	logger   zerolog.Logger
	recorder DenialRecorder
}

// NewAuditor creates an auditor writing to the given logger.
func NewAuditor(logger zerolog.Logger) *Auditor {
	return &Auditor{logger: logger}
}

// SetRecorder attaches an optional denial recorder.
func (a *Auditor) SetRecorder(r DenialRecorder) {
	a.recorder = r
}

// CrossTenantDenied logs a direct-access attempt on another clinic's record.
// Safe on a nil auditor so services can run without one in tests.
func (a *Auditor) CrossTenantDenied(ctx context.Context, scope Scope, entity string, recordID uuid.UUID) {
	if a == nil {
		return
	}

	evt := a.logger.Warn().
		Str("event", "cross_tenant_denied").
		Str("clinic_id", scope.ClinicID().String()).
		Str("entity", entity).
		Str("record_id", recordID.String()).
		Time("at", time.Now().UTC())

	if actor := ActorFromContext(ctx); actor != nil {
		evt = evt.Str("actor_id", actor.UserID).Str("actor_role", actor.Role)
	}

	evt.Msg("cross-tenant access denied")

	if a.recorder != nil {
		a.recorder.CrossTenantDenied(entity)
	}
}
