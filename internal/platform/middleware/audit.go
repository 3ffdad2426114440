package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tobitaks/health-dash-be/internal/platform/tenancy"
)

// AuditEntry captures who touched which clinic records, when, and how.
type AuditEntry struct {
	ActorID   string
	ActorRole string
	ClinicID  string
	Entity    string
	Action    string // read, create, update, delete
	Method    string
	Path      string
	RequestID string
	IPAddress string
	Status    int
	Timestamp time.Time
}

// AuditRecorder persists audit entries. Decoupled from the middleware so
// tests can capture entries in memory.
type AuditRecorder interface {
	RecordAccess(entry AuditEntry) error
}

// AuditRecorderFunc adapts a function to AuditRecorder.
type AuditRecorderFunc func(entry AuditEntry) error

func (f AuditRecorderFunc) RecordAccess(entry AuditEntry) error {
	return f(entry)
}

// Audit logs every record access under /api/v1 on the internal audit trail.
// Together with the tenancy auditor's denial events this is the trail that
// distinguishes cross-tenant attempts from genuine not-found responses.
func Audit(logger zerolog.Logger, recorders ...AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path
			if !strings.HasPrefix(path, "/api/v1/") {
				return next(c)
			}

			// Run the handler first so the response status is known.
			err := next(c)

			entry := AuditEntry{
				Action:    methodToAction(req.Method),
				Entity:    entityFromPath(path),
				Method:    req.Method,
				Path:      path,
				IPAddress: c.RealIP(),
				Status:    responseStatus(c, err),
				Timestamp: time.Now().UTC(),
			}
			if rid, ok := c.Get("request_id").(string); ok {
				entry.RequestID = rid
			}

			ctx := req.Context()
			if actor := tenancy.ActorFromContext(ctx); actor != nil {
				entry.ActorID = actor.UserID
				entry.ActorRole = actor.Role
			}
			if scope, ok := tenancy.ScopeFromContext(ctx); ok {
				entry.ClinicID = scope.ClinicID().String()
			}

			if len(recorders) > 0 && recorders[0] != nil {
				if recErr := recorders[0].RecordAccess(entry); recErr != nil {
					logger.Error().Err(recErr).
						Str("request_id", entry.RequestID).
						Msg("failed to record audit entry")
				}
			}

			logger.Info().
				Str("event", "record_access").
				Str("request_id", entry.RequestID).
				Str("actor_id", entry.ActorID).
				Str("actor_role", entry.ActorRole).
				Str("clinic_id", entry.ClinicID).
				Str("entity", entry.Entity).
				Str("action", entry.Action).
				Int("status", entry.Status).
				Msg("audit")

			return err
		}
	}
}

// responseStatus resolves the status a request is answered with. When the
// handler returned an error the response is not committed yet, so the status
// has to come from the error rather than the ResponseWriter.
func responseStatus(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

func methodToAction(method string) string {
	switch method {
	case "POST":
		return "create"
	case "PUT", "PATCH":
		return "update"
	case "DELETE":
		return "delete"
	default:
		return "read"
	}
}

// entityFromPath extracts the resource segment from an API path, e.g.
// "/api/v1/patients/123" -> "patients".
func entityFromPath(path string) string {
	rest := strings.TrimPrefix(path, "/api/v1/")
	if idx := strings.IndexByte(rest, '/'); idx >= 0 {
		rest = rest[:idx]
	}
	return rest
}
