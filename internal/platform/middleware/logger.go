package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tobitaks/health-dash-be/internal/platform/tenancy"
)

// Logger emits one structured line per request. Clinic and actor are added
// when the request ran under a resolved scope, so log queries can be cut per
// tenant.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)

			rid, _ := c.Get("request_id").(string)

			evt := logger.Info()
			if err != nil {
				evt = logger.Error().Err(err)
			}

			evt = evt.
				Str("request_id", rid).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", responseStatus(c, err)).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP())

			ctx := c.Request().Context()
			if scope, ok := tenancy.ScopeFromContext(ctx); ok {
				evt = evt.Str("clinic_id", scope.ClinicID().String())
			}
			if actor := tenancy.ActorFromContext(ctx); actor != nil {
				evt = evt.Str("actor_id", actor.UserID)
			}

			evt.Msg("request")
			return err
		}
	}
}
