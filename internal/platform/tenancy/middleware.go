package tenancy

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Middleware resolves the clinic scope for every request in a group. It runs
// after authentication: the actor must already be on the request context.
// Requests from actors without a clinic assignment are rejected here, before
// any handler runs, so no tenant-scoped route can be reached without a scope.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			actor := ActorFromContext(ctx)
			if actor == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			scope, err := Resolve(actor)
			if err != nil {
				return HTTPError(err)
			}

			c.SetRequest(c.Request().WithContext(WithScope(ctx, scope)))
			return next(c)
		}
	}
}
