package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tobitaks/health-dash-be/internal/platform/tenancy"
)

// The clinic staff role set. Role gates are coarse on purpose; fine-grained
// permissions are not this layer's concern.
const (
	RoleAdministrator = "administrator"
	RoleDoctor        = "doctor"
	RoleNurse         = "nurse"
	RoleSecretary     = "secretary"
	RoleCashier       = "cashier"

	// RolePlatformAdmin is the platform operator role. It carries no clinic
	// and may only call tenant-agnostic routes.
	RolePlatformAdmin = "platform-admin"
)

// ValidStaffRole reports whether role is one of the clinic staff roles.
func ValidStaffRole(role string) bool {
	switch role {
	case RoleAdministrator, RoleDoctor, RoleNurse, RoleSecretary, RoleCashier:
		return true
	}
	return false
}

// RequireRole returns middleware rejecting actors whose role is not in the
// given set.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := tenancy.ActorFromContext(c.Request().Context())
			if actor == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			for _, required := range roles {
				if actor.Role == required {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("required role: %s", strings.Join(roles, " or ")))
		}
	}
}
