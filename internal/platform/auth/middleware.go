// Package auth authenticates requests and places the acting user on the
// request context. Its only job toward the core is supplying the tenant
// context: the clinic comes from the verified token claims, never from
// ordinary request headers, query parameters, or payloads.
package auth

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tobitaks/health-dash-be/internal/platform/tenancy"
)

// Claims are the JWT claims the server issues and accepts. ClinicID is empty
// for platform-level users.
type Claims struct {
	jwt.RegisteredClaims
	Email    string `json:"email"`
	Role     string `json:"role"`
	ClinicID string `json:"clinic_id,omitempty"`
}

// JWT returns middleware validating HS256 bearer tokens signed with secret.
// On success the actor is placed on the request context for the tenancy
// middleware and handlers.
func JWT(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			actor := &tenancy.Actor{
				UserID: claims.Subject,
				Email:  claims.Email,
				Role:   claims.Role,
			}
			if claims.ClinicID != "" {
				clinicID, err := uuid.Parse(claims.ClinicID)
				if err != nil {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
				actor.ClinicID = &clinicID
			}

			ctx := tenancy.WithActor(c.Request().Context(), actor)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// Dev returns middleware seeding the actor from X-Dev-* headers for local
// development. Config.Validate refuses this mode in production.
func Dev() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			actor := &tenancy.Actor{
				UserID: req.Header.Get("X-Dev-User"),
				Role:   req.Header.Get("X-Dev-Role"),
			}
			if actor.UserID == "" {
				actor.UserID = "dev-user"
			}
			if actor.Role == "" {
				actor.Role = "administrator"
			}
			if raw := req.Header.Get("X-Dev-Clinic"); raw != "" {
				clinicID, err := uuid.Parse(raw)
				if err != nil {
					return echo.NewHTTPError(http.StatusBadRequest, "invalid X-Dev-Clinic header")
				}
				actor.ClinicID = &clinicID
			}

			ctx := tenancy.WithActor(req.Context(), actor)
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}
