package tenancy

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tobitaks/health-dash-be/internal/platform/sequence"
)

// HTTPError translates core errors for the serving boundary. Every handler
// routes service errors through here so the translation is applied exactly
// once, centrally:
//
//   - ErrNotFound and ErrCrossTenant both render as 404. A caller must not
//     be able to tell that a record exists in another clinic; the audit
//     trail keeps the distinction.
//   - ErrNoTenant renders as 403: the actor is authenticated but has no
//     clinic to operate in.
//   - sequence.ErrOverflow renders as 500 with a generic message. The
//     wrapped detail stays in the server log.
//
// Anything else is treated as a validation failure and rendered as 400 with
// the error text, matching how the rest of the handlers report bad input.
func HTTPError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrCrossTenant):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, ErrNoTenant):
		return echo.NewHTTPError(http.StatusForbidden, "no clinic assigned")
	case errors.Is(err, sequence.ErrOverflow):
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}
