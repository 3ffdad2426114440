package consultation

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tobitaks/health-dash-be/internal/platform/tenancy"
	"github.com/tobitaks/health-dash-be/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/consultations", h.CreateConsultation)
	g.GET("/consultations", h.ListConsultations)
	g.GET("/consultations/:id", h.GetConsultation)
	g.PUT("/consultations/:id", h.UpdateConsultation)
}

func scopeOf(c echo.Context) (tenancy.Scope, error) {
	scope, ok := tenancy.ScopeFromContext(c.Request().Context())
	if !ok {
		return tenancy.Scope{}, tenancy.HTTPError(tenancy.ErrNoTenant)
	}
	return scope, nil
}

func (h *Handler) CreateConsultation(c echo.Context) error {
	scope, err := scopeOf(c)
	if err != nil {
		return err
	}
	var con Consultation
	if err := c.Bind(&con); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateConsultation(c.Request().Context(), scope, &con); err != nil {
		return tenancy.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, con)
}

func (h *Handler) GetConsultation(c echo.Context) error {
	scope, err := scopeOf(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	con, err := h.svc.GetConsultation(c.Request().Context(), scope, id)
	if err != nil {
		return tenancy.HTTPError(err)
	}
	return c.JSON(http.StatusOK, con)
}

func (h *Handler) ListConsultations(c echo.Context) error {
	scope, err := scopeOf(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	var f Filter
	if raw := c.QueryParam("patient_id"); raw != "" {
		pid, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id filter")
		}
		f.PatientID = pid
	}
	cons, total, err := h.svc.ListConsultations(c.Request().Context(), scope, f, pg.Limit, pg.Offset)
	if err != nil {
		return tenancy.HTTPError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(cons, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateConsultation(c echo.Context) error {
	scope, err := scopeOf(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var con Consultation
	if err := c.Bind(&con); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	con.ID = id
	if err := h.svc.UpdateConsultation(c.Request().Context(), scope, &con); err != nil {
		return tenancy.HTTPError(err)
	}
	return c.JSON(http.StatusOK, con)
}
