package laborder

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
	g.POST("/lab-orders", h.CreateLabOrder)
	g.GET("/lab-orders", h.ListLabOrders)
	g.GET("/lab-orders/:id", h.GetLabOrder)
	g.PUT("/lab-orders/:id", h.UpdateLabOrder)
}

func scopeOf(c echo.Context) (tenancy.Scope, error) {
	scope, ok := tenancy.ScopeFromContext(c.Request().Context())
	if !ok {
		return tenancy.Scope{}, tenancy.HTTPError(tenancy.ErrNoTenant)
	}
	return scope, nil
}

func (h *Handler) CreateLabOrder(c echo.Context) error {
	scope, err := scopeOf(c)
	if err != nil {
		return err
	}
	var o LabOrder
	if err := c.Bind(&o); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateLabOrder(c.Request().Context(), scope, &o); err != nil {
		return tenancy.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, o)
}

func (h *Handler) GetLabOrder(c echo.Context) error {
	scope, err := scopeOf(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	o, err := h.svc.GetLabOrder(c.Request().Context(), scope, id)
	if err != nil {
		return tenancy.HTTPError(err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *Handler) ListLabOrders(c echo.Context) error {
	scope, err := scopeOf(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	f := Filter{Status: c.QueryParam("status")}
	if raw := c.QueryParam("patient_id"); raw != "" {
		pid, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id filter")
		}
		f.PatientID = pid
	}
	orders, total, err := h.svc.ListLabOrders(c.Request().Context(), scope, f, pg.Limit, pg.Offset)
	if err != nil {
		return tenancy.HTTPError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(orders, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateLabOrder(c echo.Context) error {
	scope, err := scopeOf(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var o LabOrder
	if err := c.Bind(&o); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	o.ID = id
	if err := h.svc.UpdateLabOrder(c.Request().Context(), scope, &o); err != nil {
		return tenancy.HTTPError(err)
	}
	return c.JSON(http.StatusOK, o)
}
