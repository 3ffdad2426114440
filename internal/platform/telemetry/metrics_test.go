package telemetry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func findMetric(t *testing.T, m *Metrics, name string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		var total float64
		for _, metric := range f.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
		return total
	}
	return 0
}

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.CodeIssued("patient")
	m.CodeIssued("patient")
	m.CodeIssued("invoice")
	m.CrossTenantDenied("patient")

	if got := findMetric(t, m, "sequence_codes_issued_total"); got != 3 {
		t.Errorf("expected 3 issued codes, got %v", got)
	}
	if got := findMetric(t, m, "tenancy_cross_tenant_denials_total"); got != 1 {
		t.Errorf("expected 1 denial, got %v", got)
	}
}

func TestMetrics_ExpositionEndpoint(t *testing.T) {
	m := New()
	m.CodeIssued("patient")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := m.Handler()(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "sequence_codes_issued_total") {
		t.Error("exposition missing sequence counter")
	}
}

func TestMetrics_Middleware(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/v1/patients", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() == "http_request_duration_seconds" {
			if len(f.GetMetric()) == 0 {
				t.Error("no duration samples recorded")
			}
			return
		}
	}
	t.Error("http_request_duration_seconds not registered")
}

func TestMetrics_MiddlewareErrorStatus(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/v1/patients/:id", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/abc", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() != "http_request_duration_seconds" {
			continue
		}
		for _, metric := range f.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "status" && label.GetValue() == "404" {
					return
				}
			}
		}
		t.Error("no sample labeled with status 404")
		return
	}
	t.Error("http_request_duration_seconds not registered")
}
