package tenancy

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func doRequest(t *testing.T, actor *Actor) (*httptest.ResponseRecorder, Scope, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
	if actor != nil {
		req = req.WithContext(WithActor(req.Context(), actor))
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotScope Scope
	var gotOK bool
	handler := Middleware()(func(c echo.Context) error {
		gotScope, gotOK = ScopeFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, gotScope, gotOK
}

func TestMiddleware_ResolvesScope(t *testing.T) {
	clinicID := uuid.New()
	rec, scope, ok := doRequest(t, &Actor{UserID: "u1", Role: "doctor", ClinicID: &clinicID})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !ok {
		t.Fatal("scope missing from handler context")
	}
	if scope.ClinicID() != clinicID {
		t.Errorf("expected clinic %s, got %s", clinicID, scope.ClinicID())
	}
}

func TestMiddleware_NoActor(t *testing.T) {
	rec, _, ok := doRequest(t, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without actor, got %d", rec.Code)
	}
	if ok {
		t.Error("handler must not run without an actor")
	}
}

func TestMiddleware_PlatformActorForbidden(t *testing.T) {
	rec, _, ok := doRequest(t, &Actor{UserID: "admin", Role: "platform-admin"})
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for actor without clinic, got %d", rec.Code)
	}
	if ok {
		t.Error("handler must not run without a scope")
	}
}
