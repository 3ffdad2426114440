package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tobitaks/health-dash-be/internal/platform/tenancy"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, claims *Claims, secret []byte) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func runJWT(t *testing.T, authHeader string) (*httptest.ResponseRecorder, *tenancy.Actor) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var actor *tenancy.Actor
	handler := JWT(testSecret)(func(c echo.Context) error {
		actor = tenancy.ActorFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, actor
}

func TestJWT_ValidToken(t *testing.T) {
	clinicID := uuid.New()
	token := signToken(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email:    "doc@clinic.test",
		Role:     RoleDoctor,
		ClinicID: clinicID.String(),
	}, testSecret)

	rec, actor := runJWT(t, "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if actor == nil {
		t.Fatal("actor missing from context")
	}
	if actor.UserID != "user-1" || actor.Role != RoleDoctor {
		t.Errorf("unexpected actor: %+v", actor)
	}
	if actor.ClinicID == nil || *actor.ClinicID != clinicID {
		t.Errorf("expected clinic %s, got %v", clinicID, actor.ClinicID)
	}
}

func TestJWT_PlatformToken_NoClinic(t *testing.T) {
	token := signToken(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ops-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: RolePlatformAdmin,
	}, testSecret)

	rec, actor := runJWT(t, "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if actor.ClinicID != nil {
		t.Errorf("platform actor must have nil clinic, got %v", actor.ClinicID)
	}
}

func TestJWT_Expired(t *testing.T) {
	token := signToken(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		Role: RoleDoctor,
	}, testSecret)

	rec, _ := runJWT(t, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for expired token, got %d", rec.Code)
	}
}

func TestJWT_WrongSecret(t *testing.T) {
	token := signToken(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, []byte("other-secret"))

	rec, _ := runJWT(t, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad signature, got %d", rec.Code)
	}
}

func TestJWT_MissingHeader(t *testing.T) {
	rec, _ := runJWT(t, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without header, got %d", rec.Code)
	}
}

func TestJWT_MalformedClinicClaim(t *testing.T) {
	token := signToken(t, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		ClinicID: "not-a-uuid",
	}, testSecret)

	rec, _ := runJWT(t, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for malformed clinic claim, got %d", rec.Code)
	}
}

func TestDev_SeedsActorFromHeaders(t *testing.T) {
	e := echo.New()
	clinicID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Dev-User", "alice")
	req.Header.Set("X-Dev-Role", RoleNurse)
	req.Header.Set("X-Dev-Clinic", clinicID.String())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var actor *tenancy.Actor
	handler := Dev()(func(c echo.Context) error {
		actor = tenancy.ActorFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if actor.UserID != "alice" || actor.Role != RoleNurse {
		t.Errorf("unexpected actor: %+v", actor)
	}
	if actor.ClinicID == nil || *actor.ClinicID != clinicID {
		t.Errorf("expected clinic %s, got %v", clinicID, actor.ClinicID)
	}
}

func TestDev_Defaults(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var actor *tenancy.Actor
	handler := Dev()(func(c echo.Context) error {
		actor = tenancy.ActorFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if actor.UserID != "dev-user" || actor.Role != RoleAdministrator {
		t.Errorf("unexpected defaults: %+v", actor)
	}
	if actor.ClinicID != nil {
		t.Errorf("expected nil clinic without header, got %v", actor.ClinicID)
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()

	run := func(role string, required ...string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(tenancy.WithActor(req.Context(), &tenancy.Actor{UserID: "u", Role: role}))
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		handler := RequireRole(required...)(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		if err := handler(c); err != nil {
			e.HTTPErrorHandler(err, c)
		}
		return rec.Code
	}

	if code := run(RoleDoctor, RoleDoctor, RoleNurse); code != http.StatusOK {
		t.Errorf("doctor should pass doctor/nurse gate, got %d", code)
	}
	if code := run(RoleCashier, RoleDoctor); code != http.StatusForbidden {
		t.Errorf("cashier should fail doctor gate, got %d", code)
	}
	if code := run(RoleAdministrator, RolePlatformAdmin); code != http.StatusForbidden {
		t.Errorf("clinic administrator is not a platform admin, got %d", code)
	}
}

func TestValidStaffRole(t *testing.T) {
	for _, role := range []string{RoleAdministrator, RoleDoctor, RoleNurse, RoleSecretary, RoleCashier} {
		if !ValidStaffRole(role) {
			t.Errorf("%s should be valid", role)
		}
	}
	if ValidStaffRole(RolePlatformAdmin) {
		t.Error("platform-admin is not a clinic staff role")
	}
	if ValidStaffRole("janitor") {
		t.Error("unknown role should be invalid")
	}
}
