package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/novinsoft/signup-system/internal/api/handler"
	"github.com/novinsoft/signup-system/internal/api/middleware"
	"github.com/novinsoft/signup-system/internal/core/domain"
	"github.com/novinsoft/signup-system/internal/core/ports"
	"github.com/novinsoft/signup-system/internal/core/token"
)

type stubService struct {
	registerErr   error
	listErr       error
	registerCalls int
	listCalls     int
	exportCalls   int
}

func (s *stubService) Register(_ context.Context, _ ports.RegisterInput) (string, error) {
	s.registerCalls++
	if s.registerErr != nil {
		return "", s.registerErr
	}
	return "id-1", nil
}

func (s *stubService) List(_ context.Context) ([]ports.RegistrationItem, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return []ports.RegistrationItem{}, nil
}

func (s *stubService) Export(_ context.Context) ([]byte, error) {
	s.exportCalls++
	return []byte("workbook"), nil
}

const testAdminKey = "k3y"

var testSecret = []byte("router-secret")

func newTestRouter(svc ports.RegistrationService) *echo.Echo {
	return NewRouter(Deps{
		Service: svc,
		Admin: handler.AdminConfig{
			Username:   "admin",
			Password:   "hunter2",
			Secret:     testSecret,
			SessionTTL: time.Hour,
		},
		AdminKey: testAdminKey,
		Logger:   zerolog.Nop(),
	})
}

func do(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_ListWithoutAnyCredentialNeverHitsStore(t *testing.T) {
	svc := &stubService{}
	e := newTestRouter(svc)

	rec := do(e, httptest.NewRequest(http.MethodGet, "/api/admin/registrations", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if svc.listCalls != 0 {
		t.Fatalf("store must never be reached without authorization, got %d calls", svc.listCalls)
	}
}

func TestRouter_ExportWithoutKeyNeverHitsStore(t *testing.T) {
	svc := &stubService{}
	e := newTestRouter(svc)

	rec := do(e, httptest.NewRequest(http.MethodGet, "/api/export", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if svc.exportCalls != 0 {
		t.Fatal("export must never run without the admin key")
	}
}

func TestRouter_CookieDoesNotSatisfyKeyCheck(t *testing.T) {
	// The two capability checks are independent: a valid session cookie
	// must not open the key-gated API.
	svc := &stubService{}
	e := newTestRouter(svc)

	tok, _ := token.Sign(token.Claims{Sub: "admin", Exp: time.Now().Add(time.Hour).Unix()}, testSecret)
	req := httptest.NewRequest(http.MethodGet, "/api/export", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: tok})
	rec := do(e, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if svc.exportCalls != 0 {
		t.Fatal("cookie must not satisfy the key check")
	}
}

func TestRouter_ExportWithKey(t *testing.T) {
	svc := &stubService{}
	e := newTestRouter(svc)

	rec := do(e, httptest.NewRequest(http.MethodGet, "/api/export?key="+testAdminKey, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.exportCalls != 1 {
		t.Fatalf("expected 1 export call, got %d", svc.exportCalls)
	}
}

func TestRouter_ExportRejectsNonGET(t *testing.T) {
	svc := &stubService{}
	e := newTestRouter(svc)

	rec := do(e, httptest.NewRequest(http.MethodPost, "/api/export?key="+testAdminKey, nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestRouter_AdminPageRedirectsWithoutSession(t *testing.T) {
	svc := &stubService{}
	e := newTestRouter(svc)

	rec := do(e, httptest.NewRequest(http.MethodGet, "/admin", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/admin/login?next=") {
		t.Errorf("unexpected redirect target: %q", loc)
	}
}

func TestRouter_RegisterBypassesGate(t *testing.T) {
	svc := &stubService{}
	e := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/register",
		strings.NewReader(`{"firstName":"علی","lastName":"محمدی","phone":"09123456789"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := do(e, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.registerCalls != 1 {
		t.Fatalf("expected 1 register call, got %d", svc.registerCalls)
	}
}

func TestRouter_ValidationErrorIsLocalized400(t *testing.T) {
	svc := &stubService{}
	e := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/register",
		strings.NewReader(`{"firstName":"علی"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := do(e, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "اطلاعات ناقص") {
		t.Errorf("expected localized message, got %s", rec.Body.String())
	}
}

func TestRouter_StorageErrorBodyHidesDriverDetail(t *testing.T) {
	svc := &stubService{
		registerErr: fmt.Errorf("%w: Error 2002 (HY000): connection refused", domain.ErrStorage),
	}
	e := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/register",
		strings.NewReader(`{"firstName":"علی","lastName":"محمدی","phone":"0912"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := do(e, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "2002") || strings.Contains(body, "connection refused") {
		t.Errorf("driver detail leaked to the client: %s", body)
	}
	if !strings.Contains(body, "internal server error") {
		t.Errorf("expected the generic message, got %s", body)
	}
}

func TestRouter_HealthBypassesGate(t *testing.T) {
	e := newTestRouter(&stubService{})

	rec := do(e, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
