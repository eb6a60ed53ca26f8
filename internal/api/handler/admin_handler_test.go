package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/novinsoft/signup-system/internal/api/middleware"
	"github.com/novinsoft/signup-system/internal/core/domain"
	"github.com/novinsoft/signup-system/internal/core/ports"
	"github.com/novinsoft/signup-system/internal/core/token"
)

var adminSecret = []byte("admin-secret")

func adminConfig() AdminConfig {
	return AdminConfig{
		Username:   "admin",
		Password:   "hunter2",
		Secret:     adminSecret,
		SessionTTL: time.Hour,
	}
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Login tests
// ---------------------------------------------------------------------------

func TestLogin_Success(t *testing.T) {
	h := NewAdminHandler(&stubRegistrationService{}, adminConfig(), nil)
	e := newTestEcho()

	rec, c := postJSON(e, "/api/admin-login", `{"username":"admin","password":"hunter2"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatal("expected the session cookie to be set")
	}
	if !cookie.HttpOnly {
		t.Error("cookie must be HttpOnly")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Error("cookie must be SameSite=Lax")
	}
	if cookie.Path != "/" {
		t.Errorf("cookie path must be /, got %q", cookie.Path)
	}
	if cookie.MaxAge != 3600 {
		t.Errorf("cookie lifetime must match the session TTL, got %d", cookie.MaxAge)
	}

	// The cookie value is a token the gate will accept.
	if _, ok := token.Verify(cookie.Value, adminSecret, time.Now()); !ok {
		t.Error("issued cookie does not verify")
	}
}

func TestLogin_WrongCredentials(t *testing.T) {
	for name, body := range map[string]string{
		"wrong password": `{"username":"admin","password":"wrong"}`,
		"wrong username": `{"username":"root","password":"hunter2"}`,
		"empty":          `{}`,
	} {
		h := NewAdminHandler(&stubRegistrationService{}, adminConfig(), nil)
		e := newTestEcho()

		rec, c := postJSON(e, "/api/admin-login", body)
		if err := h.Login(c); err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", name, rec.Code)
		}
		if sessionCookie(rec) != nil {
			t.Errorf("%s: no cookie may be issued on failure", name)
		}
		if !strings.Contains(rec.Body.String(), "رمز یا نام کاربری اشتباه است") {
			t.Errorf("%s: expected localized message, got %s", name, rec.Body.String())
		}
	}
}

func TestLogin_BcryptHashTakesPrecedence(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cure"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	cfg := adminConfig()
	cfg.PasswordHash = string(hash)

	h := NewAdminHandler(&stubRegistrationService{}, cfg, nil)
	e := newTestEcho()

	// The plain Password field is ignored once a hash is configured.
	rec, c := postJSON(e, "/api/admin-login", `{"username":"admin","password":"hunter2"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for the plain password, got %d", rec.Code)
	}

	rec, c = postJSON(e, "/api/admin-login", `{"username":"admin","password":"s3cure"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for the hashed password, got %d", rec.Code)
	}
}

type stubLimiter struct {
	err   error
	calls int
}

func (l *stubLimiter) Allow(_ context.Context, _ string) error {
	l.calls++
	return l.err
}

func TestLogin_Throttled(t *testing.T) {
	limiter := &stubLimiter{err: fmt.Errorf("%w: 192.0.2.1", domain.ErrRateLimited)}
	h := NewAdminHandler(&stubRegistrationService{}, adminConfig(), limiter)
	e := newTestEcho()

	_, c := postJSON(e, "/api/admin-login", `{"username":"admin","password":"hunter2"}`)
	err := h.Login(c)
	if err == nil {
		t.Fatal("expected the throttle error to propagate")
	}
	if limiter.calls != 1 {
		t.Fatalf("expected 1 limiter call, got %d", limiter.calls)
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	h := NewAdminHandler(&stubRegistrationService{}, adminConfig(), nil)
	e := newTestEcho()

	rec, c := postJSON(e, "/api/admin-logout", ``)
	if err := h.Logout(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatal("expected an expiring cookie")
	}
	if cookie.MaxAge >= 0 {
		t.Errorf("expected a negative MaxAge, got %d", cookie.MaxAge)
	}
	if cookie.Value != "" {
		t.Errorf("expected an empty value, got %q", cookie.Value)
	}
}

// ---------------------------------------------------------------------------
// List / Export tests
// ---------------------------------------------------------------------------

func TestList_OK(t *testing.T) {
	now := time.Now().UTC()
	svc := &stubRegistrationService{items: []ports.RegistrationItem{
		{FirstName: "علی", LastName: "محمدی", Phone: "09123456789", CreatedAt: now},
		{FirstName: "سارا", LastName: "کریمی", Phone: "09351112233", CreatedAt: now.Add(-time.Hour)},
	}}
	h := NewAdminHandler(svc, adminConfig(), nil)
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/registrations", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"items"`) || !strings.Contains(body, "09123456789") {
		t.Errorf("unexpected body: %s", body)
	}
	if strings.Contains(body, `"id"`) {
		t.Errorf("internal id leaked into the projection: %s", body)
	}
}

func TestExport_Headers(t *testing.T) {
	svc := &stubRegistrationService{exportBytes: []byte("PK workbook bytes")}
	h := NewAdminHandler(svc, adminConfig(), nil)
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodGet, "/api/export", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Export(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderContentType); got != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("wrong content type: %q", got)
	}
	if got := rec.Header().Get(echo.HeaderContentDisposition); got != `attachment; filename="registrations.xlsx"` {
		t.Errorf("wrong content disposition: %q", got)
	}
	if rec.Body.String() != "PK workbook bytes" {
		t.Error("body must be the serialized workbook bytes")
	}
}

func TestExport_StorageErrorPropagates(t *testing.T) {
	svc := &stubRegistrationService{exportErr: fmt.Errorf("%w: unreachable", domain.ErrStorage)}
	h := NewAdminHandler(svc, adminConfig(), nil)
	e := newTestEcho()

	req := httptest.NewRequest(http.MethodGet, "/api/export", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Export(c); err == nil {
		t.Fatal("expected the storage error to propagate")
	}
	if svc.exportCalls != 1 {
		t.Fatalf("expected 1 export call, got %d", svc.exportCalls)
	}
}
