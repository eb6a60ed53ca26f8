package handler

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/novinsoft/signup-system/internal/api/metrics"
	"github.com/novinsoft/signup-system/internal/api/middleware"
	"github.com/novinsoft/signup-system/internal/core/domain"
	"github.com/novinsoft/signup-system/internal/core/ports"
	"github.com/novinsoft/signup-system/internal/core/token"
)

// LoginLimiter throttles admin login attempts per client, typically backed
// by Redis. A nil limiter disables throttling.
type LoginLimiter interface {
	// Allow returns domain.ErrRateLimited when the client is over budget.
	// Infrastructure failures fail open: logins keep working when the
	// limiter backend is down.
	Allow(ctx context.Context, clientIP string) error
}

// AdminConfig carries the credentials and session settings for the admin
// surface. When PasswordHash is set it takes precedence over Password and
// is compared with bcrypt; otherwise the plain password is compared in
// constant time.
type AdminConfig struct {
	Username     string
	Password     string
	PasswordHash string
	Secret       []byte
	SessionTTL   time.Duration
}

// AdminHandler handles admin login/logout and the protected list and export
// endpoints.
type AdminHandler struct {
	service ports.RegistrationService
	cfg     AdminConfig
	limiter LoginLimiter
}

func NewAdminHandler(service ports.RegistrationService, cfg AdminConfig, limiter LoginLimiter) *AdminHandler {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = time.Hour
	}
	return &AdminHandler{service: service, cfg: cfg, limiter: limiter}
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type listResponse struct {
	Items []ports.RegistrationItem `json:"items"`
}

// Login handles POST /api/admin-login. On success it issues the signed
// session cookie the gate verifies; on failure it answers 401 without
// distinguishing the username from the password check.
func (h *AdminHandler) Login(c echo.Context) error {
	if h.limiter != nil {
		if err := h.limiter.Allow(c.Request().Context(), c.RealIP()); err != nil {
			if errors.Is(err, domain.ErrRateLimited) {
				metrics.LoginAttemptsTotal.WithLabelValues("throttled").Inc()
				return err
			}
			// Limiter backend down: fail open, the error was logged there.
		}
	}

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if !h.credentialsMatch(req.Username, req.Password) {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return c.JSON(http.StatusUnauthorized, messageResponse{Message: "رمز یا نام کاربری اشتباه است"})
	}

	exp := time.Now().Add(h.cfg.SessionTTL)
	tok, err := token.Sign(token.Claims{Sub: req.Username, Exp: exp.Unix()}, h.cfg.Secret)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.cfg.SessionTTL.Seconds()),
	})

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, okResponse{OK: true})
}

// Logout handles POST /api/admin-logout. It only clears the cookie; tokens
// already issued stay valid until their exp (no revocation list).
func (h *AdminHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	return c.JSON(http.StatusOK, okResponse{OK: true})
}

// List handles GET /api/admin/registrations.
func (h *AdminHandler) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Items: items})
}

// Export handles GET /api/export, answering the workbook as a download.
func (h *AdminHandler) Export(c echo.Context) error {
	data, err := h.service.Export(c.Request().Context())
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="registrations.xlsx"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *AdminHandler) credentialsMatch(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.cfg.Username)) == 1

	var passOK bool
	if h.cfg.PasswordHash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(h.cfg.PasswordHash), []byte(password)) == nil
	} else {
		passOK = h.cfg.Password != "" &&
			subtle.ConstantTimeCompare([]byte(password), []byte(h.cfg.Password)) == 1
	}

	return userOK && passOK
}
