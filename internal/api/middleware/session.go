package middleware

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/novinsoft/signup-system/internal/api/metrics"
	"github.com/novinsoft/signup-system/internal/core/token"
)

// SessionCookieName is the cookie carrying the signed admin session token.
const SessionCookieName = "admin_auth"

// SessionGateConfig controls the cookie gate.
type SessionGateConfig struct {
	// Secret signs and verifies session tokens. Loaded once at process
	// start; rotation is out of scope.
	Secret []byte
	// LoginPath is the authentication entry point unauthenticated requests
	// are redirected to. The originally requested path is attached as the
	// "next" query parameter.
	LoginPath string
	// ExemptPrefixes bypass the gate unconditionally: the public signup
	// surface, all API entry points (which carry their own key check),
	// probes and static assets.
	ExemptPrefixes []string
	// Now is the clock used for expiry checks. Defaults to time.Now;
	// overridable in tests.
	Now func() time.Time
}

// SessionGate protects the admin browsing surface. It runs before any route
// handler: exempt prefixes pass through, everything else needs a session
// cookie whose token still verifies. Failures redirect rather than 401 —
// this surface is browsed by a human, not called by a client.
//
// The gate is stateless: a pure function of (path, cookies, now, secret).
func SessionGate(cfg SessionGateConfig) echo.MiddlewareFunc {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, prefix := range cfg.ExemptPrefixes {
				if strings.HasPrefix(path, prefix) {
					return next(c)
				}
			}

			if cookie, err := c.Cookie(SessionCookieName); err == nil {
				if _, ok := token.Verify(cookie.Value, cfg.Secret, now()); ok {
					return next(c)
				}
			}

			metrics.AuthDeniedTotal.WithLabelValues("session").Inc()
			return c.Redirect(http.StatusFound,
				cfg.LoginPath+"?next="+url.QueryEscape(path))
		}
	}
}
