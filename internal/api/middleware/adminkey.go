package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/novinsoft/signup-system/internal/api/metrics"
)

// AdminKey authorizes direct API access with a static shared secret, passed
// as the "key" query parameter or the X-Admin-Key header. It is independent
// of the cookie session: a route declares exactly one of the two checks,
// and passing one never satisfies the other.
//
// A missing key is 401, a wrong key is 403. Neither response says which.
func AdminKey(key string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			supplied := c.QueryParam("key")
			if supplied == "" {
				supplied = c.Request().Header.Get("X-Admin-Key")
			}
			if supplied == "" {
				metrics.AuthDeniedTotal.WithLabelValues("admin_key").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing admin key")
			}
			if key == "" || subtle.ConstantTimeCompare([]byte(supplied), []byte(key)) != 1 {
				metrics.AuthDeniedTotal.WithLabelValues("admin_key").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "invalid admin key")
			}
			return next(c)
		}
	}
}
