package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"crypto/subtle" // constant-time comparison of the presented key

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/peak-v1-api/internal/apperror"
	"github.com/iliyamo/peak-v1-api/internal/config"
)

// HeaderAPIKey is the request header carrying the shared secret.
const HeaderAPIKey = "X-API-Key"

// APIKeyAuth returns an Echo middleware that gates every request on the
// shared secret.  expected is read once at startup from PEAK_API_KEY:
//
//   - expected empty: every request fails with a configuration error (500)
//     naming PEAK_API_KEY, whatever the caller sent.
//   - header missing or not byte-for-byte equal: 401 with a generic message.
//   - match: the request proceeds unmodified.
func APIKeyAuth(expected string) echo.MiddlewareFunc {
	want := []byte(expected)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if len(want) == 0 {
				return apperror.Config(config.EnvAPIKey)
			}
			got := c.Request().Header.Get(HeaderAPIKey)
			if got == "" || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
				return apperror.ErrInvalidAPIKey
			}
			return next(c)
		}
	}
}
