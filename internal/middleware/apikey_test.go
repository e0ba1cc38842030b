package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/peak-v1-api/internal/apperror"
	"github.com/iliyamo/peak-v1-api/internal/middleware"
)

func newGatedEcho(expected string) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = apperror.HTTPErrorHandler
	e.Use(middleware.APIKeyAuth(expected))
	e.GET("/", func(c echo.Context) error { return c.JSON(http.StatusOK, echo.Map{"ok": true}) })
	return e
}

func TestAPIKeyAuth(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		expected string
		header   *string
		status   int
		detail   string
	}{
		{name: "key unset, no header", expected: "", header: nil, status: http.StatusInternalServerError, detail: "Server configuration error: PEAK_API_KEY not set"},
		{name: "key unset, header sent", expected: "", header: strPtr("anything"), status: http.StatusInternalServerError, detail: "Server configuration error: PEAK_API_KEY not set"},
		{name: "missing header", expected: "s3cret", header: nil, status: http.StatusUnauthorized, detail: "Invalid or missing API key"},
		{name: "empty header", expected: "s3cret", header: strPtr(""), status: http.StatusUnauthorized, detail: "Invalid or missing API key"},
		{name: "wrong key", expected: "s3cret", header: strPtr("s3cre"), status: http.StatusUnauthorized, detail: "Invalid or missing API key"},
		{name: "case differs", expected: "s3cret", header: strPtr("S3CRET"), status: http.StatusUnauthorized, detail: "Invalid or missing API key"},
		{name: "match", expected: "s3cret", header: strPtr("s3cret"), status: http.StatusOK},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			e := newGatedEcho(tc.expected)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != nil {
				req.Header.Set(middleware.HeaderAPIKey, *tc.header)
			}
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			if tc.detail != "" {
				var body apperror.Response
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tc.detail, body.Detail)
				if tc.expected != "" {
					assert.NotContains(t, rec.Body.String(), tc.expected)
				}
			}
		})
	}
}

func strPtr(s string) *string { return &s }
