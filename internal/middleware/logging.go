package middleware

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/peak-v1-api/internal/apperror"
)

// RequestLogger logs the start and completion of each request.  The status
// of a failed request comes from the returned error, since the error
// handler has not written the response yet.
func RequestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()
		log.Printf("Started %s %s", req.Method, req.URL.Path)

		err := next(c)

		status := c.Response().Status
		if err != nil {
			status = apperror.GetStatus(err)
		}
		log.Printf("Completed %s %s | Status: %d | Duration: %v",
			req.Method, req.URL.Path, status, time.Since(start))

		return err
	}
}
