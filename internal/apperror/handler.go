package apperror

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Response is the body written for every failed request.
type Response struct {
	Detail string `json:"detail"`
}

// HTTPErrorHandler replaces echo's default handler so that application
// errors, router errors (404/405) and unexpected errors share one shape.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := GetStatus(err)
	if status >= http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, Response{Detail: GetMessage(err)})
	}
	if writeErr != nil {
		c.Logger().Error(writeErr)
	}
}
