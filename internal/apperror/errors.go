// Package apperror defines the errors handlers and middleware return, each
// carrying the HTTP status it renders with.  The echo error handler in
// handler.go turns them into {"detail": "..."} bodies.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("http error: status = %d detail = %s", e.Status, e.Message)
}

var (
	ErrInvalidAPIKey  = &Error{Status: http.StatusUnauthorized, Message: "Invalid or missing API key"}
	ErrInternalServer = &Error{Status: http.StatusInternalServerError, Message: "internal server error"}
)

// Config reports operator misconfiguration: a required environment variable
// is not set.  The variable name is part of the message.
func Config(envVar string) *Error {
	return &Error{
		Status:  http.StatusInternalServerError,
		Message: fmt.Sprintf("Server configuration error: %s not set", envVar),
	}
}

// Unavailable reports a failed dependency.  Only the failure category is
// included so driver errors never leak hosts or credentials.
func Unavailable(category string) *Error {
	return &Error{
		Status:  http.StatusServiceUnavailable,
		Message: fmt.Sprintf("Database connection failed: %s", category),
	}
}

func GetStatus(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	return http.StatusInternalServerError
}

func GetMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if msg, ok := httpErr.Message.(string); ok {
			return msg
		}
		return http.StatusText(httpErr.Code)
	}
	return ErrInternalServer.Message
}
