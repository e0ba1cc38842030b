package database

import (
	"context"
	"errors"
	"net"
	"syscall"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// Failure categories reported in 503 responses.  They name the kind of
// failure only; the underlying error stays in the server log.
const (
	CategoryInvalidURL        = "InvalidURL"
	CategoryUnsupportedScheme = "UnsupportedScheme"
	CategoryTimeout           = "Timeout"
	CategoryConnectionRefused = "ConnectionRefused"
	CategoryHostNotFound      = "HostNotFound"
	CategoryAuthFailed        = "AuthenticationFailed"
	CategoryDatabaseNotFound  = "DatabaseNotFound"
	CategoryDatabaseError     = "DatabaseError"
	CategoryConnectionError   = "ConnectionError"
	CategoryQueryFailed       = "QueryFailed"
)

// ProbeError is returned by Prober.Probe for every connection or query failure.
type ProbeError struct {
	Category string
	Err      error
}

func (e *ProbeError) Error() string { return e.Category + ": " + e.Err.Error() }

func (e *ProbeError) Unwrap() error { return e.Err }

// classify maps a driver or network error to a category.  fallback is used
// when nothing more specific matches.
func classify(err error, fallback string) string {
	var (
		pqErr  *pq.Error
		myErr  *mysql.MySQLError
		dnsErr *net.DNSError
		netErr net.Error
	)
	switch {
	case errors.Is(err, ErrUnsupportedScheme):
		return CategoryUnsupportedScheme
	case errors.Is(err, context.DeadlineExceeded):
		return CategoryTimeout
	case errors.As(err, &pqErr):
		switch pqErr.Code.Class() {
		case "28": // invalid_authorization_specification
			return CategoryAuthFailed
		case "3D": // invalid_catalog_name
			return CategoryDatabaseNotFound
		}
		return CategoryDatabaseError
	case errors.As(err, &myErr):
		switch myErr.Number {
		case 1044, 1045:
			return CategoryAuthFailed
		case 1049:
			return CategoryDatabaseNotFound
		}
		return CategoryDatabaseError
	case errors.As(err, &dnsErr):
		return CategoryHostNotFound
	case errors.Is(err, syscall.ECONNREFUSED):
		return CategoryConnectionRefused
	case errors.As(err, &netErr) && netErr.Timeout():
		return CategoryTimeout
	}
	return fallback
}
