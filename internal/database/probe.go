package database

import (
	"context"
	"database/sql"
	"time"
)

// DefaultConnectTimeout bounds how long the probe waits for a connection.
const DefaultConnectTimeout = 5 * time.Second

const checkQuery = "SELECT 1"

// OpenFunc opens a database handle.  sql.Open is the default; tests swap in
// a sqlmock handle.
type OpenFunc func(driver, dsn string) (*sql.DB, error)

// Result is what a successful probe reports.
type Result struct {
	Check int64
	Host  *string
	Port  *int
	Name  *string
}

// Prober checks connectivity to the database behind a connection URL.  Every
// call opens its own handle and closes it before returning: nothing is
// pooled or shared between calls.
type Prober struct {
	ConnectTimeout time.Duration
	Open           OpenFunc
}

func NewProber(connectTimeout time.Duration) *Prober {
	return &Prober{ConnectTimeout: connectTimeout, Open: sql.Open}
}

// Probe parses rawURL, connects within the connect timeout, runs SELECT 1
// and scans the single value.  All failures are *ProbeError.
func (p *Prober) Probe(ctx context.Context, rawURL string) (Result, error) {
	timeout := p.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	target, err := ParseURL(rawURL, timeout)
	if err != nil {
		return Result{}, &ProbeError{Category: classify(err, CategoryInvalidURL), Err: err}
	}

	open := p.Open
	if open == nil {
		open = sql.Open
	}
	db, err := open(target.Driver, target.DSN)
	if err != nil {
		return Result{}, &ProbeError{Category: classify(err, CategoryConnectionError), Err: err}
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	connCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	conn, err := db.Conn(connCtx)
	if err != nil {
		return Result{}, &ProbeError{Category: classify(err, CategoryConnectionError), Err: err}
	}
	defer conn.Close()

	var check int64
	if err := conn.QueryRowContext(ctx, checkQuery).Scan(&check); err != nil {
		return Result{}, &ProbeError{Category: classify(err, CategoryQueryFailed), Err: err}
	}

	return Result{
		Check: check,
		Host:  target.Host,
		Port:  target.Port,
		Name:  target.Name,
	}, nil
}
