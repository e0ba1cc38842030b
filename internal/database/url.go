package database

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// ErrUnsupportedScheme is returned for URLs whose scheme has no registered driver.
var ErrUnsupportedScheme = errors.New("unsupported database scheme")

// Target is a parsed DATABASE_URL: the driver and DSN to open, plus the
// host, port and database name reported back by the probe.  Each of the
// reported fields is nil when the URL does not carry it.
type Target struct {
	Driver string
	DSN    string
	Host   *string
	Port   *int
	Name   *string
}

// ParseURL turns scheme://[user[:pass]@]host[:port]/dbname into a Target.
// Driver suffixes such as postgresql+asyncpg are accepted and ignored.
// timeout becomes the driver-level connect timeout.
func ParseURL(raw string, timeout time.Duration) (Target, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, err
	}

	var t Target
	if h := u.Hostname(); h != "" {
		t.Host = &h
	}
	if p := u.Port(); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Target{}, fmt.Errorf("invalid port %q", p)
		}
		t.Port = &n
	}
	if name := strings.TrimPrefix(u.Path, "/"); name != "" {
		t.Name = &name
	}

	scheme, _, _ := strings.Cut(strings.ToLower(u.Scheme), "+")
	switch scheme {
	case "postgres", "postgresql":
		t.Driver = "postgres"
		t.DSN = postgresDSN(u, timeout)
	case "mysql":
		t.Driver = "mysql"
		t.DSN = mysqlDSN(u, t, timeout)
	default:
		return Target{}, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	return t, nil
}

// postgresDSN keeps the URL form lib/pq understands and adds connect_timeout
// unless the URL already sets one.
func postgresDSN(u *url.URL, timeout time.Duration) string {
	dsn := *u
	dsn.Scheme = "postgres"
	q := dsn.Query()
	if q.Get("connect_timeout") == "" {
		q.Set("connect_timeout", strconv.Itoa(timeoutSeconds(timeout)))
	}
	dsn.RawQuery = q.Encode()
	return dsn.String()
}

func mysqlDSN(u *url.URL, t Target, timeout time.Duration) string {
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	host, port := "localhost", "3306"
	if t.Host != nil {
		host = *t.Host
	}
	if t.Port != nil {
		port = strconv.Itoa(*t.Port)
	}
	cfg.Addr = net.JoinHostPort(host, port)
	if t.Name != nil {
		cfg.DBName = *t.Name
	}
	cfg.Timeout = timeout
	return cfg.FormatDSN()
}

// lib/pq takes whole seconds; anything below one second rounds up.
func timeoutSeconds(d time.Duration) int {
	s := int((d + time.Second - 1) / time.Second)
	if s < 1 {
		return 1
	}
	return s
}
