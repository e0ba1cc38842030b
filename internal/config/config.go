package config // package config loads application configuration from environment variables

import (
	"os"   // os provides access to environment variables
	"time" // time parses the connect timeout

	"github.com/iliyamo/peak-v1-api/internal/database"
)

// Service metadata reported by the welcome and health endpoints and logged at startup.
const (
	ServiceName        = "Peak V1 API"
	ServiceDescription = "Backend API for Peak application"
	ServiceVersion     = "1.0.0"
)

// Environment variable names that handlers report back to operators when a
// required value is missing.
const (
	EnvAPIKey      = "PEAK_API_KEY"
	EnvDatabaseURL = "DATABASE_URL"
)

// Config holds all runtime configuration values.  It is built once at
// startup and passed by value to the router, handlers and middleware; nothing
// mutates it afterwards.  APIKey and DatabaseURL may be empty: the gate and
// the probe report that per request instead of aborting startup.
type Config struct {
	Env              string        // application environment (e.g. "dev", "prod")
	Port             string        // HTTP port to listen on
	APIKey           string        // shared secret expected in X-API-Key (empty when unset)
	AuthEnabled      bool          // whether the API-key gate wraps every route
	DatabaseURL      string        // connection URL probed by /health/db (empty when unset)
	DBProbeEnabled   bool          // whether /health/db is registered
	DBConnectTimeout time.Duration // bound on opening the probe connection
}

// Load reads configuration values from environment variables and returns a
// Config.  Booleans and durations that fail to parse fall back to their
// defaults.
func Load() Config {
	return Config{
		Env:              envStr("APP_ENV", "dev"),
		Port:             envStr("APP_PORT", "8000"),
		APIKey:           os.Getenv(EnvAPIKey),
		AuthEnabled:      envBool("PEAK_AUTH_ENABLED", true),
		DatabaseURL:      os.Getenv(EnvDatabaseURL),
		DBProbeEnabled:   envBool("PEAK_DB_PROBE_ENABLED", true),
		DBConnectTimeout: connectTimeout(envDur("DB_CONNECT_TIMEOUT", database.DefaultConnectTimeout)),
	}
}

func connectTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return database.DefaultConnectTimeout
	}
	return d
}
