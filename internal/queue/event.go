// Package queue defines message payloads exchanged over the message broker
// and the consumer that logs them.
package queue

// Probe outcomes carried by ProbeCompletedEvent.Outcome.
const (
	OutcomeConnected   = "connected"
	OutcomeUnavailable = "unavailable"
	OutcomeMisconfig   = "misconfigured"
)

// ProbeCompletedEvent is published after every /health/db request.  It never
// carries credentials or driver error text, only the failure category.
type ProbeCompletedEvent struct {
	Service    string  `json:"service"`
	Outcome    string  `json:"outcome"`
	Category   string  `json:"category,omitempty"`
	Host       *string `json:"host"`
	Port       *int    `json:"port"`
	Name       *string `json:"name"`
	DurationMs int64   `json:"duration_ms"`
	CheckedAt  string  `json:"checked_at"`
}
