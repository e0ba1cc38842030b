package handler // declare the package name; contains HTTP handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4" // echo is the web framework used for this project

	"github.com/iliyamo/peak-v1-api/internal/apperror"
	"github.com/iliyamo/peak-v1-api/internal/config"
	"github.com/iliyamo/peak-v1-api/internal/database"
	"github.com/iliyamo/peak-v1-api/internal/queue"
)

const statusHealthy = "healthy"

// maxPendingEvents caps probe events being delivered at once.  Further
// events are dropped until a slot frees up.
const maxPendingEvents = 4

type WelcomeResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// DBHealthResponse is the /health/db success body.  Host, Port and Name
// serialize as null when DATABASE_URL does not carry them.
type DBHealthResponse struct {
	Status   string  `json:"status"`
	Service  string  `json:"service"`
	Database string  `json:"database"`
	Check    int64   `json:"check"`
	Host     *string `json:"host"`
	Port     *int    `json:"port"`
	Name     *string `json:"name"`
}

// Prober runs one database connectivity check.
type Prober interface {
	Probe(ctx context.Context, rawURL string) (database.Result, error)
}

// EventPublisher receives the outcome of every database probe.
type EventPublisher interface {
	PublishProbeCompleted(ctx context.Context, event queue.ProbeCompletedEvent) error
}

// HealthHandler bundles dependencies for the welcome and health endpoints.
// Events may be nil, in which case no probe events are published.  Build it
// with NewHealthHandler.
type HealthHandler struct {
	Cfg    config.Config
	Prober Prober
	Events EventPublisher

	pending chan struct{}
}

func NewHealthHandler(cfg config.Config, p Prober, events EventPublisher) *HealthHandler {
	return &HealthHandler{
		Cfg:     cfg,
		Prober:  p,
		Events:  events,
		pending: make(chan struct{}, maxPendingEvents),
	}
}

// Root returns the fixed welcome message.
func (h *HealthHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, WelcomeResponse{Message: "Welcome to " + config.ServiceName})
}

// Health is the liveness check: it succeeds whenever the process can serve
// a request and never touches the database.
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: statusHealthy, Service: config.ServiceName})
}

// DatabaseHealth probes DATABASE_URL with a fresh connection.  The probe is
// detached from the request context so a client disconnect does not cut it
// short; the connect timeout still bounds it.
func (h *HealthHandler) DatabaseHealth(c echo.Context) error {
	start := time.Now()
	if h.Cfg.DatabaseURL == "" {
		h.publish(queue.ProbeCompletedEvent{Outcome: queue.OutcomeMisconfig, Category: "DatabaseURLNotSet"}, start)
		return apperror.Config(config.EnvDatabaseURL)
	}

	res, err := h.Prober.Probe(context.WithoutCancel(c.Request().Context()), h.Cfg.DatabaseURL)
	if err != nil {
		category := database.CategoryConnectionError
		var probeErr *database.ProbeError
		if errors.As(err, &probeErr) {
			category = probeErr.Category
		}
		c.Logger().Warnf("database probe failed: %v", err)
		h.publish(queue.ProbeCompletedEvent{Outcome: queue.OutcomeUnavailable, Category: category}, start)
		return apperror.Unavailable(category)
	}

	h.publish(queue.ProbeCompletedEvent{
		Outcome: queue.OutcomeConnected,
		Host:    res.Host,
		Port:    res.Port,
		Name:    res.Name,
	}, start)

	return c.JSON(http.StatusOK, DBHealthResponse{
		Status:   statusHealthy,
		Service:  config.ServiceName,
		Database: "connected",
		Check:    res.Check,
		Host:     res.Host,
		Port:     res.Port,
		Name:     res.Name,
	})
}

// publish fires the event in the background; broker trouble is logged by
// the publisher and never reaches the response.  When maxPendingEvents
// deliveries are already in flight the event is dropped.
func (h *HealthHandler) publish(ev queue.ProbeCompletedEvent, start time.Time) {
	if h.Events == nil || h.pending == nil {
		return
	}
	select {
	case h.pending <- struct{}{}:
	default:
		log.Printf("probe events: %d deliveries pending, dropping %s event", maxPendingEvents, ev.Outcome)
		return
	}
	ev.Service = config.ServiceName
	ev.DurationMs = time.Since(start).Milliseconds()
	ev.CheckedAt = time.Now().UTC().Format(time.RFC3339)
	go func() {
		defer func() { <-h.pending }()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = h.Events.PublishProbeCompleted(ctx, ev)
	}()
}
