package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/peak-v1-api/internal/config"
	"github.com/iliyamo/peak-v1-api/internal/database"
	"github.com/iliyamo/peak-v1-api/internal/handler"
	"github.com/iliyamo/peak-v1-api/internal/queue"
	"github.com/iliyamo/peak-v1-api/internal/router"
	queue_publisher "github.com/iliyamo/peak-v1-api/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("ignoring .env: %v", err)
	}

	cfg := config.Load()
	rl := config.LoadRateLimitConfig()
	broker := config.LoadBrokerConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rdb *redis.Client
	if rl.Enabled {
		rdb = config.NewRedisClient()
	}

	var events handler.EventPublisher
	if broker.EventsEnabled {
		events = queue_publisher.NewPublisher(broker)
	}
	if broker.ConsumeEnabled {
		go func() {
			if err := queue.StartProbeConsumer(ctx, broker.URL, broker.Queue); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("probe-consumer: stopped: %v", err)
			}
		}()
	}

	e := router.New(router.Deps{
		Cfg:       cfg,
		RateLimit: rl,
		Redis:     rdb,
		Health:    handler.NewHealthHandler(cfg, database.NewProber(cfg.DBConnectTimeout), events),
	})

	if cfg.AuthEnabled && cfg.APIKey == "" {
		log.Printf("warning: %s not set, every request will fail with 500", config.EnvAPIKey)
	}
	if cfg.DBProbeEnabled && cfg.DatabaseURL == "" {
		log.Printf("warning: %s not set, /health/db will fail with 500", config.EnvDatabaseURL)
	}

	addr := ":" + cfg.Port
	log.Printf("%s %s (%s) listening on %s (env=%s, auth=%t, db_probe=%t)",
		config.ServiceName, config.ServiceVersion, config.ServiceDescription, addr, cfg.Env, cfg.AuthEnabled, cfg.DBProbeEnabled)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}
