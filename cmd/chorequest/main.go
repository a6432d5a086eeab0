package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/juniperhq/chorequest/internal/config"
	"github.com/juniperhq/chorequest/internal/database"
	"github.com/juniperhq/chorequest/internal/lifecycle"
	"github.com/juniperhq/chorequest/internal/logging"
	"github.com/juniperhq/chorequest/internal/notify"
	"github.com/juniperhq/chorequest/internal/recurrence"
	"github.com/juniperhq/chorequest/internal/scheduler"
	"github.com/juniperhq/chorequest/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.Setup(cfg.LogLevel)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	engine := lifecycle.New(
		db,
		notify.NewLogNotifier(logger.With("component", "notify")),
		lifecycle.NewSystemClock(cfg.Location),
		cfg.Location,
		recurrence.Policy{RejectPastDates: cfg.RejectPastDates},
		logger.With("component", "lifecycle"),
	)

	sched, err := scheduler.New(engine, cfg.ReconcileCron, cfg.Location, logger.With("component", "scheduler"))
	if err != nil {
		log.Fatalf("failed to build scheduler: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(db, engine, logger)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("chorequest listening", "port", cfg.Port, "tz", cfg.Location.String())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
