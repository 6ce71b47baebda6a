package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cartwise/backend/config"
	"github.com/cartwise/backend/internal/container"
	httpDelivery "github.com/cartwise/backend/internal/delivery/http"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := container.ConfigureLogging(cfg.Log); err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}

	log.Infof("Starting CartWise Backend v1.0.0")
	log.Infof("Environment: %s", cfg.Server.Environment)
	log.Infof("Port: %s", cfg.Server.Port)
	log.Infof("Cache Type: %s (TTL %s)", cfg.Cache.Type, cfg.Cache.TTL)
	log.Infof("LLM: model=%s, rps=%.1f, retries=%d", cfg.LLM.Model, cfg.LLM.RequestsPerSecond, cfg.LLM.MaxRetries)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize all dependencies
	app, err := container.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer app.Close()

	// A nil *HistoryService must not become a non-nil interface
	var history httpDelivery.HistoryService
	if app.History != nil {
		history = app.History
	}
	handler := httpDelivery.NewHandler(app.Pipeline, history, app.Guard)

	router := httpDelivery.SetupRouter(cfg, handler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Graceful shutdown failed: %v", err)
	}
	log.Info("Server stopped")
}
