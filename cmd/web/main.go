package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"thinqor-ats/config"
	"thinqor-ats/internal/console/apiclient"
	"thinqor-ats/internal/delivery/web"
	"thinqor-ats/pkg/logger"
	"thinqor-ats/pkg/security"
)

// The candidate console: server-rendered pages backed by the ATS API.
func main() {
	// 1. Load Config
	cfg, err := config.LoadWebConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting candidate console", "port", cfg.Port, "api", cfg.APIBaseURL)

	audit := security.NewAuditLogger("ats-console", cfg.Env)
	defer func() { _ = audit.Sync() }()

	// 3. Setup API client
	api := apiclient.New(cfg.APIBaseURL, &http.Client{Timeout: cfg.APITimeout})

	// 4. Setup Router
	router := web.NewRouter(web.RouterDeps{
		Service:       api,
		Audit:         audit,
		JWTSecret:     cfg.JWTSecret,
		TrustReferrer: cfg.TrustReferrer,
		SecureCookies: cfg.SecureCookies,
	})

	// 5. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down console...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Console forced to shutdown", "error", err)
	}
}
