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
	_ "thinqor-ats/docs" // Important for Swagger
	v1 "thinqor-ats/internal/delivery/http/v1"
	"thinqor-ats/internal/domain"
	"thinqor-ats/internal/repository/postgres"
	"thinqor-ats/internal/usecase"
	"thinqor-ats/pkg/database"
	"thinqor-ats/pkg/llm"
	"thinqor-ats/pkg/logger"
	"thinqor-ats/pkg/redis"
	"thinqor-ats/pkg/security"
	"thinqor-ats/pkg/security/antivirus"
	"thinqor-ats/pkg/storage"
	"thinqor-ats/pkg/validation"
)

// @title           Thinqor ATS API
// @version         1.0
// @description     Candidate records, resumes, reports and requirement drafting for the applicant tracking system.
// @host            localhost:5000
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting ATS backend", "port", cfg.Port, "env", cfg.Env)

	audit := security.NewAuditLogger("ats-api", cfg.Env)
	defer func() { _ = audit.Sync() }()

	// 3. Setup Database
	ctx := context.Background()
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()
	reportDB := database.NewSQLX(dbPool)
	defer reportDB.Close()

	// 4. Setup Redis (optional, rate limiting falls back to memory)
	if err := redis.Initialize(ctx, redis.Config{URL: cfg.Redis.URL, Password: cfg.Redis.Password}); err != nil {
		logger.Log.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
	}
	defer redis.Close()

	// 5. Setup Resume Store
	resumes, err := newResumeStore(ctx, cfg)
	if err != nil {
		logger.Log.Error("Failed to set up resume store", "store", cfg.Resume.Store, "error", err)
		os.Exit(1)
	}

	// 6. Setup Repositories
	candidateRepo := postgres.NewCandidateRepository(dbPool)
	reportRepo := postgres.NewReportRepository(reportDB)

	// 7. Setup UseCases
	var scanner antivirus.Scanner
	healthChecks := map[string]usecase.HealthCheck{
		"database": dbPool.Ping,
		"redis": func(ctx context.Context) error {
			if redis.Client() == nil {
				return nil
			}
			return redis.HealthCheck(ctx)
		},
	}
	if cfg.Resume.ClamAVAddress != "" {
		clamav := antivirus.NewClamAVScanner(cfg.Resume.ClamAVAddress, cfg.Resume.ScanTimeout)
		scanner = clamav
		healthChecks["antivirus"] = clamav.Ping
	} else {
		logger.Log.Warn("CLAMAV_ADDRESS not configured - resumes are not scanned for malware")
	}
	candidateUC := usecase.NewCandidateUsecase(candidateRepo, resumes, validation.New(), audit, scanner)
	reportUC := usecase.NewReportUsecase(reportRepo, cfg.SelectionStatuses)

	var completer domain.Completer
	if cfg.OpenAI.APIKey != "" {
		completer = llm.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	} else {
		logger.Log.Warn("OPENAI_API_KEY not configured - requirement drafting will be unavailable")
	}
	jdUC := usecase.NewJDUsecase(completer)

	healthUC := usecase.NewHealthUsecase(healthChecks)

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		CandidateUC: candidateUC,
		ReportUC:    reportUC,
		JDUC:        jdUC,
		HealthUC:    healthUC,
		Audit:       audit,
		Config:      cfg,
	})

	// 9. Start Server
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

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

func newResumeStore(ctx context.Context, cfg *config.Config) (domain.ResumeStore, error) {
	if cfg.Resume.Store != "s3" {
		logger.Log.Info("Storing resumes on disk", "dir", cfg.Resume.Dir)
		return storage.NewDiskResumeStore(cfg.Resume.Dir)
	}

	client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
		Provider:        storage.S3Provider(cfg.S3.Provider),
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
		Region:          cfg.S3.Region,
		WasabiEndpoint:  cfg.S3.WasabiEndpoint,
	})
	if err != nil {
		return nil, err
	}
	logger.Log.Info("Storing resumes in object storage", "provider", cfg.S3.Provider, "bucket", cfg.S3.Bucket)
	return storage.NewS3ResumeStore(client, cfg.S3.Bucket, "ats"), nil
}
