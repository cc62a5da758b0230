package v1

import (
	"net/http"

	"thinqor-ats/config"
	"thinqor-ats/internal/delivery/http/middleware"
	"thinqor-ats/internal/delivery/http/response"
	"thinqor-ats/internal/domain"
	"thinqor-ats/internal/usecase"
	"thinqor-ats/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	CandidateUC domain.CandidateUsecase
	ReportUC    domain.ReportUsecase
	JDUC        domain.JDUsecase
	HealthUC    usecase.HealthUsecase
	Audit       *security.AuditLogger
	Config      *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	cfg := deps.Config

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.FrontendURLs)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction()))
	r.Use(middleware.ErrorHandler())

	globalLimit := middleware.DefaultRateLimitConfig(cfg.RateLimit.GlobalThreshold, cfg.RateLimit.Window)
	globalLimit.Audit = deps.Audit
	uploadLimit := middleware.UploadRateLimitConfig(cfg.RateLimit.UploadThreshold, cfg.RateLimit.Window)
	uploadLimit.Audit = deps.Audit

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("")
	api.Use(middleware.RateLimitMiddleware(globalLimit))

	v1 := api.Group("/v1")

	v1.GET("/health", func(c *gin.Context) {
		if deps.HealthUC == nil {
			response.Success(c, http.StatusOK, "System operational", nil)
			return
		}
		status, healthy := deps.HealthUC.Check(c.Request.Context())
		if !healthy {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", status)
	})

	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	NewCandidateHandler(api, v1, deps.CandidateUC, cfg.Resume.MaxBytes, middleware.RateLimitMiddleware(uploadLimit))
	legacy := api.Group("/api")
	NewReportHandler(v1, legacy, deps.ReportUC)
	NewJDHandler(v1, legacy, deps.JDUC)

	return r
}
