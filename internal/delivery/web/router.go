package web

import (
	"time"

	"thinqor-ats/internal/console"
	"thinqor-ats/internal/delivery/http/middleware"
	"thinqor-ats/pkg/security"

	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Service       console.CandidateService
	Audit         *security.AuditLogger
	JWTSecret     string
	TrustReferrer bool
	SecureCookies bool
}

// NewRouter builds the console engine with one workspace per browser session.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware(deps.SecureCookies))
	r.Use(middleware.OptionalAuth(deps.JWTSecret))
	r.Use(middleware.CSRFMiddleware(deps.SecureCookies))

	store := NewWorkspaceStore(2*time.Hour, func() *console.Workspace {
		return console.NewWorkspace(deps.Service, deps.Audit)
	})
	NewHandler(r, store, Options{TrustReferrer: deps.TrustReferrer, SecureCookies: deps.SecureCookies})
	return r
}
