package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "resume-screener/internal/auth"
	"resume-screener/internal/documents"
	"resume-screener/internal/jobsearch"
	"resume-screener/internal/screenings"
	"resume-screener/internal/services/health"
	"resume-screener/internal/shared/config"
	"resume-screener/internal/shared/metrics"
	"resume-screener/internal/shared/server/middleware"
	"resume-screener/internal/shared/server/respond"
	"resume-screener/internal/users"
)

// RouterDeps carries the pre-built handlers the router wires up. Handlers
// that are nil are simply not registered, which keeps tests that only need
// a slice of the API light.
type RouterDeps struct {
	Config           config.Config
	Health           *health.Service
	ScreeningHandler *screenings.Handler
	DocumentHandler  *documents.Handler
	JobSearchHandler *jobsearch.Handler
	UserHandler      *users.Handler
	GoogleAuth       *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" || deps.Config.Env == "staging" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
		middleware.RateLimit(middleware.RateLimitConfig{
			GroupFor: rateLimitGroup,
			Rules:    rateLimitRules,
		}),
	)

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService()
	}

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status())
	})

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(api)
	}
	if deps.ScreeningHandler != nil {
		deps.ScreeningHandler.RegisterRoutes(api)
	}
	if deps.JobSearchHandler != nil {
		deps.JobSearchHandler.RegisterRoutes(api)
	}

	return r
}

// rateLimitRules: bulk screening fans out per-resume work, so it gets a much
// tighter budget than status polling.
var rateLimitRules = map[string]middleware.RateLimitRule{
	"DEFAULT": {Rate: 5, Burst: 20},
	"BULK":    {Rate: 0.2, Burst: 3},
	"POLLING": {Rate: 10, Burst: 40},
}

func rateLimitGroup(c *gin.Context) string {
	path := c.FullPath()
	switch {
	case path == "/api/v1/health" || path == "/metrics":
		return "EXEMPT"
	case c.Request.Method == http.MethodPost && path == "/api/v1/screenings/bulk":
		return "BULK"
	case c.Request.Method == http.MethodGet &&
		(path == "/api/v1/screenings/:id" || path == "/api/v1/batches/:id"):
		return "POLLING"
	default:
		return "DEFAULT"
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
