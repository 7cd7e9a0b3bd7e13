package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"signaldrift-backend/internal/documents"
	"signaldrift-backend/internal/prompts"
	"signaldrift-backend/internal/runs"
	"signaldrift-backend/internal/shared/config"
	"signaldrift-backend/internal/shared/server/middleware"
	"signaldrift-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers wired by bootstrap.
type RouterDeps struct {
	Config          config.Config
	DocumentHandler *documents.Handler
	PromptHandler   *prompts.Handler
	RunHandler      *runs.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"status": "ok"})
	})
	api.GET("/hello", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"message": "Hello, World!"})
	})

	deps.DocumentHandler.RegisterRoutes(api)
	deps.PromptHandler.RegisterRoutes(api)
	deps.RunHandler.RegisterRoutes(api)

	analyseLimit := middleware.RateLimit(middleware.NewRateLimiter(nil), middleware.RateLimitRule{
		Rate:  deps.Config.AnalyseRatePerSec,
		Burst: deps.Config.AnalyseBurst,
	})
	deps.RunHandler.RegisterAnalyseRoute(api, analyseLimit)

	return r
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
