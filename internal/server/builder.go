package server

import (
	"github.com/gin-gonic/gin"

	"gweb2api-go/internal/config"
	"gweb2api-go/internal/credential"
	oh "gweb2api-go/internal/handlers/openai"
	mw "gweb2api-go/internal/middleware"
	"gweb2api-go/internal/stats"
)

// Dependencies encapsulates the runtime services the HTTP engine needs.
type Dependencies struct {
	Pool  *credential.Pool
	Usage *stats.Recorder
}

// BuildEngine constructs the Gin engine with the standard middleware
// chain and all routes mounted.
func BuildEngine(cfg *config.Config, deps Dependencies) *gin.Engine {
	if cfg.Security.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(mw.Recovery())
	engine.Use(mw.RequestID())
	engine.Use(mw.RequestLogger())
	engine.Use(mw.CORS())
	if cfg.RateLimit.Enabled {
		engine.Use(mw.RateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}

	handler := oh.New(cfg, deps.Pool, deps.Usage)
	RegisterRoutes(engine, handler)
	return engine
}
