package server

import (
	"github.com/gin-gonic/gin"

	oh "gweb2api-go/internal/handlers/openai"
)

// RegisterRoutes mounts the service and OpenAI-compatible endpoints.
func RegisterRoutes(engine *gin.Engine, h *oh.Handler) {
	engine.GET("/", h.Root)
	engine.GET("/health", h.Health)
	engine.GET("/cookies/status", h.CookieStatus)
	engine.GET("/usage", h.Usage)

	v1 := engine.Group("/v1")
	v1.GET("/models", h.ListModels)
	v1.POST("/chat/completions", h.ChatCompletions)
}
