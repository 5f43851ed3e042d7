// Package openai implements the OpenAI-compatible HTTP surface backed
// by the cookie pool.
package openai

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gweb2api-go/internal/config"
	"gweb2api-go/internal/constants"
	"gweb2api-go/internal/credential"
	"gweb2api-go/internal/models"
	"gweb2api-go/internal/stats"
)

// Handler carries the dependencies of every route.
type Handler struct {
	cfg    *config.Config
	pool   *credential.Pool
	usage  *stats.Recorder
	policy credential.Policy
}

func New(cfg *config.Config, pool *credential.Pool, usage *stats.Recorder) *Handler {
	return &Handler{
		cfg:    cfg,
		pool:   pool,
		usage:  usage,
		policy: credential.ParsePolicy(cfg.Pool.Strategy),
	}
}

// Root serves a static service descriptor.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "gweb2api-go",
		"version": constants.Version,
		"status":  "running",
		"endpoints": []string{
			"/v1/models",
			"/v1/chat/completions",
			"/health",
			"/cookies/status",
			"/usage",
		},
	})
}

// Health probes the pool by acquiring a session. A pool that cannot
// hand out a single working session is unhealthy.
func (h *Handler) Health(c *gin.Context) {
	status := h.pool.Status()
	_, _, err := h.pool.Acquire(c.Request.Context(), h.policy)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":            "unhealthy",
			"error":             err.Error(),
			"total_cookies":     status.TotalCookies,
			"available_cookies": status.AvailableCookies,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":            "healthy",
		"total_cookies":     status.TotalCookies,
		"available_cookies": status.AvailableCookies,
	})
}

// CookieStatus returns the pool snapshot.
func (h *Handler) CookieStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.pool.Status())
}

// Usage returns the in-memory usage counters.
func (h *Handler) Usage(c *gin.Context) {
	c.JSON(http.StatusOK, h.usage.Snapshot())
}

// ListModels returns the static model catalog.
func (h *Handler) ListModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   models.List(),
	})
}
