package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Version is reported by the /info endpoint.
const Version = "1.0.0"

type DatabaseStatus interface {
	HealthCheck(ctx context.Context) error
	Version(ctx context.Context) (string, error)
}

type CacheStatus interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler serves /health and /info. A nil cache means caching is
// disabled.
type HealthHandler struct {
	db    DatabaseStatus
	cache CacheStatus
}

func NewHealthHandler(db DatabaseStatus, cache CacheStatus) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	status := "healthy"
	services := gin.H{}

	if err := h.db.HealthCheck(ctx); err != nil {
		services["database"] = "unhealthy"
		status = "degraded"
	} else {
		services["database"] = "healthy"
	}

	switch {
	case h.cache == nil:
		services["cache"] = "disabled"
	case h.cache.HealthCheck(ctx) != nil:
		services["cache"] = "unhealthy"
		status = "degraded"
	default:
		services["cache"] = "healthy"
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":   status,
		"services": services,
	})
}

func (h *HealthHandler) Info(c *gin.Context) {
	info := gin.H{
		"service":         "URL Shortener",
		"version":         Version,
		"database_driver": "pgx",
		"cache_enabled":   h.cache != nil,
	}

	if version, err := h.db.Version(c.Request.Context()); err == nil {
		info["database_version"] = version
	}
	if h.cache != nil {
		info["cache_driver"] = "redis"
	}

	c.JSON(http.StatusOK, info)
}
