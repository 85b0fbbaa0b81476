package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Pinger is satisfied by the database pool
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports process and database liveness
type HealthHandler struct {
	db          Pinger
	environment string
	version     string
	logger      *logrus.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db Pinger, environment, version string, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{db: db, environment: environment, version: version, logger: logger}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, dbStatus, code := "OK", "connected", http.StatusOK
	if err := h.db.PingContext(ctx); err != nil {
		h.logger.WithError(err).Warn("Health check: database unreachable")
		status, dbStatus, code = "DEGRADED", "disconnected", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":      status,
		"message":     "Carwash Backend API is running",
		"timestamp":   time.Now().UTC(),
		"environment": h.environment,
		"version":     h.version,
		"database":    dbStatus,
	})
}
