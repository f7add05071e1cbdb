// Package handlers contains the HTTP layer over the prediction store and
// the refresh pipeline.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/drummond-dev/valuebet/internal/services"
	"github.com/drummond-dev/valuebet/pkg/database"
)

// HealthHandler reports process and database liveness plus the state of
// every upstream circuit breaker.
type HealthHandler struct {
	db       *database.DB
	breakers *services.CircuitBreakerService
}

// NewHealthHandler creates the health handler.
func NewHealthHandler(db *database.DB, breakers *services.CircuitBreakerService) *HealthHandler {
	return &HealthHandler{db: db, breakers: breakers}
}

// Health responds 200 when the database answers, 503 otherwise. Open
// breakers don't fail the check; they degrade signals, not the service.
func (h *HealthHandler) Health(c *gin.Context) {
	status := "healthy"
	code := http.StatusOK
	dbStatus := "up"

	if err := h.db.HealthCheck(); err != nil {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
		dbStatus = "down"
	}

	body := gin.H{
		"status":    status,
		"database":  dbStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if h.breakers != nil {
		body["breakers"] = h.breakers.States()
	}

	c.JSON(code, body)
}
