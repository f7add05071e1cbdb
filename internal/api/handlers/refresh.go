package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/drummond-dev/valuebet/internal/analysis"
)

// RefreshHandler exposes manual pipeline triggers. The pipeline's run guard
// rejects a trigger while a run is active, so double-clicks are harmless.
type RefreshHandler struct {
	pipeline *analysis.Pipeline
	logger   *logrus.Logger
}

// NewRefreshHandler creates the refresh handler.
func NewRefreshHandler(pipeline *analysis.Pipeline, logger *logrus.Logger) *RefreshHandler {
	return &RefreshHandler{pipeline: pipeline, logger: logger}
}

// Trigger starts a full refresh in the background and returns immediately.
// 409 when a run is already in progress.
func (h *RefreshHandler) Trigger(c *gin.Context) {
	if h.pipeline.Guard().InProgress() {
		c.JSON(http.StatusConflict, gin.H{"error": "refresh already in progress"})
		return
	}

	go func() {
		if err := h.pipeline.Run(context.Background()); err != nil {
			h.logger.WithError(err).Error("Triggered refresh failed")
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"status": "refresh started"})
}

// Status reports whether a refresh currently holds the run guard.
func (h *RefreshHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"in_progress": h.pipeline.Guard().InProgress(),
	})
}
