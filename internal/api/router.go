// Package api wires the HTTP routes.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/drummond-dev/valuebet/internal/analysis"
	"github.com/drummond-dev/valuebet/internal/api/handlers"
	"github.com/drummond-dev/valuebet/internal/api/middleware"
	"github.com/drummond-dev/valuebet/internal/metrics"
	"github.com/drummond-dev/valuebet/internal/services"
	"github.com/drummond-dev/valuebet/internal/storage"
	"github.com/drummond-dev/valuebet/pkg/database"
)

// NewRouter builds the full route table.
func NewRouter(db *database.DB, store *storage.Store, pipeline *analysis.Pipeline, breakers *services.CircuitBreakerService, m *metrics.Metrics, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	health := handlers.NewHealthHandler(db, breakers)
	router.GET("/health", health.Health)

	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	predictions := handlers.NewPredictionsHandler(store, logger)
	refresh := handlers.NewRefreshHandler(pipeline, logger)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/predictions", predictions.List)
		v1.GET("/fixtures/:id/odds", predictions.FixtureOdds)
		v1.POST("/refresh", refresh.Trigger)
		v1.GET("/refresh/status", refresh.Status)
	}

	return router
}
