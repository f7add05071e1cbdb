package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/drummond-dev/valuebet/internal/models"
	"github.com/drummond-dev/valuebet/internal/storage"
)

// PredictionsHandler serves the stored prediction read model.
type PredictionsHandler struct {
	store  *storage.Store
	logger *logrus.Logger
}

// NewPredictionsHandler creates the predictions handler.
func NewPredictionsHandler(store *storage.Store, logger *logrus.Logger) *PredictionsHandler {
	return &PredictionsHandler{store: store, logger: logger}
}

// List returns upcoming predictions, soonest fixture first. Query params:
// sport, market, recommended=true, limit.
func (h *PredictionsHandler) List(c *gin.Context) {
	filter := storage.PredictionFilter{
		Sport:           c.Query("sport"),
		MarketType:      c.Query("market"),
		RecommendedOnly: c.Query("recommended") == "true",
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		filter.Limit = limit
	}

	views, err := h.store.UpcomingPredictions(c.Request.Context(), filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list predictions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load predictions"})
		return
	}

	items := make([]predictionItem, len(views))
	for i, view := range views {
		items[i] = predictionItem{
			PredictionView: view,
			MarketName:     models.MarketDisplayName(view.MarketType),
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"count":       len(items),
		"predictions": items,
	})
}

// predictionItem decorates a stored prediction with the human-readable
// market name for API consumers.
type predictionItem struct {
	storage.PredictionView
	MarketName string `json:"market_name"`
}

// FixtureOdds returns every stored bookmaker quote for one fixture.
func (h *PredictionsHandler) FixtureOdds(c *gin.Context) {
	fixtureID := c.Param("id")
	quotes, err := h.store.FixtureOdds(c.Request.Context(), fixtureID)
	if err != nil {
		h.logger.WithError(err).WithField("fixture_id", fixtureID).Error("Failed to list fixture odds")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load odds"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fixture_id": fixtureID,
		"count":      len(quotes),
		"odds":       quotes,
	})
}
