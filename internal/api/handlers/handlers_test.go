package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/drummond-dev/valuebet/internal/models"
	"github.com/drummond-dev/valuebet/internal/services"
	"github.com/drummond-dev/valuebet/internal/storage"
	"github.com/drummond-dev/valuebet/pkg/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func silentLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestHealthReportsBreakerStates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	breakers := services.NewCircuitBreakerService(3, time.Minute, silentLogger())

	router := gin.New()
	router.GET("/health", NewHealthHandler(&database.DB{DB: db}, breakers).Health)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Status   string            `json:"status"`
		Database string            `json:"database"`
		Breakers map[string]string `json:"breakers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "up", body.Database)
	assert.Equal(t, "closed", body.Breakers["espn"])
	assert.Equal(t, "closed", body.Breakers["oddsapi"])
	assert.Equal(t, "closed", body.Breakers["weather-gov"])
}

func TestPredictionsListIncludesMarketName(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)
	store := storage.NewStore(db)

	fixture := models.Fixture{
		FixtureName: "Buffalo Bills @ Kansas City Chiefs",
		Sport:       "NFL",
		League:      "NFL",
		HomeTeam:    "Kansas City Chiefs",
		AwayTeam:    "Buffalo Bills",
		StartTime:   time.Now().UTC().Add(24 * time.Hour),
	}
	require.NoError(t, db.Create(&fixture).Error)
	prediction := models.Prediction{
		FixtureID:        fixture.ID,
		MarketType:       models.MarketMoneyline,
		Selection:        "Buffalo Bills",
		ModelProbability: 0.61,
		ValueScore:       0.07,
		ConfidenceLevel:  "Medium",
		IsRecommended:    true,
	}
	require.NoError(t, db.Create(&prediction).Error)

	router := gin.New()
	router.GET("/api/v1/predictions", NewPredictionsHandler(store, silentLogger()).List)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/predictions", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Count       int `json:"count"`
		Predictions []struct {
			Selection  string `json:"selection"`
			MarketType string `json:"market_type"`
			MarketName string `json:"market_name"`
		} `json:"predictions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "Buffalo Bills", body.Predictions[0].Selection)
	assert.Equal(t, models.MarketMoneyline, body.Predictions[0].MarketType)
	assert.Equal(t, "Moneyline", body.Predictions[0].MarketName)
}

func TestPredictionsListRejectsBadLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)

	router := gin.New()
	router.GET("/api/v1/predictions", NewPredictionsHandler(storage.NewStore(db), silentLogger()).List)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/predictions?limit=abc", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
