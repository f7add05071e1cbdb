package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/drummond-dev/valuebet/internal/analysis"
	"github.com/drummond-dev/valuebet/internal/api"
	"github.com/drummond-dev/valuebet/internal/metrics"
	"github.com/drummond-dev/valuebet/internal/models"
	"github.com/drummond-dev/valuebet/internal/providers"
	"github.com/drummond-dev/valuebet/internal/services"
	"github.com/drummond-dev/valuebet/internal/storage"
	"github.com/drummond-dev/valuebet/pkg/config"
	"github.com/drummond-dev/valuebet/pkg/database"
	"github.com/drummond-dev/valuebet/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := models.AutoMigrate(db.DB); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Shared services
	cache := services.NewCacheService(redisClient, log)
	breaker := services.NewCircuitBreakerService(cfg.CircuitBreakerThreshold, cfg.ExternalAPITimeout, log)
	m := metrics.New()
	store := storage.NewStore(db.DB)

	// Signal sources shared across sports
	espn := providers.NewESPNClient(cache, breaker, log)
	expert := providers.NewExpertFetcher(espn, log)
	teamStats := providers.NewTeamStatsFetcher(espn, log)
	playerStats := providers.NewPlayerStatsFetcher(espn, log)
	weather := providers.NewWeatherFetcher(cache, breaker, log)

	// One orchestrator per configured sport, built once and reused.
	orchestrators := make(map[string]*analysis.Orchestrator)
	for _, sport := range cfg.SportList() {
		fetchers := analysis.SportFetchers{
			History:     providers.NewHistoryFetcher(sport),
			Sentiment:   providers.NewSentimentFetcher(sport),
			Expert:      expert,
			TeamStats:   teamStats,
			Weather:     weather,
			PlayerStats: playerStats,
			Odds:        providers.NewOddsFetcher(sport, espn, breaker, log, cfg.OddsAPIKey),
		}
		analyzer := analysis.NewAnalyzer(sport, cfg.IsOutdoorSport(sport), cfg.KeyPlayerLimit, fetchers, store, log, m)
		orchestrators[sport] = analysis.NewOrchestrator(
			sport, analyzer, fetchers.Odds, store, log, m,
			cfg.AnalysisConcurrency, cfg.OddsFetchTimeout,
		)
		logger.WithSport(sport).WithField("outdoor", cfg.IsOutdoorSport(sport)).Info("Sport analyzer configured")
	}

	pipeline := analysis.NewPipeline(orchestrators, &analysis.RunGuard{}, log, m)

	if cfg.EnableScheduler {
		scheduler := services.NewSchedulerService(pipeline, cfg.RefreshSchedule, analysis.ErrRunInProgress, log)
		if err := scheduler.Start(); err != nil {
			log.Fatalf("Failed to start scheduler: %v", err)
		}
		defer scheduler.Stop()
	}

	router := api.NewRouter(db, store, pipeline, breaker, m, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverLog := logger.WithComponent("server")
	go func() {
		serverLog.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverLog.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	serverLog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		serverLog.Errorf("Server forced to shutdown: %v", err)
	}

	serverLog.Info("Server exited")
}
