package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// CacheService provides TTL caching for external provider payloads so that
// concurrent bet analyses for the same team don't hammer upstream APIs.
type CacheService struct {
	client *redis.Client
	logger *logrus.Logger
}

// Cache TTLs per payload kind. Injury status moves fast, season statistics
// don't.
const (
	TeamStatsTTL    = 6 * time.Hour
	InjuryReportTTL = 15 * time.Minute
	RosterTTL       = 12 * time.Hour
	WeatherTTL      = 30 * time.Minute
	TeamIndexTTL    = 24 * time.Hour
)

// NewCacheService creates a new cache service instance
func NewCacheService(redisClient *redis.Client, logger *logrus.Logger) *CacheService {
	return &CacheService{
		client: redisClient,
		logger: logger,
	}
}

// buildCacheKey constructs consistent cache keys
func (c *CacheService) buildCacheKey(elements ...string) string {
	return fmt.Sprintf("valuebet:%s", strings.Join(elements, ":"))
}

// Set stores a value in cache with TTL
func (c *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	if err := c.client.Set(ctx, c.buildCacheKey(key), data, ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("key", key).Error("Failed to set cache value")
		return err
	}
	return nil
}

// Get retrieves a value from cache into dest. Returns false on miss.
func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, c.buildCacheKey(key)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Cache lookup failed")
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached value: %w", err)
	}
	return true, nil
}
