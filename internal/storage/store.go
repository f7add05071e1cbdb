// Package storage implements the persistence boundary on Postgres via GORM.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/drummond-dev/valuebet/internal/analysis"
	"github.com/drummond-dev/valuebet/internal/models"
)

// Store persists fixtures, quotes and predictions. Safe for concurrent use;
// every write happens inside its own short transaction.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an open GORM handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// CommitAnalysis writes one analyzed bet atomically: find-or-create the
// fixture by its (home_team, away_team, start_time) key, insert every quote,
// and upsert the prediction keyed by (fixture, market, selection).
func (s *Store) CommitAnalysis(ctx context.Context, commit analysis.Commit) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fixture, err := findOrCreateFixture(tx, commit)
		if err != nil {
			return err
		}

		for _, quote := range commit.Quotes {
			if !quote.HasPrice() {
				continue
			}
			row := models.OddsQuote{
				FixtureID:  fixture.ID,
				Bookmaker:  quote.Bookmaker,
				MarketType: commit.Market,
				Selection:  commit.Selection,
				Price:      quote.Price,
				Point:      quote.Point,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("inserting quote from %s: %w", quote.Bookmaker, err)
			}
		}

		return upsertPrediction(tx, fixture.ID, commit)
	})
}

func findOrCreateFixture(tx *gorm.DB, commit analysis.Commit) (*models.Fixture, error) {
	var fixture models.Fixture
	err := tx.
		Where("home_team = ? AND away_team = ? AND start_time = ?", commit.HomeTeam, commit.AwayTeam, commit.StartTime).
		First(&fixture).Error
	if err == nil {
		return &fixture, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("looking up fixture %s: %w", commit.FixtureName, err)
	}
	return createFixture(tx, commit)
}

// createFixture inserts the fixture row. Groups of the same fixture run
// concurrently, so two transactions can both miss the lookup and insert;
// ON CONFLICT DO NOTHING on the (home_team, away_team, start_time) unique
// index lets the loser reload the winner's row instead of duplicating it.
func createFixture(tx *gorm.DB, commit analysis.Commit) (*models.Fixture, error) {
	fixture := models.Fixture{
		FixtureName: commit.FixtureName,
		Sport:       commit.Sport,
		League:      commit.League,
		HomeTeam:    commit.HomeTeam,
		AwayTeam:    commit.AwayTeam,
		StartTime:   commit.StartTime,
	}
	result := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "home_team"}, {Name: "away_team"}, {Name: "start_time"}},
		DoNothing: true,
	}).Create(&fixture)
	if result.Error != nil {
		return nil, fmt.Errorf("creating fixture %s: %w", commit.FixtureName, result.Error)
	}
	if result.RowsAffected > 0 {
		return &fixture, nil
	}

	var existing models.Fixture
	err := tx.
		Where("home_team = ? AND away_team = ? AND start_time = ?", commit.HomeTeam, commit.AwayTeam, commit.StartTime).
		First(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("reloading fixture %s after concurrent insert: %w", commit.FixtureName, err)
	}
	return &existing, nil
}

func upsertPrediction(tx *gorm.DB, fixtureID string, commit analysis.Commit) error {
	var existing models.Prediction
	err := tx.
		Where("fixture_id = ? AND market_type = ? AND selection = ?", fixtureID, commit.Market, commit.Selection).
		First(&existing).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"model_probability": commit.ModelProbability,
			"value_score":       commit.ValueScore,
			"confidence_level":  commit.ConfidenceLevel,
			"reasoning":         commit.Reasoning,
			"is_recommended":    commit.IsRecommended,
		}
		if err := tx.Model(&existing).Updates(updates).Error; err != nil {
			return fmt.Errorf("updating prediction for %s: %w", commit.Selection, err)
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		prediction := models.Prediction{
			FixtureID:        fixtureID,
			MarketType:       commit.Market,
			Selection:        commit.Selection,
			ModelProbability: commit.ModelProbability,
			ValueScore:       commit.ValueScore,
			ConfidenceLevel:  commit.ConfidenceLevel,
			Reasoning:        commit.Reasoning,
			IsRecommended:    commit.IsRecommended,
		}
		if err := tx.Create(&prediction).Error; err != nil {
			return fmt.Errorf("creating prediction for %s: %w", commit.Selection, err)
		}
		return nil
	default:
		return fmt.Errorf("looking up prediction for %s: %w", commit.Selection, err)
	}
}

// ClearStale deletes quotes and predictions for the sport's fixtures that
// have not started yet. Rows for past fixtures are the historical record and
// stay untouched.
func (s *Store) ClearStale(ctx context.Context, sport string, now time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var fixtureIDs []string
		err := tx.Model(&models.Fixture{}).
			Where("sport = ? AND start_time > ?", sport, now).
			Pluck("id", &fixtureIDs).Error
		if err != nil {
			return fmt.Errorf("listing future fixtures for %s: %w", sport, err)
		}
		if len(fixtureIDs) == 0 {
			return nil
		}

		if err := tx.Where("fixture_id IN ?", fixtureIDs).Delete(&models.OddsQuote{}).Error; err != nil {
			return fmt.Errorf("clearing stale quotes for %s: %w", sport, err)
		}
		if err := tx.Where("fixture_id IN ?", fixtureIDs).Delete(&models.Prediction{}).Error; err != nil {
			return fmt.Errorf("clearing stale predictions for %s: %w", sport, err)
		}
		return nil
	})
}

// PredictionView is one prediction joined with its fixture for the read API.
type PredictionView struct {
	models.Prediction
	FixtureName string    `json:"fixture_name"`
	Sport       string    `json:"sport"`
	League      string    `json:"league"`
	HomeTeam    string    `json:"home_team"`
	AwayTeam    string    `json:"away_team"`
	StartTime   time.Time `json:"start_time"`
}

// PredictionFilter narrows UpcomingPredictions. Zero values mean no filter.
type PredictionFilter struct {
	Sport           string
	MarketType      string
	RecommendedOnly bool
	Limit           int
}

// UpcomingPredictions returns predictions for fixtures that have not started
// yet, soonest first.
func (s *Store) UpcomingPredictions(ctx context.Context, filter PredictionFilter) ([]PredictionView, error) {
	query := s.db.WithContext(ctx).
		Table("predictions").
		Select("predictions.*, fixtures.fixture_name, fixtures.sport, fixtures.league, fixtures.home_team, fixtures.away_team, fixtures.start_time").
		Joins("JOIN fixtures ON fixtures.id = predictions.fixture_id").
		Where("fixtures.start_time > ?", time.Now().UTC()).
		Order("fixtures.start_time ASC, predictions.value_score DESC")

	if filter.Sport != "" {
		query = query.Where("fixtures.sport = ?", filter.Sport)
	}
	if filter.MarketType != "" {
		query = query.Where("predictions.market_type = ?", filter.MarketType)
	}
	if filter.RecommendedOnly {
		query = query.Where("predictions.is_recommended = ?", true)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var views []PredictionView
	if err := query.Scan(&views).Error; err != nil {
		return nil, fmt.Errorf("listing upcoming predictions: %w", err)
	}
	return views, nil
}

// FixtureOdds returns every stored quote for one fixture.
func (s *Store) FixtureOdds(ctx context.Context, fixtureID string) ([]models.OddsQuote, error) {
	var quotes []models.OddsQuote
	err := s.db.WithContext(ctx).
		Where("fixture_id = ?", fixtureID).
		Order("market_type, selection, bookmaker").
		Find(&quotes).Error
	if err != nil {
		return nil, fmt.Errorf("listing odds for fixture %s: %w", fixtureID, err)
	}
	return quotes, nil
}
