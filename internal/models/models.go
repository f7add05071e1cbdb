package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Market type keys as they arrive from odds providers.
const (
	MarketMoneyline = "h2h"
	MarketSpread    = "spreads"
	MarketTotal     = "totals"
)

// MarketDisplayName formats a market key for human-readable output.
func MarketDisplayName(marketType string) string {
	switch marketType {
	case MarketMoneyline:
		return "Moneyline"
	case MarketSpread:
		return "Spread"
	case MarketTotal:
		return "Total Points"
	default:
		return marketType
	}
}

// Fixture represents a scheduled match, uniquely identified by
// (home_team, away_team, start_time). The composite unique index enforces
// that identity at the database level; concurrent analyses of the same
// fixture race on the insert and the loser reuses the winner's row. Score
// and settlement fields are written by the settlement job, never by the
// analysis pipeline.
type Fixture struct {
	ID              string     `json:"id" gorm:"primaryKey;size:36"`
	FixtureName     string     `json:"fixture_name"`
	Sport           string     `json:"sport" gorm:"index"`
	League          string     `json:"league" gorm:"index"`
	HomeTeam        string     `json:"home_team" gorm:"uniqueIndex:idx_fixture_identity"`
	AwayTeam        string     `json:"away_team" gorm:"uniqueIndex:idx_fixture_identity"`
	StartTime       time.Time  `json:"start_time" gorm:"index;uniqueIndex:idx_fixture_identity"`
	Status          string     `json:"status" gorm:"size:20;default:scheduled"` // scheduled, live, finished, postponed
	HomeScore       *int       `json:"home_score"`
	AwayScore       *int       `json:"away_score"`
	ResultSettledAt *time.Time `json:"result_settled_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Odds        []OddsQuote  `json:"odds,omitempty" gorm:"foreignKey:FixtureID"`
	Predictions []Prediction `json:"predictions,omitempty" gorm:"foreignKey:FixtureID"`
}

func (f *Fixture) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// OddsQuote is one bookmaker's price for one (fixture, market, selection).
// Quotes are recreated on every pipeline run; stale future-dated quotes are
// deleted before re-insertion. Only priced quotes are stored: schedule rows
// without a market price flow through analysis but never land here.
type OddsQuote struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	FixtureID  string    `json:"fixture_id" gorm:"index;size:36"`
	Bookmaker  string    `json:"bookmaker" gorm:"index"`
	MarketType string    `json:"market_type" gorm:"size:20"`
	Selection  string    `json:"selection"`
	Price      float64   `json:"price"`
	Point      *float64  `json:"point"` // spread (-3.5) or total (54.5) line
	Timestamp  time.Time `json:"timestamp" gorm:"autoCreateTime"`
}

func (o *OddsQuote) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// Prediction is the pipeline's output: at most one row per
// (fixture_id, market_type, selection), updated in place on re-runs.
type Prediction struct {
	ID               string    `json:"id" gorm:"primaryKey;size:36"`
	FixtureID        string    `json:"fixture_id" gorm:"index;size:36"`
	MarketType       string    `json:"market_type" gorm:"size:20"`
	Selection        string    `json:"selection"`
	ModelProbability float64   `json:"model_probability"`
	ValueScore       float64   `json:"value_score"` // (probability * best price) - 1
	ConfidenceLevel  string    `json:"confidence_level" gorm:"size:10"` // High, Medium, Low
	Reasoning        string    `json:"reasoning" gorm:"type:text"`
	IsRecommended    bool      `json:"is_recommended"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (p *Prediction) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// AutoMigrate creates or updates the schema for all pipeline tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Fixture{}, &OddsQuote{}, &Prediction{})
}
