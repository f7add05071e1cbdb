package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/drummond-dev/valuebet/internal/metrics"
	"github.com/drummond-dev/valuebet/internal/providers"
)

// Commit is everything the store needs to persist one analyzed bet in a
// single transaction: the fixture identity, every raw quote, and the scored
// prediction.
type Commit struct {
	FixtureName string
	Sport       string
	League      string
	HomeTeam    string
	AwayTeam    string
	StartTime   time.Time

	Quotes []providers.RawOdds

	Market           string
	Selection        string
	ModelProbability float64
	ValueScore       float64
	ConfidenceLevel  string
	Reasoning        string
	IsRecommended    bool
}

// Store is the persistence boundary. CommitAnalysis must be transactional:
// either the fixture, its quotes and the upserted prediction all land, or
// none do. ClearStale removes quotes and predictions for a sport's fixtures
// that have not started yet.
type Store interface {
	CommitAnalysis(ctx context.Context, commit Commit) error
	ClearStale(ctx context.Context, sport string, now time.Time) error
}

// betContext is the identity of the bet under analysis, derived from the
// group's first quote.
type betContext struct {
	Fixture   string
	Sport     string
	League    string
	Market    string
	Selection string
	HomeTeam  string
	AwayTeam  string
	Opponent  string
	IsHome    bool
	StartTime time.Time
	Record    string
	Headlines []string
}

// Analyzer scores one bet at a time for a single sport. Safe for concurrent
// use: each AnalyzeGroup call owns its signal bundle and all shared
// collaborators are themselves concurrency safe.
type Analyzer struct {
	sport          string
	outdoor        bool
	keyPlayerLimit int
	fetchers       SportFetchers
	store          Store
	logger         *logrus.Logger
	metrics        *metrics.Metrics
}

// NewAnalyzer creates an analyzer for one sport. outdoor enables the weather
// signal; keyPlayerLimit caps the key-players list in the rationale.
func NewAnalyzer(sport string, outdoor bool, keyPlayerLimit int, fetchers SportFetchers, store Store, logger *logrus.Logger, m *metrics.Metrics) *Analyzer {
	if keyPlayerLimit <= 0 {
		keyPlayerLimit = 3
	}
	return &Analyzer{
		sport:          sport,
		outdoor:        outdoor,
		keyPlayerLimit: keyPlayerLimit,
		fetchers:       fetchers,
		store:          store,
		logger:         logger,
		metrics:        m,
	}
}

// AnalyzeGroup runs the three phases for one bet: gather signals, score,
// persist. Data-quality rejections discard the bet silently; only unexpected
// faults (currently just store failures) return an error.
func (a *Analyzer) AnalyzeGroup(ctx context.Context, key GroupKey, quotes []providers.RawOdds) error {
	if len(quotes) == 0 {
		return nil
	}
	bet := newBetContext(key, quotes[0])

	// Phase 1: concurrent signal collection. No transaction is open here;
	// holding one across network fetches is the failure mode this split
	// exists to prevent.
	signals := a.collectSignals(ctx, bet)

	// Phase 2: pure computation.
	assessment := score(bet, quotes, signals)
	if assessment.Rejected() {
		a.logger.WithFields(logrus.Fields{
			"sport":     bet.Sport,
			"fixture":   bet.Fixture,
			"selection": bet.Selection,
			"reason":    assessment.rejectReason,
		}).Info("Bet discarded on data-quality gate")
		if a.metrics != nil {
			a.metrics.RecordAnalysis(a.sport, rejectOutcome(assessment.rejectReason))
		}
		return nil
	}
	reasoning := buildRationale(bet, assessment, signals)

	// Phase 3: one short transaction for the whole group.
	commit := Commit{
		FixtureName:      bet.Fixture,
		Sport:            bet.Sport,
		League:           bet.League,
		HomeTeam:         bet.HomeTeam,
		AwayTeam:         bet.AwayTeam,
		StartTime:        bet.StartTime,
		Quotes:           quotes,
		Market:           bet.Market,
		Selection:        bet.Selection,
		ModelProbability: assessment.Probability,
		ValueScore:       assessment.Value,
		ConfidenceLevel:  assessment.Confidence,
		Reasoning:        reasoning,
		IsRecommended:    assessment.Recommended,
	}
	if err := a.store.CommitAnalysis(ctx, commit); err != nil {
		if a.metrics != nil {
			a.metrics.RecordAnalysis(a.sport, metrics.OutcomeFailed)
		}
		return fmt.Errorf("persisting %s / %s failed: %w", bet.Fixture, bet.Selection, err)
	}

	if a.metrics != nil {
		a.metrics.RecordAnalysis(a.sport, metrics.OutcomeCommitted)
	}
	return nil
}

func newBetContext(key GroupKey, first providers.RawOdds) betContext {
	bet := betContext{
		Fixture:   key.Fixture,
		Sport:     first.Sport,
		League:    first.League,
		Market:    key.Market,
		Selection: key.Selection,
		HomeTeam:  first.HomeTeam,
		AwayTeam:  first.AwayTeam,
		StartTime: first.StartTime,
		Record:    first.Record,
		Headlines: first.Headlines,
	}
	bet.IsHome = bet.Selection == bet.HomeTeam
	if bet.IsHome {
		bet.Opponent = bet.AwayTeam
	} else {
		bet.Opponent = bet.HomeTeam
	}
	return bet
}

func rejectOutcome(reason string) string {
	if reason == rejectAbsurdValue {
		return metrics.OutcomeDiscardedValue
	}
	return metrics.OutcomeDiscardedPrice
}
