package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/drummond-dev/valuebet/internal/metrics"
)

// Orchestrator processes one sport end to end: clear stale rows, fetch the
// slate, group it, and analyze every group under a bounded concurrency gate.
type Orchestrator struct {
	sport       string
	analyzer    *Analyzer
	odds        OddsFetcher
	store       Store
	logger      *logrus.Logger
	metrics     *metrics.Metrics
	concurrency int
	fetchLimit  time.Duration
}

// NewOrchestrator creates the orchestrator for one sport. concurrency caps
// simultaneous group analyses; fetchLimit bounds the raw odds fetch.
func NewOrchestrator(sport string, analyzer *Analyzer, odds OddsFetcher, store Store, logger *logrus.Logger, m *metrics.Metrics, concurrency int, fetchLimit time.Duration) *Orchestrator {
	if concurrency <= 0 {
		concurrency = 5
	}
	if fetchLimit <= 0 {
		fetchLimit = 300 * time.Second
	}
	return &Orchestrator{
		sport:       sport,
		analyzer:    analyzer,
		odds:        odds,
		store:       store,
		logger:      logger,
		metrics:     m,
		concurrency: concurrency,
		fetchLimit:  fetchLimit,
	}
}

// Run refreshes the sport. A fetch failure or timeout aborts this sport only;
// per-group failures are logged and do not stop sibling groups.
func (o *Orchestrator) Run(ctx context.Context) error {
	started := time.Now()
	log := o.logger.WithField("sport", o.sport)

	if err := o.store.ClearStale(ctx, o.sport, time.Now().UTC()); err != nil {
		return fmt.Errorf("stale clear for %s failed: %w", o.sport, err)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, o.fetchLimit)
	defer cancel()
	rows, err := o.odds.UpcomingOdds(fetchCtx)
	if err != nil {
		return fmt.Errorf("odds fetch for %s failed: %w", o.sport, err)
	}
	log.WithField("quotes", len(rows)).Info("Fetched odds slate")

	groups := GroupOdds(rows)
	log.WithField("groups", len(groups)).Info("Grouped betting opportunities")

	sem := make(chan struct{}, o.concurrency)
	var wg sync.WaitGroup
	for key := range groups {
		wg.Add(1)
		sem <- struct{}{}
		go func(key GroupKey) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := o.analyzer.AnalyzeGroup(ctx, key, groups[key]); err != nil {
				log.WithError(err).WithFields(logrus.Fields{
					"fixture":   key.Fixture,
					"market":    key.Market,
					"selection": key.Selection,
				}).Error("Group analysis failed")
			}
		}(key)
	}
	wg.Wait()

	elapsed := time.Since(started)
	if o.metrics != nil {
		o.metrics.SportRunSeconds.WithLabelValues(o.sport).Observe(elapsed.Seconds())
	}
	log.WithField("elapsed", elapsed.Round(time.Millisecond).String()).Info("Sport run complete")
	return nil
}
