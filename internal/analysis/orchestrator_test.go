package analysis

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drummond-dev/valuebet/internal/providers"
)

type stubOdds struct {
	rows []providers.RawOdds
	err  error

	mu      sync.Mutex
	calls   int
	blockCh chan struct{}
}

func (s *stubOdds) UpcomingOdds(ctx context.Context) ([]providers.RawOdds, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.blockCh != nil {
		select {
		case <-s.blockCh:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.rows, s.err
}

func slateRows(n int) []providers.RawOdds {
	start := time.Now().Add(24 * time.Hour).UTC()
	rows := make([]providers.RawOdds, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, providers.RawOdds{
			FixtureName: "Fixture " + string(rune('A'+i)),
			Sport:       "NFL",
			League:      "NFL",
			HomeTeam:    "Home " + string(rune('A'+i)),
			AwayTeam:    "Away " + string(rune('A'+i)),
			StartTime:   start,
			MarketType:  "h2h",
			Selection:   "Home " + string(rune('A'+i)),
			Bookmaker:   "DraftKings",
			Price:       1.90,
			Record:      "8-7",
		})
	}
	return rows
}

func newTestOrchestrator(odds OddsFetcher, store Store) *Orchestrator {
	fetchers := newStubFetchers().asSportFetchers()
	analyzer := NewAnalyzer("NFL", false, 3, fetchers, store, testLogger(), nil)
	return NewOrchestrator("NFL", analyzer, odds, store, testLogger(), nil, 5, time.Minute)
}

func TestOrchestratorRunAnalyzesEveryGroup(t *testing.T) {
	store := newMemoryStore()
	odds := &stubOdds{rows: slateRows(8)}
	orchestrator := newTestOrchestrator(odds, store)

	require.NoError(t, orchestrator.Run(context.Background()))

	assert.Equal(t, []string{"NFL"}, store.cleared, "stale rows cleared before refetch")
	assert.Equal(t, 8, store.predictionCount())
}

func TestOrchestratorFetchFailureAbortsSport(t *testing.T) {
	store := newMemoryStore()
	odds := &stubOdds{err: errors.New("provider down")}
	orchestrator := newTestOrchestrator(odds, store)

	err := orchestrator.Run(context.Background())

	assert.Error(t, err)
	assert.Zero(t, store.commitCount())
}

func TestOrchestratorFetchTimeout(t *testing.T) {
	store := newMemoryStore()
	odds := &stubOdds{blockCh: make(chan struct{})}
	fetchers := newStubFetchers().asSportFetchers()
	analyzer := NewAnalyzer("NFL", false, 3, fetchers, store, testLogger(), nil)
	orchestrator := NewOrchestrator("NFL", analyzer, odds, store, testLogger(), nil, 5, 20*time.Millisecond)

	err := orchestrator.Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOrchestratorGroupFailureDoesNotStopSiblings(t *testing.T) {
	store := newMemoryStore()
	odds := &stubOdds{rows: slateRows(4)}

	// The store fails the first commit only.
	var failed atomic.Bool
	flaky := &flakyStore{memoryStore: store, failOnce: &failed}

	fetchers := newStubFetchers().asSportFetchers()
	analyzer := NewAnalyzer("NFL", false, 3, fetchers, flaky, testLogger(), nil)
	orchestrator := NewOrchestrator("NFL", analyzer, odds, flaky, testLogger(), nil, 5, time.Minute)

	require.NoError(t, orchestrator.Run(context.Background()))

	assert.Equal(t, 3, store.commitCount(), "siblings of the failed group still commit")
}

type flakyStore struct {
	*memoryStore
	failOnce *atomic.Bool
}

func (f *flakyStore) CommitAnalysis(ctx context.Context, commit Commit) error {
	if f.failOnce.CompareAndSwap(false, true) {
		return errors.New("transient failure")
	}
	return f.memoryStore.CommitAnalysis(ctx, commit)
}
