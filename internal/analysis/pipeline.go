package analysis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/drummond-dev/valuebet/internal/metrics"
)

// ErrRunInProgress is returned when a refresh is requested while another run
// still holds the guard.
var ErrRunInProgress = errors.New("analysis run already in progress")

// RunGuard serializes full pipeline runs. The scheduling layer owns one
// guard and hands it to the pipeline; it does not serialize work inside a
// single run.
type RunGuard struct {
	running atomic.Bool
}

// TryBegin claims the guard. It returns false if a run already holds it.
func (g *RunGuard) TryBegin() bool {
	return g.running.CompareAndSwap(false, true)
}

// End releases the guard.
func (g *RunGuard) End() {
	g.running.Store(false)
}

// InProgress reports whether a run currently holds the guard.
func (g *RunGuard) InProgress() bool {
	return g.running.Load()
}

// Pipeline fans a refresh out across every configured sport. Orchestrators
// are constructed once and reused across runs.
type Pipeline struct {
	orchestrators map[string]*Orchestrator
	guard         *RunGuard
	logger        *logrus.Logger
	metrics       *metrics.Metrics
}

// NewPipeline creates the driver over a fixed set of per-sport
// orchestrators.
func NewPipeline(orchestrators map[string]*Orchestrator, guard *RunGuard, logger *logrus.Logger, m *metrics.Metrics) *Pipeline {
	if guard == nil {
		guard = &RunGuard{}
	}
	return &Pipeline{
		orchestrators: orchestrators,
		guard:         guard,
		logger:        logger,
		metrics:       m,
	}
}

// Guard exposes the run guard so trigger layers can report status.
func (p *Pipeline) Guard() *RunGuard {
	return p.guard
}

// Run refreshes every sport concurrently. One sport failing does not stop
// the others; its error is logged and the run still counts as complete.
// Returns ErrRunInProgress when another run holds the guard.
func (p *Pipeline) Run(ctx context.Context) error {
	if !p.guard.TryBegin() {
		return ErrRunInProgress
	}
	defer p.guard.End()

	if p.metrics != nil {
		p.metrics.RunsInProgress.Set(1)
		defer p.metrics.RunsInProgress.Set(0)
	}

	started := time.Now()
	p.logger.WithField("sports", len(p.orchestrators)).Info("Starting analysis pipeline")

	var wg sync.WaitGroup
	for sport, orchestrator := range p.orchestrators {
		wg.Add(1)
		go func(sport string, orchestrator *Orchestrator) {
			defer wg.Done()
			if err := orchestrator.Run(ctx); err != nil {
				p.logger.WithError(err).WithField("sport", sport).Error("Sport run failed")
			}
		}(sport, orchestrator)
	}
	wg.Wait()

	elapsed := time.Since(started)
	if p.metrics != nil {
		p.metrics.PipelineSeconds.Observe(elapsed.Seconds())
	}
	p.logger.WithField("elapsed", elapsed.Round(time.Millisecond).String()).Info("Analysis pipeline complete")
	return nil
}

// ProcessSport refreshes a single sport outside a full run. It does not take
// the guard; callers triggering ad hoc refreshes are expected to hold it.
func (p *Pipeline) ProcessSport(ctx context.Context, sport string) error {
	orchestrator, ok := p.orchestrators[sport]
	if !ok {
		return fmt.Errorf("sport %s is not configured", sport)
	}
	return orchestrator.Run(ctx)
}
