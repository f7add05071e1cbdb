package analysis

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/drummond-dev/valuebet/internal/providers"
)

// Fetcher contracts consumed by the analyzer. Each fetcher is expected to
// degrade gracefully; the analyzer additionally substitutes a neutral default
// whenever a fetch returns an error, so a signal failure never fails a bet.

type HistoryFetcher interface {
	TeamHistory(ctx context.Context, team, record string) (providers.TeamHistory, error)
}

type SentimentAnalyzer interface {
	AnalyzeSentiment(ctx context.Context, fixture string, headlines []string) (providers.SentimentResult, error)
}

type ExpertAnalyst interface {
	ComprehensiveAnalysis(ctx context.Context, team, opponent, sport, record string, isHome bool) (providers.ExpertAnalysis, error)
}

type TeamStatsFetcher interface {
	TeamStats(ctx context.Context, team, sport string) (providers.TeamStats, error)
}

type WeatherFetcher interface {
	GameWeather(ctx context.Context, homeTeam string, gameTime time.Time) (providers.Weather, error)
}

type PlayerStatsFetcher interface {
	TopPlayers(ctx context.Context, team, sport string, limit int) ([]providers.KeyPlayer, error)
}

type OddsFetcher interface {
	UpcomingOdds(ctx context.Context) ([]providers.RawOdds, error)
}

// SignalBundle holds every fetched input for one bet analysis. It lives for
// a single analyzer invocation and is never shared across goroutines after
// collection completes.
type SignalBundle struct {
	History         providers.TeamHistory
	Sentiment       providers.SentimentResult
	Expert          providers.ExpertAnalysis
	TeamStats       providers.TeamStats
	KeyPlayers      []providers.KeyPlayer
	Weather         *providers.Weather
	OpponentWinRate *float64
}

// SportFetchers bundles the per-sport signal sources, constructed once per
// sport at orchestrator construction time.
type SportFetchers struct {
	History     HistoryFetcher
	Sentiment   SentimentAnalyzer
	Expert      ExpertAnalyst
	TeamStats   TeamStatsFetcher
	Weather     WeatherFetcher
	PlayerStats PlayerStatsFetcher
	Odds        OddsFetcher
}

// collectSignals fans out every signal fetch for one bet and waits for all
// of them. Each goroutine writes a distinct bundle field, so the only
// synchronization needed is the WaitGroup. Failed fetches fall back to
// neutral defaults and are logged, never propagated.
//
// Weather is fetched only for outdoor sports, and the opponent's win rate
// only for moneyline bets; skipped signals stay at their zero values.
func (a *Analyzer) collectSignals(ctx context.Context, bet betContext) *SignalBundle {
	bundle := &SignalBundle{}
	var wg sync.WaitGroup

	fail := func(source string, err error) {
		a.logger.WithError(err).WithFields(logrus.Fields{
			"source":    source,
			"sport":     bet.Sport,
			"fixture":   bet.Fixture,
			"selection": bet.Selection,
		}).Warn("Signal fetch failed, using neutral default")
		if a.metrics != nil {
			a.metrics.RecordFetchError(source)
		}
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		history, err := a.fetchers.History.TeamHistory(ctx, bet.Selection, bet.Record)
		if err != nil {
			fail("history", err)
			history = providers.NeutralTeamHistory(bet.Selection)
		}
		bundle.History = history
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		sentiment, err := a.fetchers.Sentiment.AnalyzeSentiment(ctx, bet.Fixture, bet.Headlines)
		if err != nil {
			fail("sentiment", err)
			sentiment = providers.SentimentResult{Fixture: bet.Fixture}
		}
		bundle.Sentiment = sentiment
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		expert, err := a.fetchers.Expert.ComprehensiveAnalysis(ctx, bet.Selection, bet.Opponent, bet.Sport, bet.Record, bet.IsHome)
		if err != nil {
			fail("expert", err)
			expert = providers.NeutralExpertAnalysis()
		}
		bundle.Expert = expert
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		stats, err := a.fetchers.TeamStats.TeamStats(ctx, bet.Selection, bet.Sport)
		if err != nil {
			fail("team_stats", err)
			stats = providers.TeamStats{Available: false}
		}
		bundle.TeamStats = stats
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		players, err := a.fetchers.PlayerStats.TopPlayers(ctx, bet.Selection, bet.Sport, a.keyPlayerLimit)
		if err != nil {
			fail("player_stats", err)
			players = nil
		}
		bundle.KeyPlayers = players
	}()

	if a.outdoor {
		wg.Add(1)
		go func() {
			defer wg.Done()
			weather, err := a.fetchers.Weather.GameWeather(ctx, bet.HomeTeam, bet.StartTime)
			if err != nil {
				fail("weather", err)
				return
			}
			bundle.Weather = &weather
		}()
	}

	if bet.Market == "h2h" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			opponent, err := a.fetchers.History.TeamHistory(ctx, bet.Opponent, "")
			if err != nil {
				fail("opponent_history", err)
				opponent = providers.NeutralTeamHistory(bet.Opponent)
			}
			bundle.OpponentWinRate = &opponent.WinRate
		}()
	}

	wg.Wait()
	return bundle
}
