package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/drummond-dev/valuebet/internal/services"
)

// oddsAPISportKeys maps league names to The Odds API sport keys.
var oddsAPISportKeys = map[string]string{
	"NFL": "americanfootball_nfl",
	"NBA": "basketball_nba",
	"NHL": "icehockey_nhl",
}

// OddsFetcher builds the upcoming slate for one sport. The schedule (teams,
// records, headlines) comes from the ESPN scoreboard; prices come from The
// Odds API when a key is configured. Fixtures without a priced event still
// produce unpriced rows so the pipeline can score them on signals alone.
type OddsFetcher struct {
	sport   string
	espn    *ESPNClient
	client  *http.Client
	breaker *services.CircuitBreakerService
	logger  *logrus.Logger
	apiKey  string
	baseURL string
}

// NewOddsFetcher creates an odds fetcher for one sport. apiKey may be empty.
func NewOddsFetcher(sport string, espn *ESPNClient, breaker *services.CircuitBreakerService, logger *logrus.Logger, apiKey string) *OddsFetcher {
	return &OddsFetcher{
		sport:   sport,
		espn:    espn,
		client:  &http.Client{Timeout: 10 * time.Second},
		breaker: breaker,
		logger:  logger,
		apiKey:  apiKey,
		baseURL: "https://api.the-odds-api.com/v4",
	}
}

// scheduledGame is one upcoming fixture scraped from the scoreboard.
type scheduledGame struct {
	Name       string
	HomeTeam   string
	AwayTeam   string
	HomeRecord string
	AwayRecord string
	StartTime  time.Time
	Headlines  []string
}

// UpcomingOdds returns every quote for games starting within the next seven
// days. Schedule failure is fatal for the sport; pricing failure degrades to
// unpriced rows.
func (f *OddsFetcher) UpcomingOdds(ctx context.Context) ([]RawOdds, error) {
	games, err := f.upcomingGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("schedule fetch for %s failed: %w", f.sport, err)
	}
	if len(games) == 0 {
		return nil, nil
	}

	priced := map[string][]RawOdds{}
	if f.apiKey != "" {
		priced, err = f.fetchPrices(ctx)
		if err != nil {
			f.logger.WithError(err).WithField("sport", f.sport).Warn("Odds pricing unavailable; continuing without prices")
			priced = map[string][]RawOdds{}
		}
	}

	var rows []RawOdds
	for _, game := range games {
		quotes, ok := priced[matchKey(game.HomeTeam, game.AwayTeam)]
		if !ok {
			rows = append(rows, f.unpricedRows(game)...)
			continue
		}
		for _, quote := range quotes {
			quote.FixtureName = game.Name
			quote.HomeTeam = game.HomeTeam
			quote.AwayTeam = game.AwayTeam
			quote.StartTime = game.StartTime
			quote.Headlines = game.Headlines
			quote.Record = recordFor(quote.Selection, game)
			rows = append(rows, quote)
		}
	}
	return rows, nil
}

// unpricedRows emits one h2h row per side so an unpriced fixture still enters
// the pipeline.
func (f *OddsFetcher) unpricedRows(game scheduledGame) []RawOdds {
	base := RawOdds{
		FixtureName: game.Name,
		Sport:       f.sport,
		League:      f.sport,
		HomeTeam:    game.HomeTeam,
		AwayTeam:    game.AwayTeam,
		StartTime:   game.StartTime,
		MarketType:  "h2h",
		Headlines:   game.Headlines,
	}

	home := base
	home.Selection = game.HomeTeam
	home.Record = game.HomeRecord

	away := base
	away.Selection = game.AwayTeam
	away.Record = game.AwayRecord

	return []RawOdds{home, away}
}

func (f *OddsFetcher) upcomingGames(ctx context.Context) ([]scheduledGame, error) {
	now := time.Now()
	var games []scheduledGame

	for day := 0; day < 7; day++ {
		date := now.AddDate(0, 0, day).Format("20060102")
		board, err := f.espn.Scoreboard(ctx, f.sport, date)
		if err != nil {
			return nil, err
		}

		for _, event := range board.Events {
			if event.Status.Type.State != "pre" {
				continue
			}
			start, err := time.Parse("2006-01-02T15:04Z", event.Date)
			if err != nil {
				start, err = time.Parse(time.RFC3339, event.Date)
				if err != nil {
					continue
				}
			}
			if start.Before(now) {
				continue
			}
			if len(event.Competitions) == 0 {
				continue
			}

			game := scheduledGame{Name: event.Name, StartTime: start}
			comp := event.Competitions[0]
			for _, competitor := range comp.Competitors {
				record := ""
				for _, r := range competitor.Records {
					if r.Type == "total" {
						record = r.Summary
						break
					}
				}
				switch competitor.HomeAway {
				case "home":
					game.HomeTeam = competitor.Team.DisplayName
					game.HomeRecord = record
				case "away":
					game.AwayTeam = competitor.Team.DisplayName
					game.AwayRecord = record
				}
			}
			for _, h := range comp.Headlines {
				text := h.Description
				if text == "" {
					text = h.ShortLinkText
				}
				if text != "" {
					game.Headlines = append(game.Headlines, text)
				}
			}
			if game.HomeTeam == "" || game.AwayTeam == "" {
				continue
			}
			games = append(games, game)
		}
	}
	return games, nil
}

// oddsAPIEvent is The Odds API event payload.
type oddsAPIEvent struct {
	HomeTeam     string `json:"home_team"`
	AwayTeam     string `json:"away_team"`
	CommenceTime string `json:"commence_time"`
	Bookmakers   []struct {
		Title   string `json:"title"`
		Markets []struct {
			Key      string `json:"key"`
			Outcomes []struct {
				Name  string   `json:"name"`
				Price float64  `json:"price"`
				Point *float64 `json:"point"`
			} `json:"outcomes"`
		} `json:"markets"`
	} `json:"bookmakers"`
}

// fetchPrices pulls every bookmaker quote for the sport, keyed by the
// home/away pair for merging with the schedule.
func (f *OddsFetcher) fetchPrices(ctx context.Context) (map[string][]RawOdds, error) {
	sportKey, ok := oddsAPISportKeys[f.sport]
	if !ok {
		return nil, fmt.Errorf("no odds provider mapping for sport %s", f.sport)
	}

	query := url.Values{}
	query.Set("apiKey", f.apiKey)
	query.Set("regions", "us")
	query.Set("markets", "h2h,spreads,totals")
	query.Set("oddsFormat", "decimal")
	endpoint := fmt.Sprintf("%s/sports/%s/odds?%s", f.baseURL, sportKey, query.Encode())

	fetch := func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		resp, err := f.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("odds api returned status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}

	var body interface{}
	var err error
	if f.breaker != nil {
		body, err = f.breaker.Execute("oddsapi", fetch)
	} else {
		body, err = fetch()
	}
	if err != nil {
		return nil, err
	}

	var events []oddsAPIEvent
	if err := json.Unmarshal(body.([]byte), &events); err != nil {
		return nil, fmt.Errorf("odds api payload decode failed: %w", err)
	}

	priced := make(map[string][]RawOdds, len(events))
	for _, event := range events {
		key := matchKey(event.HomeTeam, event.AwayTeam)
		for _, book := range event.Bookmakers {
			for _, market := range book.Markets {
				for _, outcome := range market.Outcomes {
					priced[key] = append(priced[key], RawOdds{
						Sport:      f.sport,
						League:     f.sport,
						MarketType: market.Key,
						Selection:  outcome.Name,
						Bookmaker:  book.Title,
						Price:      outcome.Price,
						Point:      outcome.Point,
					})
				}
			}
		}
	}
	return priced, nil
}

// matchKey normalizes a home/away pair for joining the two providers, which
// agree on full team display names.
func matchKey(home, away string) string {
	return strings.ToLower(home) + "|" + strings.ToLower(away)
}

// recordFor surfaces the scoreboard record for whichever side the selection
// names. Totals selections (Over/Under) have no record.
func recordFor(selection string, game scheduledGame) string {
	switch selection {
	case game.HomeTeam:
		return game.HomeRecord
	case game.AwayTeam:
		return game.AwayRecord
	}
	return ""
}
