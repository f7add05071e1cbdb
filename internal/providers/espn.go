package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/drummond-dev/valuebet/internal/services"
)

// ESPNClient wraps the ESPN site API, the schedule/roster/statistics source
// for every supported league. All calls go through the circuit breaker and
// team indexes are cached to keep concurrent analyses from re-fetching them.
type ESPNClient struct {
	client  *http.Client
	cache   *services.CacheService
	breaker *services.CircuitBreakerService
	logger  *logrus.Logger
	baseURL string
}

// NewESPNClient creates the shared ESPN site API client.
func NewESPNClient(cache *services.CacheService, breaker *services.CircuitBreakerService, logger *logrus.Logger) *ESPNClient {
	return &ESPNClient{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache:   cache,
		breaker: breaker,
		logger:  logger,
		baseURL: "https://site.api.espn.com/apis/site/v2/sports",
	}
}

// sportPath maps a league key to ESPN's sport/league URL segment.
func sportPath(sport string) (string, error) {
	switch strings.ToUpper(sport) {
	case "NFL":
		return "football/nfl", nil
	case "NBA":
		return "basketball/nba", nil
	case "NHL":
		return "hockey/nhl", nil
	default:
		return "", fmt.Errorf("no ESPN mapping for sport %q", sport)
	}
}

func (c *ESPNClient) getJSON(ctx context.Context, url string, dest interface{}) error {
	fetch := func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", "valuebet/1.0")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("espn returned status %d", resp.StatusCode)
		}

		return io.ReadAll(resp.Body)
	}

	var body interface{}
	var err error
	if c.breaker != nil {
		body, err = c.breaker.Execute("espn", fetch)
	} else {
		body, err = fetch()
	}
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body.([]byte), dest); err != nil {
		return fmt.Errorf("failed to parse espn response: %w", err)
	}
	return nil
}

// teamIndexResponse is the subset of the /teams listing we need.
type teamIndexResponse struct {
	Sports []struct {
		Leagues []struct {
			Teams []struct {
				Team struct {
					ID          string `json:"id"`
					Name        string `json:"name"`
					DisplayName string `json:"displayName"`
				} `json:"team"`
			} `json:"teams"`
		} `json:"leagues"`
	} `json:"sports"`
}

// TeamID resolves a team display name to ESPN's team id. The index for each
// league is fetched once and cached.
func (c *ESPNClient) TeamID(ctx context.Context, sport, teamName string) (string, error) {
	index, err := c.teamIndex(ctx, sport)
	if err != nil {
		return "", err
	}

	if id, ok := index[strings.ToLower(teamName)]; ok {
		return id, nil
	}
	return "", fmt.Errorf("could not find team id for %q in %s", teamName, sport)
}

func (c *ESPNClient) teamIndex(ctx context.Context, sport string) (map[string]string, error) {
	cacheKey := fmt.Sprintf("espn:teams:%s", sport)
	index := map[string]string{}
	if c.cache != nil {
		if hit, _ := c.cache.Get(ctx, cacheKey, &index); hit {
			return index, nil
		}
	}

	path, err := sportPath(sport)
	if err != nil {
		return nil, err
	}

	var resp teamIndexResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/%s/teams", c.baseURL, path), &resp); err != nil {
		return nil, err
	}

	for _, s := range resp.Sports {
		for _, l := range s.Leagues {
			for _, t := range l.Teams {
				index[strings.ToLower(t.Team.DisplayName)] = t.Team.ID
				index[strings.ToLower(t.Team.Name)] = t.Team.ID
			}
		}
	}

	if len(index) == 0 {
		return nil, fmt.Errorf("espn team index for %s came back empty", sport)
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, cacheKey, index, services.TeamIndexTTL)
	}
	return index, nil
}

// AthleteStatCategory is one stat grouping inside an athlete's splits.
type AthleteStatCategory struct {
	Name  string `json:"name"`
	Stats []struct {
		Name         string  `json:"name"`
		DisplayName  string  `json:"displayName"`
		Abbreviation string  `json:"abbreviation"`
		Value        float64 `json:"value"`
		DisplayValue string  `json:"displayValue"`
	} `json:"stats"`
}

// RosterResponse carries roster entries with injury designations and stat
// contributions.
type RosterResponse struct {
	Athletes []struct {
		Position string `json:"position"`
		Items    []struct {
			DisplayName string `json:"displayName"`
			Jersey      string `json:"jersey"`
			Position    struct {
				Abbreviation string `json:"abbreviation"`
			} `json:"position"`
			Injuries []struct {
				Status      string `json:"status"`
				Type        string `json:"type"`
				LongComment string `json:"longComment"`
			} `json:"injuries"`
			Statistics struct {
				Splits struct {
					Categories []AthleteStatCategory `json:"categories"`
				} `json:"splits"`
			} `json:"statistics"`
		} `json:"items"`
	} `json:"athletes"`
}

// Roster fetches the full roster for a team, cached per team.
func (c *ESPNClient) Roster(ctx context.Context, sport, teamID string) (*RosterResponse, error) {
	cacheKey := fmt.Sprintf("espn:roster:%s:%s", sport, teamID)
	var resp RosterResponse
	if c.cache != nil {
		if hit, _ := c.cache.Get(ctx, cacheKey, &resp); hit {
			return &resp, nil
		}
	}

	path, err := sportPath(sport)
	if err != nil {
		return nil, err
	}

	if err := c.getJSON(ctx, fmt.Sprintf("%s/%s/teams/%s/roster", c.baseURL, path, teamID), &resp); err != nil {
		return nil, err
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, cacheKey, &resp, services.RosterTTL)
	}
	return &resp, nil
}

// StatisticsResponse is the team statistics splits payload.
type StatisticsResponse struct {
	Splits struct {
		Categories []struct {
			Name  string `json:"name"`
			Stats []struct {
				Name  string  `json:"name"`
				Value float64 `json:"value"`
			} `json:"stats"`
		} `json:"categories"`
	} `json:"splits"`
}

// Statistics fetches the season statistics splits for a team, cached per team.
func (c *ESPNClient) Statistics(ctx context.Context, sport, teamID string) (*StatisticsResponse, error) {
	cacheKey := fmt.Sprintf("espn:stats:%s:%s", sport, teamID)
	var resp StatisticsResponse
	if c.cache != nil {
		if hit, _ := c.cache.Get(ctx, cacheKey, &resp); hit {
			return &resp, nil
		}
	}

	path, err := sportPath(sport)
	if err != nil {
		return nil, err
	}

	if err := c.getJSON(ctx, fmt.Sprintf("%s/%s/teams/%s/statistics", c.baseURL, path, teamID), &resp); err != nil {
		return nil, err
	}

	if c.cache != nil {
		_ = c.cache.Set(ctx, cacheKey, &resp, services.TeamStatsTTL)
	}
	return &resp, nil
}

// ScoreboardResponse is the subset of the scoreboard payload used to build
// the upcoming-fixture list: team names, records and event headlines.
type ScoreboardResponse struct {
	Events []struct {
		Name   string `json:"name"`
		Date   string `json:"date"`
		Status struct {
			Type struct {
				State string `json:"state"` // pre, in, post
			} `json:"type"`
		} `json:"status"`
		Competitions []struct {
			Competitors []struct {
				HomeAway string `json:"homeAway"`
				Team     struct {
					DisplayName string `json:"displayName"`
				} `json:"team"`
				Records []struct {
					Type    string `json:"type"`
					Summary string `json:"summary"`
				} `json:"records"`
			} `json:"competitors"`
			Headlines []struct {
				Description   string `json:"description"`
				ShortLinkText string `json:"shortLinkText"`
			} `json:"headlines"`
		} `json:"competitions"`
	} `json:"events"`
}

// Scoreboard fetches the scoreboard for one date (format 20060102).
func (c *ESPNClient) Scoreboard(ctx context.Context, sport, date string) (*ScoreboardResponse, error) {
	path, err := sportPath(sport)
	if err != nil {
		return nil, err
	}

	var resp ScoreboardResponse
	url := fmt.Sprintf("%s/%s/scoreboard?dates=%s", c.baseURL, path, date)
	if err := c.getJSON(ctx, url, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
