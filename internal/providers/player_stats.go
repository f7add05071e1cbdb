package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// PlayerStatsFetcher surfaces a team's impact players and their season
// stat lines for the prediction rationale.
type PlayerStatsFetcher struct {
	espn   *ESPNClient
	logger *logrus.Logger
}

// NewPlayerStatsFetcher creates the player stats fetcher.
func NewPlayerStatsFetcher(espn *ESPNClient, logger *logrus.Logger) *PlayerStatsFetcher {
	return &PlayerStatsFetcher{espn: espn, logger: logger}
}

// TopPlayers returns up to limit key-position players with a summarized
// stat line. Lookup failures degrade to an empty slice.
func (f *PlayerStatsFetcher) TopPlayers(ctx context.Context, team, sport string, limit int) ([]KeyPlayer, error) {
	teamID, err := f.espn.TeamID(ctx, sport, team)
	if err != nil {
		f.logger.WithError(err).WithFields(logrus.Fields{
			"component": "player_stats_fetcher",
			"team":      team,
			"sport":     sport,
		}).Debug("Team lookup failed for key players")
		return nil, nil
	}

	roster, err := f.espn.Roster(ctx, sport, teamID)
	if err != nil {
		f.logger.WithError(err).WithFields(logrus.Fields{
			"component": "player_stats_fetcher",
			"team":      team,
			"sport":     sport,
		}).Debug("Roster fetch failed for key players")
		return nil, nil
	}

	var players []KeyPlayer
	for _, group := range roster.Athletes {
		for _, athlete := range group.Items {
			if !keyPositions[athlete.Position.Abbreviation] {
				continue
			}
			players = append(players, KeyPlayer{
				Name:     athlete.DisplayName,
				Position: athlete.Position.Abbreviation,
				Jersey:   athlete.Jersey,
				StatLine: summarizeStatLine(athlete.Statistics.Splits.Categories),
			})
			if len(players) >= limit {
				return players, nil
			}
		}
	}
	return players, nil
}

// summarizeStatLine compacts the first few stats of the leading category
// into a readable line such as "YDS 2450, TD 18".
func summarizeStatLine(categories []AthleteStatCategory) string {
	if len(categories) == 0 {
		return "No stats available"
	}

	var parts []string
	for _, stat := range categories[0].Stats {
		if stat.DisplayValue == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s", stat.Abbreviation, stat.DisplayValue))
		if len(parts) == 3 {
			break
		}
	}
	if len(parts) == 0 {
		return "No stats available"
	}
	return strings.Join(parts, ", ")
}
