package providers

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

// TeamStatsFetcher pulls season statistics from ESPN. Missing teams or
// upstream failures come back as TeamStats{Available: false}, never as an
// error the pipeline would have to handle.
type TeamStatsFetcher struct {
	espn   *ESPNClient
	logger *logrus.Logger
}

// NewTeamStatsFetcher creates the team statistics fetcher.
func NewTeamStatsFetcher(espn *ESPNClient, logger *logrus.Logger) *TeamStatsFetcher {
	return &TeamStatsFetcher{espn: espn, logger: logger}
}

// TeamStats fetches season statistics for one team.
func (f *TeamStatsFetcher) TeamStats(ctx context.Context, team, sport string) (TeamStats, error) {
	unavailable := TeamStats{Available: false, Sport: sport}

	teamID, err := f.espn.TeamID(ctx, sport, team)
	if err != nil {
		f.logger.WithError(err).WithFields(logrus.Fields{
			"component": "team_stats_fetcher",
			"team":      team,
			"sport":     sport,
		}).Warn("Could not resolve team for statistics")
		return unavailable, nil
	}

	resp, err := f.espn.Statistics(ctx, sport, teamID)
	if err != nil {
		f.logger.WithError(err).WithFields(logrus.Fields{
			"component": "team_stats_fetcher",
			"team":      team,
			"sport":     sport,
		}).Warn("Team statistics fetch failed")
		return unavailable, nil
	}

	stats := TeamStats{Available: true, Sport: sport}
	for _, category := range resp.Splits.Categories {
		for _, stat := range category.Stats {
			name := strings.ToLower(stat.Name)
			switch {
			case strings.Contains(name, "pointspergame") || strings.Contains(name, "avgpoints"):
				stats.PointsPerGame = stat.Value
			case strings.Contains(name, "pointsagainst"):
				stats.PointsAgainstPerGame = stat.Value
			case strings.Contains(name, "totalyards"):
				stats.TotalYardsPerGame = stat.Value
			case strings.Contains(name, "passingyards"):
				stats.PassingYardsPerGame = stat.Value
			case strings.Contains(name, "rushingyards"):
				stats.RushingYardsPerGame = stat.Value
			case strings.Contains(name, "fieldgoalpct"):
				stats.FieldGoalPct = stat.Value
			case strings.Contains(name, "threepointpct") || strings.Contains(name, "threepointfieldgoalpct"):
				stats.ThreePointPct = stat.Value
			case strings.Contains(name, "assistspergame") || name == "avgassists":
				stats.AssistsPerGame = stat.Value
			case strings.Contains(name, "reboundspergame") || name == "avgrebounds":
				stats.ReboundsPerGame = stat.Value
			}
		}
	}

	return stats, nil
}
