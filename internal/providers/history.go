package providers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// HistoryFetcher derives a team's historical win rate from its win-loss
// record string. The record travels with the raw odds rows; when it is
// missing (for example the opponent side of a moneyline group) the fetcher
// returns the neutral 0.5 default.
type HistoryFetcher struct {
	sport string
}

// NewHistoryFetcher creates a history fetcher for one league.
func NewHistoryFetcher(sport string) *HistoryFetcher {
	return &HistoryFetcher{sport: sport}
}

// TeamHistory parses records of the form "10-4" or "10-4-1" (ties count as
// half a win). Anything unparsable yields the neutral default rather than
// an error the caller would have to swallow anyway.
func (f *HistoryFetcher) TeamHistory(ctx context.Context, team, record string) (TeamHistory, error) {
	if record == "" || !strings.Contains(record, "-") {
		return NeutralTeamHistory(team), nil
	}

	parts := strings.Split(record, "-")
	wins, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	losses, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || wins < 0 || losses < 0 {
		return NeutralTeamHistory(team), nil
	}

	ties := 0
	if len(parts) > 2 {
		if t, err := strconv.Atoi(strings.TrimSpace(parts[2])); err == nil && t >= 0 {
			ties = t
		}
	}

	total := wins + losses + ties
	if total == 0 {
		return TeamHistory{Team: team, WinRate: 0.5, FormDesc: "No record available"}, nil
	}

	winRate := (float64(wins) + 0.5*float64(ties)) / float64(total)
	return TeamHistory{
		Team:     team,
		WinRate:  winRate,
		FormDesc: fmt.Sprintf("Record: %s", record),
	}, nil
}
