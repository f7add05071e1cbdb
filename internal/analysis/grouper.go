// Package analysis implements the prediction pipeline: grouping raw quotes
// into distinct bets, gathering per-bet signals concurrently, scoring them,
// and committing the results.
package analysis

import "github.com/drummond-dev/valuebet/internal/providers"

// GroupKey identifies one distinct bet: every bookmaker quote for the same
// fixture, market and selection belongs to the same group.
type GroupKey struct {
	Fixture   string
	Market    string
	Selection string
}

// GroupOdds partitions a flat quote list into per-bet groups. A pure
// partition: no filtering, no validation. Missing market types default to
// moneyline and missing fixture names to "Unknown". Order within a group
// follows input order.
func GroupOdds(rows []providers.RawOdds) map[GroupKey][]providers.RawOdds {
	groups := make(map[GroupKey][]providers.RawOdds)
	for _, row := range rows {
		key := GroupKey{
			Fixture:   row.FixtureName,
			Market:    row.MarketType,
			Selection: row.Selection,
		}
		if key.Fixture == "" {
			key.Fixture = "Unknown"
		}
		if key.Market == "" {
			key.Market = "h2h"
		}
		groups[key] = append(groups[key], row)
	}
	return groups
}
