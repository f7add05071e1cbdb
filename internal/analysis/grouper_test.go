package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/drummond-dev/valuebet/internal/providers"
)

func TestGroupOdds(t *testing.T) {
	rows := []providers.RawOdds{
		{FixtureName: "Bills @ Jets", MarketType: "h2h", Selection: "Buffalo Bills", Bookmaker: "DraftKings", Price: 1.90},
		{FixtureName: "Bills @ Jets", MarketType: "h2h", Selection: "Buffalo Bills", Bookmaker: "FanDuel", Price: 1.95},
		{FixtureName: "Bills @ Jets", MarketType: "h2h", Selection: "New York Jets", Bookmaker: "DraftKings", Price: 2.05},
	}

	groups := GroupOdds(rows)

	assert.Len(t, groups, 2)

	bills := groups[GroupKey{Fixture: "Bills @ Jets", Market: "h2h", Selection: "Buffalo Bills"}]
	assert.Len(t, bills, 2)
	// Input order is preserved within a group.
	assert.Equal(t, "DraftKings", bills[0].Bookmaker)
	assert.Equal(t, "FanDuel", bills[1].Bookmaker)

	jets := groups[GroupKey{Fixture: "Bills @ Jets", Market: "h2h", Selection: "New York Jets"}]
	assert.Len(t, jets, 1)
}

func TestGroupOddsDefaults(t *testing.T) {
	rows := []providers.RawOdds{
		{Selection: "Boston Celtics", Bookmaker: "BetMGM", Price: 1.70},
	}

	groups := GroupOdds(rows)

	_, ok := groups[GroupKey{Fixture: "Unknown", Market: "h2h", Selection: "Boston Celtics"}]
	assert.True(t, ok, "missing fixture defaults to Unknown and missing market to h2h")
}

func TestGroupOddsEmptyInput(t *testing.T) {
	assert.Empty(t, GroupOdds(nil))
}
