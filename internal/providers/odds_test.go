package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnpricedRows(t *testing.T) {
	fetcher := NewOddsFetcher("NFL", nil, nil, logrus.New(), "")
	game := scheduledGame{
		Name:       "Buffalo Bills at New York Jets",
		HomeTeam:   "New York Jets",
		AwayTeam:   "Buffalo Bills",
		HomeRecord: "6-9",
		AwayRecord: "11-4",
		StartTime:  time.Now().Add(24 * time.Hour),
		Headlines:  []string{"Bills clinch division"},
	}

	rows := fetcher.unpricedRows(game)

	require.Len(t, rows, 2)
	assert.Equal(t, "New York Jets", rows[0].Selection)
	assert.Equal(t, "6-9", rows[0].Record)
	assert.Equal(t, "Buffalo Bills", rows[1].Selection)
	assert.Equal(t, "11-4", rows[1].Record)
	for _, row := range rows {
		assert.Equal(t, "h2h", row.MarketType)
		assert.False(t, row.HasPrice())
		assert.Equal(t, []string{"Bills clinch division"}, row.Headlines)
	}
}

func TestRecordFor(t *testing.T) {
	game := scheduledGame{HomeTeam: "Jets", AwayTeam: "Bills", HomeRecord: "6-9", AwayRecord: "11-4"}

	assert.Equal(t, "6-9", recordFor("Jets", game))
	assert.Equal(t, "11-4", recordFor("Bills", game))
	assert.Equal(t, "", recordFor("Over", game))
}

func TestUpcomingOddsMergesPrices(t *testing.T) {
	gameDate := time.Now().Add(48 * time.Hour).UTC()
	scoreboardDate := gameDate.Format("20060102")

	espnSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("dates") != scoreboardDate {
			fmt.Fprint(w, `{"events":[]}`)
			return
		}
		fmt.Fprintf(w, `{"events":[{
			"name":"Buffalo Bills at New York Jets",
			"date":%q,
			"status":{"type":{"state":"pre"}},
			"competitions":[{
				"competitors":[
					{"homeAway":"home","team":{"displayName":"New York Jets"},"records":[{"type":"total","summary":"6-9"}]},
					{"homeAway":"away","team":{"displayName":"Buffalo Bills"},"records":[{"type":"total","summary":"11-4"}]}
				],
				"headlines":[{"description":"Division rivals meet"}]
			}]
		}]}`, gameDate.Format("2006-01-02T15:04Z"))
	}))
	defer espnSrv.Close()

	oddsSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{
			"home_team":"New York Jets",
			"away_team":"Buffalo Bills",
			"commence_time":"2026-01-01T18:00:00Z",
			"bookmakers":[
				{"title":"DraftKings","markets":[{"key":"h2h","outcomes":[
					{"name":"New York Jets","price":2.30},
					{"name":"Buffalo Bills","price":1.65}
				]}]},
				{"title":"FanDuel","markets":[{"key":"spreads","outcomes":[
					{"name":"Buffalo Bills","price":1.91,"point":-3.5}
				]}]}
			]
		}]`)
	}))
	defer oddsSrv.Close()

	espn := NewESPNClient(nil, nil, logrus.New())
	espn.baseURL = espnSrv.URL
	fetcher := NewOddsFetcher("NFL", espn, nil, logrus.New(), "test-key")
	fetcher.baseURL = oddsSrv.URL

	rows, err := fetcher.UpcomingOdds(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 3)

	for _, row := range rows {
		assert.Equal(t, "Buffalo Bills at New York Jets", row.FixtureName)
		assert.Equal(t, "New York Jets", row.HomeTeam)
		assert.Equal(t, []string{"Division rivals meet"}, row.Headlines)
		assert.True(t, row.HasPrice())
	}

	spread := rows[2]
	assert.Equal(t, "spreads", spread.MarketType)
	require.NotNil(t, spread.Point)
	assert.Equal(t, -3.5, *spread.Point)
	assert.Equal(t, "11-4", spread.Record, "selection record resolved from the scoreboard")
}

func TestUpcomingOddsWithoutAPIKey(t *testing.T) {
	gameDate := time.Now().Add(24 * time.Hour).UTC()
	scoreboardDate := gameDate.Format("20060102")

	espnSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("dates") != scoreboardDate {
			fmt.Fprint(w, `{"events":[]}`)
			return
		}
		fmt.Fprintf(w, `{"events":[{
			"name":"Boston Celtics at Miami Heat",
			"date":%q,
			"status":{"type":{"state":"pre"}},
			"competitions":[{"competitors":[
				{"homeAway":"home","team":{"displayName":"Miami Heat"},"records":[{"type":"total","summary":"20-15"}]},
				{"homeAway":"away","team":{"displayName":"Boston Celtics"},"records":[{"type":"total","summary":"28-7"}]}
			]}]
		}]}`, gameDate.Format("2006-01-02T15:04Z"))
	}))
	defer espnSrv.Close()

	espn := NewESPNClient(nil, nil, logrus.New())
	espn.baseURL = espnSrv.URL
	fetcher := NewOddsFetcher("NBA", espn, nil, logrus.New(), "")

	rows, err := fetcher.UpcomingOdds(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.False(t, row.HasPrice())
	}
}
