package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drummond-dev/valuebet/internal/providers"
)

func floatPtr(v float64) *float64 { return &v }

func quotesAt(prices ...float64) []providers.RawOdds {
	books := []string{"DraftKings", "FanDuel", "BetMGM", "Caesars"}
	quotes := make([]providers.RawOdds, len(prices))
	for i, price := range prices {
		quotes[i] = providers.RawOdds{Bookmaker: books[i%len(books)], Price: price}
	}
	return quotes
}

func TestScoreWorkedExample(t *testing.T) {
	// Moneyline, win rates 0.70 vs 0.30, sentiment 0.2, expert 80, home
	// advantage 60, best price 2.10.
	bet := betContext{Market: "h2h", IsHome: true}
	signals := &SignalBundle{
		History:         providers.TeamHistory{WinRate: 0.70},
		Sentiment:       providers.SentimentResult{Score: 0.2},
		OpponentWinRate: floatPtr(0.30),
	}
	signals.Expert.ConfidenceScore = 80
	signals.Expert.HeadToHead.HomeFieldAdvantage = floatPtr(60)

	a := score(bet, quotesAt(2.10), signals)

	require.False(t, a.Rejected())
	assert.InDelta(t, 0.84, a.Probability, 1e-9)
	assert.InDelta(t, 0.764, a.Value, 1e-9)
	assert.Equal(t, "High", a.Confidence)
	assert.True(t, a.Recommended)
}

func TestScoreMoneylineNormalization(t *testing.T) {
	bet := betContext{Market: "h2h"}

	signals := &SignalBundle{
		History:         providers.TeamHistory{WinRate: 0.6},
		OpponentWinRate: floatPtr(0.4),
	}
	a := score(bet, nil, signals)
	assert.InDelta(t, 0.6, a.Probability, 1e-9)

	// Both rates zero: no information, coin flip.
	signals = &SignalBundle{
		History:         providers.TeamHistory{WinRate: 0},
		OpponentWinRate: floatPtr(0),
	}
	a = score(bet, nil, signals)
	assert.InDelta(t, 0.5, a.Probability, 1e-9)
}

func TestScoreNonMoneylineUsesRawRate(t *testing.T) {
	bet := betContext{Market: "spreads"}
	signals := &SignalBundle{
		History:         providers.TeamHistory{WinRate: 0.7},
		OpponentWinRate: floatPtr(0.3), // must be ignored outside h2h
	}

	a := score(bet, nil, signals)

	assert.InDelta(t, 0.7, a.Probability, 1e-9)
}

func TestScoreClampBounds(t *testing.T) {
	bet := betContext{Market: "spreads"}

	high := &SignalBundle{History: providers.TeamHistory{WinRate: 1.0}, Sentiment: providers.SentimentResult{Score: 1.0}}
	high.Expert.ConfidenceScore = 100
	a := score(bet, nil, high)
	assert.Equal(t, 0.99, a.Probability)

	low := &SignalBundle{History: providers.TeamHistory{WinRate: 0}, Sentiment: providers.SentimentResult{Score: -1.0}}
	a = score(bet, nil, low)
	assert.Equal(t, 0.01, a.Probability)
}

func TestScoreHomeFieldBonus(t *testing.T) {
	signals := func(adv *float64) *SignalBundle {
		s := &SignalBundle{History: providers.TeamHistory{WinRate: 0.5}}
		s.Expert.HeadToHead.HomeFieldAdvantage = adv
		return s
	}

	home := betContext{Market: "spreads", IsHome: true}
	away := betContext{Market: "spreads", IsHome: false}

	// Applied: home side, advantage above 50.
	a := score(home, nil, signals(floatPtr(60)))
	assert.InDelta(t, 0.51, a.Probability, 1e-9)

	// Zero when the advantage figure is absent.
	a = score(home, nil, signals(nil))
	assert.InDelta(t, 0.5, a.Probability, 1e-9)

	// Zero at exactly 50.
	a = score(home, nil, signals(floatPtr(50)))
	assert.InDelta(t, 0.5, a.Probability, 1e-9)

	// Zero for the away side regardless of the figure.
	a = score(away, nil, signals(floatPtr(60)))
	assert.InDelta(t, 0.5, a.Probability, 1e-9)
}

func TestScoreNoPriceBranch(t *testing.T) {
	bet := betContext{Market: "spreads"}
	signals := &SignalBundle{History: providers.TeamHistory{WinRate: 0.7}}

	a := score(bet, []providers.RawOdds{{Bookmaker: "DraftKings"}}, signals)

	require.False(t, a.Rejected())
	assert.Nil(t, a.BestPrice)
	assert.Equal(t, 0.0, a.Value)
	assert.Equal(t, "High", a.Confidence) // prob 0.7 > 0.65 on the no-price rule
	assert.True(t, a.Recommended)         // prob > 0.55
}

func TestScoreNoPriceConfidenceTiers(t *testing.T) {
	tests := []struct {
		winRate     float64
		confidence  string
		recommended bool
	}{
		{0.70, "High", true},
		{0.55, "Medium", false}, // recommended needs > 0.55
		{0.40, "Low", false},
	}

	for _, tc := range tests {
		signals := &SignalBundle{History: providers.TeamHistory{WinRate: tc.winRate}}
		a := score(betContext{Market: "spreads"}, nil, signals)
		assert.Equal(t, tc.confidence, a.Confidence, "win rate %.2f", tc.winRate)
		assert.Equal(t, tc.recommended, a.Recommended, "win rate %.2f", tc.winRate)
	}
}

func TestScoreRejectsInvalidPrices(t *testing.T) {
	bet := betContext{Market: "spreads"}
	signals := &SignalBundle{History: providers.TeamHistory{WinRate: 0.5}}

	a := score(bet, quotesAt(60.0), signals)
	assert.True(t, a.Rejected())

	a = score(bet, quotesAt(1.005), signals)
	assert.True(t, a.Rejected())

	// 50.0 is the inclusive upper bound; with a floor probability the value
	// gate does not trip either.
	longshot := &SignalBundle{History: providers.TeamHistory{WinRate: 0}, Sentiment: providers.SentimentResult{Score: -1}}
	a = score(bet, quotesAt(50.0), longshot)
	assert.False(t, a.Rejected())
}

func TestScoreRejectsAbsurdValue(t *testing.T) {
	bet := betContext{Market: "spreads"}
	signals := &SignalBundle{History: providers.TeamHistory{WinRate: 0.9}}
	signals.Expert.ConfidenceScore = 100

	// Probability clamps near 0.99; price 40 gives value way above 2.0.
	a := score(bet, quotesAt(40.0), signals)

	assert.True(t, a.Rejected())
}

func TestScoreBestAndAveragePrice(t *testing.T) {
	bet := betContext{Market: "spreads"}
	signals := &SignalBundle{History: providers.TeamHistory{WinRate: 0.5}}

	a := score(bet, quotesAt(1.90, 2.10, 2.00), signals)

	require.NotNil(t, a.BestPrice)
	assert.Equal(t, 2.10, *a.BestPrice)
	assert.Equal(t, "FanDuel", a.BestBookmaker)
	require.NotNil(t, a.AvgPrice)
	assert.InDelta(t, 2.0, *a.AvgPrice, 1e-9)
	assert.Equal(t, 3, a.QuoteCount)

	// A single quote reports no average.
	a = score(bet, quotesAt(1.90), signals)
	assert.Nil(t, a.AvgPrice)
}
