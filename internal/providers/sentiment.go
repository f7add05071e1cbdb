package providers

import (
	"context"

	"github.com/grassmudhorses/vader-go/lexicon"
	"github.com/grassmudhorses/vader-go/sentitext"
)

// SentimentFetcher scores recent news headlines with the VADER lexicon.
// The score is the mean compound polarity over all headlines, in [-1,1];
// zero when no headlines were supplied.
type SentimentFetcher struct {
	sport string
}

// NewSentimentFetcher creates a sentiment fetcher for one league.
func NewSentimentFetcher(sport string) *SentimentFetcher {
	return &SentimentFetcher{sport: sport}
}

// AnalyzeSentiment scores the given headlines for one fixture.
func (f *SentimentFetcher) AnalyzeSentiment(ctx context.Context, fixtureName string, headlines []string) (SentimentResult, error) {
	result := SentimentResult{
		Fixture:   fixtureName,
		Headlines: headlines,
		Volume:    len(headlines),
	}

	if len(headlines) == 0 {
		return result, nil
	}

	var total float64
	for _, h := range headlines {
		parsed := sentitext.Parse(h, lexicon.DefaultLexicon)
		total += sentitext.PolarityScore(parsed).Compound
	}
	result.Score = total / float64(len(headlines))

	return result, nil
}
