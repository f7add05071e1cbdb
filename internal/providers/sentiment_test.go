package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeSentimentNoHeadlines(t *testing.T) {
	fetcher := NewSentimentFetcher("NFL")

	result, err := fetcher.AnalyzeSentiment(context.Background(), "Bills @ Jets", nil)

	require.NoError(t, err)
	assert.Zero(t, result.Score)
	assert.Zero(t, result.Volume)
}

func TestAnalyzeSentimentPolarity(t *testing.T) {
	fetcher := NewSentimentFetcher("NFL")
	ctx := context.Background()

	positive, err := fetcher.AnalyzeSentiment(ctx, "f", []string{
		"Amazing dominant win streak continues, team looks great",
	})
	require.NoError(t, err)
	assert.Greater(t, positive.Score, 0.0)

	negative, err := fetcher.AnalyzeSentiment(ctx, "f", []string{
		"Terrible loss, awful injury news devastates struggling team",
	})
	require.NoError(t, err)
	assert.Less(t, negative.Score, 0.0)

	assert.GreaterOrEqual(t, positive.Score, -1.0)
	assert.LessOrEqual(t, positive.Score, 1.0)
}

func TestAnalyzeSentimentAveragesHeadlines(t *testing.T) {
	fetcher := NewSentimentFetcher("NBA")

	result, err := fetcher.AnalyzeSentiment(context.Background(), "f", []string{
		"Star player returns in great form",
		"Crushing defeat, worst performance of the season",
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Volume)
	assert.Len(t, result.Headlines, 2)
	assert.GreaterOrEqual(t, result.Score, -1.0)
	assert.LessOrEqual(t, result.Score, 1.0)
}
