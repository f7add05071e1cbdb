package providers

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssessWeatherImpact(t *testing.T) {
	tests := []struct {
		name       string
		tempF      int
		windMPH    int
		conditions string
		want       string
	}{
		{"mild", 65, 5, "Sunny", "Minimal Weather Impact"},
		{"extreme cold", 10, 5, "Clear", "Extreme Cold"},
		{"freezing", 28, 5, "Cloudy", "Freezing Conditions"},
		{"extreme heat", 100, 5, "Sunny", "Extreme Heat"},
		{"high winds", 70, 25, "Clear", "High Winds - Passing Game Affected"},
		{"moderate winds", 70, 18, "Clear", "Moderate Winds"},
		{"rain", 60, 5, "Light Rain", "Rain - Ball Handling Affected"},
		{"snow", 40, 5, "Snow Showers", "Snow - Visibility Issues"},
		{"stacked", 15, 22, "Heavy Snow", "Extreme Cold | High Winds - Passing Game Affected | Snow - Visibility Issues"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, AssessWeatherImpact(tc.tempF, tc.windMPH, tc.conditions))
		})
	}
}

func TestParseWindSpeed(t *testing.T) {
	assert.Equal(t, 15, parseWindSpeed("15 mph"))
	assert.Equal(t, 10, parseWindSpeed("10 to 20 mph"))
	assert.Equal(t, 0, parseWindSpeed(""))
	assert.Equal(t, 0, parseWindSpeed("calm"))
}

func TestGameWeatherIndoorStadium(t *testing.T) {
	fetcher := NewWeatherFetcher(nil, nil, logrus.New())

	weather, err := fetcher.GameWeather(context.Background(), "Minnesota Vikings", time.Now())

	require.NoError(t, err)
	assert.True(t, weather.Available)
	assert.True(t, weather.Indoor)
	assert.Equal(t, "U.S. Bank Stadium", weather.Stadium)
	assert.Equal(t, "None - Indoor Stadium", weather.Impact)
}

func TestGameWeatherUnknownVenue(t *testing.T) {
	fetcher := NewWeatherFetcher(nil, nil, logrus.New())

	weather, err := fetcher.GameWeather(context.Background(), "Boston Celtics", time.Now())

	require.NoError(t, err)
	assert.False(t, weather.Available)
}
