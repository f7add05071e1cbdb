package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/drummond-dev/valuebet/internal/services"
)

// stadium describes a home venue for weather lookups.
type stadium struct {
	Lat    float64
	Lon    float64
	Indoor bool
	Name   string
}

// nflStadiums maps home teams to their venues. Indoor venues short-circuit
// the forecast call entirely.
var nflStadiums = map[string]stadium{
	"Detroit Lions":        {42.34, -83.05, true, "Ford Field"},
	"Dallas Cowboys":       {32.75, -97.09, true, "AT&T Stadium"},
	"Atlanta Falcons":      {33.76, -84.39, true, "Mercedes-Benz Stadium"},
	"Seattle Seahawks":     {47.60, -122.33, false, "Lumen Field"},
	"Buffalo Bills":        {42.77, -78.79, false, "Highmark Stadium"},
	"Cincinnati Bengals":   {39.10, -84.52, false, "Paycor Stadium"},
	"Cleveland Browns":     {41.51, -81.70, false, "Cleveland Browns Stadium"},
	"Tennessee Titans":     {36.17, -86.77, false, "Nissan Stadium"},
	"Minnesota Vikings":    {44.97, -93.26, true, "U.S. Bank Stadium"},
	"Washington Commanders": {38.91, -76.86, false, "FedExField"},
	"New York Jets":        {40.81, -74.07, false, "MetLife Stadium"},
	"New York Giants":      {40.81, -74.07, false, "MetLife Stadium"},
	"Miami Dolphins":       {25.96, -80.24, false, "Hard Rock Stadium"},
	"Tampa Bay Buccaneers": {27.98, -82.50, false, "Raymond James Stadium"},
	"New Orleans Saints":   {29.95, -90.08, true, "Caesars Superdome"},
	"Jacksonville Jaguars": {30.32, -81.64, false, "TIAA Bank Field"},
	"Indianapolis Colts":   {39.76, -86.16, true, "Lucas Oil Stadium"},
	"Baltimore Ravens":     {39.28, -76.62, false, "M&T Bank Stadium"},
	"Pittsburgh Steelers":  {40.45, -80.02, false, "Acrisure Stadium"},
	"Las Vegas Raiders":    {36.09, -115.18, true, "Allegiant Stadium"},
	"Denver Broncos":       {39.74, -104.99, false, "Empower Field"},
	"Green Bay Packers":    {44.50, -88.06, false, "Lambeau Field"},
	"Chicago Bears":        {41.86, -87.62, false, "Soldier Field"},
	"Arizona Cardinals":    {33.53, -112.26, true, "State Farm Stadium"},
	"Los Angeles Rams":     {33.95, -118.34, true, "SoFi Stadium"},
	"Kansas City Chiefs":   {39.05, -94.48, false, "GEHA Field"},
	"Houston Texans":       {29.68, -95.41, true, "NRG Stadium"},
	"Los Angeles Chargers": {33.95, -118.34, true, "SoFi Stadium"},
	"Philadelphia Eagles":  {39.90, -75.17, false, "Lincoln Financial Field"},
	"New England Patriots": {42.09, -71.26, false, "Gillette Stadium"},
	"Carolina Panthers":    {35.23, -80.85, false, "Bank of America Stadium"},
	"San Francisco 49ers":  {37.40, -121.97, false, "Levi's Stadium"},
}

// WeatherFetcher fetches kickoff forecasts from weather.gov (free, no API
// key for US venues). Unknown venues and upstream failures come back as
// Weather{Available: false}.
type WeatherFetcher struct {
	client  *http.Client
	cache   *services.CacheService
	breaker *services.CircuitBreakerService
	logger  *logrus.Logger
	baseURL string
}

// NewWeatherFetcher creates the weather fetcher.
func NewWeatherFetcher(cache *services.CacheService, breaker *services.CircuitBreakerService, logger *logrus.Logger) *WeatherFetcher {
	return &WeatherFetcher{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache:   cache,
		breaker: breaker,
		logger:  logger,
		baseURL: "https://api.weather.gov",
	}
}

// GameWeather resolves the home team's venue and fetches the forecast for
// game time.
func (f *WeatherFetcher) GameWeather(ctx context.Context, homeTeam string, gameTime time.Time) (Weather, error) {
	venue, ok := nflStadiums[homeTeam]
	if !ok {
		return Weather{Available: false}, nil
	}

	if venue.Indoor {
		return Weather{
			Available:   true,
			Indoor:      true,
			Stadium:     venue.Name,
			Temperature: "Controlled",
			Conditions:  "Perfect",
			Impact:      "None - Indoor Stadium",
		}, nil
	}

	cacheKey := fmt.Sprintf("weather:%s:%s", homeTeam, gameTime.Format("2006010215"))
	var cached Weather
	if f.cache != nil {
		if hit, _ := f.cache.Get(ctx, cacheKey, &cached); hit {
			return cached, nil
		}
	}

	forecast, err := f.fetchForecast(ctx, venue)
	if err != nil {
		f.logger.WithError(err).WithFields(logrus.Fields{
			"component": "weather_fetcher",
			"home_team": homeTeam,
			"stadium":   venue.Name,
		}).Warn("Weather fetch failed")
		return Weather{Available: false}, nil
	}

	if f.cache != nil {
		_ = f.cache.Set(ctx, cacheKey, forecast, services.WeatherTTL)
	}
	return forecast, nil
}

type weatherPointsResponse struct {
	Properties struct {
		Forecast string `json:"forecast"`
	} `json:"properties"`
}

type weatherForecastResponse struct {
	Properties struct {
		Periods []struct {
			Temperature   int    `json:"temperature"`
			ShortForecast string `json:"shortForecast"`
			WindSpeed     string `json:"windSpeed"`
		} `json:"periods"`
	} `json:"properties"`
}

func (f *WeatherFetcher) fetchForecast(ctx context.Context, venue stadium) (Weather, error) {
	var points weatherPointsResponse
	pointsURL := fmt.Sprintf("%s/points/%.2f,%.2f", f.baseURL, venue.Lat, venue.Lon)
	if err := f.getJSON(ctx, pointsURL, &points); err != nil {
		return Weather{}, fmt.Errorf("weather points lookup failed: %w", err)
	}
	if points.Properties.Forecast == "" {
		return Weather{}, fmt.Errorf("no forecast URL for %s", venue.Name)
	}

	var forecast weatherForecastResponse
	if err := f.getJSON(ctx, points.Properties.Forecast, &forecast); err != nil {
		return Weather{}, fmt.Errorf("forecast fetch failed: %w", err)
	}
	if len(forecast.Properties.Periods) == 0 {
		return Weather{}, fmt.Errorf("empty forecast for %s", venue.Name)
	}

	period := forecast.Properties.Periods[0]
	windMPH := parseWindSpeed(period.WindSpeed)

	return Weather{
		Available:       true,
		Indoor:          false,
		Stadium:         venue.Name,
		Temperature:     fmt.Sprintf("%d°F", period.Temperature),
		Conditions:      period.ShortForecast,
		WindSpeedMPH:    windMPH,
		WindDescription: period.WindSpeed,
		Impact:          AssessWeatherImpact(period.Temperature, windMPH, period.ShortForecast),
	}, nil
}

func (f *WeatherFetcher) getJSON(ctx context.Context, url string, dest interface{}) error {
	fetch := func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "valuebet/1.0")

		resp, err := f.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("weather.gov returned status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	}

	var body interface{}
	var err error
	if f.breaker != nil {
		body, err = f.breaker.Execute("weather-gov", fetch)
	} else {
		body, err = fetch()
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(body.([]byte), dest)
}

// parseWindSpeed extracts the leading number from strings like "15 mph" or
// "10 to 20 mph".
func parseWindSpeed(s string) int {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}
	return n
}

// AssessWeatherImpact summarizes how conditions affect play.
func AssessWeatherImpact(tempF, windMPH int, conditions string) string {
	var impacts []string

	switch {
	case tempF < 20:
		impacts = append(impacts, "Extreme Cold")
	case tempF < 32:
		impacts = append(impacts, "Freezing Conditions")
	case tempF > 95:
		impacts = append(impacts, "Extreme Heat")
	}

	if windMPH > 20 {
		impacts = append(impacts, "High Winds - Passing Game Affected")
	} else if windMPH > 15 {
		impacts = append(impacts, "Moderate Winds")
	}

	lower := strings.ToLower(conditions)
	if strings.Contains(lower, "rain") {
		impacts = append(impacts, "Rain - Ball Handling Affected")
	}
	if strings.Contains(lower, "snow") {
		impacts = append(impacts, "Snow - Visibility Issues")
	}

	if len(impacts) == 0 {
		return "Minimal Weather Impact"
	}
	return strings.Join(impacts, " | ")
}
