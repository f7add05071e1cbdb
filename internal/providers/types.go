// Package providers contains the typed boundary to every external data
// source the pipeline consumes. Each fetcher decodes provider payloads into
// the explicit structures below; nothing downstream inspects raw JSON.
package providers

import "time"

// RawOdds is one bookmaker's quote for one selection, flattened the way odds
// providers deliver them. Record and Headlines ride along from the schedule
// source so downstream signal fetchers don't need to re-query it.
type RawOdds struct {
	FixtureName string
	Sport       string
	League      string
	HomeTeam    string
	AwayTeam    string
	StartTime   time.Time
	MarketType  string // h2h, spreads, totals; empty defaults to h2h
	Selection   string
	Bookmaker   string
	Price       float64 // decimal odds; 0 means no price quoted
	Point       *float64
	Record      string // selection's win-loss record, e.g. "10-4", if known
	Headlines   []string
}

// HasPrice reports whether the quote carries a usable decimal price.
func (r RawOdds) HasPrice() bool {
	return r.Price > 0
}

// TeamHistory is the parsed historical record for one team.
type TeamHistory struct {
	Team     string
	WinRate  float64 // [0,1]
	FormDesc string
}

// NeutralTeamHistory is the substitute when no record is available: a coin
// flip, which keeps the probability model honest about missing data.
func NeutralTeamHistory(team string) TeamHistory {
	return TeamHistory{Team: team, WinRate: 0.5, FormDesc: "Record unavailable"}
}

// SentimentResult is the aggregate sentiment over recent headlines.
type SentimentResult struct {
	Fixture   string
	Score     float64 // [-1,1] compound score
	Volume    int
	Headlines []string
}

// FormAnalysis classifies a team's recent form from its record.
type FormAnalysis struct {
	CurrentForm     string // Hot, Good, Average, Cold, Unknown
	FormDescription string
	LastFive        string
	WinPercentage   float64
	Momentum        string // Positive, Neutral, Negative
}

// BettingTrends carries market-consensus figures when a provider supplies
// them. All pointer fields are nil when no trend source is configured.
type BettingTrends struct {
	PublicBettingPct *float64
	ExpertConsensus  *float64
	SharpMoney       string
	TrendStrength    string
}

// Available reports whether any real trend figures were sourced.
func (t BettingTrends) Available() bool {
	return t.PublicBettingPct != nil || t.ExpertConsensus != nil
}

// HeadToHead summarizes prior meetings between the two teams.
// HomeFieldAdvantage is a percentage (>50 favors the home side); it stays nil
// when no head-to-head source is configured, which disables the home bonus.
type HeadToHead struct {
	Record             string
	HomeWinPct         *float64
	HomeFieldAdvantage *float64
	Summary            string
}

// InjuredPlayer is one roster entry with an injury designation.
type InjuredPlayer struct {
	Name     string
	Position string
	Status   string // OUT, DOUBTFUL, QUESTIONABLE, DAY-TO-DAY, ...
	Injury   string
	Impact   string
}

// InjuryReport is the team-level injury assessment.
type InjuryReport struct {
	Status      string // Full Strength, Minor Concerns, Notable Absences, Significant Injuries
	Impact      string // Minimal, Low, Moderate, High
	Description string
	Players     []InjuredPlayer
}

// FullStrengthReport is the substitute when injury data is unavailable.
func FullStrengthReport() InjuryReport {
	return InjuryReport{
		Status:      "Full Strength",
		Impact:      "Minimal",
		Description: "All key players available",
	}
}

// ExpertAnalysis combines form, injury, trend and head-to-head signals into
// a 0-100 confidence score with itemized reasoning.
type ExpertAnalysis struct {
	ConfidenceScore float64 // 0..100
	ReasoningPoints []string
	Trends          BettingTrends
	Form            FormAnalysis
	HeadToHead      HeadToHead
	Injuries        InjuryReport
	Sources         []string
}

// NeutralExpertAnalysis is the substitute when the expert fetch fails.
func NeutralExpertAnalysis() ExpertAnalysis {
	return ExpertAnalysis{
		Form:     FormAnalysis{CurrentForm: "Unknown", FormDescription: "Insufficient data", LastFive: "N/A", WinPercentage: 50.0, Momentum: "Neutral"},
		Injuries: FullStrengthReport(),
		Trends:   BettingTrends{SharpMoney: "unavailable", TrendStrength: "N/A"},
	}
}

// TeamStats holds season statistics. Available is false when the stats
// source had nothing for the team; consumers must skip the struct then.
type TeamStats struct {
	Available bool
	Sport     string

	// Shared
	PointsPerGame        float64
	PointsAgainstPerGame float64

	// Football
	TotalYardsPerGame   float64
	PassingYardsPerGame float64
	RushingYardsPerGame float64

	// Basketball / hockey
	FieldGoalPct    float64
	ThreePointPct   float64
	AssistsPerGame  float64
	ReboundsPerGame float64
}

// Weather describes conditions at kickoff. Available is false when the home
// stadium is unknown or the forecast fetch failed.
type Weather struct {
	Available       bool
	Indoor          bool
	Stadium         string
	Temperature     string
	Conditions      string
	WindSpeedMPH    int
	WindDescription string
	Impact          string
}

// KeyPlayer is one of a team's top performers with a per-game stat line.
type KeyPlayer struct {
	Name     string
	Position string
	Jersey   string
	StatLine string
}
