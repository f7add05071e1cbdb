package providers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// ExpertFetcher combines the signals we have real sources for, recent form
// from the record and injuries from ESPN rosters, into a 0-100 confidence
// score with itemized reasoning. Betting trends and head-to-head
// history have no real source, so those sections report unavailable and the
// home-field-advantage figure stays nil.
type ExpertFetcher struct {
	espn   *ESPNClient
	logger *logrus.Logger
}

// NewExpertFetcher creates the expert analysis fetcher.
func NewExpertFetcher(espn *ESPNClient, logger *logrus.Logger) *ExpertFetcher {
	return &ExpertFetcher{espn: espn, logger: logger}
}

// ComprehensiveAnalysis builds the full expert view for one team in one
// matchup. Injury fetch failures degrade to a full-strength report; the
// method itself only errs on programming mistakes, never on upstream flake.
func (f *ExpertFetcher) ComprehensiveAnalysis(ctx context.Context, team, opponent, sport, record string, isHome bool) (ExpertAnalysis, error) {
	form := classifyForm(record)
	injuries := f.teamInjuries(ctx, team, sport)

	var confidence float64
	var points []string

	// Recent form carries half the confidence weight.
	switch form.CurrentForm {
	case "Hot", "Good":
		confidence += 50
		points = append(points, "✓ "+form.FormDescription)
	case "Average":
		confidence += 25
		points = append(points, "• "+form.FormDescription)
	case "Cold":
		points = append(points, "✗ "+form.FormDescription)
	}

	// Injury availability carries the other half.
	switch injuries.Impact {
	case "Minimal":
		confidence += 50
		points = append(points, "✓ "+injuries.Description)
	case "Low":
		confidence += 35
		points = append(points, "✓ "+injuries.Description)
	case "Moderate":
		confidence += 15
		points = append(points, "⚠ "+injuries.Description)
	default:
		points = append(points, "✗ "+injuries.Description)
	}

	if isHome {
		points = append(points, "• Playing at home")
	}

	if confidence > 100 {
		confidence = 100
	}

	return ExpertAnalysis{
		ConfidenceScore: confidence,
		ReasoningPoints: points,
		Trends:          BettingTrends{SharpMoney: "unavailable", TrendStrength: "N/A"},
		Form:            form,
		HeadToHead: HeadToHead{
			Record:  "N/A",
			Summary: "Head-to-head data unavailable",
		},
		Injuries: injuries,
		Sources:  []string{"ESPN", "VADER Sentiment"},
	}, nil
}

// classifyForm buckets a win-loss record into a form label.
func classifyForm(record string) FormAnalysis {
	unknown := FormAnalysis{
		CurrentForm:     "Unknown",
		FormDescription: "Insufficient data",
		LastFive:        "N/A",
		WinPercentage:   50.0,
		Momentum:        "Neutral",
	}

	if !strings.Contains(record, "-") {
		return unknown
	}
	parts := strings.Split(record, "-")
	wins, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	losses, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return unknown
	}

	total := wins + losses
	winPct := 0.5
	if total > 0 {
		winPct = float64(wins) / float64(total)
	}

	var form, desc string
	switch {
	case winPct >= 0.65:
		form = "Hot"
		desc = fmt.Sprintf("Excellent form with %d-%d record", wins, losses)
	case winPct >= 0.55:
		form = "Good"
		desc = fmt.Sprintf("Solid performance at %d-%d", wins, losses)
	case winPct >= 0.45:
		form = "Average"
		desc = fmt.Sprintf("Inconsistent at %d-%d", wins, losses)
	default:
		form = "Cold"
		desc = fmt.Sprintf("Struggling with %d-%d record", wins, losses)
	}

	momentum := "Neutral"
	if winPct > 0.55 {
		momentum = "Positive"
	} else if winPct < 0.45 {
		momentum = "Negative"
	}

	return FormAnalysis{
		CurrentForm:     form,
		FormDescription: desc,
		LastFive:        "N/A",
		WinPercentage:   winPct * 100,
		Momentum:        momentum,
	}
}

// teamInjuries pulls the roster and keeps entries with an injury
// designation. Any failure yields a full-strength report.
func (f *ExpertFetcher) teamInjuries(ctx context.Context, team, sport string) InjuryReport {
	teamID, err := f.espn.TeamID(ctx, sport, team)
	if err != nil {
		f.logger.WithError(err).WithFields(logrus.Fields{
			"component": "expert_fetcher",
			"team":      team,
			"sport":     sport,
		}).Warn("Could not resolve team for injury report")
		return FullStrengthReport()
	}

	roster, err := f.espn.Roster(ctx, sport, teamID)
	if err != nil {
		f.logger.WithError(err).WithFields(logrus.Fields{
			"component": "expert_fetcher",
			"team":      team,
			"sport":     sport,
		}).Warn("Injury report fetch failed")
		return FullStrengthReport()
	}

	var injured []InjuredPlayer
	for _, group := range roster.Athletes {
		for _, athlete := range group.Items {
			if len(athlete.Injuries) == 0 {
				continue
			}
			injury := athlete.Injuries[0]
			status := strings.ToUpper(injury.Status)
			if status == "ACTIVE" || status == "HEALTHY" {
				continue
			}

			desc := injury.LongComment
			if desc == "" {
				desc = injury.Type
			}
			if desc == "" {
				desc = "Unknown"
			}

			position := athlete.Position.Abbreviation
			if position == "" {
				position = "N/A"
			}

			injured = append(injured, InjuredPlayer{
				Name:     athlete.DisplayName,
				Position: position,
				Status:   status,
				Injury:   desc,
				Impact:   assessInjuryImpact(position, status),
			})
		}
	}

	return InjuryReport{
		Status:      overallInjuryStatus(injured),
		Impact:      overallInjuryImpact(injured),
		Description: injuryDescription(injured),
		Players:     injured,
	}
}

// keyPositions are the positions whose absence moves a betting line.
var keyPositions = map[string]bool{
	// NFL
	"QB": true, "RB": true, "WR": true, "TE": true, "LT": true, "DE": true, "LB": true,
	// NBA
	"PG": true, "SG": true, "SF": true, "PF": true, "C": true,
	// NHL
	"G": true, "D": true, "LW": true, "RW": true,
}

func assessInjuryImpact(position, status string) string {
	key := keyPositions[position]
	switch strings.ToUpper(status) {
	case "OUT":
		if key {
			return "High - player ruled out"
		}
		return "Moderate - backup unavailable"
	case "DOUBTFUL":
		if key {
			return "High - likely to miss game"
		}
		return "Moderate - backup uncertain"
	case "QUESTIONABLE":
		if key {
			return "Moderate - game-time decision"
		}
		return "Low - depth concern"
	default:
		return "Low - limited participation"
	}
}

func overallInjuryStatus(injured []InjuredPlayer) string {
	if len(injured) == 0 {
		return "Full Strength"
	}

	var out, doubtful int
	for _, p := range injured {
		switch p.Status {
		case "OUT":
			out++
		case "DOUBTFUL":
			doubtful++
		}
	}

	switch {
	case out >= 2 || out+doubtful >= 3:
		return "Significant Injuries"
	case out >= 1 || doubtful >= 2:
		return "Notable Absences"
	default:
		return "Minor Concerns"
	}
}

func overallInjuryImpact(injured []InjuredPlayer) string {
	if len(injured) == 0 {
		return "Minimal"
	}

	var high, moderate int
	for _, p := range injured {
		if strings.HasPrefix(p.Impact, "High") {
			high++
		} else if strings.HasPrefix(p.Impact, "Moderate") {
			moderate++
		}
	}

	switch {
	case high >= 2:
		return "High"
	case high >= 1 || moderate >= 2:
		return "Moderate"
	default:
		return "Low"
	}
}

func injuryDescription(injured []InjuredPlayer) string {
	if len(injured) == 0 {
		return "All key players available"
	}

	var out, doubtful []InjuredPlayer
	for _, p := range injured {
		switch p.Status {
		case "OUT":
			out = append(out, p)
		case "DOUBTFUL":
			doubtful = append(doubtful, p)
		}
	}

	switch {
	case len(out) == 1:
		return fmt.Sprintf("%s (%s) ruled OUT", out[0].Name, out[0].Position)
	case len(out) > 1:
		return fmt.Sprintf("%d players ruled OUT including %s (%s)", len(out), out[0].Name, out[0].Position)
	case len(doubtful) > 0:
		return fmt.Sprintf("%s (%s) doubtful to play", doubtful[0].Name, doubtful[0].Position)
	case len(injured) == 1:
		return "1 player with injury designations"
	default:
		return fmt.Sprintf("%d players with injury designations", len(injured))
	}
}
