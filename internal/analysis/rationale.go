package analysis

import (
	"fmt"
	"strings"
)

// buildRationale composes the stored free-text explanation for a prediction.
// The output is deterministic for a given bet, assessment and signal bundle;
// it is stored verbatim and carries no algorithmic meaning.
func buildRationale(bet betContext, a Assessment, signals *SignalBundle) string {
	var b strings.Builder

	record := bet.Record
	if record == "" {
		record = "record unavailable"
	}
	fmt.Fprintf(&b, "**%s** (%s)\n", bet.Selection, record)

	writeOddsSummary(&b, a)
	writeTrends(&b, signals)
	writeExpertPoints(&b, signals)
	writeForm(&b, signals)
	writeInjuries(&b, signals)
	writeTeamStats(&b, bet.Sport, signals)
	writeWeather(&b, signals)
	writeKeyPlayers(&b, signals)
	writeValueAssessment(&b, a)
	writeHeadlines(&b, signals)
	writeSources(&b, signals)

	return strings.TrimRight(b.String(), "\n")
}

func writeOddsSummary(b *strings.Builder, a Assessment) {
	if a.BestPrice == nil {
		fmt.Fprintf(b, "Win Probability: %.1f%% | No market price available\n", a.Probability*100)
		return
	}
	fmt.Fprintf(b, "Win Probability: %.1f%% | Best Odds: %.2f (%s)\n", a.Probability*100, *a.BestPrice, a.BestBookmaker)
	if a.AvgPrice != nil {
		fmt.Fprintf(b, "Avg Odds: %.2f across %d bookmakers\n", *a.AvgPrice, a.QuoteCount)
	}
}

func writeTrends(b *strings.Builder, signals *SignalBundle) {
	trends := signals.Expert.Trends
	if !trends.Available() {
		return
	}
	b.WriteString("\n**Betting Trends:**\n")
	if trends.PublicBettingPct != nil {
		fmt.Fprintf(b, "  Public Betting: %.0f%% on this pick\n", *trends.PublicBettingPct)
	}
	if trends.ExpertConsensus != nil {
		fmt.Fprintf(b, "  Expert Consensus: %.0f%% (%s)\n", *trends.ExpertConsensus, trends.TrendStrength)
	}
	if trends.SharpMoney != "" {
		fmt.Fprintf(b, "  Sharp Money: %s\n", trends.SharpMoney)
	}
}

func writeExpertPoints(b *strings.Builder, signals *SignalBundle) {
	points := signals.Expert.ReasoningPoints
	if len(points) == 0 {
		return
	}
	b.WriteString("\n**Analysis:**\n")
	if len(points) > 4 {
		points = points[:4]
	}
	for _, point := range points {
		fmt.Fprintf(b, "  %s\n", point)
	}
}

func writeForm(b *strings.Builder, signals *SignalBundle) {
	form := signals.Expert.Form
	if form.CurrentForm == "" {
		return
	}
	fmt.Fprintf(b, "\n**Recent Form:** %s (%s in L5)\n", form.CurrentForm, form.LastFive)
	fmt.Fprintf(b, "  Momentum: %s\n", form.Momentum)
}

// writeInjuries lists only players ruled OUT. Questionable and doubtful
// designations influence the confidence score but are excluded from the
// narrative.
func writeInjuries(b *strings.Builder, signals *SignalBundle) {
	injuries := signals.Expert.Injuries
	if injuries.Impact == "Minimal" {
		return
	}
	var out []string
	for _, player := range injuries.Players {
		if player.Status != "OUT" {
			continue
		}
		if player.Name == "" {
			out = append(out, fmt.Sprintf("  • %s: OUT - %s", player.Position, player.Injury))
			continue
		}
		out = append(out, fmt.Sprintf("  • %s (%s): OUT - %s", player.Name, player.Position, player.Injury))
	}
	if len(out) == 0 {
		return
	}
	plural := "s"
	if len(out) == 1 {
		plural = ""
	}
	fmt.Fprintf(b, "\n**Injury Report:** %d player%s ruled OUT\n", len(out), plural)
	for _, line := range out {
		b.WriteString(line + "\n")
	}
}

func writeTeamStats(b *strings.Builder, sport string, signals *SignalBundle) {
	stats := signals.TeamStats
	if !stats.Available {
		return
	}
	b.WriteString("\n**Team Statistics (ESPN):**\n")
	switch sport {
	case "NFL":
		if stats.PointsPerGame > 0 {
			fmt.Fprintf(b, "  Offense: %.1f PPG, %.1f YPG\n", stats.PointsPerGame, stats.TotalYardsPerGame)
			fmt.Fprintf(b, "  Passing: %.1f YPG | Rushing: %.1f YPG\n", stats.PassingYardsPerGame, stats.RushingYardsPerGame)
		}
		if stats.PointsAgainstPerGame > 0 {
			fmt.Fprintf(b, "  Defense: %.1f PPG allowed\n", stats.PointsAgainstPerGame)
		}
	default:
		if stats.PointsPerGame > 0 {
			fmt.Fprintf(b, "  Offense: %.1f PPG, %.1f%% FG\n", stats.PointsPerGame, stats.FieldGoalPct)
			fmt.Fprintf(b, "  3PT%%: %.1f%% | Assists: %.1f APG\n", stats.ThreePointPct, stats.AssistsPerGame)
			fmt.Fprintf(b, "  Rebounds: %.1f RPG\n", stats.ReboundsPerGame)
		}
	}
}

func writeWeather(b *strings.Builder, signals *SignalBundle) {
	weather := signals.Weather
	if weather == nil || !weather.Available {
		return
	}
	fmt.Fprintf(b, "\n**Weather Conditions at %s:**\n", weather.Stadium)
	if weather.Indoor {
		fmt.Fprintf(b, "  %s - %s\n", weather.Conditions, weather.Impact)
		return
	}
	wind := weather.WindDescription
	if wind == "" {
		wind = "N/A"
	}
	fmt.Fprintf(b, "  Temperature: %s | Wind: %s\n", weather.Temperature, wind)
	fmt.Fprintf(b, "  Conditions: %s\n", weather.Conditions)
	fmt.Fprintf(b, "  Impact: %s\n", weather.Impact)
}

func writeKeyPlayers(b *strings.Builder, signals *SignalBundle) {
	if len(signals.KeyPlayers) == 0 {
		return
	}
	b.WriteString("\n**Key Players:**\n")
	for _, player := range signals.KeyPlayers {
		line := fmt.Sprintf("  • %s", player.Name)
		if player.Jersey != "" {
			line += fmt.Sprintf(" (#%s)", player.Jersey)
		}
		line += fmt.Sprintf(" - %s", player.Position)
		if player.StatLine != "" {
			line += fmt.Sprintf(": %s", player.StatLine)
		}
		b.WriteString(line + "\n")
	}
}

func writeValueAssessment(b *strings.Builder, a Assessment) {
	if a.BestPrice == nil {
		return
	}
	switch {
	case a.Value > 0.1:
		fmt.Fprintf(b, "\n**Value:** Strong edge detected (%.2f)\n", a.Value)
	case a.Value > 0:
		fmt.Fprintf(b, "\n**Value:** Positive value (%.2f)\n", a.Value)
	default:
		fmt.Fprintf(b, "\n**Value:** No edge (%.2f)\n", a.Value)
	}
}

func writeHeadlines(b *strings.Builder, signals *SignalBundle) {
	headlines := signals.Sentiment.Headlines
	if len(headlines) == 0 {
		return
	}
	fmt.Fprintf(b, "\n**Recent Headlines (%d):**\n", len(headlines))
	show := headlines
	if len(show) > 2 {
		show = show[:2]
	}
	for _, headline := range show {
		fmt.Fprintf(b, "  • %q\n", headline)
	}
	fmt.Fprintf(b, "  Sentiment Score: %.2f\n", signals.Sentiment.Score)
}

func writeSources(b *strings.Builder, signals *SignalBundle) {
	sources := signals.Expert.Sources
	if len(sources) == 0 {
		return
	}
	if len(sources) > 3 {
		sources = sources[:3]
	}
	fmt.Fprintf(b, "\n*Sources: %s*", strings.Join(sources, ", "))
}
