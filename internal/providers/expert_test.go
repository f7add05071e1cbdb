package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyForm(t *testing.T) {
	tests := []struct {
		record   string
		form     string
		momentum string
	}{
		{"13-4", "Hot", "Positive"},
		{"10-7", "Good", "Positive"},
		{"8-8", "Average", "Neutral"},
		{"4-12", "Cold", "Negative"},
	}

	for _, tc := range tests {
		form := classifyForm(tc.record)
		assert.Equal(t, tc.form, form.CurrentForm, "record %s", tc.record)
		assert.Equal(t, tc.momentum, form.Momentum, "record %s", tc.record)
	}
}

func TestClassifyFormUnknown(t *testing.T) {
	for _, record := range []string{"", "n/a", "x-y"} {
		form := classifyForm(record)
		assert.Equal(t, "Unknown", form.CurrentForm, "record %q", record)
		assert.Equal(t, 50.0, form.WinPercentage)
	}
}

func TestAssessInjuryImpact(t *testing.T) {
	assert.Equal(t, "High - player ruled out", assessInjuryImpact("QB", "OUT"))
	assert.Equal(t, "Moderate - backup unavailable", assessInjuryImpact("K", "OUT"))
	assert.Equal(t, "High - likely to miss game", assessInjuryImpact("C", "DOUBTFUL"))
	assert.Equal(t, "Moderate - game-time decision", assessInjuryImpact("G", "QUESTIONABLE"))
	assert.Equal(t, "Low - depth concern", assessInjuryImpact("P", "QUESTIONABLE"))
	assert.Equal(t, "Low - limited participation", assessInjuryImpact("QB", "DAY-TO-DAY"))
}

func TestOverallInjuryAssessment(t *testing.T) {
	none := []InjuredPlayer(nil)
	assert.Equal(t, "Full Strength", overallInjuryStatus(none))
	assert.Equal(t, "Minimal", overallInjuryImpact(none))
	assert.Equal(t, "All key players available", injuryDescription(none))

	oneOut := []InjuredPlayer{
		{Name: "A. Starter", Position: "QB", Status: "OUT", Impact: assessInjuryImpact("QB", "OUT")},
	}
	assert.Equal(t, "Notable Absences", overallInjuryStatus(oneOut))
	assert.Equal(t, "Moderate", overallInjuryImpact(oneOut))
	assert.Equal(t, "A. Starter (QB) ruled OUT", injuryDescription(oneOut))

	twoOut := append(oneOut, InjuredPlayer{
		Name: "B. Backup", Position: "RB", Status: "OUT", Impact: assessInjuryImpact("RB", "OUT"),
	})
	assert.Equal(t, "Significant Injuries", overallInjuryStatus(twoOut))
	assert.Equal(t, "High", overallInjuryImpact(twoOut))
	assert.Equal(t, "2 players ruled OUT including A. Starter (QB)", injuryDescription(twoOut))

	questionable := []InjuredPlayer{
		{Name: "C. Wing", Position: "SF", Status: "QUESTIONABLE", Impact: assessInjuryImpact("SF", "QUESTIONABLE")},
	}
	assert.Equal(t, "Minor Concerns", overallInjuryStatus(questionable))
	assert.Equal(t, "Low", overallInjuryImpact(questionable))
	assert.Equal(t, "1 player with injury designations", injuryDescription(questionable))
}
