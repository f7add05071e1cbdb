package analysis

import "github.com/drummond-dev/valuebet/internal/providers"

// Probability and price bounds. These constants are the model contract;
// changing them changes every stored prediction.
const (
	probFloor = 0.01
	probCeil  = 0.99

	minValidPrice = 1.01
	maxValidPrice = 50.0

	maxCredibleValue = 2.0

	sentimentWeight = 0.05
	expertWeight    = 0.15
)

// Rejection reasons for discarded bets.
const (
	rejectNone         = ""
	rejectInvalidPrice = "price outside valid range"
	rejectAbsurdValue  = "value score exceeds credibility bound"
)

// Assessment is the scored outcome for one bet.
type Assessment struct {
	Probability   float64
	Value         float64
	BestPrice     *float64
	AvgPrice      *float64
	BestBookmaker string
	QuoteCount    int
	Confidence    string
	Recommended   bool

	// rejectReason is non-empty when the bet must be discarded without a
	// prediction write.
	rejectReason string
}

// Rejected reports whether the bet failed a data-quality gate.
func (a Assessment) Rejected() bool {
	return a.rejectReason != ""
}

// score runs the pure computation phase: combine the gathered signals into a
// probability, derive value against the best quoted price, and classify
// confidence. No I/O happens here.
func score(bet betContext, quotes []providers.RawOdds, signals *SignalBundle) Assessment {
	assessment := Assessment{QuoteCount: len(quotes)}

	probability := baseProbability(bet, signals)
	probability += signals.Sentiment.Score * sentimentWeight
	probability += (signals.Expert.ConfidenceScore / 100) * expertWeight
	probability += homeFieldBonus(bet, signals)
	assessment.Probability = clamp(probability, probFloor, probCeil)

	summarizePrices(&assessment, quotes)

	if assessment.BestPrice != nil {
		best := *assessment.BestPrice
		if best < minValidPrice || best > maxValidPrice {
			assessment.rejectReason = rejectInvalidPrice
			return assessment
		}
		assessment.Value = assessment.Probability*best - 1
		if assessment.Value > maxCredibleValue {
			assessment.rejectReason = rejectAbsurdValue
			return assessment
		}
	}

	assessment.Confidence = confidenceTier(assessment)
	assessment.Recommended = recommended(assessment)
	return assessment
}

// baseProbability applies a pairwise-strength normalization for moneyline
// bets when the opponent's rate is known; every other market uses the raw
// historical win rate.
func baseProbability(bet betContext, signals *SignalBundle) float64 {
	if bet.Market != "h2h" || signals.OpponentWinRate == nil {
		return signals.History.WinRate
	}
	total := signals.History.WinRate + *signals.OpponentWinRate
	if total == 0 {
		return 0.5
	}
	return signals.History.WinRate / total
}

// homeFieldBonus applies only when the selection is the home side and the
// expert model reports an advantage figure above 50 percent.
func homeFieldBonus(bet betContext, signals *SignalBundle) float64 {
	advantage := signals.Expert.HeadToHead.HomeFieldAdvantage
	if !bet.IsHome || advantage == nil || *advantage <= 50 {
		return 0
	}
	return (*advantage - 50) / 1000
}

// summarizePrices fills best/average price and the best-priced bookmaker
// from the group's quotes. Unpriced quotes are ignored.
func summarizePrices(assessment *Assessment, quotes []providers.RawOdds) {
	var sum float64
	var count int
	for _, quote := range quotes {
		if !quote.HasPrice() {
			continue
		}
		sum += quote.Price
		count++
		if assessment.BestPrice == nil || quote.Price > *assessment.BestPrice {
			price := quote.Price
			assessment.BestPrice = &price
			assessment.BestBookmaker = quote.Bookmaker
		}
	}
	if count > 1 {
		avg := sum / float64(count)
		assessment.AvgPrice = &avg
	}
}

// confidenceTier classifies the bet. Price availability switches which rule
// set applies; the two sets do not stack.
func confidenceTier(a Assessment) string {
	if a.BestPrice != nil {
		switch {
		case a.Value > 0.12 && a.Probability > 0.45:
			return "High"
		case a.Value > 0.05 && a.Probability > 0.40:
			return "Medium"
		}
		return "Low"
	}
	switch {
	case a.Probability > 0.65:
		return "High"
	case a.Probability > 0.50:
		return "Medium"
	}
	return "Low"
}

func recommended(a Assessment) bool {
	if a.BestPrice != nil {
		return a.Value > 0.03
	}
	return a.Probability > 0.55
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
