package analysis

import (
	"fmt"

	"finchat/internal/dataflows"
)

// RecommendationsReport summarizes the analyst recommendation trend.
type RecommendationsReport struct {
	Symbol  string                           `json:"symbol"`
	Periods []dataflows.RecommendationPeriod `json:"periods"`

	// Consensus is derived from the most recent period: analyst counts
	// weighted 1 (strong buy) through 5 (strong sell).
	Consensus      string  `json:"consensus"`
	ConsensusScore float64 `json:"consensus_score"`
	TotalAnalysts  int     `json:"total_analysts"`
}

// AnalyzeRecommendations computes the consensus from a recommendation
// trend, keeping the raw periods for display.
func AnalyzeRecommendations(trend *dataflows.RecommendationTrend) (*RecommendationsReport, error) {
	if trend == nil || len(trend.Periods) == 0 {
		return nil, fmt.Errorf("no recommendation data provided")
	}

	latest := trend.Periods[0]
	total := latest.StrongBuy + latest.Buy + latest.Hold + latest.Sell + latest.StrongSell
	if total == 0 {
		return nil, fmt.Errorf("no analyst coverage for %s", trend.Symbol)
	}

	score := float64(latest.StrongBuy*1+latest.Buy*2+latest.Hold*3+latest.Sell*4+latest.StrongSell*5) /
		float64(total)

	return &RecommendationsReport{
		Symbol:         trend.Symbol,
		Periods:        trend.Periods,
		Consensus:      consensusLabel(score),
		ConsensusScore: score,
		TotalAnalysts:  total,
	}, nil
}

func consensusLabel(score float64) string {
	switch {
	case score < 1.5:
		return "Strong Buy"
	case score < 2.5:
		return "Buy"
	case score < 3.5:
		return "Hold"
	case score < 4.5:
		return "Sell"
	default:
		return "Strong Sell"
	}
}
