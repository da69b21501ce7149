package render

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"finchat/internal/analysis"
	"finchat/internal/dataflows"
	"finchat/internal/interp"
	"finchat/internal/tools"
)

func profileResult(symbol string) tools.Result {
	return tools.Result{
		Success: true,
		Tool:    "analyze_company_profile",
		Kind:    tools.KindProfile,
		Profile: &analysis.ProfileReport{
			Symbol:          symbol,
			Name:            symbol + " Inc.",
			Sector:          "Technology",
			Industry:        "Software",
			Country:         "United States",
			Website:         "N/A",
			Exchange:        "NasdaqGS",
			Currency:        "USD",
			MarketCap:       2_000_000_000_000,
			BusinessSummary: "Makes things.",
		},
	}
}

func TestRenderErrorPreemptsResults(t *testing.T) {
	g := NewGenerator(nil)

	out := g.Render(map[string]tools.Result{
		"AAPL_profile": profileResult("AAPL"),
	}, []string{"AAPL"}, "upstream exploded")

	assert.Equal(t, "I encountered an error: upstream exploded", out)
}

func TestRenderNoResults(t *testing.T) {
	g := NewGenerator(nil)

	out := g.Render(nil, nil, "")
	assert.Contains(t, out, "wasn't able to generate analysis results")
}

func TestRenderSkipsFailedResults(t *testing.T) {
	g := NewGenerator(nil)

	out := g.Render(map[string]tools.Result{
		"AAPL_profile": profileResult("AAPL"),
		"MSFT_profile": {Success: false, Tool: "analyze_company_profile", Error: "fetch failed"},
	}, []string{"AAPL", "MSFT"}, "")

	assert.Contains(t, out, "AAPL Inc.")
	assert.NotContains(t, out, "fetch failed")
	assert.Contains(t, out, "📊 Current context: AAPL, MSFT")
}

func TestRenderAllFailedFallsBackToNoResults(t *testing.T) {
	g := NewGenerator(nil)

	out := g.Render(map[string]tools.Result{
		"AAPL_profile": {Success: false, Error: "boom"},
	}, []string{"AAPL"}, "")

	assert.Contains(t, out, "wasn't able to generate analysis results")
}

func TestRenderDeterministicOrder(t *testing.T) {
	g := NewGenerator(nil)

	results := map[string]tools.Result{
		"MSFT_profile": profileResult("MSFT"),
		"AAPL_profile": profileResult("AAPL"),
	}

	first := g.Render(results, []string{"AAPL", "MSFT"}, "")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, g.Render(results, []string{"AAPL", "MSFT"}, ""))
	}
	assert.Less(t, strings.Index(first, "AAPL Inc."), strings.Index(first, "MSFT Inc."))
}

func TestRenderMetrics(t *testing.T) {
	g := NewGenerator(nil)
	pos := 62.5

	out := g.Render(map[string]tools.Result{
		"AAPL_metrics": {
			Success: true,
			Kind:    tools.KindMetrics,
			Metrics: &analysis.MetricsReport{
				Symbol: "AAPL",
				Name:   "Apple Inc.",
				Valuation: analysis.ValuationMetrics{
					MarketCap:  3_000_000_000_000,
					TrailingPE: 28.5,
				},
				Profitability: analysis.ProfitabilityMetrics{ProfitMargin: 0.25},
				Price: analysis.PriceMetrics{
					CurrentPrice:         decimal.NewFromInt(150),
					FiftyTwoWeekLow:      decimal.NewFromInt(100),
					FiftyTwoWeekHigh:     decimal.NewFromInt(180),
					FiftyTwoWeekPosition: &pos,
				},
			},
		},
	}, nil, "")

	assert.Contains(t, out, "Market Cap: $3.00T")
	assert.Contains(t, out, "Trailing P/E: 28.50")
	assert.Contains(t, out, "Profit Margin: 25.00%")
	assert.Contains(t, out, "52-Week Range: $100.00 - $180.00")
	assert.Contains(t, out, "52-Week Position: 62.5% of range")
	// Zero-valued metrics stay out of the output.
	assert.NotContains(t, out, "Forward P/E")
}

func TestRenderComparisonBars(t *testing.T) {
	g := NewGenerator(nil)

	out := g.Render(map[string]tools.Result{
		"comparison": {
			Success: true,
			Kind:    tools.KindComparison,
			Comparison: &analysis.ComparisonReport{
				MainTicker:  "AAPL",
				PeerTickers: []string{"MSFT"},
				Metrics: []analysis.MetricComparison{{
					Name:         "Market Cap",
					HigherBetter: true,
					Values: []analysis.MetricValue{
						{Ticker: "AAPL", Value: 3e12, Display: "$3.00T"},
						{Ticker: "MSFT", Value: 1.5e12, Display: "$1.50T"},
					},
					Best: "AAPL",
				}},
				Strengths: []string{"Strong market cap"},
				Summary:   "AAPL compared against 1 peer companies.",
			},
		},
	}, []string{"AAPL", "MSFT"}, "")

	assert.Contains(t, out, "-- Market Cap --")
	assert.Contains(t, out, "$3.00T")
	// Full-length bar for the maximum, half for the runner-up.
	assert.Contains(t, out, strings.Repeat("█", 20))
	assert.Contains(t, out, strings.Repeat("█", 10)+" ")
	assert.Contains(t, out, "Strengths of AAPL:")
}

func TestRenderRecommendations(t *testing.T) {
	g := NewGenerator(nil)

	out := g.Render(map[string]tools.Result{
		"AAPL_recommendations": {
			Success: true,
			Kind:    tools.KindRecommendations,
			Recommendations: &analysis.RecommendationsReport{
				Symbol: "AAPL",
				Periods: []dataflows.RecommendationPeriod{
					{Period: "0m", StrongBuy: 10, Buy: 20, Hold: 5},
				},
				Consensus:      "Buy",
				ConsensusScore: 1.86,
				TotalAnalysts:  35,
			},
		},
	}, nil, "")

	assert.Contains(t, out, "Consensus: Buy")
	assert.Contains(t, out, "35 analysts")
	assert.Contains(t, out, "0m")
}

func TestClarificationFallback(t *testing.T) {
	g := NewGenerator(nil)

	assert.Equal(t, interp.ClarificationPrompt, g.Clarification(""))
	assert.Equal(t, "which one?", g.Clarification("which one?"))
}

func TestWelcome(t *testing.T) {
	g := NewGenerator(nil)
	assert.Contains(t, g.Welcome(), "Financial Analysis Assistant")
}
