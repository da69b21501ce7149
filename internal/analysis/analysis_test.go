package analysis

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finchat/internal/dataflows"
)

func sampleCompany(symbol string) *dataflows.CompanyInfo {
	return &dataflows.CompanyInfo{
		Symbol:           symbol,
		Name:             symbol + " Inc.",
		Exchange:         "NasdaqGS",
		Currency:         "USD",
		Sector:           "Technology",
		Industry:         "Consumer Electronics",
		MarketCap:        3_000_000_000_000,
		Price:            decimal.NewFromInt(150),
		FiftyTwoWeekLow:  decimal.NewFromInt(100),
		FiftyTwoWeekHigh: decimal.NewFromInt(200),
		TrailingPE:       28.5,
		PriceToBook:      45.0,
		ProfitMargin:     0.25,
		ReturnOnEquity:   1.47,
		RevenueGrowth:    0.08,
	}
}

func TestAnalyzeProfile(t *testing.T) {
	report, err := AnalyzeProfile(sampleCompany("AAPL"))
	require.NoError(t, err)

	assert.Equal(t, "AAPL", report.Symbol)
	assert.Equal(t, "Technology", report.Sector)
	assert.Equal(t, "N/A", report.Country)
	assert.Equal(t, "No summary available.", report.BusinessSummary)
}

func TestAnalyzeProfileNilInput(t *testing.T) {
	_, err := AnalyzeProfile(nil)
	assert.Error(t, err)
}

func TestAnalyzeMetricsFiftyTwoWeekPosition(t *testing.T) {
	report, err := AnalyzeMetrics(sampleCompany("AAPL"))
	require.NoError(t, err)

	require.NotNil(t, report.Price.FiftyTwoWeekPosition)
	assert.InDelta(t, 50.0, *report.Price.FiftyTwoWeekPosition, 0.001)
}

func TestAnalyzeMetricsDegenerateRange(t *testing.T) {
	info := sampleCompany("AAPL")
	info.FiftyTwoWeekLow = decimal.NewFromInt(150)
	info.FiftyTwoWeekHigh = decimal.NewFromInt(150)

	report, err := AnalyzeMetrics(info)
	require.NoError(t, err)
	assert.Nil(t, report.Price.FiftyTwoWeekPosition)
}

func sampleStatements() *dataflows.StatementSet {
	period := func(year int, items map[string]int64) dataflows.StatementPeriod {
		p := dataflows.StatementPeriod{
			EndDate: time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC),
			Items:   make(map[string]decimal.Decimal),
		}
		for k, v := range items {
			p.Items[k] = decimal.NewFromInt(v)
		}
		return p
	}

	return &dataflows.StatementSet{
		Symbol: "AAPL",
		Income: &dataflows.Statement{
			Kind: dataflows.IncomeStatement,
			Periods: []dataflows.StatementPeriod{
				period(2023, map[string]int64{
					"totalRevenue": 400_000_000_000,
					"grossProfit":  180_000_000_000,
					"netIncome":    100_000_000_000,
				}),
				period(2022, map[string]int64{
					"totalRevenue": 380_000_000_000,
					"grossProfit":  170_000_000_000,
					"netIncome":    95_000_000_000,
				}),
			},
		},
		Cash: &dataflows.Statement{
			Kind: dataflows.CashFlow,
			Periods: []dataflows.StatementPeriod{
				period(2023, map[string]int64{
					"totalCashFromOperatingActivities": 110_000_000_000,
					"capitalExpenditures":              -11_000_000_000,
				}),
			},
		},
	}
}

func TestAnalyzeStatementIncome(t *testing.T) {
	report, err := AnalyzeStatement(sampleStatements(), dataflows.IncomeStatement)
	require.NoError(t, err)

	assert.Equal(t, "Income Statement", report.Title)
	require.Len(t, report.Lines, 3)

	revenue := report.Lines[0]
	assert.Equal(t, "Total Revenue", revenue.Label)
	require.Len(t, revenue.Values, 2)
	require.NotNil(t, revenue.GrowthPct)
	assert.InDelta(t, 5.263, *revenue.GrowthPct, 0.01)

	var labels []string
	for _, r := range report.Ratios {
		labels = append(labels, r.Label)
	}
	assert.Equal(t, []string{"Gross Margin", "Net Margin"}, labels)
}

func TestAnalyzeStatementCashFlowFCF(t *testing.T) {
	report, err := AnalyzeStatement(sampleStatements(), dataflows.CashFlow)
	require.NoError(t, err)

	require.Len(t, report.Ratios, 1)
	assert.Equal(t, "Free Cash Flow", report.Ratios[0].Label)
	assert.InDelta(t, 99_000_000_000, report.Ratios[0].Value, 1)
}

func TestAnalyzeStatementMissingKind(t *testing.T) {
	_, err := AnalyzeStatement(sampleStatements(), dataflows.BalanceSheet)
	assert.Error(t, err)
}

func TestAnalyzeComparisonHeadToHead(t *testing.T) {
	main := sampleCompany("AAPL")
	peer := sampleCompany("MSFT")
	peer.MarketCap = 2_800_000_000_000
	peer.TrailingPE = 35.0
	peer.ProfitMargin = 0.34

	report, err := AnalyzeComparison(&dataflows.ComparisonData{
		MainTicker:  "AAPL",
		PeerTickers: []string{"MSFT"},
		Companies: map[string]*dataflows.CompanyInfo{
			"AAPL": main,
			"MSFT": peer,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "AAPL", report.MainTicker)
	assert.Equal(t, "1 of 2", report.Rankings["Market Cap"])
	assert.Equal(t, "1 of 2", report.Rankings["P/E Ratio"])
	assert.Equal(t, "2 of 2", report.Rankings["Profit Margin (%)"])

	assert.Contains(t, report.Strengths, "Strong market cap")
	assert.Contains(t, report.Strengths, "Strong p/e ratio (attractive valuation)")
	assert.Contains(t, report.Weaknesses, "Weak profit margin (%)")

	// Main ticker's values come first in every row.
	for _, metric := range report.Metrics {
		assert.Equal(t, "AAPL", metric.Values[0].Ticker)
	}
}

func TestAnalyzeComparisonSkipsMissingValues(t *testing.T) {
	main := sampleCompany("AAPL")
	peer := sampleCompany("MSFT")
	peer.TrailingPE = 0

	report, err := AnalyzeComparison(&dataflows.ComparisonData{
		MainTicker:  "AAPL",
		PeerTickers: []string{"MSFT"},
		Companies: map[string]*dataflows.CompanyInfo{
			"AAPL": main,
			"MSFT": peer,
		},
	})
	require.NoError(t, err)

	for _, metric := range report.Metrics {
		if metric.Name == "P/E Ratio" {
			require.Len(t, metric.Values, 1)
			// One value is no ranking.
			assert.NotContains(t, report.Rankings, "P/E Ratio")
		}
	}
}

func TestAnalyzeComparisonMissingMainTicker(t *testing.T) {
	_, err := AnalyzeComparison(&dataflows.ComparisonData{
		MainTicker: "AAPL",
		Companies: map[string]*dataflows.CompanyInfo{
			"MSFT": sampleCompany("MSFT"),
		},
	})
	assert.Error(t, err)
}

func TestAnalyzeRecommendationsConsensus(t *testing.T) {
	report, err := AnalyzeRecommendations(&dataflows.RecommendationTrend{
		Symbol: "AAPL",
		Periods: []dataflows.RecommendationPeriod{
			{Period: "0m", StrongBuy: 10, Buy: 20, Hold: 5, Sell: 1},
			{Period: "-1m", StrongBuy: 8, Buy: 22, Hold: 6, Sell: 2},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 36, report.TotalAnalysts)
	assert.Equal(t, "Buy", report.Consensus)
	assert.InDelta(t, 1.917, report.ConsensusScore, 0.01)
}

func TestAnalyzeRecommendationsNoCoverage(t *testing.T) {
	_, err := AnalyzeRecommendations(&dataflows.RecommendationTrend{
		Symbol:  "AAPL",
		Periods: []dataflows.RecommendationPeriod{{Period: "0m"}},
	})
	assert.Error(t, err)
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "$3.00T", FormatLargeNumber(3e12))
	assert.Equal(t, "$2.50B", FormatLargeNumber(2.5e9))
	assert.Equal(t, "$-1.20M", FormatLargeNumber(-1.2e6))
	assert.Equal(t, "$42.00", FormatLargeNumber(42))
	assert.Equal(t, "N/A", FormatLargeNumber(0))
	assert.Equal(t, "24.50%", FormatPercentage(0.245))
	assert.Equal(t, "28.50", FormatRatio(28.5))
}
