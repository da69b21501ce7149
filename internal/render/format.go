package render

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"finchat/internal/analysis"
)

func formatProfile(report *analysis.ProfileReport) string {
	if report == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- Company Profile: %s (%s) ---\n", report.Name, report.Symbol)
	fmt.Fprintf(&b, "Sector: %s\n", report.Sector)
	fmt.Fprintf(&b, "Industry: %s\n", report.Industry)
	fmt.Fprintf(&b, "Country: %s\n", report.Country)
	fmt.Fprintf(&b, "Exchange: %s (%s)\n", report.Exchange, report.Currency)
	if report.Employees > 0 {
		fmt.Fprintf(&b, "Employees: %d\n", report.Employees)
	}
	if report.MarketCap > 0 {
		fmt.Fprintf(&b, "Market Cap: %s\n", analysis.FormatLargeNumber(float64(report.MarketCap)))
	}
	if report.Website != "N/A" {
		fmt.Fprintf(&b, "Website: %s\n", report.Website)
	}
	fmt.Fprintf(&b, "\n%s", report.BusinessSummary)
	return b.String()
}

func formatMetrics(report *analysis.MetricsReport) string {
	if report == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- Financial Metrics: %s (%s) ---\n", report.Name, report.Symbol)

	b.WriteString("\nValuation:\n")
	writeIf(&b, "Market Cap", analysis.FormatLargeNumber(float64(report.Valuation.MarketCap)))
	writeIf(&b, "Trailing P/E", analysis.FormatRatio(report.Valuation.TrailingPE))
	writeIf(&b, "Forward P/E", analysis.FormatRatio(report.Valuation.ForwardPE))
	writeIf(&b, "Price to Book", analysis.FormatRatio(report.Valuation.PriceToBook))
	writeIf(&b, "EPS (TTM)", analysis.FormatRatio(report.Valuation.EPS))

	b.WriteString("\nProfitability:\n")
	writeIf(&b, "Profit Margin", analysis.FormatPercentage(report.Profitability.ProfitMargin))
	writeIf(&b, "Operating Margin", analysis.FormatPercentage(report.Profitability.OperatingMargin))
	writeIf(&b, "Gross Margin", analysis.FormatPercentage(report.Profitability.GrossMargin))
	writeIf(&b, "Return on Equity", analysis.FormatPercentage(report.Profitability.ReturnOnEquity))
	writeIf(&b, "Return on Assets", analysis.FormatPercentage(report.Profitability.ReturnOnAssets))
	writeIf(&b, "Revenue Growth", analysis.FormatPercentage(report.Profitability.RevenueGrowth))
	writeIf(&b, "Earnings Growth", analysis.FormatPercentage(report.Profitability.EarningsGrowth))

	b.WriteString("\nStock Price:\n")
	writeDecimal(&b, "Current Price", report.Price.CurrentPrice)
	writeDecimal(&b, "Previous Close", report.Price.PreviousClose)
	if !report.Price.DayLow.IsZero() && !report.Price.DayHigh.IsZero() {
		fmt.Fprintf(&b, "  Day Range: $%s - $%s\n",
			report.Price.DayLow.StringFixed(2), report.Price.DayHigh.StringFixed(2))
	}
	if !report.Price.FiftyTwoWeekLow.IsZero() && !report.Price.FiftyTwoWeekHigh.IsZero() {
		fmt.Fprintf(&b, "  52-Week Range: $%s - $%s\n",
			report.Price.FiftyTwoWeekLow.StringFixed(2), report.Price.FiftyTwoWeekHigh.StringFixed(2))
	}
	if report.Price.FiftyTwoWeekPosition != nil {
		fmt.Fprintf(&b, "  52-Week Position: %.1f%% of range\n", *report.Price.FiftyTwoWeekPosition)
	}
	writeDecimal(&b, "50-Day Average", report.Price.FiftyDayAvg)
	writeDecimal(&b, "200-Day Average", report.Price.TwoHundredDayAvg)
	writeIf(&b, "Beta", analysis.FormatRatio(report.Price.Beta))

	if report.Dividends.DividendRate > 0 || report.Dividends.DividendYield > 0 {
		b.WriteString("\nDividends:\n")
		writeIf(&b, "Dividend Rate", analysis.FormatRatio(report.Dividends.DividendRate))
		writeIf(&b, "Dividend Yield", analysis.FormatPercentage(report.Dividends.DividendYield))
	}

	return strings.TrimRight(b.String(), "\n")
}

func formatStatement(report *analysis.StatementReport) string {
	if report == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- %s: %s (Annual) ---\n", report.Title, report.Symbol)

	for _, line := range report.Lines {
		var cells []string
		for _, v := range line.Values {
			cells = append(cells, fmt.Sprintf("%d: %s",
				v.EndDate.Year(), analysis.FormatDecimal(v.Value)))
		}
		fmt.Fprintf(&b, "%s: %s", line.Label, strings.Join(cells, " | "))
		if line.GrowthPct != nil {
			fmt.Fprintf(&b, " (%+.1f%% YoY)", *line.GrowthPct)
		}
		b.WriteString("\n")
	}

	if len(report.Ratios) > 0 {
		b.WriteString("\nDerived:\n")
		for _, ratio := range report.Ratios {
			if ratio.Label == "Free Cash Flow" {
				fmt.Fprintf(&b, "  %s: %s\n", ratio.Label, analysis.FormatLargeNumber(ratio.Value))
			} else if strings.Contains(ratio.Label, "Margin") {
				fmt.Fprintf(&b, "  %s: %s\n", ratio.Label, analysis.FormatPercentage(ratio.Value))
			} else {
				fmt.Fprintf(&b, "  %s: %s\n", ratio.Label, analysis.FormatRatio(ratio.Value))
			}
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

const barWidth = 20

func formatComparison(report *analysis.ComparisonReport) string {
	if report == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- Peer Comparison: %s vs %s ---\n",
		report.MainTicker, strings.Join(report.PeerTickers, ", "))

	for _, metric := range report.Metrics {
		fmt.Fprintf(&b, "\n-- %s --\n", metric.Name)

		maxAbs := 0.0
		for _, v := range metric.Values {
			if a := abs(v.Value); a > maxAbs {
				maxAbs = a
			}
		}
		if maxAbs == 0 {
			maxAbs = 1
		}
		for _, v := range metric.Values {
			b.WriteString(textBar(v.Ticker, v.Value, maxAbs, v.Display))
			b.WriteString("\n")
		}
	}

	if len(report.Strengths) > 0 {
		fmt.Fprintf(&b, "\nStrengths of %s:\n", report.MainTicker)
		for _, s := range report.Strengths {
			fmt.Fprintf(&b, "  • %s\n", s)
		}
	}
	if len(report.Weaknesses) > 0 {
		fmt.Fprintf(&b, "\nAreas for Improvement:\n")
		for _, w := range report.Weaknesses {
			fmt.Fprintf(&b, "  • %s\n", w)
		}
	}
	if len(report.Missing) > 0 {
		fmt.Fprintf(&b, "\nNo data available for: %s\n", strings.Join(report.Missing, ", "))
	}

	fmt.Fprintf(&b, "\n%s", report.Summary)
	return b.String()
}

// textBar renders one horizontal bar scaled against the metric maximum.
func textBar(label string, value, maxAbs float64, display string) string {
	n := int(abs(value) / maxAbs * barWidth)
	if n > barWidth {
		n = barWidth
	}
	if n == 0 && value != 0 {
		n = 1
	}
	return fmt.Sprintf("%-6s| %-*s %s", label, barWidth, strings.Repeat("█", n), display)
}

func formatRecommendations(report *analysis.RecommendationsReport) string {
	if report == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- Analyst Recommendations: %s ---\n", report.Symbol)
	fmt.Fprintf(&b, "Consensus: %s (score %.2f from %d analysts)\n\n",
		report.Consensus, report.ConsensusScore, report.TotalAnalysts)

	fmt.Fprintf(&b, "%-8s %10s %6s %6s %6s %11s\n",
		"Period", "StrongBuy", "Buy", "Hold", "Sell", "StrongSell")
	for _, p := range report.Periods {
		fmt.Fprintf(&b, "%-8s %10d %6d %6d %6d %11d\n",
			p.Period, p.StrongBuy, p.Buy, p.Hold, p.Sell, p.StrongSell)
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeIf(b *strings.Builder, label, value string) {
	if value == "N/A" {
		return
	}
	fmt.Fprintf(b, "  %s: %s\n", label, value)
}

func writeDecimal(b *strings.Builder, label string, d decimal.Decimal) {
	if d.IsZero() {
		return
	}
	fmt.Fprintf(b, "  %s: $%s\n", label, d.StringFixed(2))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
