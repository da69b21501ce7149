package analysis

import (
	"fmt"
	"strings"

	"finchat/internal/dataflows"
)

// MetricValue is one company's value for a comparison metric.
type MetricValue struct {
	Ticker  string  `json:"ticker"`
	Value   float64 `json:"value"`
	Display string  `json:"display"`
}

// MetricComparison lines companies up on one metric, main ticker first.
type MetricComparison struct {
	Name         string        `json:"name"`
	HigherBetter bool          `json:"higher_better"`
	Values       []MetricValue `json:"values"`
	Best         string        `json:"best,omitempty"`
}

// ComparisonReport is the full peer comparison analysis.
type ComparisonReport struct {
	MainTicker  string             `json:"main_ticker"`
	PeerTickers []string           `json:"peer_tickers"`
	Metrics     []MetricComparison `json:"metrics"`
	Rankings    map[string]string  `json:"rankings,omitempty"`
	Strengths   []string           `json:"strengths,omitempty"`
	Weaknesses  []string           `json:"weaknesses,omitempty"`
	Missing     []string           `json:"missing,omitempty"`
	Summary     string             `json:"summary"`
}

type comparisonMetric struct {
	name         string
	higherBetter bool
	value        func(*dataflows.CompanyInfo) float64
	display      func(float64) string
}

var comparisonMetrics = []comparisonMetric{
	{"Market Cap", true,
		func(c *dataflows.CompanyInfo) float64 { return float64(c.MarketCap) },
		FormatLargeNumber},
	{"P/E Ratio", false,
		func(c *dataflows.CompanyInfo) float64 { return c.TrailingPE },
		FormatRatio},
	{"P/B Ratio", false,
		func(c *dataflows.CompanyInfo) float64 { return c.PriceToBook },
		FormatRatio},
	{"Profit Margin (%)", true,
		func(c *dataflows.CompanyInfo) float64 { return c.ProfitMargin * 100 },
		func(v float64) string { return fmt.Sprintf("%.2f%%", v) }},
	{"ROE (%)", true,
		func(c *dataflows.CompanyInfo) float64 { return c.ReturnOnEquity * 100 },
		func(v float64) string { return fmt.Sprintf("%.2f%%", v) }},
	{"Revenue Growth (%)", true,
		func(c *dataflows.CompanyInfo) float64 { return c.RevenueGrowth * 100 },
		func(v float64) string { return fmt.Sprintf("%.2f%%", v) }},
}

// AnalyzeComparison ranks the main ticker against its peers on the
// standard metric set. A metric a company has no data for is left out of
// that metric's row rather than treated as zero.
func AnalyzeComparison(data *dataflows.ComparisonData) (*ComparisonReport, error) {
	if data == nil || len(data.Companies) == 0 {
		return nil, fmt.Errorf("no company data provided for comparison")
	}
	if _, ok := data.Companies[data.MainTicker]; !ok {
		return nil, fmt.Errorf("no data for main ticker %s", data.MainTicker)
	}

	order := append([]string{data.MainTicker}, data.PeerTickers...)

	report := &ComparisonReport{
		MainTicker:  data.MainTicker,
		PeerTickers: data.PeerTickers,
		Rankings:    make(map[string]string),
		Missing:     data.Missing,
	}

	leading := 0
	for _, metric := range comparisonMetrics {
		row := MetricComparison{Name: metric.name, HigherBetter: metric.higherBetter}

		var mainValue float64
		mainPresent := false
		for _, ticker := range order {
			info, ok := data.Companies[ticker]
			if !ok {
				continue
			}
			v := metric.value(info)
			if v == 0 {
				continue
			}
			row.Values = append(row.Values, MetricValue{
				Ticker:  ticker,
				Value:   v,
				Display: metric.display(v),
			})
			if ticker == data.MainTicker {
				mainValue = v
				mainPresent = true
			}
		}
		if len(row.Values) == 0 {
			continue
		}

		row.Best = bestTicker(row.Values, metric.higherBetter)
		report.Metrics = append(report.Metrics, row)

		if !mainPresent || len(row.Values) < 2 {
			continue
		}

		rank, percentile := rankAndPercentile(row.Values, mainValue, metric.higherBetter)
		report.Rankings[metric.name] = fmt.Sprintf("%d of %d", rank, len(row.Values))

		// Head-to-head comparisons split at the median; larger groups
		// use quartiles.
		strengthAt, weaknessAt := 75.0, 25.0
		if len(row.Values) == 2 {
			strengthAt, weaknessAt = 50.0, 50.0
		}
		switch {
		case percentile > strengthAt:
			report.Strengths = append(report.Strengths, describeEdge("Strong", metric))
		case percentile < weaknessAt:
			report.Weaknesses = append(report.Weaknesses, describeEdge("Weak", metric))
		}
		if row.Best == data.MainTicker {
			leading++
		}
	}

	if len(report.Metrics) == 0 {
		return nil, fmt.Errorf("insufficient data for comparison")
	}

	report.Summary = comparisonSummary(data.MainTicker, len(data.Companies), len(report.Metrics), leading)
	return report, nil
}

func bestTicker(values []MetricValue, higherBetter bool) string {
	best := values[0]
	for _, v := range values[1:] {
		if (higherBetter && v.Value > best.Value) || (!higherBetter && v.Value < best.Value) {
			best = v
		}
	}
	return best.Ticker
}

// rankAndPercentile places the main value among all values (rank 1 is
// best) and reports the share of peers it beats outright.
func rankAndPercentile(values []MetricValue, mainValue float64, higherBetter bool) (int, float64) {
	beat, beatenBy := 0, 0
	for _, v := range values {
		if v.Value > mainValue {
			beatenBy++
		} else if v.Value < mainValue {
			beat++
		}
	}
	if !higherBetter {
		beat, beatenBy = beatenBy, beat
	}
	rank := beatenBy + 1
	percentile := float64(beat) / float64(len(values)-1) * 100
	return rank, percentile
}

func describeEdge(prefix string, metric comparisonMetric) string {
	s := fmt.Sprintf("%s %s", prefix, strings.ToLower(metric.name))
	if !metric.higherBetter {
		if prefix == "Strong" {
			s += " (attractive valuation)"
		} else {
			s += " (expensive valuation)"
		}
	}
	return s
}

func comparisonSummary(mainTicker string, companies, metrics, leading int) string {
	parts := []string{
		fmt.Sprintf("%s compared against %d peer companies.", mainTicker, companies-1),
		fmt.Sprintf("Analysis includes %d key financial metrics.", metrics),
	}
	if leading > 0 {
		parts = append(parts, fmt.Sprintf("%s leads in %d metric(s).", mainTicker, leading))
	}
	return strings.Join(parts, " ")
}
