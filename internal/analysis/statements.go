package analysis

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"finchat/internal/dataflows"
)

// PeriodValue is one reported value of a line item, tied to a period end.
type PeriodValue struct {
	EndDate time.Time       `json:"end_date"`
	Value   decimal.Decimal `json:"value"`
}

// LineTrend is one statement line item across periods, newest first.
// GrowthPct compares the newest period against the one before it.
type LineTrend struct {
	Key       string        `json:"key"`
	Label     string        `json:"label"`
	Values    []PeriodValue `json:"values"`
	GrowthPct *float64      `json:"growth_pct,omitempty"`
}

// StatementRatio is a ratio derived from the newest period.
type StatementRatio struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// StatementReport is the analysis of one statement table.
type StatementReport struct {
	Symbol string                  `json:"symbol"`
	Kind   dataflows.StatementKind `json:"kind"`
	Title  string                  `json:"title"`
	Lines  []LineTrend             `json:"lines"`
	Ratios []StatementRatio        `json:"ratios,omitempty"`
}

type lineSpec struct {
	key   string
	label string
}

// Line items shown per statement, in display order. Keys follow the
// provider's quoteSummary item names.
var statementLines = map[dataflows.StatementKind][]lineSpec{
	dataflows.IncomeStatement: {
		{"totalRevenue", "Total Revenue"},
		{"grossProfit", "Gross Profit"},
		{"operatingIncome", "Operating Income"},
		{"netIncome", "Net Income"},
	},
	dataflows.BalanceSheet: {
		{"totalAssets", "Total Assets"},
		{"totalLiab", "Total Liabilities"},
		{"totalStockholderEquity", "Total Stockholder Equity"},
		{"cash", "Cash"},
		{"longTermDebt", "Long Term Debt"},
	},
	dataflows.CashFlow: {
		{"totalCashFromOperatingActivities", "Operating Cash Flow"},
		{"totalCashflowsFromInvestingActivities", "Investing Cash Flow"},
		{"totalCashFromFinancingActivities", "Financing Cash Flow"},
		{"capitalExpenditures", "Capital Expenditures"},
	},
}

var statementTitles = map[dataflows.StatementKind]string{
	dataflows.IncomeStatement: "Income Statement",
	dataflows.BalanceSheet:    "Balance Sheet",
	dataflows.CashFlow:        "Cash Flow Statement",
}

// AnalyzeStatement builds the report for one statement kind out of a
// fetched statement set.
func AnalyzeStatement(set *dataflows.StatementSet, kind dataflows.StatementKind) (*StatementReport, error) {
	if set == nil {
		return nil, fmt.Errorf("no statement data provided")
	}
	stmt := set.Get(kind)
	if stmt == nil || len(stmt.Periods) == 0 {
		return nil, fmt.Errorf("no %s data available for %s", statementTitles[kind], set.Symbol)
	}

	report := &StatementReport{
		Symbol: set.Symbol,
		Kind:   kind,
		Title:  statementTitles[kind],
	}

	for _, spec := range statementLines[kind] {
		trend := LineTrend{Key: spec.key, Label: spec.label}
		for _, period := range stmt.Periods {
			if v, ok := period.Items[spec.key]; ok {
				trend.Values = append(trend.Values, PeriodValue{EndDate: period.EndDate, Value: v})
			}
		}
		if len(trend.Values) == 0 {
			continue
		}
		trend.GrowthPct = growthPct(trend.Values)
		report.Lines = append(report.Lines, trend)
	}
	if len(report.Lines) == 0 {
		return nil, fmt.Errorf("no recognized line items in %s for %s", statementTitles[kind], set.Symbol)
	}

	report.Ratios = statementRatios(kind, stmt.Periods[0].Items)
	return report, nil
}

// growthPct computes newest-over-prior growth in percent. Nil when there
// is no prior period or the prior value is zero.
func growthPct(values []PeriodValue) *float64 {
	if len(values) < 2 || values[1].Value.IsZero() {
		return nil
	}
	growth, _ := values[0].Value.Sub(values[1].Value).
		Div(values[1].Value.Abs()).
		Mul(decimal.NewFromInt(100)).
		Float64()
	return &growth
}

func statementRatios(kind dataflows.StatementKind, items map[string]decimal.Decimal) []StatementRatio {
	ratio := func(num, denom string) (float64, bool) {
		n, okN := items[num]
		d, okD := items[denom]
		if !okN || !okD || d.IsZero() {
			return 0, false
		}
		v, _ := n.Div(d).Float64()
		return v, true
	}

	var out []StatementRatio
	switch kind {
	case dataflows.IncomeStatement:
		if v, ok := ratio("grossProfit", "totalRevenue"); ok {
			out = append(out, StatementRatio{"Gross Margin", v})
		}
		if v, ok := ratio("operatingIncome", "totalRevenue"); ok {
			out = append(out, StatementRatio{"Operating Margin", v})
		}
		if v, ok := ratio("netIncome", "totalRevenue"); ok {
			out = append(out, StatementRatio{"Net Margin", v})
		}
	case dataflows.BalanceSheet:
		if v, ok := ratio("totalLiab", "totalStockholderEquity"); ok {
			out = append(out, StatementRatio{"Debt to Equity", v})
		}
		if v, ok := ratio("totalCurrentAssets", "totalCurrentLiabilities"); ok {
			out = append(out, StatementRatio{"Current Ratio", v})
		}
	case dataflows.CashFlow:
		op, okOp := items["totalCashFromOperatingActivities"]
		capex, okCapex := items["capitalExpenditures"]
		if okOp && okCapex {
			// Capex arrives negative, so free cash flow is a sum.
			fcf, _ := op.Add(capex).Float64()
			out = append(out, StatementRatio{"Free Cash Flow", fcf})
		}
	}
	return out
}
