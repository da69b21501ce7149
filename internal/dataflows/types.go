// Package dataflows fetches market data from the upstream provider and
// caches raw payloads on disk. All values cross the package boundary as
// typed structs; downstream stages never see provider wire formats.
package dataflows

import (
	"time"

	"github.com/shopspring/decimal"
)

// CompanyInfo is the merged quote + profile snapshot for one ticker.
type CompanyInfo struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Currency string `json:"currency"`

	Sector    string `json:"sector,omitempty"`
	Industry  string `json:"industry,omitempty"`
	Country   string `json:"country,omitempty"`
	Website   string `json:"website,omitempty"`
	Employees int64  `json:"employees,omitempty"`
	Summary   string `json:"summary,omitempty"`

	MarketCap         int64 `json:"market_cap,omitempty"`
	SharesOutstanding int64 `json:"shares_outstanding,omitempty"`

	Price            decimal.Decimal `json:"price"`
	PreviousClose    decimal.Decimal `json:"previous_close"`
	Open             decimal.Decimal `json:"open"`
	DayLow           decimal.Decimal `json:"day_low"`
	DayHigh          decimal.Decimal `json:"day_high"`
	FiftyTwoWeekLow  decimal.Decimal `json:"fifty_two_week_low"`
	FiftyTwoWeekHigh decimal.Decimal `json:"fifty_two_week_high"`
	FiftyDayAvg      decimal.Decimal `json:"fifty_day_avg"`
	TwoHundredDayAvg decimal.Decimal `json:"two_hundred_day_avg"`
	Volume           int64           `json:"volume,omitempty"`
	AvgVolume        int64           `json:"avg_volume,omitempty"`

	TrailingPE    float64 `json:"trailing_pe,omitempty"`
	ForwardPE     float64 `json:"forward_pe,omitempty"`
	PriceToBook   float64 `json:"price_to_book,omitempty"`
	EPS           float64 `json:"eps,omitempty"`
	Beta          float64 `json:"beta,omitempty"`
	DividendRate  float64 `json:"dividend_rate,omitempty"`
	DividendYield float64 `json:"dividend_yield,omitempty"`

	ProfitMargin    float64 `json:"profit_margin,omitempty"`
	OperatingMargin float64 `json:"operating_margin,omitempty"`
	GrossMargin     float64 `json:"gross_margin,omitempty"`
	ReturnOnEquity  float64 `json:"return_on_equity,omitempty"`
	ReturnOnAssets  float64 `json:"return_on_assets,omitempty"`
	RevenueGrowth   float64 `json:"revenue_growth,omitempty"`
	EarningsGrowth  float64 `json:"earnings_growth,omitempty"`

	FetchedAt time.Time `json:"fetched_at"`
}

// StatementKind names one of the three financial statement tables.
type StatementKind string

const (
	IncomeStatement StatementKind = "income_statement"
	BalanceSheet    StatementKind = "balance_sheet"
	CashFlow        StatementKind = "cash_flow"
)

// StatementPeriod is one reporting period of a statement: the period end
// date plus the reported line items, keyed by the provider's item names.
type StatementPeriod struct {
	EndDate time.Time                  `json:"end_date"`
	Items   map[string]decimal.Decimal `json:"items"`
}

// Statement is one financial statement table, newest period first.
type Statement struct {
	Kind    StatementKind     `json:"kind"`
	Periods []StatementPeriod `json:"periods"`
}

// StatementSet holds all statements fetched for a ticker. A statement the
// provider could not produce is nil; downstream analysis tolerates that.
type StatementSet struct {
	Symbol    string     `json:"symbol"`
	Income    *Statement `json:"income,omitempty"`
	Balance   *Statement `json:"balance,omitempty"`
	Cash      *Statement `json:"cash,omitempty"`
	FetchedAt time.Time  `json:"fetched_at"`
}

// Get returns the statement of the requested kind, or nil.
func (s *StatementSet) Get(kind StatementKind) *Statement {
	switch kind {
	case IncomeStatement:
		return s.Income
	case BalanceSheet:
		return s.Balance
	case CashFlow:
		return s.Cash
	}
	return nil
}

// RecommendationPeriod is one row of the analyst recommendation trend.
type RecommendationPeriod struct {
	Period     string `json:"period"`
	StrongBuy  int    `json:"strong_buy"`
	Buy        int    `json:"buy"`
	Hold       int    `json:"hold"`
	Sell       int    `json:"sell"`
	StrongSell int    `json:"strong_sell"`
}

// RecommendationTrend is the analyst recommendation table for a ticker.
type RecommendationTrend struct {
	Symbol    string                 `json:"symbol"`
	Periods   []RecommendationPeriod `json:"periods"`
	FetchedAt time.Time              `json:"fetched_at"`
}

// ComparisonData bundles company snapshots for a main ticker and its peers.
// Tickers whose fetch failed appear in Missing instead of Companies.
type ComparisonData struct {
	MainTicker  string                  `json:"main_ticker"`
	PeerTickers []string                `json:"peer_tickers"`
	Companies   map[string]*CompanyInfo `json:"companies"`
	Missing     []string                `json:"missing,omitempty"`
	FetchedAt   time.Time               `json:"fetched_at"`
}

// PayloadKind tags the variant held by a Payload.
type PayloadKind string

const (
	PayloadCompany         PayloadKind = "company"
	PayloadStatements      PayloadKind = "statements"
	PayloadComparison      PayloadKind = "comparison"
	PayloadRecommendations PayloadKind = "recommendations"
)

// Payload is the tagged union stored in the conversation's financial-data
// cache. Exactly one of the variant fields is set, matching Kind, which
// keeps the cache JSON round-trippable without type erasure.
type Payload struct {
	Kind            PayloadKind          `json:"kind"`
	Company         *CompanyInfo         `json:"company,omitempty"`
	Statements      *StatementSet        `json:"statements,omitempty"`
	Comparison      *ComparisonData      `json:"comparison,omitempty"`
	Recommendations *RecommendationTrend `json:"recommendations,omitempty"`
}
