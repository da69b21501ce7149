package analysis

import (
	"fmt"

	"github.com/shopspring/decimal"

	"finchat/internal/dataflows"
)

// ValuationMetrics groups what the market pays for the business.
type ValuationMetrics struct {
	MarketCap   int64   `json:"market_cap,omitempty"`
	TrailingPE  float64 `json:"trailing_pe,omitempty"`
	ForwardPE   float64 `json:"forward_pe,omitempty"`
	PriceToBook float64 `json:"price_to_book,omitempty"`
	EPS         float64 `json:"eps,omitempty"`
}

// ProfitabilityMetrics groups margin and return figures, all fractions.
type ProfitabilityMetrics struct {
	ProfitMargin    float64 `json:"profit_margin,omitempty"`
	OperatingMargin float64 `json:"operating_margin,omitempty"`
	GrossMargin     float64 `json:"gross_margin,omitempty"`
	ReturnOnEquity  float64 `json:"return_on_equity,omitempty"`
	ReturnOnAssets  float64 `json:"return_on_assets,omitempty"`
	RevenueGrowth   float64 `json:"revenue_growth,omitempty"`
	EarningsGrowth  float64 `json:"earnings_growth,omitempty"`
}

// PriceMetrics groups the trading picture around the current price.
type PriceMetrics struct {
	CurrentPrice     decimal.Decimal `json:"current_price"`
	PreviousClose    decimal.Decimal `json:"previous_close"`
	Open             decimal.Decimal `json:"open"`
	DayLow           decimal.Decimal `json:"day_low"`
	DayHigh          decimal.Decimal `json:"day_high"`
	FiftyTwoWeekLow  decimal.Decimal `json:"fifty_two_week_low"`
	FiftyTwoWeekHigh decimal.Decimal `json:"fifty_two_week_high"`
	FiftyDayAvg      decimal.Decimal `json:"fifty_day_avg"`
	TwoHundredDayAvg decimal.Decimal `json:"two_hundred_day_avg"`
	Beta             float64         `json:"beta,omitempty"`
	Volume           int64           `json:"volume,omitempty"`
	AvgVolume        int64           `json:"avg_volume,omitempty"`

	// FiftyTwoWeekPosition is where the current price sits in the
	// 52-week range, 0 at the low and 100 at the high. Nil when the
	// range is degenerate.
	FiftyTwoWeekPosition *float64 `json:"fifty_two_week_position,omitempty"`
}

// DividendMetrics groups the payout picture.
type DividendMetrics struct {
	DividendRate  float64 `json:"dividend_rate,omitempty"`
	DividendYield float64 `json:"dividend_yield,omitempty"`
}

// MetricsReport is the full metrics analysis for one company.
type MetricsReport struct {
	Symbol        string               `json:"symbol"`
	Name          string               `json:"name"`
	Valuation     ValuationMetrics     `json:"valuation"`
	Profitability ProfitabilityMetrics `json:"profitability"`
	Price         PriceMetrics         `json:"price"`
	Dividends     DividendMetrics      `json:"dividends"`
}

// AnalyzeMetrics computes the metrics report from a company snapshot.
func AnalyzeMetrics(info *dataflows.CompanyInfo) (*MetricsReport, error) {
	if info == nil {
		return nil, fmt.Errorf("no company information provided")
	}

	report := &MetricsReport{
		Symbol: info.Symbol,
		Name:   info.Name,
		Valuation: ValuationMetrics{
			MarketCap:   info.MarketCap,
			TrailingPE:  info.TrailingPE,
			ForwardPE:   info.ForwardPE,
			PriceToBook: info.PriceToBook,
			EPS:         info.EPS,
		},
		Profitability: ProfitabilityMetrics{
			ProfitMargin:    info.ProfitMargin,
			OperatingMargin: info.OperatingMargin,
			GrossMargin:     info.GrossMargin,
			ReturnOnEquity:  info.ReturnOnEquity,
			ReturnOnAssets:  info.ReturnOnAssets,
			RevenueGrowth:   info.RevenueGrowth,
			EarningsGrowth:  info.EarningsGrowth,
		},
		Price: PriceMetrics{
			CurrentPrice:     info.Price,
			PreviousClose:    info.PreviousClose,
			Open:             info.Open,
			DayLow:           info.DayLow,
			DayHigh:          info.DayHigh,
			FiftyTwoWeekLow:  info.FiftyTwoWeekLow,
			FiftyTwoWeekHigh: info.FiftyTwoWeekHigh,
			FiftyDayAvg:      info.FiftyDayAvg,
			TwoHundredDayAvg: info.TwoHundredDayAvg,
			Beta:             info.Beta,
			Volume:           info.Volume,
			AvgVolume:        info.AvgVolume,
		},
		Dividends: DividendMetrics{
			DividendRate:  info.DividendRate,
			DividendYield: info.DividendYield,
		},
	}

	report.Price.FiftyTwoWeekPosition = fiftyTwoWeekPosition(
		info.Price, info.FiftyTwoWeekLow, info.FiftyTwoWeekHigh)

	return report, nil
}

func fiftyTwoWeekPosition(price, low, high decimal.Decimal) *float64 {
	span := high.Sub(low)
	if span.IsZero() || price.IsZero() {
		return nil
	}
	pos, _ := price.Sub(low).Div(span).Mul(decimal.NewFromInt(100)).Float64()
	return &pos
}
