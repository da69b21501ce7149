package dataflows

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/equity"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const quoteSummaryBaseURL = "https://query1.finance.yahoo.com/v10/finance/quoteSummary"

// YahooProvider fetches quotes through the finance-go client and the
// richer quoteSummary modules through a plain HTTP client. Each request
// is a single attempt; callers degrade on failure rather than retry.
type YahooProvider struct {
	client *resty.Client
	cache  *CacheManager
	log    *zap.Logger
}

// YahooOption customizes a YahooProvider.
type YahooOption func(*YahooProvider)

// WithBaseURL points the quoteSummary client somewhere else, used by tests.
func WithBaseURL(url string) YahooOption {
	return func(yp *YahooProvider) {
		yp.client.SetBaseURL(url)
	}
}

// NewYahooProvider creates a provider with a disk cache under cacheDir.
func NewYahooProvider(cacheDir string, cacheEnabled bool, log *zap.Logger, opts ...YahooOption) *YahooProvider {
	if log == nil {
		log = zap.NewNop()
	}

	client := resty.New()
	client.SetBaseURL(quoteSummaryBaseURL)
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0 (compatible; finchat/1.0)")

	yp := &YahooProvider{
		client: client,
		cache:  NewCacheManager(filepath.Join(cacheDir, "yahoo"), 24*time.Hour, cacheEnabled, log),
		log:    log,
	}
	for _, opt := range opts {
		opt(yp)
	}
	return yp
}

// ValidateSymbol checks that a ticker has a plausible shape.
func ValidateSymbol(symbol string) error {
	symbol = strings.TrimSpace(strings.ToUpper(symbol))
	if len(symbol) == 0 {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > 10 {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	return nil
}

// NormalizeSymbol converts a ticker to canonical upper-case form.
func NormalizeSymbol(symbol string) string {
	return strings.TrimSpace(strings.ToUpper(symbol))
}

// SetCacheEnabled toggles the disk cache, used by config hot reload.
func (yp *YahooProvider) SetCacheEnabled(enabled bool) {
	yp.cache.SetEnabled(enabled)
}

// CompanyInfo returns the merged quote and profile snapshot for symbol.
func (yp *YahooProvider) CompanyInfo(ctx context.Context, symbol string) (*CompanyInfo, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	var cached CompanyInfo
	if yp.cache.Get("yahoo", "company_info", symbol, &cached) {
		return &cached, nil
	}

	q, err := equity.Get(symbol)
	if err != nil {
		return nil, fmt.Errorf("quote for %s: %w", symbol, err)
	}
	if q == nil {
		return nil, fmt.Errorf("no quote data for %s", symbol)
	}

	info := snapshotFromEquity(symbol, q)

	// Profile and margin data live in quoteSummary; its failure degrades
	// the snapshot to quote fields only instead of failing the fetch.
	if summary, err := yp.quoteSummary(ctx, symbol, "summaryProfile,financialData,defaultKeyStatistics"); err != nil {
		yp.log.Warn("quote summary unavailable", zap.String("symbol", symbol), zap.Error(err))
	} else {
		applyProfile(info, summary)
	}

	yp.cache.Set("yahoo", "company_info", symbol, info)
	return info, nil
}

// Statements returns all three financial statement tables for symbol.
func (yp *YahooProvider) Statements(ctx context.Context, symbol string) (*StatementSet, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	var cached StatementSet
	if yp.cache.Get("yahoo", "statements", symbol, &cached) {
		return &cached, nil
	}

	summary, err := yp.quoteSummary(ctx, symbol,
		"incomeStatementHistory,balanceSheetHistory,cashflowStatementHistory")
	if err != nil {
		return nil, fmt.Errorf("statements for %s: %w", symbol, err)
	}

	set := &StatementSet{
		Symbol:    symbol,
		Income:    parseStatement(IncomeStatement, summary.IncomeStatementHistory.Statements),
		Balance:   parseStatement(BalanceSheet, summary.BalanceSheetHistory.Statements),
		Cash:      parseStatement(CashFlow, summary.CashflowStatementHistory.Statements),
		FetchedAt: time.Now(),
	}
	if set.Income == nil && set.Balance == nil && set.Cash == nil {
		return nil, fmt.Errorf("no statement data for %s", symbol)
	}

	yp.cache.Set("yahoo", "statements", symbol, set)
	return set, nil
}

// Recommendations returns the analyst recommendation trend for symbol.
func (yp *YahooProvider) Recommendations(ctx context.Context, symbol string) (*RecommendationTrend, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)

	var cached RecommendationTrend
	if yp.cache.Get("yahoo", "recommendations", symbol, &cached) {
		return &cached, nil
	}

	summary, err := yp.quoteSummary(ctx, symbol, "recommendationTrend")
	if err != nil {
		return nil, fmt.Errorf("recommendations for %s: %w", symbol, err)
	}
	if len(summary.RecommendationTrend.Trend) == 0 {
		return nil, fmt.Errorf("no recommendation data for %s", symbol)
	}

	trend := &RecommendationTrend{
		Symbol:    symbol,
		Periods:   make([]RecommendationPeriod, 0, len(summary.RecommendationTrend.Trend)),
		FetchedAt: time.Now(),
	}
	for _, row := range summary.RecommendationTrend.Trend {
		trend.Periods = append(trend.Periods, RecommendationPeriod{
			Period:     row.Period,
			StrongBuy:  row.StrongBuy,
			Buy:        row.Buy,
			Hold:       row.Hold,
			Sell:       row.Sell,
			StrongSell: row.StrongSell,
		})
	}

	yp.cache.Set("yahoo", "recommendations", symbol, trend)
	return trend, nil
}

// snapshotFromEquity maps an equity quote onto the company snapshot.
// Margin and profile fields are filled in later from quoteSummary.
func snapshotFromEquity(symbol string, q *finance.Equity) *CompanyInfo {
	return &CompanyInfo{
		Symbol:            symbol,
		Name:              q.ShortName,
		Exchange:          q.FullExchangeName,
		Currency:          q.CurrencyID,
		MarketCap:         q.MarketCap,
		SharesOutstanding: int64(q.SharesOutstanding),
		Price:             decimal.NewFromFloat(q.RegularMarketPrice),
		PreviousClose:     decimal.NewFromFloat(q.RegularMarketPreviousClose),
		Open:              decimal.NewFromFloat(q.RegularMarketOpen),
		DayLow:            decimal.NewFromFloat(q.RegularMarketDayLow),
		DayHigh:           decimal.NewFromFloat(q.RegularMarketDayHigh),
		FiftyTwoWeekLow:   decimal.NewFromFloat(q.FiftyTwoWeekLow),
		FiftyTwoWeekHigh:  decimal.NewFromFloat(q.FiftyTwoWeekHigh),
		FiftyDayAvg:       decimal.NewFromFloat(q.FiftyDayAverage),
		TwoHundredDayAvg:  decimal.NewFromFloat(q.TwoHundredDayAverage),
		Volume:            int64(q.RegularMarketVolume),
		AvgVolume:         int64(q.AverageDailyVolume3Month),
		TrailingPE:        q.TrailingPE,
		ForwardPE:         q.ForwardPE,
		PriceToBook:       q.PriceToBook,
		EPS:               q.EpsTrailingTwelveMonths,
		DividendRate:      q.TrailingAnnualDividendRate,
		DividendYield:     q.TrailingAnnualDividendYield,
		FetchedAt:         time.Now(),
	}
}

// rawValue is Yahoo's wrapped numeric: {"raw": 1.23, "fmt": "1.23"}.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

func (rv rawValue) float() float64 {
	if rv.Raw == nil {
		return 0
	}
	return *rv.Raw
}

type summaryResult struct {
	SummaryProfile struct {
		Sector              string `json:"sector"`
		Industry            string `json:"industry"`
		Country             string `json:"country"`
		Website             string `json:"website"`
		FullTimeEmployees   int64  `json:"fullTimeEmployees"`
		LongBusinessSummary string `json:"longBusinessSummary"`
	} `json:"summaryProfile"`
	FinancialData struct {
		ProfitMargins    rawValue `json:"profitMargins"`
		OperatingMargins rawValue `json:"operatingMargins"`
		GrossMargins     rawValue `json:"grossMargins"`
		ReturnOnEquity   rawValue `json:"returnOnEquity"`
		ReturnOnAssets   rawValue `json:"returnOnAssets"`
		RevenueGrowth    rawValue `json:"revenueGrowth"`
		EarningsGrowth   rawValue `json:"earningsGrowth"`
	} `json:"financialData"`
	DefaultKeyStatistics struct {
		Beta rawValue `json:"beta"`
	} `json:"defaultKeyStatistics"`
	IncomeStatementHistory struct {
		Statements []map[string]json.RawMessage `json:"incomeStatementHistory"`
	} `json:"incomeStatementHistory"`
	BalanceSheetHistory struct {
		Statements []map[string]json.RawMessage `json:"balanceSheetStatements"`
	} `json:"balanceSheetHistory"`
	CashflowStatementHistory struct {
		Statements []map[string]json.RawMessage `json:"cashflowStatements"`
	} `json:"cashflowStatementHistory"`
	RecommendationTrend struct {
		Trend []struct {
			Period     string `json:"period"`
			StrongBuy  int    `json:"strongBuy"`
			Buy        int    `json:"buy"`
			Hold       int    `json:"hold"`
			Sell       int    `json:"sell"`
			StrongSell int    `json:"strongSell"`
		} `json:"trend"`
	} `json:"recommendationTrend"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []summaryResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

func (yp *YahooProvider) quoteSummary(ctx context.Context, symbol, modules string) (*summaryResult, error) {
	var body quoteSummaryResponse
	resp, err := yp.client.R().
		SetContext(ctx).
		SetQueryParam("modules", modules).
		SetResult(&body).
		Get("/" + symbol)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("quote summary returned %s", resp.Status())
	}
	if body.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("quote summary error: %s", body.QuoteSummary.Error.Description)
	}
	if len(body.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("empty quote summary for %s", symbol)
	}
	return &body.QuoteSummary.Result[0], nil
}

func applyProfile(info *CompanyInfo, summary *summaryResult) {
	info.Sector = summary.SummaryProfile.Sector
	info.Industry = summary.SummaryProfile.Industry
	info.Country = summary.SummaryProfile.Country
	info.Website = summary.SummaryProfile.Website
	info.Employees = summary.SummaryProfile.FullTimeEmployees
	info.Summary = summary.SummaryProfile.LongBusinessSummary

	info.ProfitMargin = summary.FinancialData.ProfitMargins.float()
	info.OperatingMargin = summary.FinancialData.OperatingMargins.float()
	info.GrossMargin = summary.FinancialData.GrossMargins.float()
	info.ReturnOnEquity = summary.FinancialData.ReturnOnEquity.float()
	info.ReturnOnAssets = summary.FinancialData.ReturnOnAssets.float()
	info.RevenueGrowth = summary.FinancialData.RevenueGrowth.float()
	info.EarningsGrowth = summary.FinancialData.EarningsGrowth.float()
	info.Beta = summary.DefaultKeyStatistics.Beta.float()
}

// parseStatement converts raw quoteSummary statement rows into periods,
// keeping every numeric line item. Rows without an end date are dropped.
func parseStatement(kind StatementKind, rows []map[string]json.RawMessage) *Statement {
	if len(rows) == 0 {
		return nil
	}

	stmt := &Statement{Kind: kind, Periods: make([]StatementPeriod, 0, len(rows))}
	for _, row := range rows {
		endRaw, ok := row["endDate"]
		if !ok {
			continue
		}
		var end rawValue
		if err := json.Unmarshal(endRaw, &end); err != nil || end.Raw == nil {
			continue
		}

		period := StatementPeriod{
			EndDate: time.Unix(int64(*end.Raw), 0).UTC(),
			Items:   make(map[string]decimal.Decimal),
		}
		for key, raw := range row {
			if key == "endDate" || key == "maxAge" {
				continue
			}
			var val rawValue
			if err := json.Unmarshal(raw, &val); err != nil || val.Raw == nil {
				continue
			}
			period.Items[key] = decimal.NewFromFloat(*val.Raw)
		}
		if len(period.Items) > 0 {
			stmt.Periods = append(stmt.Periods, period)
		}
	}
	if len(stmt.Periods) == 0 {
		return nil
	}
	return stmt
}
