package dataflows

import (
	"encoding/json"
	"testing"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotFromEquity(t *testing.T) {
	q := &finance.Equity{
		EpsTrailingTwelveMonths:     6.42,
		TrailingAnnualDividendRate:  0.96,
		TrailingAnnualDividendYield: 0.0052,
		TrailingPE:                  28.5,
		ForwardPE:                   26.1,
		PriceToBook:                 45.2,
		SharesOutstanding:           15500000000,
		MarketCap:                   2_800_000_000_000,
	}
	q.ShortName = "Apple Inc."
	q.FullExchangeName = "NasdaqGS"
	q.CurrencyID = "USD"
	q.RegularMarketPrice = 182.5
	q.RegularMarketPreviousClose = 181.0
	q.RegularMarketDayLow = 180.2
	q.RegularMarketDayHigh = 183.1
	q.FiftyTwoWeekLow = 124.2
	q.FiftyTwoWeekHigh = 199.6
	q.RegularMarketVolume = 52000000

	info := snapshotFromEquity("AAPL", q)

	assert.Equal(t, "AAPL", info.Symbol)
	assert.Equal(t, "Apple Inc.", info.Name)
	assert.Equal(t, "NasdaqGS", info.Exchange)
	assert.Equal(t, "USD", info.Currency)
	assert.Equal(t, int64(2_800_000_000_000), info.MarketCap)
	assert.Equal(t, int64(15500000000), info.SharesOutstanding)
	assert.Equal(t, "182.5", info.Price.String())
	assert.Equal(t, "124.2", info.FiftyTwoWeekLow.String())
	assert.Equal(t, int64(52000000), info.Volume)
	assert.Equal(t, 28.5, info.TrailingPE)
	assert.Equal(t, 6.42, info.EPS)
	assert.Equal(t, 0.0052, info.DividendYield)
	assert.False(t, info.FetchedAt.IsZero())
}

func TestCacheRoundTrip(t *testing.T) {
	cache := NewCacheManager(t.TempDir(), time.Hour, true, nil)

	in := map[string]string{"hello": "world"}
	cache.Set("yahoo", "quote", "AAPL", in)

	var out map[string]string
	require.True(t, cache.Get("yahoo", "quote", "AAPL", &out))
	assert.Equal(t, in, out)
}

func TestCacheMissOnDifferentParams(t *testing.T) {
	cache := NewCacheManager(t.TempDir(), time.Hour, true, nil)
	cache.Set("yahoo", "quote", "AAPL", map[string]string{"k": "v"})

	var out map[string]string
	assert.False(t, cache.Get("yahoo", "quote", "MSFT", &out))
}

func TestCacheDisabled(t *testing.T) {
	cache := NewCacheManager(t.TempDir(), time.Hour, false, nil)
	cache.Set("yahoo", "quote", "AAPL", map[string]string{"k": "v"})

	var out map[string]string
	assert.False(t, cache.Get("yahoo", "quote", "AAPL", &out))
}

func TestCacheSetEnabledToggle(t *testing.T) {
	cache := NewCacheManager(t.TempDir(), time.Hour, true, nil)
	cache.Set("yahoo", "quote", "AAPL", map[string]string{"k": "v"})

	cache.SetEnabled(false)
	var out map[string]string
	assert.False(t, cache.Get("yahoo", "quote", "AAPL", &out))

	// Re-enabling picks the entry written earlier back up.
	cache.SetEnabled(true)
	require.True(t, cache.Get("yahoo", "quote", "AAPL", &out))
	assert.Equal(t, "v", out["k"])
}

func TestCacheExpiry(t *testing.T) {
	cache := NewCacheManager(t.TempDir(), -time.Second, true, nil)
	cache.Set("yahoo", "quote", "AAPL", map[string]string{"k": "v"})

	var out map[string]string
	assert.False(t, cache.Get("yahoo", "quote", "AAPL", &out))
}

func TestParseStatement(t *testing.T) {
	raw := []map[string]json.RawMessage{
		{
			"endDate":      json.RawMessage(`{"raw": 1703980800, "fmt": "2023-12-31"}`),
			"maxAge":       json.RawMessage(`1`),
			"totalRevenue": json.RawMessage(`{"raw": 383285000000, "fmt": "383.29B"}`),
			"netIncome":    json.RawMessage(`{"raw": 96995000000, "fmt": "97B"}`),
			"notNumeric":   json.RawMessage(`"skip me"`),
		},
		{
			"endDate":      json.RawMessage(`{"raw": 1672444800}`),
			"totalRevenue": json.RawMessage(`{"raw": 394328000000}`),
		},
	}

	stmt := parseStatement(IncomeStatement, raw)
	require.NotNil(t, stmt)
	assert.Equal(t, IncomeStatement, stmt.Kind)
	require.Len(t, stmt.Periods, 2)

	first := stmt.Periods[0]
	assert.Equal(t, 2023, first.EndDate.Year())
	assert.Equal(t, "383285000000", first.Items["totalRevenue"].String())
	assert.Equal(t, "96995000000", first.Items["netIncome"].String())
	assert.NotContains(t, first.Items, "maxAge")
	assert.NotContains(t, first.Items, "notNumeric")
	assert.NotContains(t, first.Items, "endDate")
}

func TestParseStatementEmpty(t *testing.T) {
	assert.Nil(t, parseStatement(BalanceSheet, nil))
	assert.Nil(t, parseStatement(BalanceSheet, []map[string]json.RawMessage{
		{"maxAge": json.RawMessage(`1`)},
	}))
}

func TestSuggestPeers(t *testing.T) {
	assert.Equal(t, []string{"MSFT", "GOOGL"}, SuggestPeers("AAPL"))
	assert.Empty(t, SuggestPeers("ZZZZ"))
}

func TestStatementSetGet(t *testing.T) {
	set := &StatementSet{
		Symbol: "AAPL",
		Income: &Statement{Kind: IncomeStatement},
	}
	assert.NotNil(t, set.Get(IncomeStatement))
	assert.Nil(t, set.Get(BalanceSheet))
	assert.Nil(t, set.Get(StatementKind("bogus")))
}
