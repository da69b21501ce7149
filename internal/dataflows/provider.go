package dataflows

import "context"

// Provider is the upstream market-data source. Implementations return an
// error for tickers the source does not know; callers decide whether a
// missing ticker fails the whole request or degrades it.
type Provider interface {
	CompanyInfo(ctx context.Context, symbol string) (*CompanyInfo, error)
	Statements(ctx context.Context, symbol string) (*StatementSet, error)
	Recommendations(ctx context.Context, symbol string) (*RecommendationTrend, error)
}

// peersBySector suggests comparison peers when the user names only one
// company. Looked up by ticker, best-known peers first.
var peersBySector = map[string][]string{
	"AAPL":  {"MSFT", "GOOGL"},
	"MSFT":  {"AAPL", "GOOGL"},
	"GOOGL": {"MSFT", "META"},
	"AMZN":  {"WMT", "GOOGL"},
	"META":  {"GOOGL", "SNAP"},
	"TSLA":  {"GM", "F"},
	"NVDA":  {"AMD", "INTC"},
	"AMD":   {"NVDA", "INTC"},
	"INTC":  {"AMD", "NVDA"},
	"JPM":   {"BAC", "WFC"},
	"BAC":   {"JPM", "WFC"},
	"WFC":   {"JPM", "BAC"},
	"V":     {"MA", "PYPL"},
	"MA":    {"V", "PYPL"},
	"KO":    {"PEP", "MDLZ"},
	"PEP":   {"KO", "MDLZ"},
	"WMT":   {"TGT", "COST"},
	"DIS":   {"NFLX", "CMCSA"},
	"NFLX":  {"DIS", "CMCSA"},
	"XOM":   {"CVX", "COP"},
	"CVX":   {"XOM", "COP"},
	"PFE":   {"JNJ", "MRK"},
	"JNJ":   {"PFE", "MRK"},
	"BA":    {"LMT", "RTX"},
	"GM":    {"F", "TSLA"},
	"F":     {"GM", "TSLA"},
	"UBER":  {"LYFT", "DASH"},
	"ORCL":  {"MSFT", "CRM"},
	"CRM":   {"ORCL", "MSFT"},
	"IBM":   {"ORCL", "MSFT"},
	"ADBE":  {"CRM", "MSFT"},
	"PYPL":  {"V", "MA"},
	"SBUX":  {"MCD", "YUM"},
	"MCD":   {"SBUX", "YUM"},
	"NKE":   {"LULU", "ADDYY"},
}

// SuggestPeers returns known peers for a ticker, never including the
// ticker itself. Unknown tickers get no suggestions.
func SuggestPeers(symbol string) []string {
	peers := peersBySector[symbol]
	out := make([]string, 0, len(peers))
	for _, p := range peers {
		if p != symbol {
			out = append(out, p)
		}
	}
	return out
}
