// Package ticker holds the static company-name and symbol dictionaries the
// interpreter matches against. Pure data plus lookup helpers.
package ticker

import (
	"regexp"
	"sort"
	"strings"
)

// companyNames maps lowercase company names to ticker symbols. Multi-word
// names must be matched before their single-word prefixes would be.
var companyNames = map[string]string{
	"apple":            "AAPL",
	"microsoft":        "MSFT",
	"google":           "GOOGL",
	"alphabet":         "GOOGL",
	"amazon":           "AMZN",
	"tesla":            "TSLA",
	"meta":             "META",
	"facebook":         "META",
	"netflix":          "NFLX",
	"nvidia":           "NVDA",
	"amd":              "AMD",
	"intel":            "INTC",
	"ibm":              "IBM",
	"oracle":           "ORCL",
	"salesforce":       "CRM",
	"adobe":            "ADBE",
	"paypal":           "PYPL",
	"visa":             "V",
	"mastercard":       "MA",
	"jpmorgan":         "JPM",
	"goldman":          "GS",
	"morgan stanley":   "MS",
	"bank of america":  "BAC",
	"wells fargo":      "WFC",
	"coca cola":        "KO",
	"pepsi":            "PEP",
	"walmart":          "WMT",
	"target":           "TGT",
	"home depot":       "HD",
	"disney":           "DIS",
	"boeing":           "BA",
	"caterpillar":      "CAT",
	"general electric": "GE",
	"ford":             "F",
	"general motors":   "GM",
}

// falsePositives are common English words that look like ticker symbols when
// written in caps. A real ticker colliding with one of these (NOW, ALL, IT)
// is deliberately sacrificed; users can still reach it via the company name.
var falsePositives = map[string]bool{
	"A": true, "I": true, "ALL": true, "AND": true, "ARE": true,
	"BUY": true, "CAN": true, "CEO": true, "DO": true, "DOES": true,
	"ETF": true, "FOR": true, "GET": true, "GOT": true, "HAS": true,
	"HAVE": true, "HOW": true, "IN": true, "IS": true, "IT": true,
	"ME": true, "MY": true, "NEW": true, "NOT": true, "NOW": true,
	"OF": true, "ON": true, "OR": true, "SELL": true, "SHOW": true,
	"THE": true, "TO": true, "TOP": true, "US": true, "VS": true,
	"WAS": true, "WHAT": true, "WHO": true, "WHY": true, "WILL": true,
	"WITH": true, "YOU": true,
}

// symbolPattern matches bare uppercase ticker-shaped tokens in raw input.
// It intentionally does not match capitalized words ("Compare"): the token
// has to be all caps.
var symbolPattern = regexp.MustCompile(`\b[A-Z]{1,5}\b`)

// sortedNames returns the dictionary names longest first so that
// "morgan stanley" wins over any shorter overlapping entry.
var sortedNames = func() []string {
	names := make([]string, 0, len(companyNames))
	for name := range companyNames {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}()

// MatchNames returns tickers for every known company name contained in the
// lowercased input, longest match first.
func MatchNames(inputLower string) []string {
	var tickers []string
	for _, name := range sortedNames {
		if strings.Contains(inputLower, name) {
			tickers = append(tickers, companyNames[name])
		}
	}
	return tickers
}

// MatchSymbols returns ticker-shaped uppercase tokens from the raw input,
// with false positives filtered out.
func MatchSymbols(input string) []string {
	var symbols []string
	for _, tok := range symbolPattern.FindAllString(input, -1) {
		if falsePositives[tok] {
			continue
		}
		symbols = append(symbols, tok)
	}
	return symbols
}

// IsFalsePositive reports whether the token is on the curated exclusion list.
func IsFalsePositive(token string) bool {
	return falsePositives[strings.ToUpper(token)]
}

// KnownName reports whether the lowercase name is in the dictionary and the
// ticker it maps to.
func KnownName(name string) (string, bool) {
	t, ok := companyNames[strings.ToLower(name)]
	return t, ok
}
