package interp

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"finchat/internal/ticker"
)

// typeKeywords binds an analysis type to the keywords that select it. The
// table below is matched in order and the order is load-bearing: the three
// statement types and recommendations sit ahead of the generic comparison /
// metrics / profile buckets so that "income statement for AAPL" is never
// classified as a profile request.
type typeKeywords struct {
	kind     AnalysisType
	keywords []string
}

var analysisKeywords = []typeKeywords{
	{AnalysisIncomeStatement, []string{"income statement", "income", "revenue", "earnings", "profit"}},
	{AnalysisBalanceSheet, []string{"balance sheet", "balance", "assets", "liabilities", "equity"}},
	{AnalysisCashFlow, []string{"cash flow", "cashflow", "cash"}},
	{AnalysisRecommendations, []string{"recommendation", "analyst", "rating", "price target", "target price"}},
	{AnalysisComparison, []string{"compare", "comparison", "vs", "versus", "against", "peer", "competitor"}},
	{AnalysisMetrics, []string{"metrics", "ratios", "valuation", "key metrics", "performance", "financial"}},
	{AnalysisProfile, []string{"profile", "about", "overview", "summary", "information", "info", "company"}},
}

// anaphora are the cue words that let a follow-up utterance inherit the
// companies already under discussion.
var anaphora = regexp.MustCompile(`\b(it|them|they|this|that)\b`)

// RuleInterpreter resolves requests with dictionary and pattern matching.
// It is deterministic and needs no network access.
type RuleInterpreter struct {
	log *zap.Logger
}

func NewRuleInterpreter(log *zap.Logger) *RuleInterpreter {
	if log == nil {
		log = zap.NewNop()
	}
	return &RuleInterpreter{log: log}
}

func (r *RuleInterpreter) Interpret(_ context.Context, input string, conv Context) Interpretation {
	inputLower := strings.ToLower(input)

	out := Interpretation{RawInput: input}
	out.Companies = r.extractCompanies(input, inputLower, conv)
	out.AnalysisType = determineAnalysisType(inputLower, len(out.Companies))
	out.Confidence = scoreConfidence(out)

	if len(out.Companies) == 0 {
		out.NeedsClarification = true
		out.ClarificationMessage = ClarificationPrompt
	}

	r.log.Debug("interpreted request",
		zap.Strings("companies", out.Companies),
		zap.String("analysis_type", string(out.AnalysisType)),
		zap.Float64("confidence", out.Confidence),
		zap.Bool("needs_clarification", out.NeedsClarification))

	return out
}

// extractCompanies resolves tickers from the utterance: dictionary names
// first, then bare uppercase ticker-shaped tokens, then the pronoun fallback
// to context companies. Duplicates are collapsed case-insensitively while
// preserving first-seen order.
func (r *RuleInterpreter) extractCompanies(input, inputLower string, conv Context) []string {
	var companies []string
	seen := make(map[string]bool)
	add := func(t string) {
		t = strings.ToUpper(t)
		if !seen[t] {
			seen[t] = true
			companies = append(companies, t)
		}
	}

	for _, t := range ticker.MatchNames(inputLower) {
		add(t)
	}
	for _, t := range ticker.MatchSymbols(input) {
		add(t)
	}

	if len(companies) == 0 && len(conv.Companies) > 0 && anaphora.MatchString(inputLower) {
		for _, t := range conv.Companies {
			add(t)
		}
	}

	return companies
}

func determineAnalysisType(inputLower string, companyCount int) AnalysisType {
	for _, entry := range analysisKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(inputLower, kw) {
				return entry.kind
			}
		}
	}

	// No keyword matched: infer from the company count.
	switch {
	case companyCount > 1:
		return AnalysisComparison
	case companyCount == 1:
		return AnalysisProfile
	}
	return AnalysisNone
}

func scoreConfidence(in Interpretation) float64 {
	confidence := 0.0
	if len(in.Companies) > 0 {
		confidence += 0.5
	}
	if in.AnalysisType != AnalysisNone {
		confidence += 0.3
	}
	if in.AnalysisType.IsStatement() {
		confidence += 0.2
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}
