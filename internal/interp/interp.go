// Package interp turns raw user text plus conversation context into a
// structured interpretation: resolved tickers, an analysis type, a
// confidence score and a clarification flag.
package interp

import "context"

// AnalysisType is the kind of report a request resolves to.
type AnalysisType string

const (
	AnalysisNone            AnalysisType = ""
	AnalysisProfile         AnalysisType = "profile"
	AnalysisMetrics         AnalysisType = "metrics"
	AnalysisComparison      AnalysisType = "comparison"
	AnalysisIncomeStatement AnalysisType = "income_statement"
	AnalysisBalanceSheet    AnalysisType = "balance_sheet"
	AnalysisCashFlow        AnalysisType = "cash_flow"
	AnalysisRecommendations AnalysisType = "recommendations"
)

// IsStatement reports whether t is one of the three financial statement kinds.
func (t AnalysisType) IsStatement() bool {
	switch t {
	case AnalysisIncomeStatement, AnalysisBalanceSheet, AnalysisCashFlow:
		return true
	}
	return false
}

// Context carries the prior conversation state the interpreter may fall back
// to when the utterance references companies only by pronoun.
type Context struct {
	Companies []string
}

// Interpretation is the structured result of interpreting one utterance.
type Interpretation struct {
	Companies            []string     `json:"companies"`
	AnalysisType         AnalysisType `json:"analysis_type"`
	Confidence           float64      `json:"confidence"`
	NeedsClarification   bool         `json:"needs_clarification"`
	ClarificationMessage string       `json:"clarification_message,omitempty"`
	RawInput             string       `json:"raw_input"`
}

// Interpreter is implemented by the rule-based interpreter and the hybrid
// LLM-assisted one.
type Interpreter interface {
	Interpret(ctx context.Context, input string, conv Context) Interpretation
}

// ClarificationPrompt is the fixed message returned when no company could be
// resolved from the utterance or the conversation context.
const ClarificationPrompt = "I'd be happy to help with financial analysis! " +
	"Could you please specify which company or companies you'd like me to analyze? " +
	"You can use ticker symbols (like AAPL, MSFT) or company names (like Apple, Microsoft)."
