package interp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpretComparisonRequest(t *testing.T) {
	r := NewRuleInterpreter(nil)

	out := r.Interpret(context.Background(), "Compare AAPL and MSFT", Context{})

	assert.Equal(t, AnalysisComparison, out.AnalysisType)
	assert.Equal(t, []string{"AAPL", "MSFT"}, out.Companies)
	assert.False(t, out.NeedsClarification)
}

func TestInterpretStatementRequestByName(t *testing.T) {
	r := NewRuleInterpreter(nil)

	out := r.Interpret(context.Background(), "Balance sheet for Microsoft", Context{})

	assert.Equal(t, AnalysisBalanceSheet, out.AnalysisType)
	assert.Equal(t, []string{"MSFT"}, out.Companies)
}

func TestInterpretFiltersFalsePositiveTokens(t *testing.T) {
	r := NewRuleInterpreter(nil)

	out := r.Interpret(context.Background(), "Analyst ratings for Intel", Context{})

	assert.Equal(t, []string{"INTC"}, out.Companies)
	assert.NotContains(t, out.Companies, "FOR")
	assert.Equal(t, AnalysisRecommendations, out.AnalysisType)

	// Even an explicit all-caps FOR stays filtered.
	out = r.Interpret(context.Background(), "Analyst ratings FOR Intel", Context{})
	assert.Equal(t, []string{"INTC"}, out.Companies)
}

func TestStatementKeywordsBeatProfileKeywords(t *testing.T) {
	r := NewRuleInterpreter(nil)

	cases := map[string]AnalysisType{
		"What are the earnings for Tesla?":     AnalysisIncomeStatement,
		"Show income statement info for Apple": AnalysisIncomeStatement,
		"Summary of assets for IBM":            AnalysisBalanceSheet,
		"Cash flow overview for Netflix":       AnalysisCashFlow,
		"Tell me about Nvidia":                 AnalysisProfile,
	}
	for input, want := range cases {
		out := r.Interpret(context.Background(), input, Context{})
		assert.Equalf(t, want, out.AnalysisType, "input %q", input)
	}
}

func TestInterpretDefaultsByCompanyCount(t *testing.T) {
	r := NewRuleInterpreter(nil)

	out := r.Interpret(context.Background(), "Analyze NVDA", Context{})
	assert.Equal(t, AnalysisProfile, out.AnalysisType)

	out = r.Interpret(context.Background(), "Look at NVDA and INTC together", Context{})
	assert.Equal(t, AnalysisComparison, out.AnalysisType)
	assert.Equal(t, []string{"NVDA", "INTC"}, out.Companies)
}

func TestInterpretDeduplicatesCompanies(t *testing.T) {
	r := NewRuleInterpreter(nil)

	out := r.Interpret(context.Background(), "Apple AAPL apple and AAPL again", Context{})

	assert.Equal(t, []string{"AAPL"}, out.Companies)
}

func TestInterpretClarificationWhenNoCompanies(t *testing.T) {
	r := NewRuleInterpreter(nil)

	for _, input := range []string{"", "   ", "tell me something interesting", "?!?"} {
		out := r.Interpret(context.Background(), input, Context{})
		require.Emptyf(t, out.Companies, "input %q", input)
		assert.Truef(t, out.NeedsClarification, "input %q", input)
		assert.Equal(t, ClarificationPrompt, out.ClarificationMessage)
	}
}

func TestInterpretPronounFallback(t *testing.T) {
	r := NewRuleInterpreter(nil)
	conv := Context{Companies: []string{"AAPL", "MSFT"}}

	out := r.Interpret(context.Background(), "show me more details about them", Context{Companies: conv.Companies})
	assert.Equal(t, []string{"AAPL", "MSFT"}, out.Companies)
	assert.False(t, out.NeedsClarification)

	// No cue word, no fallback.
	out = r.Interpret(context.Background(), "show me more details", conv)
	assert.Empty(t, out.Companies)
	assert.True(t, out.NeedsClarification)
}

func TestConfidenceScoring(t *testing.T) {
	r := NewRuleInterpreter(nil)

	out := r.Interpret(context.Background(), "gibberish", Context{})
	assert.InDelta(t, 0.0, out.Confidence, 1e-9)

	out = r.Interpret(context.Background(), "AAPL", Context{})
	assert.InDelta(t, 0.8, out.Confidence, 1e-9) // company + default profile type

	out = r.Interpret(context.Background(), "Balance sheet for AAPL", Context{})
	assert.InDelta(t, 1.0, out.Confidence, 1e-9) // capped at 1.0
}
