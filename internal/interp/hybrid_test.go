package interp

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
)

type fakeChatModel struct {
	reply string
	err   error
	calls int
}

func (f *fakeChatModel) Generate(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	panic("not used")
}

func TestHybridSkipsModelOnHighConfidence(t *testing.T) {
	fake := &fakeChatModel{reply: `{"companies":["TSLA"],"analysis_type":"metrics"}`}
	h := NewHybridInterpreter(NewRuleInterpreter(nil), fake, 0.7, nil)

	out := h.Interpret(context.Background(), "Balance sheet for Microsoft", Context{})

	assert.Equal(t, []string{"MSFT"}, out.Companies)
	assert.Equal(t, AnalysisBalanceSheet, out.AnalysisType)
	assert.Zero(t, fake.calls)
}

func TestHybridRefinesLowConfidenceResult(t *testing.T) {
	fake := &fakeChatModel{reply: `{"companies":["TSLA"],"analysis_type":"metrics"}`}
	h := NewHybridInterpreter(NewRuleInterpreter(nil), fake, 0.7, nil)

	out := h.Interpret(context.Background(), "how is elon's car business doing", Context{})

	assert.Equal(t, 1, fake.calls)
	assert.Equal(t, []string{"TSLA"}, out.Companies)
	assert.Equal(t, AnalysisMetrics, out.AnalysisType)
	assert.False(t, out.NeedsClarification)
}

func TestHybridFallsBackOnModelFailure(t *testing.T) {
	fake := &fakeChatModel{err: context.DeadlineExceeded}
	h := NewHybridInterpreter(NewRuleInterpreter(nil), fake, 0.7, nil)

	out := h.Interpret(context.Background(), "how are things going", Context{})

	assert.True(t, out.NeedsClarification)
	assert.Empty(t, out.Companies)
}

func TestHybridClarificationInvariantHolds(t *testing.T) {
	// The model returning no companies must not clear the clarification flag.
	fake := &fakeChatModel{reply: `{"companies":[],"analysis_type":"profile"}`}
	h := NewHybridInterpreter(NewRuleInterpreter(nil), fake, 0.7, nil)

	out := h.Interpret(context.Background(), "help me out here", Context{})

	assert.True(t, out.NeedsClarification)
	assert.Equal(t, ClarificationPrompt, out.ClarificationMessage)
}
