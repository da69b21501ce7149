package interp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixedInterpreter struct {
	result Interpretation
}

func (f fixedInterpreter) Interpret(context.Context, string, Context) Interpretation {
	return f.result
}

func TestSwitchableSwapsImplementation(t *testing.T) {
	first := fixedInterpreter{result: Interpretation{Companies: []string{"AAPL"}}}
	second := fixedInterpreter{result: Interpretation{Companies: []string{"MSFT"}}}

	s := NewSwitchable(first)
	out := s.Interpret(context.Background(), "anything", Context{})
	assert.Equal(t, []string{"AAPL"}, out.Companies)

	s.Swap(second)
	out = s.Interpret(context.Background(), "anything", Context{})
	assert.Equal(t, []string{"MSFT"}, out.Companies)

	// A nil swap keeps the current interpreter.
	s.Swap(nil)
	out = s.Interpret(context.Background(), "anything", Context{})
	assert.Equal(t, []string{"MSFT"}, out.Companies)
}
