package interp

import (
	"context"
	"sync"
)

// Switchable is an Interpreter whose implementation can be replaced at
// runtime. Config hot reload uses it to rebuild the LLM refinement layer
// without tearing down running sessions.
type Switchable struct {
	mu    sync.RWMutex
	inner Interpreter
}

func NewSwitchable(inner Interpreter) *Switchable {
	return &Switchable{inner: inner}
}

// Swap replaces the wrapped interpreter. A nil interpreter is ignored.
func (s *Switchable) Swap(inner Interpreter) {
	if inner == nil {
		return
	}
	s.mu.Lock()
	s.inner = inner
	s.mu.Unlock()
}

func (s *Switchable) Interpret(ctx context.Context, input string, conv Context) Interpretation {
	s.mu.RLock()
	inner := s.inner
	s.mu.RUnlock()
	return inner.Interpret(ctx, input, conv)
}
