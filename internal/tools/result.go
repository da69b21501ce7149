// Package tools is the dispatch surface between the orchestrator and the
// data/analysis layers. Every tool call produces a Result; failures are
// recorded in the Result, never raised past the registry.
package tools

import (
	"fmt"

	"finchat/internal/analysis"
)

// ResultKind tags the variant carried by a Result.
type ResultKind string

const (
	KindProfile         ResultKind = "profile"
	KindMetrics         ResultKind = "metrics"
	KindStatement       ResultKind = "statement"
	KindComparison      ResultKind = "comparison"
	KindRecommendations ResultKind = "recommendations"
)

// Result is one tool outcome. On success exactly one variant field is
// set, matching Kind; on failure only Tool and Error are meaningful.
// The tagged layout keeps results JSON round-trippable and lets the
// renderer dispatch on Kind instead of sniffing payload shapes.
type Result struct {
	Success bool       `json:"success"`
	Tool    string     `json:"tool"`
	Kind    ResultKind `json:"kind,omitempty"`
	Error   string     `json:"error,omitempty"`

	Profile         *analysis.ProfileReport         `json:"profile,omitempty"`
	Metrics         *analysis.MetricsReport         `json:"metrics,omitempty"`
	Statement       *analysis.StatementReport       `json:"statement,omitempty"`
	Comparison      *analysis.ComparisonReport      `json:"comparison,omitempty"`
	Recommendations *analysis.RecommendationsReport `json:"recommendations,omitempty"`
}

// Failure builds a failed result for a tool.
func Failure(tool string, err error) Result {
	return Result{Tool: tool, Error: err.Error()}
}

// Failuref builds a failed result with a formatted message.
func Failuref(tool, format string, args ...any) Result {
	return Result{Tool: tool, Error: fmt.Sprintf(format, args...)}
}
