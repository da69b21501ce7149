// Package render turns analysis results into the user-facing reply.
// Output is plain text; terminal styling is the CLI's concern.
package render

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"finchat/internal/interp"
	"finchat/internal/tools"
)

// Fixed reply templates.
const (
	WelcomeMessage = "Hello! I'm your Financial Analysis Assistant. " +
		"I can help you analyze companies, compare stocks, and provide financial insights. " +
		"Just tell me which company you'd like to analyze or ask me a financial question!"

	errorTemplate = "I encountered an error: %s"

	noResultsMessage = "I wasn't able to generate analysis results for your request. " +
		"Please try again with a specific company or request."

	contextTemplate = "📊 Current context: %s"
)

// Generator renders pipeline outcomes into reply text. Rendering is
// deterministic: the same results map always produces the same string.
type Generator struct {
	log *zap.Logger
}

// NewGenerator creates a response generator.
func NewGenerator(log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{log: log}
}

// Welcome returns the greeting for a fresh conversation.
func (g *Generator) Welcome() string {
	return WelcomeMessage
}

// Clarification returns the clarification request, falling back to the
// standard prompt when the interpreter left no message.
func (g *Generator) Clarification(message string) string {
	if message == "" {
		return interp.ClarificationPrompt
	}
	return message
}

// Render produces the reply for a finished turn. An error message
// preempts everything; failed results are skipped silently.
func (g *Generator) Render(results map[string]tools.Result, companies []string, errMsg string) string {
	if errMsg != "" {
		return fmt.Sprintf(errorTemplate, errMsg)
	}
	if len(results) == 0 {
		return noResultsMessage
	}

	keys := make([]string, 0, len(results))
	for key := range results {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var parts []string
	for _, key := range keys {
		result := results[key]
		if !result.Success {
			continue
		}
		formatted := g.formatResult(key, result)
		if formatted != "" {
			parts = append(parts, formatted)
		}
	}
	if len(parts) == 0 {
		return noResultsMessage
	}

	response := strings.Join(parts, "\n\n")
	if len(companies) > 0 {
		response += "\n\n" + fmt.Sprintf(contextTemplate, strings.Join(companies, ", "))
	}
	return response
}

func (g *Generator) formatResult(key string, result tools.Result) string {
	switch result.Kind {
	case tools.KindProfile:
		return formatProfile(result.Profile)
	case tools.KindMetrics:
		return formatMetrics(result.Metrics)
	case tools.KindStatement:
		return formatStatement(result.Statement)
	case tools.KindComparison:
		return formatComparison(result.Comparison)
	case tools.KindRecommendations:
		return formatRecommendations(result.Recommendations)
	}
	g.log.Warn("result with unknown kind skipped",
		zap.String("key", key), zap.String("kind", string(result.Kind)))
	return ""
}
