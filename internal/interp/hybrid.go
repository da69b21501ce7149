package interp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"
)

const llmSystemPrompt = `You extract stock tickers and an analysis intent from a user request.
Reply with a single JSON object and nothing else:
{"companies": ["TICKER", ...], "analysis_type": "profile|metrics|comparison|income_statement|balance_sheet|cash_flow|recommendations|"}
Use uppercase US exchange tickers. Leave fields empty when unsure.`

// llmExtraction is the JSON shape the model is asked to produce.
type llmExtraction struct {
	Companies    []string `json:"companies"`
	AnalysisType string   `json:"analysis_type"`
}

// HybridInterpreter runs the rule-based pass first and, when its confidence
// is below the threshold and a chat model is configured, asks the model for
// a second opinion. The rule-based result is authoritative whenever the two
// disagree on clarification: needing clarification is decided solely by
// whether any company was resolved.
type HybridInterpreter struct {
	rules     *RuleInterpreter
	chatModel model.BaseChatModel
	threshold float64
	log       *zap.Logger
}

func NewHybridInterpreter(rules *RuleInterpreter, chatModel model.BaseChatModel, threshold float64, log *zap.Logger) *HybridInterpreter {
	if log == nil {
		log = zap.NewNop()
	}
	return &HybridInterpreter{
		rules:     rules,
		chatModel: chatModel,
		threshold: threshold,
		log:       log,
	}
}

func (h *HybridInterpreter) Interpret(ctx context.Context, input string, conv Context) Interpretation {
	out := h.rules.Interpret(ctx, input, conv)
	if h.chatModel == nil || out.Confidence >= h.threshold {
		return out
	}

	refined, ok := h.refine(ctx, input)
	if !ok {
		return out
	}

	merged := out
	if len(refined.Companies) > 0 {
		merged.Companies = normalizeTickers(refined.Companies)
	}
	if t := AnalysisType(refined.AnalysisType); validAnalysisType(t) && t != AnalysisNone {
		merged.AnalysisType = t
	}
	merged.Confidence = scoreConfidence(merged) + 0.1
	if merged.Confidence > 1.0 {
		merged.Confidence = 1.0
	}

	merged.NeedsClarification = len(merged.Companies) == 0
	if merged.NeedsClarification {
		merged.ClarificationMessage = ClarificationPrompt
	} else {
		merged.ClarificationMessage = ""
	}

	return merged
}

func (h *HybridInterpreter) refine(ctx context.Context, input string) (llmExtraction, bool) {
	msg, err := h.chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(llmSystemPrompt),
		schema.UserMessage(input),
	})
	if err != nil {
		h.log.Warn("llm interpretation failed, keeping rule-based result", zap.Error(err))
		return llmExtraction{}, false
	}

	content := strings.TrimSpace(msg.Content)
	// Models occasionally wrap the object in a code fence.
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var extraction llmExtraction
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &extraction); err != nil {
		h.log.Warn("llm interpretation returned non-JSON content", zap.Error(err))
		return llmExtraction{}, false
	}
	return extraction, true
}

func normalizeTickers(in []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, t := range in {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func validAnalysisType(t AnalysisType) bool {
	switch t {
	case AnalysisNone, AnalysisProfile, AnalysisMetrics, AnalysisComparison,
		AnalysisIncomeStatement, AnalysisBalanceSheet, AnalysisCashFlow,
		AnalysisRecommendations:
		return true
	}
	return false
}
