package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"go.uber.org/zap"

	"finchat/consts"
	"finchat/internal/dataflows"
	"finchat/internal/plan"
	"finchat/internal/state"
	"finchat/internal/tools"
)

func (e *Engine) entryNode(ctx context.Context, input string) (string, error) {
	_ = compose.ProcessState[*state.ConversationState](ctx, func(_ context.Context, s *state.ConversationState) error {
		s.WorkflowStep = consts.Entry
		return nil
	})
	return input, nil
}

func (e *Engine) interpretationNode(ctx context.Context, input string) (string, error) {
	err := compose.ProcessState[*state.ConversationState](ctx, func(ctx context.Context, s *state.ConversationState) error {
		s.WorkflowStep = consts.Interpretation

		e.guard(s, consts.Interpretation, func() {
			interpretation := e.interpreter.Interpret(ctx, input, s.Context())
			s.ApplyInterpretation(interpretation)

			e.log.Debug("interpreted request",
				zap.Strings("companies", interpretation.Companies),
				zap.String("analysis_type", string(interpretation.AnalysisType)),
				zap.Float64("confidence", interpretation.Confidence),
				zap.Bool("needs_clarification", interpretation.NeedsClarification))
		})
		return nil
	})
	return input, err
}

func (e *Engine) planningNode(ctx context.Context, input string) (string, error) {
	err := compose.ProcessState[*state.ConversationState](ctx, func(_ context.Context, s *state.ConversationState) error {
		s.WorkflowStep = consts.Planning

		e.guard(s, consts.Planning, func() {
			p := plan.Build(s.AnalysisType, s.Companies)
			s.AnalysisType = p.AnalysisType
			s.ApplyPlan(p.RequiredTools, p.DataRequirements)

			e.log.Debug("built plan",
				zap.String("analysis_type", string(p.AnalysisType)),
				zap.Strings("tools", p.RequiredTools),
				zap.Strings("requirements", p.DataRequirements))
		})
		return nil
	})
	return input, err
}

// guard converts a panic escaping a stage into the pipeline-fatal error
// path; the remaining stages then short-circuit to the error response.
func (e *Engine) guard(s *state.ConversationState, stage string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			e.log.Error("stage panicked",
				zap.String("stage", stage), zap.Any("panic", rec))
			s.SetError(fmt.Sprintf("unexpected failure in %s: %v", stage, rec))
		}
	}()
	fn()
}

// dataCollectionNode fetches every data requirement for every ticker.
// A per-ticker failure is logged and the entry left absent; only an
// empty companies list is fatal here.
func (e *Engine) dataCollectionNode(ctx context.Context, input string) (string, error) {
	err := compose.ProcessState[*state.ConversationState](ctx, func(ctx context.Context, s *state.ConversationState) error {
		s.WorkflowStep = consts.DataCollection

		if len(s.Companies) == 0 && len(s.DataRequirements) > 0 {
			s.SetError("no companies to collect data for")
			return nil
		}

		for _, requirement := range s.DataRequirements {
			switch requirement {
			case consts.RequirementCompanyData:
				for _, ticker := range s.Companies {
					payload, err := e.registry.GetCompanyData(ctx, ticker)
					if err != nil {
						e.log.Warn("company data fetch failed",
							zap.String("ticker", ticker), zap.Error(err))
						continue
					}
					s.StoreFinancialData(ticker, payload)
				}
			case consts.RequirementStatementsData:
				for _, ticker := range s.Companies {
					payload, err := e.registry.GetFinancialStatements(ctx, ticker)
					if err != nil {
						e.log.Warn("statements fetch failed",
							zap.String("ticker", ticker), zap.Error(err))
						continue
					}
					s.StoreFinancialData(ticker+"_statements", payload)
				}
			case consts.RequirementComparisonData:
				payload, err := e.registry.GetPeerComparisonData(ctx, s.Companies[0], s.Companies[1:])
				if err != nil {
					e.log.Warn("comparison data fetch failed",
						zap.String("main", s.Companies[0]), zap.Error(err))
					continue
				}
				s.StoreFinancialData("comparison", payload)
			default:
				e.log.Warn("unknown data requirement skipped",
					zap.String("requirement", requirement))
			}
		}
		return nil
	})
	return input, err
}

// analysisExecutionNode dispatches every planned tool against the
// collected data. Missing data skips the ticker; a failed tool is stored
// as a failed result. Neither aborts the loop.
func (e *Engine) analysisExecutionNode(ctx context.Context, input string) (string, error) {
	err := compose.ProcessState[*state.ConversationState](ctx, func(ctx context.Context, s *state.ConversationState) error {
		s.WorkflowStep = consts.AnalysisExecution

		for _, tool := range s.RequiredTools {
			switch tool {
			case consts.ToolGetCompanyData, consts.ToolGetFinancialStatements, consts.ToolGetPeerComparisonData:
				// Fetch tools ran during data collection.

			case consts.ToolAnalyzeCompanyProfile:
				e.forEachTicker(s, "", func(ticker string, payload *dataflows.Payload) {
					s.StoreResult(ticker+"_profile", e.registry.AnalyzeCompanyProfile(payload))
				})

			case consts.ToolAnalyzeFinancialMetrics:
				e.forEachTicker(s, "", func(ticker string, payload *dataflows.Payload) {
					s.StoreResult(ticker+"_metrics", e.registry.AnalyzeFinancialMetrics(payload))
				})

			case consts.ToolAnalyzeFinancialStatement:
				e.forEachTicker(s, "_statements", func(ticker string, payload *dataflows.Payload) {
					key := fmt.Sprintf("%s_%s", ticker, s.AnalysisType)
					s.StoreResult(key, e.registry.AnalyzeFinancialStatement(payload, s.AnalysisType))
				})

			case consts.ToolCompareCompanies:
				payload, ok := s.FinancialData["comparison"]
				if !ok {
					e.log.Warn("comparison data absent, skipping comparison")
					s.StoreResult("comparison", tools.Failuref(tool, "no comparison data collected"))
					continue
				}
				s.StoreResult("comparison", e.registry.CompareCompanies(payload))

			case consts.ToolGetAnalystRecommendations:
				for _, ticker := range s.Companies {
					s.StoreResult(ticker+"_recommendations", e.registry.GetAnalystRecommendations(ctx, ticker))
				}

			default:
				e.log.Warn("unknown tool skipped", zap.String("tool", tool))
			}
		}
		return nil
	})
	return input, err
}

// forEachTicker invokes fn for every company whose data (keyed by ticker
// plus suffix) was collected, logging the ones skipped.
func (e *Engine) forEachTicker(s *state.ConversationState, suffix string, fn func(string, *dataflows.Payload)) {
	for _, ticker := range s.Companies {
		payload, ok := s.FinancialData[ticker+suffix]
		if !ok {
			e.log.Warn("data absent for ticker, skipping analysis",
				zap.String("ticker", ticker))
			continue
		}
		fn(ticker, payload)
	}
}

func (e *Engine) resultAggregationNode(ctx context.Context, input string) (string, error) {
	err := compose.ProcessState[*state.ConversationState](ctx, func(_ context.Context, s *state.ConversationState) error {
		s.WorkflowStep = consts.ResultAggregation

		succeeded := 0
		for _, result := range s.AnalysisResults {
			if result.Success {
				succeeded++
			}
		}
		e.log.Debug("aggregated results",
			zap.Int("total", len(s.AnalysisResults)),
			zap.Int("succeeded", succeeded))
		return nil
	})
	return input, err
}

func (e *Engine) responsePlanningNode(ctx context.Context, input string) (string, error) {
	err := compose.ProcessState[*state.ConversationState](ctx, func(_ context.Context, s *state.ConversationState) error {
		s.WorkflowStep = consts.ResponsePlanning
		return nil
	})
	return input, err
}

func (e *Engine) responseGenerationNode(ctx context.Context, input string) (string, error) {
	var response string
	err := compose.ProcessState[*state.ConversationState](ctx, func(_ context.Context, s *state.ConversationState) error {
		s.WorkflowStep = consts.ResponseGeneration

		switch {
		case s.ErrorMessage != "":
			response = e.generator.Render(nil, nil, s.ErrorMessage)
		case s.NeedsClarification:
			response = e.generator.Clarification(s.ClarificationMessage)
		default:
			response = e.generator.Render(s.AnalysisResults, s.Companies, "")
		}
		s.SetResponse(response)
		s.WorkflowStep = consts.StepComplete
		return nil
	})
	return response, err
}
