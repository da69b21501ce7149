// Package orchestrator drives one user turn through the pipeline:
// interpretation, planning, data collection, analysis dispatch, and
// response generation, threading the conversation state through every
// node. One engine owns one conversation; turns run synchronously.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"go.uber.org/zap"

	"finchat/consts"
	"finchat/internal/interp"
	"finchat/internal/render"
	"finchat/internal/state"
	"finchat/internal/tools"
)

// Engine executes the conversation pipeline for a single session.
type Engine struct {
	interpreter interp.Interpreter
	registry    *tools.Registry
	generator   *render.Generator
	state       *state.ConversationState
	runnable    compose.Runnable[string, string]
	log         *zap.Logger
}

// NewEngine builds and compiles the pipeline graph around a conversation
// state. The state pointer is shared with the caller; save it after each
// turn to persist the conversation.
func NewEngine(
	ctx context.Context,
	interpreter interp.Interpreter,
	registry *tools.Registry,
	generator *render.Generator,
	st *state.ConversationState,
	log *zap.Logger,
) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{
		interpreter: interpreter,
		registry:    registry,
		generator:   generator,
		state:       st,
		log:         log,
	}

	runnable, err := e.buildGraph(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile pipeline graph: %w", err)
	}
	e.runnable = runnable
	return e, nil
}

// State returns the conversation state the engine mutates.
func (e *Engine) State() *state.ConversationState {
	return e.state
}

// ProcessUserRequest runs one user turn start to finish and returns the
// agent's reply. A failure escaping the graph is rendered through the
// error template rather than returned.
func (e *Engine) ProcessUserRequest(ctx context.Context, input string) string {
	e.state.BeginTurn(input)

	if _, err := e.runnable.Invoke(ctx, input); err != nil {
		e.log.Error("pipeline failed", zap.Error(err))
		e.state.SetError(err.Error())
		e.state.SetResponse(e.generator.Render(nil, nil, e.state.ErrorMessage))
	}
	return e.state.AgentResponse
}

func (e *Engine) buildGraph(ctx context.Context) (compose.Runnable[string, string], error) {
	g := compose.NewGraph[string, string](
		compose.WithGenLocalState(func(ctx context.Context) *state.ConversationState {
			return e.state
		}),
	)

	_ = g.AddLambdaNode(consts.Entry, compose.InvokableLambda(e.entryNode))
	_ = g.AddLambdaNode(consts.Interpretation, compose.InvokableLambda(e.interpretationNode))
	_ = g.AddLambdaNode(consts.Planning, compose.InvokableLambda(e.planningNode))
	_ = g.AddLambdaNode(consts.DataCollection, compose.InvokableLambda(e.dataCollectionNode))
	_ = g.AddLambdaNode(consts.AnalysisExecution, compose.InvokableLambda(e.analysisExecutionNode))
	_ = g.AddLambdaNode(consts.ResultAggregation, compose.InvokableLambda(e.resultAggregationNode))
	_ = g.AddLambdaNode(consts.ResponsePlanning, compose.InvokableLambda(e.responsePlanningNode))
	_ = g.AddLambdaNode(consts.ResponseGeneration, compose.InvokableLambda(e.responseGenerationNode))

	_ = g.AddEdge(compose.START, consts.Entry)
	_ = g.AddEdge(consts.Entry, consts.Interpretation)

	// Clarification and errors skip straight to response generation.
	_ = g.AddBranch(consts.Interpretation, compose.NewGraphBranch(e.afterInterpretation, map[string]bool{
		consts.Planning:           true,
		consts.ResponseGeneration: true,
	}))
	_ = g.AddBranch(consts.Planning, compose.NewGraphBranch(e.continueOrAbort(consts.DataCollection), map[string]bool{
		consts.DataCollection:     true,
		consts.ResponseGeneration: true,
	}))
	_ = g.AddBranch(consts.DataCollection, compose.NewGraphBranch(e.continueOrAbort(consts.AnalysisExecution), map[string]bool{
		consts.AnalysisExecution:  true,
		consts.ResponseGeneration: true,
	}))
	_ = g.AddBranch(consts.AnalysisExecution, compose.NewGraphBranch(e.continueOrAbort(consts.ResultAggregation), map[string]bool{
		consts.ResultAggregation:  true,
		consts.ResponseGeneration: true,
	}))

	_ = g.AddEdge(consts.ResultAggregation, consts.ResponsePlanning)
	_ = g.AddEdge(consts.ResponsePlanning, consts.ResponseGeneration)
	_ = g.AddEdge(consts.ResponseGeneration, compose.END)

	return g.Compile(ctx,
		compose.WithGraphName("finchat-pipeline"),
		compose.WithNodeTriggerMode(compose.AnyPredecessor),
	)
}

// afterInterpretation routes a turn that needs no analysis straight to
// the response.
func (e *Engine) afterInterpretation(ctx context.Context, _ string) (string, error) {
	next := consts.Planning
	_ = compose.ProcessState[*state.ConversationState](ctx, func(_ context.Context, s *state.ConversationState) error {
		if s.ErrorMessage != "" || s.NeedsClarification {
			next = consts.ResponseGeneration
		}
		return nil
	})
	return next, nil
}

// continueOrAbort routes to the next stage unless an error is set.
func (e *Engine) continueOrAbort(next string) func(context.Context, string) (string, error) {
	return func(ctx context.Context, _ string) (string, error) {
		target := next
		_ = compose.ProcessState[*state.ConversationState](ctx, func(_ context.Context, s *state.ConversationState) error {
			if s.ErrorMessage != "" {
				target = consts.ResponseGeneration
			}
			return nil
		})
		return target, nil
	}
}
