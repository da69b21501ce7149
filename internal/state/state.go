// Package state holds the conversation record the pipeline threads
// through every stage. One turn owns the state exclusively; there is no
// internal locking.
package state

import (
	"time"

	"finchat/internal/dataflows"
	"finchat/internal/interp"
	"finchat/internal/tools"
)

// Message roles in the conversation transcript.
const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

// Message is one transcript entry.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationState is the single mutable record shared by the pipeline
// stages. Every field round-trips through JSON so sessions can be
// persisted between turns.
type ConversationState struct {
	SessionID     string    `json:"session_id"`
	UserInput     string    `json:"user_input"`
	AgentResponse string    `json:"agent_response"`
	Messages      []Message `json:"messages"`

	Companies            []string            `json:"companies"`
	AnalysisType         interp.AnalysisType `json:"analysis_type"`
	NeedsClarification   bool                `json:"needs_clarification"`
	ClarificationMessage string              `json:"clarification_message,omitempty"`

	RequiredTools    []string `json:"required_tools"`
	DataRequirements []string `json:"data_requirements"`

	// FinancialData caches fetched payloads for the conversation, keyed
	// by ticker or ticker+suffix. Never evicted.
	FinancialData map[string]*dataflows.Payload `json:"financial_data"`

	// AnalysisResults holds tool outcomes keyed by "{ticker}_{suffix}"
	// or "comparison".
	AnalysisResults map[string]tools.Result `json:"analysis_results"`

	ErrorMessage string `json:"error_message,omitempty"`

	// WorkflowStep is a tracing label only; control flow never reads it.
	WorkflowStep string `json:"workflow_step"`
}

// New creates an empty conversation state for a session.
func New(sessionID string) *ConversationState {
	return &ConversationState{
		SessionID:       sessionID,
		Companies:       []string{},
		Messages:        []Message{},
		FinancialData:   make(map[string]*dataflows.Payload),
		AnalysisResults: make(map[string]tools.Result),
	}
}

// BeginTurn resets the per-turn fields and appends the user message to
// the transcript. Companies and cached data survive across turns.
func (s *ConversationState) BeginTurn(input string) {
	s.UserInput = input
	s.AgentResponse = ""
	s.ErrorMessage = ""
	s.NeedsClarification = false
	s.ClarificationMessage = ""
	s.RequiredTools = nil
	s.DataRequirements = nil
	s.AnalysisResults = make(map[string]tools.Result)
	s.AppendMessage(RoleUser, input)
}

// AppendMessage adds one transcript entry.
func (s *ConversationState) AppendMessage(role, content string) {
	s.Messages = append(s.Messages, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
}

// SetResponse records the agent's reply and appends it to the transcript.
func (s *ConversationState) SetResponse(response string) {
	s.AgentResponse = response
	s.AppendMessage(RoleAgent, response)
}

// ApplyInterpretation copies an interpretation into the state. The
// company list is replaced, not merged; a turn that names new companies
// redirects the conversation.
func (s *ConversationState) ApplyInterpretation(in interp.Interpretation) {
	if len(in.Companies) > 0 {
		s.Companies = in.Companies
	}
	s.AnalysisType = in.AnalysisType
	s.NeedsClarification = in.NeedsClarification
	s.ClarificationMessage = in.ClarificationMessage
}

// ApplyPlan records the tools and data requirements for this turn.
func (s *ConversationState) ApplyPlan(requiredTools, dataRequirements []string) {
	s.RequiredTools = requiredTools
	s.DataRequirements = dataRequirements
}

// StoreFinancialData caches one fetched payload.
func (s *ConversationState) StoreFinancialData(key string, payload *dataflows.Payload) {
	if s.FinancialData == nil {
		s.FinancialData = make(map[string]*dataflows.Payload)
	}
	s.FinancialData[key] = payload
}

// StoreResult records one tool outcome.
func (s *ConversationState) StoreResult(key string, result tools.Result) {
	if s.AnalysisResults == nil {
		s.AnalysisResults = make(map[string]tools.Result)
	}
	s.AnalysisResults[key] = result
}

// SetError marks the turn failed; the orchestrator short-circuits to the
// error response when this is set.
func (s *ConversationState) SetError(msg string) {
	s.ErrorMessage = msg
}

// Context exposes the interpreter-facing view of the conversation.
func (s *ConversationState) Context() interp.Context {
	return interp.Context{Companies: s.Companies}
}
