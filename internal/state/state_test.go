package state

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finchat/internal/analysis"
	"finchat/internal/dataflows"
	"finchat/internal/interp"
	"finchat/internal/tools"
)

func TestBeginTurnResetsTurnFields(t *testing.T) {
	st := New("s1")
	st.Companies = []string{"AAPL"}
	st.ErrorMessage = "old error"
	st.NeedsClarification = true
	st.StoreResult("AAPL_profile", tools.Result{Success: true})

	st.BeginTurn("compare it to MSFT")

	assert.Equal(t, "compare it to MSFT", st.UserInput)
	assert.Empty(t, st.ErrorMessage)
	assert.False(t, st.NeedsClarification)
	assert.Empty(t, st.AnalysisResults)
	// Context survives the reset.
	assert.Equal(t, []string{"AAPL"}, st.Companies)

	require.Len(t, st.Messages, 1)
	assert.Equal(t, RoleUser, st.Messages[0].Role)
}

func TestApplyInterpretationReplacesCompanies(t *testing.T) {
	st := New("s1")
	st.Companies = []string{"AAPL"}

	st.ApplyInterpretation(interp.Interpretation{
		Companies:    []string{"TSLA", "GM"},
		AnalysisType: interp.AnalysisComparison,
	})

	assert.Equal(t, []string{"TSLA", "GM"}, st.Companies)
	assert.Equal(t, interp.AnalysisComparison, st.AnalysisType)
}

func TestApplyInterpretationKeepsContextOnClarification(t *testing.T) {
	st := New("s1")
	st.Companies = []string{"AAPL"}

	st.ApplyInterpretation(interp.Interpretation{
		NeedsClarification:   true,
		ClarificationMessage: interp.ClarificationPrompt,
	})

	assert.Equal(t, []string{"AAPL"}, st.Companies)
	assert.True(t, st.NeedsClarification)
}

func TestSetResponseAppendsTranscript(t *testing.T) {
	st := New("s1")
	st.BeginTurn("Analyze Apple")
	st.SetResponse("here you go")

	require.Len(t, st.Messages, 2)
	assert.Equal(t, RoleAgent, st.Messages[1].Role)
	assert.Equal(t, "here you go", st.AgentResponse)
}

func TestStateJSONRoundTrip(t *testing.T) {
	st := New("s1")
	st.BeginTurn("Analyze Apple")
	st.ApplyInterpretation(interp.Interpretation{
		Companies:    []string{"AAPL"},
		AnalysisType: interp.AnalysisProfile,
		Confidence:   0.8,
	})
	st.ApplyPlan(
		[]string{"get_company_data", "analyze_company_profile"},
		[]string{"company_data"},
	)
	st.StoreFinancialData("AAPL", &dataflows.Payload{
		Kind:    dataflows.PayloadCompany,
		Company: &dataflows.CompanyInfo{Symbol: "AAPL", Name: "Apple Inc."},
	})
	st.StoreResult("AAPL_profile", tools.Result{
		Success: true,
		Tool:    "analyze_company_profile",
		Kind:    tools.KindProfile,
		Profile: &analysis.ProfileReport{Symbol: "AAPL", Name: "Apple Inc."},
	})
	st.SetResponse("done")

	data, err := json.Marshal(st)
	require.NoError(t, err)

	var restored ConversationState
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, st.SessionID, restored.SessionID)
	assert.Equal(t, st.Companies, restored.Companies)
	assert.Equal(t, st.AnalysisType, restored.AnalysisType)
	assert.Equal(t, st.RequiredTools, restored.RequiredTools)
	assert.Len(t, restored.Messages, 2)

	payload := restored.FinancialData["AAPL"]
	require.NotNil(t, payload)
	assert.Equal(t, dataflows.PayloadCompany, payload.Kind)
	assert.Equal(t, "Apple Inc.", payload.Company.Name)

	result := restored.AnalysisResults["AAPL_profile"]
	assert.True(t, result.Success)
	require.NotNil(t, result.Profile)
	assert.Equal(t, "AAPL", result.Profile.Symbol)
}
