package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"finchat/consts"
	"finchat/internal/interp"
)

func TestBuildTable(t *testing.T) {
	tests := []struct {
		name         string
		analysisType interp.AnalysisType
		companies    []string
		wantType     interp.AnalysisType
		wantTools    []string
		wantReqs     []string
	}{
		{
			name:         "comparison with two companies",
			analysisType: interp.AnalysisComparison,
			companies:    []string{"AAPL", "MSFT"},
			wantType:     interp.AnalysisComparison,
			wantTools:    []string{consts.ToolGetPeerComparisonData, consts.ToolCompareCompanies},
			wantReqs:     []string{consts.RequirementComparisonData},
		},
		{
			name:         "comparison with one company degrades to profile",
			analysisType: interp.AnalysisComparison,
			companies:    []string{"AAPL"},
			wantType:     interp.AnalysisProfile,
			wantTools:    []string{consts.ToolGetCompanyData, consts.ToolAnalyzeCompanyProfile},
			wantReqs:     []string{consts.RequirementCompanyData},
		},
		{
			name:         "profile",
			analysisType: interp.AnalysisProfile,
			companies:    []string{"AAPL"},
			wantType:     interp.AnalysisProfile,
			wantTools:    []string{consts.ToolGetCompanyData, consts.ToolAnalyzeCompanyProfile},
			wantReqs:     []string{consts.RequirementCompanyData},
		},
		{
			name:         "metrics",
			analysisType: interp.AnalysisMetrics,
			companies:    []string{"AAPL"},
			wantType:     interp.AnalysisMetrics,
			wantTools:    []string{consts.ToolGetCompanyData, consts.ToolAnalyzeFinancialMetrics},
			wantReqs:     []string{consts.RequirementCompanyData},
		},
		{
			name:         "balance sheet",
			analysisType: interp.AnalysisBalanceSheet,
			companies:    []string{"AAPL"},
			wantType:     interp.AnalysisBalanceSheet,
			wantTools:    []string{consts.ToolGetFinancialStatements, consts.ToolAnalyzeFinancialStatement},
			wantReqs:     []string{consts.RequirementStatementsData},
		},
		{
			name:         "recommendations need no collection",
			analysisType: interp.AnalysisRecommendations,
			companies:    []string{"AAPL"},
			wantType:     interp.AnalysisRecommendations,
			wantTools:    []string{consts.ToolGetAnalystRecommendations},
			wantReqs:     nil,
		},
		{
			name:         "none forces profile",
			analysisType: interp.AnalysisNone,
			companies:    []string{"AAPL"},
			wantType:     interp.AnalysisProfile,
			wantTools:    []string{consts.ToolGetCompanyData, consts.ToolAnalyzeCompanyProfile},
			wantReqs:     []string{consts.RequirementCompanyData},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Build(tt.analysisType, tt.companies)
			assert.Equal(t, tt.wantType, p.AnalysisType)
			assert.Equal(t, tt.wantTools, p.RequiredTools)
			assert.Equal(t, tt.wantReqs, p.DataRequirements)
		})
	}
}
