// Package plan maps an interpreted analysis type onto the tools and data
// requirements that fulfill it.
package plan

import (
	"finchat/consts"
	"finchat/internal/interp"
)

// AnalysisPlan names the tools to run and the data to collect first.
type AnalysisPlan struct {
	AnalysisType     interp.AnalysisType `json:"analysis_type"`
	RequiredTools    []string            `json:"required_tools"`
	DataRequirements []string            `json:"data_requirements"`
}

// Build derives the plan for an analysis type. Pure function over a
// fixed table; an unrecognized or unfit type falls back to a profile
// plan, so the pipeline always has something to execute.
func Build(analysisType interp.AnalysisType, companies []string) AnalysisPlan {
	switch {
	case analysisType == interp.AnalysisComparison && len(companies) >= 2:
		return AnalysisPlan{
			AnalysisType:     interp.AnalysisComparison,
			RequiredTools:    []string{consts.ToolGetPeerComparisonData, consts.ToolCompareCompanies},
			DataRequirements: []string{consts.RequirementComparisonData},
		}
	case analysisType == interp.AnalysisMetrics:
		return AnalysisPlan{
			AnalysisType:     interp.AnalysisMetrics,
			RequiredTools:    []string{consts.ToolGetCompanyData, consts.ToolAnalyzeFinancialMetrics},
			DataRequirements: []string{consts.RequirementCompanyData},
		}
	case analysisType.IsStatement():
		return AnalysisPlan{
			AnalysisType:     analysisType,
			RequiredTools:    []string{consts.ToolGetFinancialStatements, consts.ToolAnalyzeFinancialStatement},
			DataRequirements: []string{consts.RequirementStatementsData},
		}
	case analysisType == interp.AnalysisRecommendations:
		return AnalysisPlan{
			AnalysisType:  interp.AnalysisRecommendations,
			RequiredTools: []string{consts.ToolGetAnalystRecommendations},
		}
	case analysisType == interp.AnalysisProfile:
		return AnalysisPlan{
			AnalysisType:     interp.AnalysisProfile,
			RequiredTools:    []string{consts.ToolGetCompanyData, consts.ToolAnalyzeCompanyProfile},
			DataRequirements: []string{consts.RequirementCompanyData},
		}
	}

	// Covers AnalysisNone, a comparison request with a single company,
	// and anything unrecognized.
	return AnalysisPlan{
		AnalysisType:     interp.AnalysisProfile,
		RequiredTools:    []string{consts.ToolGetCompanyData, consts.ToolAnalyzeCompanyProfile},
		DataRequirements: []string{consts.RequirementCompanyData},
	}
}
