package consts

// Tool identifiers used by the planner and the analysis dispatcher.
const (
	ToolGetCompanyData            = "get_company_data"
	ToolGetFinancialStatements    = "get_financial_statements_data"
	ToolGetPeerComparisonData     = "get_peer_comparison_data"
	ToolAnalyzeCompanyProfile     = "analyze_company_profile"
	ToolAnalyzeFinancialMetrics   = "analyze_financial_metrics"
	ToolAnalyzeFinancialStatement = "analyze_financial_statements"
	ToolCompareCompanies          = "compare_companies"
	ToolGetAnalystRecommendations = "get_analyst_recommendations"
)

// Data requirement identifiers produced by the planner and consumed by the
// data collection node.
const (
	RequirementCompanyData    = "company_data"
	RequirementStatementsData = "statements_data"
	RequirementComparisonData = "comparison_data"
)
