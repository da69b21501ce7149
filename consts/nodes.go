package consts

// Orchestrator node names. The workflow graph routes between these by name,
// so they double as the workflow_step labels recorded on the conversation state.
const (
	Entry              = "entry"
	Interpretation     = "interpretation"
	Planning           = "planning"
	DataCollection     = "data_collection"
	AnalysisExecution  = "analysis_execution"
	ResultAggregation  = "result_aggregation"
	ResponsePlanning   = "response_planning"
	ResponseGeneration = "response_generation"
)

// Terminal workflow_step values that are never node names.
const (
	StepComplete = "complete"
	StepError    = "error"
)
