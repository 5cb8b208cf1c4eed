package research

import "fmt"

// StepID identifies one step of the pipeline.
type StepID int

const (
	StepEntryPoint StepID = iota
	StepSummarizeContext
	StepGenerateResearchPlan
	StepPerformWebSearch
	StepFetchAndSummarizeContent
	StepGenerateFinalBrief
)

var stepNames = [...]string{
	StepEntryPoint:               "entry_point",
	StepSummarizeContext:         "summarize_context",
	StepGenerateResearchPlan:     "planner",
	StepPerformWebSearch:         "searcher",
	StepFetchAndSummarizeContent: "summarizer",
	StepGenerateFinalBrief:       "synthesizer",
}

var stepDescriptions = [...]string{
	StepEntryPoint:               "Route to context summarization or planning",
	StepSummarizeContext:         "Compress the user's previous briefs into one paragraph",
	StepGenerateResearchPlan:     "Draft research questions and search queries",
	StepPerformWebSearch:         "Run the planned search queries",
	StepFetchAndSummarizeContent: "Fetch each result and summarize it",
	StepGenerateFinalBrief:       "Synthesize the source summaries into a brief",
}

// Steps lists every step in execution order.
func Steps() []StepID {
	return []StepID{
		StepEntryPoint,
		StepSummarizeContext,
		StepGenerateResearchPlan,
		StepPerformWebSearch,
		StepFetchAndSummarizeContent,
		StepGenerateFinalBrief,
	}
}

// String returns the node name of the step.
func (id StepID) String() string {
	if id < 0 || int(id) >= len(stepNames) {
		return fmt.Sprintf("StepID(%d)", int(id))
	}
	return stepNames[id]
}

// Description returns a one-line description of the step.
func (id StepID) Description() string {
	if id < 0 || int(id) >= len(stepDescriptions) {
		return ""
	}
	return stepDescriptions[id]
}

// Route picks the step that follows the entry point: prior context is
// summarized only for follow-up requests.
func Route(s State) StepID {
	if s.FollowUp {
		return StepSummarizeContext
	}
	return StepGenerateResearchPlan
}
