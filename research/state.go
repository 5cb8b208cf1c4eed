package research

import (
	"github.com/jatinchawla007/LangGraph-Research-Assistant/graph"
	"github.com/jatinchawla007/LangGraph-Research-Assistant/search"
)

// State is threaded through every step of a run. Topic, UserID and FollowUp
// are inputs; every other field is written by exactly one step.
type State struct {
	Topic       string `json:"topic"`
	UserID      string `json:"user_id"`
	FollowUp    bool   `json:"follow_up"`
	SearchDepth string `json:"search_depth,omitempty"`

	// ContextSummary is written by SummarizeContext.
	ContextSummary Optional[string] `json:"context_summary,omitzero"`
	// ResearchPlan is written by GenerateResearchPlan.
	ResearchPlan Optional[ResearchPlan] `json:"research_plan,omitzero"`
	// SearchResults is written by PerformWebSearch.
	SearchResults Optional[[]search.Result] `json:"search_results,omitzero"`
	// SourceSummaries is written by FetchAndSummarizeContent.
	SourceSummaries Optional[[]SourceSummary] `json:"source_summaries,omitzero"`
	// FinalBrief is written by GenerateFinalBrief.
	FinalBrief Optional[BriefOutcome] `json:"final_brief,omitzero"`
}

// Brief returns the structured brief of a finished run, if there is one.
func (s State) Brief() (FinalBrief, bool) {
	outcome, ok := s.FinalBrief.Get()
	if !ok || outcome.Brief == nil {
		return FinalBrief{}, false
	}
	return *outcome.Brief, true
}

// mergeState applies the present fields of update onto current.
//
// The executor seeds every run with Update(Init(), input), so the inputs are
// copied only while current is still the empty initial state. Later step
// updates can never change them.
func mergeState(current, update State) (State, error) {
	if current.isInitial() {
		current.Topic = update.Topic
		current.UserID = update.UserID
		current.FollowUp = update.FollowUp
		current.SearchDepth = update.SearchDepth
	}
	if update.ContextSummary.IsSet() {
		current.ContextSummary = update.ContextSummary
	}
	if update.ResearchPlan.IsSet() {
		current.ResearchPlan = update.ResearchPlan
	}
	if update.SearchResults.IsSet() {
		current.SearchResults = update.SearchResults
	}
	if update.SourceSummaries.IsSet() {
		current.SourceSummaries = update.SourceSummaries
	}
	if update.FinalBrief.IsSet() {
		current.FinalBrief = update.FinalBrief
	}
	return current, nil
}

// isInitial reports whether no input has been recorded yet.
func (s State) isInitial() bool {
	return s.Topic == "" && s.UserID == "" && !s.FollowUp && s.SearchDepth == ""
}

func stateSchema() graph.StateSchema[State] {
	return graph.SchemaFuncs[State]{
		InitFunc:   func() State { return State{} },
		UpdateFunc: mergeState,
	}
}
