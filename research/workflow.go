package research

import (
	"context"
	"errors"
	"fmt"

	"github.com/jatinchawla007/LangGraph-Research-Assistant/fetch"
	"github.com/jatinchawla007/LangGraph-Research-Assistant/graph"
	"github.com/jatinchawla007/LangGraph-Research-Assistant/llm"
	"github.com/jatinchawla007/LangGraph-Research-Assistant/log"
	"github.com/jatinchawla007/LangGraph-Research-Assistant/search"
)

const (
	DefaultMaxResultsPerQuery = 2
	DefaultMaxContentChars    = 5000
)

// Dependencies are the collaborators a Workflow calls.
type Dependencies struct {
	// Fast summarizes context and sources.
	Fast llm.Client
	// Smart rewrites follow-up topics, plans and synthesizes.
	Smart llm.Client

	Search  search.Searcher
	Fetch   fetch.Fetcher
	History HistoryStore

	// Logger defaults to the package default logger.
	Logger log.Logger

	// MaxResultsPerQuery defaults to DefaultMaxResultsPerQuery.
	MaxResultsPerQuery int
	// MaxContentChars bounds the page text sent for summarization. Defaults to DefaultMaxContentChars.
	MaxContentChars int
}

func (d *Dependencies) validate() error {
	var missing []error
	if d.Fast == nil {
		missing = append(missing, errors.New("fast LLM client"))
	}
	if d.Smart == nil {
		missing = append(missing, errors.New("smart LLM client"))
	}
	if d.Search == nil {
		missing = append(missing, errors.New("searcher"))
	}
	if d.Fetch == nil {
		missing = append(missing, errors.New("fetcher"))
	}
	if d.History == nil {
		missing = append(missing, errors.New("history store"))
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing dependencies: %w", errors.Join(missing...))
	}

	if d.Logger == nil {
		d.Logger = log.GetDefaultLogger()
	}
	if d.MaxResultsPerQuery <= 0 {
		d.MaxResultsPerQuery = DefaultMaxResultsPerQuery
	}
	if d.MaxContentChars <= 0 {
		d.MaxContentChars = DefaultMaxContentChars
	}
	return nil
}

// Workflow is the compiled research pipeline. It is safe for concurrent use;
// every Run owns its own State.
type Workflow struct {
	graph    *graph.StateGraph[State]
	runnable *graph.StateRunnable[State]
	logger   log.Logger
}

// NewWorkflow builds and compiles the pipeline:
//
//	entry_point -> summarize_context (follow-up only) -> planner -> searcher -> summarizer -> synthesizer
func NewWorkflow(deps Dependencies) (*Workflow, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	s := &steps{deps: deps}

	g := graph.NewStateGraph[State]()
	fns := map[StepID]func(context.Context, State) (State, error){
		StepEntryPoint:               s.entryPoint,
		StepSummarizeContext:         s.summarizeContext,
		StepGenerateResearchPlan:     s.generateResearchPlan,
		StepPerformWebSearch:         s.performWebSearch,
		StepFetchAndSummarizeContent: s.fetchAndSummarizeContent,
		StepGenerateFinalBrief:       s.generateFinalBrief,
	}
	for _, id := range Steps() {
		g.AddNode(id.String(), id.Description(), fns[id])
	}

	g.SetEntryPoint(StepEntryPoint.String())
	g.AddConditionalEdge(StepEntryPoint.String(),
		func(_ context.Context, st State) string { return Route(st).String() },
		StepSummarizeContext.String(), StepGenerateResearchPlan.String())
	g.AddEdge(StepSummarizeContext.String(), StepGenerateResearchPlan.String())
	g.AddEdge(StepGenerateResearchPlan.String(), StepPerformWebSearch.String())
	g.AddEdge(StepPerformWebSearch.String(), StepFetchAndSummarizeContent.String())
	g.AddEdge(StepFetchAndSummarizeContent.String(), StepGenerateFinalBrief.String())
	g.SetFinishPoint(StepGenerateFinalBrief.String())
	g.SetSchema(stateSchema())

	runnable, err := g.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile research graph: %w", err)
	}
	runnable.SetTracer(graph.NewHookTracer(durationHook(deps.Logger)))

	return &Workflow{graph: g, runnable: runnable, logger: deps.Logger}, nil
}

// WithTracer returns a Workflow that reports to tracer instead of the
// default duration logger.
func (w *Workflow) WithTracer(tracer *graph.Tracer) *Workflow {
	return &Workflow{graph: w.graph, runnable: w.runnable.WithTracer(tracer), logger: w.logger}
}

// Exporter renders the pipeline as a diagram.
func (w *Workflow) Exporter() *graph.Exporter[State] {
	return graph.NewExporter(w.graph)
}

// Run executes the pipeline for input. Topic and UserID are required. The
// run stops between steps once ctx is done.
func (w *Workflow) Run(ctx context.Context, input State) (State, error) {
	if input.Topic == "" {
		return State{}, fmt.Errorf("%w: topic", ErrMissingInput)
	}
	if input.UserID == "" {
		return State{}, fmt.Errorf("%w: user_id", ErrMissingInput)
	}

	w.logger.Info("Received request for user '%s' on topic: '%s'", input.UserID, input.Topic)
	return w.runnable.Invoke(ctx, input)
}

func durationHook(logger log.Logger) graph.TraceHook {
	return graph.TraceHookFunc(func(_ context.Context, span *graph.TraceSpan) {
		switch span.Event {
		case graph.TraceEventNodeEnd:
			logger.Debug("node %s finished in %s", span.NodeName, span.Duration)
		case graph.TraceEventNodeError:
			logger.Debug("node %s failed after %s: %v", span.NodeName, span.Duration, span.Error)
		case graph.TraceEventGraphEnd:
			logger.Debug("run %v finished in %s", span.Metadata["run_id"], span.Duration)
		}
	})
}
