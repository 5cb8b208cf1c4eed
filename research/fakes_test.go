package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/jatinchawla007/LangGraph-Research-Assistant/llm"
	"github.com/jatinchawla007/LangGraph-Research-Assistant/log"
	"github.com/jatinchawla007/LangGraph-Research-Assistant/search"
)

// fakeLLM answers free-text prompts with text and structured prompts with
// the responder registered for the schema name.
type fakeLLM struct {
	mu          sync.Mutex
	text        func(prompt string) (string, error)
	structured  map[string]func(prompt string) (string, error)
	textPrompts []string
	jsonPrompts map[string][]string
}

func newFakeLLM() *fakeLLM {
	return &fakeLLM{
		structured:  map[string]func(string) (string, error){},
		jsonPrompts: map[string][]string{},
	}
}

func (f *fakeLLM) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.textPrompts = append(f.textPrompts, prompt)
	respond := f.text
	f.mu.Unlock()
	if respond == nil {
		return "", fmt.Errorf("unexpected text prompt")
	}
	return respond(prompt)
}

func (f *fakeLLM) CompleteJSON(_ context.Context, prompt string, schema *llm.Schema) (string, error) {
	f.mu.Lock()
	f.jsonPrompts[schema.Name] = append(f.jsonPrompts[schema.Name], prompt)
	respond := f.structured[schema.Name]
	f.mu.Unlock()
	if respond == nil {
		return "", fmt.Errorf("unexpected %s prompt", schema.Name)
	}
	return respond(prompt)
}

func (f *fakeLLM) prompts(schema string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.jsonPrompts[schema]...)
}

func (f *fakeLLM) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.textPrompts...)
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(data)
}

// planResponder returns a plan with one query per entry of queries.
func planResponder(queries ...string) func(string) (string, error) {
	return func(string) (string, error) {
		return mustJSON(ResearchPlan{
			Topic:             "quantum computing",
			ResearchQuestions: []string{"What is it?", "Who builds it?", "When is it useful?"},
			SearchQueries:     queries,
		}), nil
	}
}

// summaryResponder leaves url and title blank so the step fills them from
// the search result.
func summaryResponder(string) (string, error) {
	return mustJSON(SourceSummary{
		KeyPoints:        []string{"point one", "point two", "point three"},
		RelevanceToTopic: "directly relevant",
		RelevanceScore:   0.9,
	}), nil
}

// briefResponder echoes the summaries found in the synthesis prompt as references.
func briefResponder(prompt string) (string, error) {
	start := strings.Index(prompt, "[\n")
	end := strings.LastIndex(prompt, "]")
	var refs []SourceSummary
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(prompt[start:end+1]), &refs); err != nil {
			return "", err
		}
	}
	return mustJSON(FinalBrief{
		Topic:              "quantum computing",
		Introduction:       "Quantum computing uses qubits.",
		Synthesis:          "Sources agree it is early days.",
		References:         refs,
		PotentialFollowUps: []string{"What about error correction?", "Which vendors lead?"},
	}), nil
}

type fakeSearcher struct {
	mu      sync.Mutex
	results func(q search.Query) ([]search.Result, error)
	queries []search.Query
}

func (f *fakeSearcher) Search(_ context.Context, q search.Query) ([]search.Result, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()
	return f.results(q)
}

func (f *fakeSearcher) calls() []search.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]search.Query(nil), f.queries...)
}

// twoPerQuery returns two distinct results for every query.
func twoPerQuery(q search.Query) ([]search.Result, error) {
	slug := strings.ReplaceAll(q.Text, " ", "-")
	return []search.Result{
		{URL: "https://example.com/" + slug + "/1", Title: q.Text + " 1", Content: "snippet"},
		{URL: "https://example.com/" + slug + "/2", Title: q.Text + " 2", Content: "snippet"},
	}, nil
}

type fakeFetcher struct {
	mu    sync.Mutex
	pages func(url string) (string, error)
	urls  []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	f.urls = append(f.urls, url)
	f.mu.Unlock()
	return f.pages(url)
}

func (f *fakeFetcher) fetched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.urls...)
}

func pageText(url string) (string, error) {
	return "Full article text from " + url, nil
}

type fakeHistory struct {
	mu     sync.Mutex
	briefs map[string][]FinalBrief
	reads  int
	err    error
}

func (f *fakeHistory) GetBriefsForUser(_ context.Context, userID string) ([]FinalBrief, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.err != nil {
		return nil, f.err
	}
	return append([]FinalBrief(nil), f.briefs[userID]...), nil
}

func (f *fakeHistory) SaveBrief(_ context.Context, userID string, brief FinalBrief) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.briefs == nil {
		f.briefs = map[string][]FinalBrief{}
	}
	f.briefs[userID] = append(f.briefs[userID], brief)
	return nil
}

func (f *fakeHistory) readCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

// harness bundles the fakes behind a Workflow.
type harness struct {
	fast    *fakeLLM
	smart   *fakeLLM
	search  *fakeSearcher
	fetch   *fakeFetcher
	history *fakeHistory
}

// newHarness scripts the happy path: three queries, two results each,
// every page fetched and summarized.
func newHarness() *harness {
	h := &harness{
		fast:    newFakeLLM(),
		smart:   newFakeLLM(),
		search:  &fakeSearcher{results: twoPerQuery},
		fetch:   &fakeFetcher{pages: pageText},
		history: &fakeHistory{},
	}
	h.smart.structured["research_plan"] = planResponder("qubits explained", "quantum hardware", "quantum algorithms")
	h.smart.structured["final_brief"] = briefResponder
	h.fast.structured["source_summary"] = summaryResponder
	return h
}

func (h *harness) deps() Dependencies {
	return Dependencies{
		Fast:    h.fast,
		Smart:   h.smart,
		Search:  h.search,
		Fetch:   h.fetch,
		History: h.history,
		Logger:  &log.NoOpLogger{},
	}
}

func (h *harness) workflow() *Workflow {
	w, err := NewWorkflow(h.deps())
	if err != nil {
		panic(err)
	}
	return w
}
