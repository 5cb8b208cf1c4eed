package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jatinchawla007/LangGraph-Research-Assistant/llm"
	"github.com/jatinchawla007/LangGraph-Research-Assistant/search"
)

var (
	planSchema = llm.MustSchemaFor[ResearchPlan]("research_plan",
		"The plan the assistant will follow to conduct its research.")
	summarySchema = llm.MustSchemaFor[SourceSummary]("source_summary",
		"The summary and key details of a single information source.")
	briefSchema = llm.MustSchemaFor[FinalBrief]("final_brief",
		"The final, user-facing research brief compiling all the research.")
)

// steps holds the collaborators shared by the pipeline steps. Each step
// returns a State carrying only the fields it writes.
type steps struct {
	deps Dependencies
}

func (s *steps) entryPoint(_ context.Context, _ State) (State, error) {
	return State{}, nil
}

func (s *steps) summarizeContext(ctx context.Context, st State) (State, error) {
	s.deps.Logger.Info("--- Summarizing Previous Context ---")
	if st.UserID == "" {
		return State{}, fmt.Errorf("%w: user_id", ErrMissingInput)
	}

	briefs, err := s.deps.History.GetBriefsForUser(ctx, st.UserID)
	if err != nil {
		return State{}, fmt.Errorf("load history for user %s: %w", st.UserID, err)
	}
	s.deps.Logger.Info("Found %d previous briefs for user '%s'", len(briefs), st.UserID)
	if len(briefs) == 0 {
		return State{ContextSummary: Some("")}, nil
	}

	var sb strings.Builder
	for i, b := range briefs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "Topic: %s\nIntroduction: %s", b.Topic, b.Introduction)
	}

	summary, err := llm.Text(ctx, s.deps.Fast, contextSummaryPrompt(sb.String()))
	if err != nil {
		return State{}, fmt.Errorf("summarize context: %w", err)
	}
	return State{ContextSummary: Some(summary)}, nil
}

func (s *steps) generateResearchPlan(ctx context.Context, st State) (State, error) {
	s.deps.Logger.Info("--- Generating Research Plan ---")
	if st.Topic == "" {
		return State{}, fmt.Errorf("%w: topic", ErrMissingInput)
	}

	topic := st.Topic
	if contextSummary := st.ContextSummary.Value(); strings.TrimSpace(contextSummary) != "" {
		rewritten, err := llm.Text(ctx, s.deps.Smart, rewriteTopicPrompt(contextSummary, topic))
		if err != nil {
			return State{}, fmt.Errorf("rewrite topic: %w", err)
		}
		if rewritten != "" {
			s.deps.Logger.Info("Rewrote follow-up topic as: '%s'", rewritten)
			topic = rewritten
		}
	}

	plan, err := llm.Generate[ResearchPlan](ctx, s.deps.Smart, planPrompt(topic), planSchema)
	if err != nil {
		return State{}, fmt.Errorf("generate research plan: %w", err)
	}
	return State{ResearchPlan: Some(plan)}, nil
}

func (s *steps) performWebSearch(ctx context.Context, st State) (State, error) {
	s.deps.Logger.Info("--- Performing Web Search ---")
	plan, ok := st.ResearchPlan.Get()
	if !ok {
		s.deps.Logger.Warn("No research plan present, skipping search")
		return State{}, nil
	}

	results := []search.Result{}
	for _, query := range plan.SearchQueries {
		if err := ctx.Err(); err != nil {
			return State{}, err
		}
		s.deps.Logger.Info("Searching for: '%s'", query)
		found, err := s.deps.Search.Search(ctx, search.Query{
			Text:       query,
			MaxResults: s.deps.MaxResultsPerQuery,
			Depth:      st.SearchDepth,
		})
		if err != nil {
			s.deps.Logger.Warn("Error searching for '%s': %v", query, err)
			continue
		}
		results = append(results, found...)
	}
	return State{SearchResults: Some(results)}, nil
}

func (s *steps) fetchAndSummarizeContent(ctx context.Context, st State) (State, error) {
	s.deps.Logger.Info("--- Fetching and Summarizing Content ---")
	if st.Topic == "" {
		return State{}, fmt.Errorf("%w: topic", ErrMissingInput)
	}
	results, ok := st.SearchResults.Get()
	if !ok {
		s.deps.Logger.Warn("No search results present, skipping summarization")
		return State{}, nil
	}

	summaries := []SourceSummary{}
	for _, result := range results {
		if err := ctx.Err(); err != nil {
			return State{}, err
		}
		url := strings.TrimSpace(result.URL)
		if url == "" {
			continue
		}

		s.deps.Logger.Info("Fetching and summarizing: %s", url)
		text, err := s.deps.Fetch.Fetch(ctx, url)
		if err != nil {
			s.deps.Logger.Warn("Error fetching %s: %v", url, err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			s.deps.Logger.Debug("No text content at %s", url)
			continue
		}

		prompt := sourceSummaryPrompt(url, st.Topic, truncate(text, s.deps.MaxContentChars))
		summary, err := llm.Generate[SourceSummary](ctx, s.deps.Fast, prompt, summarySchema)
		if err != nil {
			s.deps.Logger.Warn("Error summarizing %s: %v", url, err)
			continue
		}
		if summary.URL == "" {
			summary.URL = url
		}
		if summary.Title == "" {
			summary.Title = result.Title
		}
		summaries = append(summaries, summary)
	}
	return State{SourceSummaries: Some(summaries)}, nil
}

func (s *steps) generateFinalBrief(ctx context.Context, st State) (State, error) {
	s.deps.Logger.Info("--- Synthesizing Final Brief ---")
	if st.Topic == "" {
		return State{}, fmt.Errorf("%w: topic", ErrMissingInput)
	}

	summaries := st.SourceSummaries.Value()
	if len(summaries) == 0 {
		s.deps.Logger.Warn("No source summaries for '%s'", st.Topic)
		return State{FinalBrief: Some(Failed(NoSummariesMessage))}, nil
	}

	data, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return State{}, fmt.Errorf("encode summaries: %w", err)
	}

	brief, err := llm.Generate[FinalBrief](ctx, s.deps.Smart, synthesisPrompt(st.Topic, string(data)), briefSchema)
	if err != nil {
		return State{}, fmt.Errorf("synthesize brief: %w", err)
	}
	return State{FinalBrief: Some(Succeeded(brief))}, nil
}

// truncate keeps at most n runes of s.
func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
