package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jatinchawla007/LangGraph-Research-Assistant/config"
	"github.com/jatinchawla007/LangGraph-Research-Assistant/fetch"
	"github.com/jatinchawla007/LangGraph-Research-Assistant/llm"
	"github.com/jatinchawla007/LangGraph-Research-Assistant/log"
	"github.com/jatinchawla007/LangGraph-Research-Assistant/render"
	"github.com/jatinchawla007/LangGraph-Research-Assistant/research"
	"github.com/jatinchawla007/LangGraph-Research-Assistant/search"
	"github.com/jatinchawla007/LangGraph-Research-Assistant/store"
)

const (
	formatTerminal = "terminal"
	formatMarkdown = "markdown"
	formatHTML     = "html"
	formatJSON     = "json"

	terminalWidth = 100
)

func validFormat(f string) bool {
	switch f {
	case formatTerminal, formatMarkdown, formatHTML, formatJSON:
		return true
	}
	return false
}

// app holds the wired collaborators of one process.
type app struct {
	logger   log.Logger
	history  store.HistoryStore
	workflow *research.Workflow
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	fast, err := newLLM(cfg, cfg.FastModel, cfg.FastTemperature)
	if err != nil {
		return nil, fmt.Errorf("fast model: %w", err)
	}
	smart, err := newLLM(cfg, cfg.SmartModel, cfg.SmartTemperature)
	if err != nil {
		return nil, fmt.Errorf("smart model: %w", err)
	}
	searcher, err := newSearcher(cfg)
	if err != nil {
		return nil, err
	}

	history, err := store.Open(ctx, cfg.History)
	if err != nil {
		return nil, fmt.Errorf("open %s history: %w", cfg.History.Backend, err)
	}

	wf, err := research.NewWorkflow(research.Dependencies{
		Fast:               fast,
		Smart:              smart,
		Search:             searcher,
		Fetch:              newFetcher(cfg),
		History:            history,
		Logger:             logger,
		MaxResultsPerQuery: cfg.SearchMaxResults,
	})
	if err != nil {
		history.Close()
		return nil, err
	}

	return &app{logger: logger, history: history, workflow: wf}, nil
}

func (a *app) Close() {
	if err := a.history.Close(); err != nil {
		a.logger.Warn("close history: %v", err)
	}
}

func newLogger(level string) (log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := log.NewDefaultGologLogger(lvl)
	log.SetDefaultLogger(logger)
	return logger, nil
}

func newLLM(cfg *config.Config, model string, temperature float64) (llm.Client, error) {
	opts := []llm.Option{llm.WithTemperature(temperature)}

	var client llm.Client
	switch cfg.LLMProvider {
	case config.ProviderLangChain:
		c, err := llm.NewLangChainOpenAI(cfg.LLMAPIKey, cfg.LLMBaseURL, model, opts...)
		if err != nil {
			return nil, err
		}
		client = c
	case config.ProviderOpenAI:
		client = llm.NewOpenAIClient(cfg.LLMAPIKey, cfg.LLMBaseURL, model, opts...)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}

	if cfg.LLMMaxAttempts <= 1 {
		return client, nil
	}
	retry := llm.DefaultRetryConfig()
	retry.MaxAttempts = cfg.LLMMaxAttempts
	return llm.WithRetry(client, retry), nil
}

func newSearcher(cfg *config.Config) (search.Searcher, error) {
	switch cfg.SearchProvider {
	case config.SearchTavily:
		return search.NewTavily(cfg.TavilyAPIKey)
	case config.SearchBrave:
		return search.NewBrave(cfg.BraveAPIKey)
	default:
		return nil, fmt.Errorf("unknown search provider %q", cfg.SearchProvider)
	}
}

func newFetcher(cfg *config.Config) *fetch.HTTPFetcher {
	return fetch.NewHTTPFetcher(
		fetch.WithTimeout(cfg.FetchTimeout),
		fetch.WithUserAgent(cfg.UserAgent),
	)
}

func writeOutcome(w io.Writer, outcome research.BriefOutcome, format string) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(outcome)
	}

	if !outcome.OK() {
		if format == formatTerminal {
			_, err := fmt.Fprintln(w, render.Failure(outcome.Failure))
			return err
		}
		_, err := fmt.Fprintln(w, outcome.Failure)
		return err
	}

	var out string
	switch format {
	case formatTerminal:
		out = render.Terminal(*outcome.Brief, terminalWidth)
	case formatMarkdown:
		out = render.Markdown(*outcome.Brief)
	case formatHTML:
		out = render.HTML(*outcome.Brief)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	_, err := fmt.Fprintln(w, out)
	return err
}

// offline satisfies every collaborator without reaching the network, so the
// graph can be drawn without credentials.
type offline struct{}

var errOffline = errors.New("offline")

func (offline) Complete(context.Context, string) (string, error) { return "", errOffline }

func (offline) CompleteJSON(context.Context, string, *llm.Schema) (string, error) {
	return "", errOffline
}

func (offline) Search(context.Context, search.Query) ([]search.Result, error) {
	return nil, errOffline
}

func (offline) Fetch(context.Context, string) (string, error) { return "", errOffline }

func (offline) GetBriefsForUser(context.Context, string) ([]research.FinalBrief, error) {
	return nil, errOffline
}

func (offline) SaveBrief(context.Context, string, research.FinalBrief) error { return errOffline }

func writeGraph(w io.Writer, format string) error {
	wf, err := research.NewWorkflow(research.Dependencies{
		Fast:    offline{},
		Smart:   offline{},
		Search:  offline{},
		Fetch:   offline{},
		History: offline{},
		Logger:  &log.NoOpLogger{},
	})
	if err != nil {
		return err
	}

	switch format {
	case "mermaid":
		_, err = fmt.Fprintln(w, wf.Exporter().DrawMermaid())
	case "dot":
		_, err = fmt.Fprintln(w, wf.Exporter().DrawDOT())
	default:
		err = fmt.Errorf("unknown graph format %q", format)
	}
	return err
}
