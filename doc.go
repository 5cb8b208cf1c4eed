// Research Assistant - a graph-driven research pipeline in Go
//
// Research Assistant turns a topic into a structured research brief. A fixed
// graph of steps plans the research, searches the web, reads and summarizes
// each source, and synthesizes a final brief with references. Follow-up
// questions are answered in the context of the briefs a user received before.
//
// # Pipeline
//
//	entry_point ─┬─(follow-up)──► summarize_context ─┐
//	             └──────────────────────────────────┴─► planner ─► searcher ─► summarizer ─► synthesizer
//
// Each step returns a partial update that is merged into the shared state.
// Failures of single searches, fetches or source summaries are logged and
// skipped; any other failure aborts the run. When nothing could be
// summarized the run ends with the message "Error: No summaries to
// synthesize." instead of a brief.
//
// # Packages
//
//   - graph: typed state-graph executor with conditional edges, tracing and
//     Mermaid/DOT export
//   - research: the workflow, its state, steps and prompts
//   - llm: language model clients (langchaingo, go-openai) with schema
//     validated structured output and retries
//   - search: Tavily and Brave web search
//   - fetch: page fetching and HTML text extraction with goquery
//   - store: brief history on SQLite, PostgreSQL, Redis or memory
//   - render: Markdown, sanitized HTML and terminal rendering of briefs
//   - config: settings from the environment and .env files
//   - server: the HTTP API
//   - log: leveled logging backed by golog
//
// # Quick Start
//
//	export GROQ_API_KEY=...
//	export TAVILY_API_KEY=...
//	go run ./cmd/research-assistant brief -user alice -topic "solid-state batteries"
//	go run ./cmd/research-assistant serve
//
//	curl -X POST localhost:8000/brief \
//	  -d '{"user_id":"alice","topic":"how do they scale?","follow_up":true,"search_depth":"basic"}'
//
// # Embedding the workflow
//
//	wf, err := research.NewWorkflow(research.Dependencies{
//		Fast:    fast,
//		Smart:   smart,
//		Search:  searcher,
//		Fetch:   fetch.NewHTTPFetcher(),
//		History: history,
//	})
//	if err != nil {
//		return err
//	}
//	final, err := wf.Run(ctx, research.State{Topic: "solid-state batteries", UserID: "alice"})
//	if brief, ok := final.Brief(); ok {
//		fmt.Println(render.Markdown(brief))
//	}
package researchassistant // import "github.com/jatinchawla007/LangGraph-Research-Assistant"
