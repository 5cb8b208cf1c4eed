// Command research-assistant runs the research workflow from the command
// line or serves it over HTTP.
//
//	research-assistant serve [-addr :8000]
//	research-assistant brief -user alice -topic "quantum error correction"
//	research-assistant graph [-format mermaid|dot]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jatinchawla007/LangGraph-Research-Assistant/config"
	"github.com/jatinchawla007/LangGraph-Research-Assistant/log"
	"github.com/jatinchawla007/LangGraph-Research-Assistant/research"
	"github.com/jatinchawla007/LangGraph-Research-Assistant/server"
)

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "serve":
		err = runServe(ctx, args)
	case "brief":
		err = runBrief(ctx, args, os.Stdout)
	case "graph":
		err = runGraph(args, os.Stdout)
	case "help", "-h", "--help":
		usage(os.Stdout)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage(os.Stderr)
		os.Exit(2)
	}

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Error("%v", err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `Usage: research-assistant <command> [flags]

Commands:
  serve   start the HTTP API
  brief   produce a single research brief
  graph   print the workflow graph

Settings are read from the environment and an optional .env file.
`)
}

func runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	envFile := fs.String("env", ".env", "dotenv file to load")
	addr := fs.String("addr", "", "listen address (default HTTP_ADDR)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*envFile)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.HTTPAddr = *addr
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: server.New(a.workflow, a.history, server.Options{
			RunTimeout: cfg.RunTimeout,
			Logger:     a.logger,
		}).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Research Assistant API listening on %s", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		a.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func runBrief(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("brief", flag.ContinueOnError)
	envFile := fs.String("env", ".env", "dotenv file to load")
	topic := fs.String("topic", "", "research topic")
	user := fs.String("user", "", "user id whose history provides context")
	followUp := fs.Bool("follow-up", false, "treat the topic as a follow-up to earlier briefs")
	depth := fs.String("depth", "basic", "search depth: basic or advanced")
	format := fs.String("format", formatTerminal, "output format: terminal, markdown, html or json")
	save := fs.Bool("save", true, "save the brief to the user's history")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *topic == "" || *user == "" {
		return errors.New("brief: -topic and -user are required")
	}
	if !validFormat(*format) {
		return fmt.Errorf("brief: unknown format %q", *format)
	}

	cfg, err := loadConfig(*envFile)
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	runCtx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
	defer cancel()

	final, err := a.workflow.Run(runCtx, research.State{
		Topic:       *topic,
		UserID:      *user,
		FollowUp:    *followUp,
		SearchDepth: *depth,
	})
	if err != nil {
		return fmt.Errorf("research run failed: %w", err)
	}

	outcome, ok := final.FinalBrief.Get()
	if !ok {
		return errors.New("research run produced no brief")
	}
	if outcome.OK() && *save {
		if err := a.history.SaveBrief(ctx, *user, *outcome.Brief); err != nil {
			a.logger.Warn("failed to save brief: %v", err)
		}
	}
	return writeOutcome(out, outcome, *format)
}

func runGraph(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("graph", flag.ContinueOnError)
	format := fs.String("format", "mermaid", "mermaid or dot")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return writeGraph(out, *format)
}

func loadConfig(envFile string) (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
