// Package server exposes the research workflow over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jatinchawla007/LangGraph-Research-Assistant/log"
	"github.com/jatinchawla007/LangGraph-Research-Assistant/research"
)

const (
	DefaultRunTimeout          = 5 * time.Minute
	DefaultMaxRequestBodyBytes = 1 << 20

	requestIDHeader = "X-Request-ID"
)

// Runner executes one research run. *research.Workflow implements it.
type Runner interface {
	Run(ctx context.Context, input research.State) (research.State, error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, input research.State) (research.State, error)

func (f RunnerFunc) Run(ctx context.Context, input research.State) (research.State, error) {
	return f(ctx, input)
}

// History is the brief history the server saves to and lists from.
type History interface {
	research.HistoryStore
	Clear(ctx context.Context, userID string) error
}

// Options tunes a Server. Zero values select the defaults.
type Options struct {
	RunTimeout          time.Duration
	MaxRequestBodyBytes int64
	Logger              log.Logger
}

// Server serves the research API.
type Server struct {
	runner  Runner
	history History
	opts    Options
	logger  log.Logger
}

// New creates a Server.
func New(runner Runner, history History, opts Options) *Server {
	if opts.RunTimeout <= 0 {
		opts.RunTimeout = DefaultRunTimeout
	}
	if opts.MaxRequestBodyBytes <= 0 {
		opts.MaxRequestBodyBytes = DefaultMaxRequestBodyBytes
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.GetDefaultLogger()
	}
	return &Server{runner: runner, history: history, opts: opts, logger: logger}
}

// Handler returns the HTTP routes:
//
//	GET    /                    health check
//	POST   /brief               run the workflow, save and return the brief
//	GET    /briefs?user_id=...  list a user's stored briefs
//	DELETE /briefs?user_id=...  forget a user's briefs
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("POST /brief", s.handleBrief)
	mux.HandleFunc("GET /briefs", s.handleListBriefs)
	mux.HandleFunc("DELETE /briefs", s.handleClearBriefs)
	return s.withRequestID(s.withAccessLog(mux))
}

type requestIDKey struct{}

// RequestID returns the request ID stored in ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("%s %s %d %s [%s]", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond), RequestID(r.Context()))
	})
}
