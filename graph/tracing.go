package graph

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TraceEvent represents different types of events in graph execution
type TraceEvent string

const (
	// TraceEventGraphStart indicates the start of graph execution
	TraceEventGraphStart TraceEvent = "graph_start"

	// TraceEventGraphEnd indicates the end of graph execution
	TraceEventGraphEnd TraceEvent = "graph_end"

	// TraceEventNodeStart indicates the start of node execution
	TraceEventNodeStart TraceEvent = "node_start"

	// TraceEventNodeEnd indicates the end of node execution
	TraceEventNodeEnd TraceEvent = "node_end"

	// TraceEventNodeError indicates an error occurred in node execution
	TraceEventNodeError TraceEvent = "node_error"

	// TraceEventEdgeTraversal indicates traversal from one node to another
	TraceEventEdgeTraversal TraceEvent = "edge_traversal"
)

// TraceSpan represents a span of execution with timing and metadata
type TraceSpan struct {
	// ID is a unique identifier for this span
	ID string

	// ParentID is the ID of the parent span (empty for root spans)
	ParentID string

	// Event indicates the type of event this span represents
	Event TraceEvent

	// NodeName is the name of the node being executed (if applicable)
	NodeName string

	// FromNode is the source node for edge traversals
	FromNode string

	// ToNode is the destination node for edge traversals
	ToNode string

	// StartTime is when this span began
	StartTime time.Time

	// EndTime is when this span completed (zero for ongoing spans)
	EndTime time.Time

	// Duration is the total time taken (calculated when span ends)
	Duration time.Duration

	// State is a snapshot of the state at this point (optional)
	State any

	// Error contains any error that occurred during execution
	Error error

	// Metadata contains additional key-value pairs for observability
	Metadata map[string]any
}

// TraceHook defines the interface for trace event handlers
type TraceHook interface {
	// OnEvent is called when a trace event occurs
	OnEvent(ctx context.Context, span *TraceSpan)
}

// TraceHookFunc is a function adapter for TraceHook
type TraceHookFunc func(ctx context.Context, span *TraceSpan)

// OnEvent implements the TraceHook interface
func (f TraceHookFunc) OnEvent(ctx context.Context, span *TraceSpan) {
	f(ctx, span)
}

// Tracer manages trace collection and hooks.
// A Tracer may be shared by concurrent runs.
type Tracer struct {
	mu    sync.Mutex
	hooks []TraceHook
	spans map[string]*TraceSpan
	// collect keeps finished spans in memory when true
	collect bool
}

// NewTracer creates a new tracer instance that keeps every span in memory.
func NewTracer() *Tracer {
	return &Tracer{
		spans:   make(map[string]*TraceSpan),
		collect: true,
	}
}

// NewHookTracer creates a tracer that only forwards events to hooks.
// Use it for long-lived processes where spans must not accumulate.
func NewHookTracer(hooks ...TraceHook) *Tracer {
	return &Tracer{
		hooks: hooks,
		spans: make(map[string]*TraceSpan),
	}
}

// AddHook registers a new trace hook
func (t *Tracer) AddHook(hook TraceHook) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hooks = append(t.hooks, hook)
}

// StartSpan creates a new trace span
func (t *Tracer) StartSpan(ctx context.Context, event TraceEvent, nodeName string) *TraceSpan {
	span := &TraceSpan{
		ID:        uuid.NewString(),
		Event:     event,
		NodeName:  nodeName,
		StartTime: time.Now(),
		Metadata:  make(map[string]any),
	}

	if parentSpan := SpanFromContext(ctx); parentSpan != nil {
		span.ParentID = parentSpan.ID
	}

	t.record(ctx, span)
	return span
}

// EndSpan completes a trace span
func (t *Tracer) EndSpan(ctx context.Context, span *TraceSpan, state any, err error) {
	span.EndTime = time.Now()
	span.Duration = span.EndTime.Sub(span.StartTime)
	span.State = state
	span.Error = err

	switch {
	case span.Event == TraceEventNodeStart && err != nil:
		span.Event = TraceEventNodeError
	case span.Event == TraceEventNodeStart:
		span.Event = TraceEventNodeEnd
	case span.Event == TraceEventGraphStart:
		span.Event = TraceEventGraphEnd
	}

	t.record(ctx, span)
}

// TraceEdgeTraversal records an edge traversal event
func (t *Tracer) TraceEdgeTraversal(ctx context.Context, fromNode, toNode string) {
	now := time.Now()
	span := &TraceSpan{
		ID:        uuid.NewString(),
		Event:     TraceEventEdgeTraversal,
		FromNode:  fromNode,
		ToNode:    toNode,
		StartTime: now,
		EndTime:   now,
		Metadata:  make(map[string]any),
	}

	if parentSpan := SpanFromContext(ctx); parentSpan != nil {
		span.ParentID = parentSpan.ID
	}

	t.record(ctx, span)
}

func (t *Tracer) record(ctx context.Context, span *TraceSpan) {
	t.mu.Lock()
	if t.collect {
		t.spans[span.ID] = span
	}
	hooks := make([]TraceHook, len(t.hooks))
	copy(hooks, t.hooks)
	t.mu.Unlock()

	for _, hook := range hooks {
		hook.OnEvent(ctx, span)
	}
}

// GetSpans returns a copy of all collected spans
func (t *Tracer) GetSpans() map[string]*TraceSpan {
	t.mu.Lock()
	defer t.mu.Unlock()
	spans := make(map[string]*TraceSpan, len(t.spans))
	for id, span := range t.spans {
		spans[id] = span
	}
	return spans
}

// Clear removes all collected spans
func (t *Tracer) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.spans = make(map[string]*TraceSpan)
}

// Context keys for span storage
type contextKey string

const spanContextKey contextKey = "research_graph_span"

// ContextWithSpan returns a new context with the span stored
func ContextWithSpan(ctx context.Context, span *TraceSpan) context.Context {
	return context.WithValue(ctx, spanContextKey, span)
}

// SpanFromContext extracts a span from context
func SpanFromContext(ctx context.Context) *TraceSpan {
	if span, ok := ctx.Value(spanContextKey).(*TraceSpan); ok {
		return span
	}
	return nil
}
