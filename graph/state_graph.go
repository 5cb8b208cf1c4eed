package graph

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"
)

// StateGraph represents a state-based graph with compile-time type safety.
// The type parameter S represents the state type, which is typically a struct.
//
// Nodes return partial updates; the graph's Schema merges every update into
// the running state before the next node is selected. Execution is strictly
// sequential and each node runs at most once per invocation.
//
// Example usage:
//
//	type MyState struct {
//	    Count int
//	    Name  string
//	}
//
//	g := graph.NewStateGraph[MyState]()
//	g.AddNode("increment", "Increment counter", func(ctx context.Context, state MyState) (MyState, error) {
//	    return MyState{Count: state.Count + 1}, nil
//	})
type StateGraph[S any] struct {
	// nodes is a map of node names to their corresponding Node objects
	nodes map[string]Node[S]

	// edges is a slice of Edge objects representing the connections between nodes
	edges []Edge

	// conditionalEdges maps a "From" node to the edge that picks its successor at runtime
	conditionalEdges map[string]ConditionalEdge[S]

	// entryPoint is the name of the entry point node in the graph
	entryPoint string

	// Schema defines the state structure and update logic
	Schema StateSchema[S]
}

// NewStateGraph creates a new instance of StateGraph with type safety.
//
// Example:
//
//	g := graph.NewStateGraph[MyState]()
func NewStateGraph[S any]() *StateGraph[S] {
	return &StateGraph[S]{
		nodes:            make(map[string]Node[S]),
		conditionalEdges: make(map[string]ConditionalEdge[S]),
	}
}

// AddNode adds a new node to the state graph with the given name, description and function.
func (g *StateGraph[S]) AddNode(name string, description string, fn func(ctx context.Context, state S) (S, error)) {
	g.nodes[name] = Node[S]{
		Name:        name,
		Description: description,
		Function:    fn,
	}
}

// AddEdge adds a new edge to the state graph between the "from" and "to" nodes.
func (g *StateGraph[S]) AddEdge(from, to string) {
	g.edges = append(g.edges, Edge{
		From: from,
		To:   to,
	})
}

// AddConditionalEdge adds a conditional edge where the target node is determined at runtime.
// When targets are given, Compile checks that each of them exists and Invoke
// rejects any other value returned by condition.
//
// Example:
//
//	g.AddConditionalEdge("check", func(ctx context.Context, state MyState) string {
//	    if state.Count > 10 {
//	        return "high"
//	    }
//	    return "low"
//	}, "high", "low")
func (g *StateGraph[S]) AddConditionalEdge(from string, condition func(ctx context.Context, state S) string, targets ...string) {
	g.conditionalEdges[from] = ConditionalEdge[S]{
		From:      from,
		Condition: condition,
		Targets:   targets,
	}
}

// SetEntryPoint sets the entry point node name for the state graph.
func (g *StateGraph[S]) SetEntryPoint(name string) {
	g.entryPoint = name
}

// SetFinishPoint marks name as a terminal node: execution stops after it runs.
func (g *StateGraph[S]) SetFinishPoint(name string) {
	g.AddEdge(name, END)
}

// SetSchema sets the state schema for the graph.
func (g *StateGraph[S]) SetSchema(schema StateSchema[S]) {
	g.Schema = schema
}

// Nodes returns the registered nodes sorted by name.
func (g *StateGraph[S]) Nodes() []Node[S] {
	names := slices.Sorted(maps.Keys(g.nodes))
	nodes := make([]Node[S], 0, len(names))
	for _, name := range names {
		nodes = append(nodes, g.nodes[name])
	}
	return nodes
}

// StateRunnable represents a compiled state graph that can be invoked with type safety.
// It holds a private copy of the graph structure, so it is safe to share
// across goroutines and is unaffected by later changes to the StateGraph.
type StateRunnable[S any] struct {
	nodes       map[string]Node[S]
	successors  map[string]string
	conditional map[string]ConditionalEdge[S]
	entryPoint  string
	schema      StateSchema[S]
	tracer      *Tracer
}

// Compile validates the state graph and returns a StateRunnable instance.
func (g *StateGraph[S]) Compile() (*StateRunnable[S], error) {
	if g.entryPoint == "" {
		return nil, ErrEntryPointNotSet
	}
	if _, ok := g.nodes[g.entryPoint]; !ok {
		return nil, fmt.Errorf("%w: entry point %s", ErrNodeNotFound, g.entryPoint)
	}

	known := func(name string) bool {
		if name == END {
			return true
		}
		_, ok := g.nodes[name]
		return ok
	}

	reachesEnd := false
	successors := make(map[string]string, len(g.edges))
	for _, edge := range g.edges {
		if !known(edge.From) || edge.From == END {
			return nil, fmt.Errorf("%w: edge source %s", ErrNodeNotFound, edge.From)
		}
		if !known(edge.To) {
			return nil, fmt.Errorf("%w: edge target %s", ErrNodeNotFound, edge.To)
		}
		if prev, dup := successors[edge.From]; dup && prev != edge.To {
			return nil, fmt.Errorf("node %s has more than one outgoing edge (%s, %s): fan-out is not supported", edge.From, prev, edge.To)
		}
		successors[edge.From] = edge.To
		reachesEnd = reachesEnd || edge.To == END
	}

	conditional := make(map[string]ConditionalEdge[S], len(g.conditionalEdges))
	for from, edge := range g.conditionalEdges {
		if !known(from) || from == END {
			return nil, fmt.Errorf("%w: conditional edge source %s", ErrNodeNotFound, from)
		}
		if _, ok := successors[from]; ok {
			return nil, fmt.Errorf("node %s has both a static and a conditional edge", from)
		}
		for _, target := range edge.Targets {
			if !known(target) {
				return nil, fmt.Errorf("%w: conditional target %s from %s", ErrNodeNotFound, target, from)
			}
			reachesEnd = reachesEnd || target == END
		}
		if len(edge.Targets) == 0 {
			// Undeclared targets may include END.
			reachesEnd = true
		}
		edge.Targets = slices.Clone(edge.Targets)
		conditional[from] = edge
	}

	if !reachesEnd {
		return nil, ErrFinishPointNotSet
	}

	return &StateRunnable[S]{
		nodes:       maps.Clone(g.nodes),
		successors:  successors,
		conditional: conditional,
		entryPoint:  g.entryPoint,
		schema:      g.Schema,
	}, nil
}

// SetTracer sets a tracer for observability.
func (r *StateRunnable[S]) SetTracer(tracer *Tracer) {
	r.tracer = tracer
}

// GetTracer returns the current tracer.
func (r *StateRunnable[S]) GetTracer() *Tracer {
	return r.tracer
}

// WithTracer returns a new StateRunnable with the given tracer.
func (r *StateRunnable[S]) WithTracer(tracer *Tracer) *StateRunnable[S] {
	clone := *r
	clone.tracer = tracer
	return &clone
}

// Invoke executes the compiled state graph with the given input state.
// It starts at the entry point, merges each node's update into the state and
// follows static or conditional edges until END is reached.
//
// A node error, a routing error or a cancelled ctx aborts the run; the
// partially built state is not returned.
//
// Example:
//
//	finalState, err := app.Invoke(ctx, MyState{Count: 0})
func (r *StateRunnable[S]) Invoke(ctx context.Context, initialState S) (S, error) {
	var zero S

	state := initialState
	if r.schema != nil {
		var err error
		state, err = r.schema.Update(r.schema.Init(), initialState)
		if err != nil {
			return zero, fmt.Errorf("failed to initialize state with schema: %w", err)
		}
	}

	runID := uuid.NewString()

	var graphSpan *TraceSpan
	if r.tracer != nil {
		graphSpan = r.tracer.StartSpan(ctx, TraceEventGraphStart, "graph")
		graphSpan.Metadata["run_id"] = runID
		graphSpan.State = initialState
		ctx = ContextWithSpan(ctx, graphSpan)
	}
	fail := func(err error) (S, error) {
		if graphSpan != nil {
			r.tracer.EndSpan(ctx, graphSpan, state, err)
		}
		return zero, err
	}

	visited := make(map[string]bool, len(r.nodes))
	current := r.entryPoint
	for current != END {
		if err := ctx.Err(); err != nil {
			return fail(fmt.Errorf("run cancelled before node %s: %w", current, err))
		}
		if visited[current] {
			return fail(fmt.Errorf("%w: %s", ErrNodeRevisited, current))
		}
		visited[current] = true

		node, ok := r.nodes[current]
		if !ok {
			return fail(fmt.Errorf("%w: %s", ErrNodeNotFound, current))
		}

		update, err := r.executeNode(ctx, node, state)
		if err != nil {
			return fail(&NodeError{Node: current, Err: err})
		}

		state, err = r.mergeState(state, update)
		if err != nil {
			return fail(err)
		}

		next, err := r.determineNextNode(ctx, current, state)
		if err != nil {
			return fail(err)
		}
		if r.tracer != nil {
			r.tracer.TraceEdgeTraversal(ctx, current, next)
		}
		current = next
	}

	if graphSpan != nil {
		r.tracer.EndSpan(ctx, graphSpan, state, nil)
	}
	return state, nil
}

// executeNode runs a single node, converting panics into errors.
func (r *StateRunnable[S]) executeNode(ctx context.Context, node Node[S], state S) (result S, err error) {
	var nodeSpan *TraceSpan
	if r.tracer != nil {
		nodeSpan = r.tracer.StartSpan(ctx, TraceEventNodeStart, node.Name)
		nodeSpan.State = state
		ctx = ContextWithSpan(ctx, nodeSpan)
	}

	defer func() {
		if p := recover(); p != nil {
			var zero S
			result, err = zero, fmt.Errorf("panic in node %s: %v", node.Name, p)
		}
		if nodeSpan != nil {
			r.tracer.EndSpan(ctx, nodeSpan, result, err)
		}
	}()

	return node.Function(ctx, state)
}

// mergeState merges a node update into the current state.
func (r *StateRunnable[S]) mergeState(current, update S) (S, error) {
	if r.schema == nil {
		return update, nil
	}
	merged, err := r.schema.Update(current, update)
	if err != nil {
		var zero S
		return zero, fmt.Errorf("schema update failed: %w", err)
	}
	return merged, nil
}

// determineNextNode picks the successor of nodeName from its static or conditional edge.
func (r *StateRunnable[S]) determineNextNode(ctx context.Context, nodeName string, state S) (string, error) {
	if next, ok := r.successors[nodeName]; ok {
		return next, nil
	}

	edge, ok := r.conditional[nodeName]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoOutgoingEdge, nodeName)
	}

	next := edge.Condition(ctx, state)
	if next == "" {
		return "", fmt.Errorf("conditional edge returned empty next node from %s", nodeName)
	}
	if len(edge.Targets) > 0 && !slices.Contains(edge.Targets, next) {
		return "", fmt.Errorf("%w: %s -> %s", ErrUnknownRoute, nodeName, next)
	}
	if next != END {
		if _, ok := r.nodes[next]; !ok {
			return "", fmt.Errorf("%w: %s", ErrNodeNotFound, next)
		}
	}
	return next, nil
}
