// Package graph provides a small typed state-graph executor.
//
// A StateGraph[S] holds named nodes, static edges, conditional edges and an
// entry point. Compile validates the structure and returns a StateRunnable[S],
// an immutable blueprint that can be invoked any number of times, from any
// number of goroutines.
//
// # Execution model
//
// Invoke runs nodes strictly one after another. Each node receives the
// current state and returns a partial update; the graph's StateSchema merges
// the update into the state before the next node is chosen. A node has at
// most one static successor, or one conditional edge whose condition picks
// the successor from a declared set of targets. Execution stops when END is
// reached. Cycles are not supported: a node that would run twice in the same
// invocation aborts the run with ErrNodeRevisited.
//
// There is no retry. A node error, a panic inside a node, a routing error or
// a cancelled context aborts the whole invocation.
//
// # Example
//
//	type State struct {
//		Input  string
//		Output string
//	}
//
//	g := graph.NewStateGraph[State]()
//	g.SetSchema(graph.SchemaFuncs[State]{
//		UpdateFunc: func(current, update State) (State, error) {
//			if update.Output != "" {
//				current.Output = update.Output
//			}
//			return current, nil
//		},
//	})
//	g.AddNode("upper", "Upper-case the input", func(ctx context.Context, s State) (State, error) {
//		return State{Output: strings.ToUpper(s.Input)}, nil
//	})
//	g.SetEntryPoint("upper")
//	g.SetFinishPoint("upper")
//
//	runnable, err := g.Compile()
//	if err != nil {
//		return err
//	}
//	final, err := runnable.Invoke(ctx, State{Input: "hello"})
//
// # Observability
//
// Attach a Tracer with SetTracer or WithTracer to receive graph, node and
// edge events; Exporter renders the graph as Mermaid or DOT.
package graph
