package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateGraph_WithTracer(t *testing.T) {
	g := newTestGraph()
	g.AddNode("node1", "First node", visit("node1"))
	g.AddNode("node2", "Second node", visit("node2"))
	g.AddEdge("node1", "node2")
	g.SetFinishPoint("node2")
	g.SetEntryPoint("node1")

	runnable, err := g.Compile()
	require.NoError(t, err)

	tracer := NewTracer()

	runnable.SetTracer(tracer)
	assert.Same(t, tracer, runnable.GetTracer())

	other := NewTracer()
	withOther := runnable.WithTracer(other)
	assert.Same(t, other, withOther.GetTracer())
	assert.Same(t, tracer, runnable.GetTracer(), "WithTracer must not modify the receiver")

	_, err = runnable.Invoke(context.Background(), TestState{})
	require.NoError(t, err)

	spans := tracer.GetSpans()
	require.NotEmpty(t, spans)

	var graphEnd *TraceSpan
	var hasNode1End, hasNode2End bool
	var traversals []string
	for _, span := range spans {
		switch {
		case span.Event == TraceEventGraphEnd && span.NodeName == "graph":
			graphEnd = span
		case span.Event == TraceEventNodeEnd && span.NodeName == "node1":
			hasNode1End = true
		case span.Event == TraceEventNodeEnd && span.NodeName == "node2":
			hasNode2End = true
		case span.Event == TraceEventEdgeTraversal:
			traversals = append(traversals, span.FromNode+"->"+span.ToNode)
		}
	}

	require.NotNil(t, graphEnd)
	assert.NotEmpty(t, graphEnd.Metadata["run_id"])
	assert.True(t, hasNode1End)
	assert.True(t, hasNode2End)
	assert.ElementsMatch(t, []string{"node1->node2", "node2->END"}, traversals)
	assert.Empty(t, other.GetSpans())
}

func TestStateGraph_TracerRecordsNodeError(t *testing.T) {
	g := newTestGraph()
	g.AddNode("broken", "broken", func(ctx context.Context, state TestState) (TestState, error) {
		return TestState{}, errors.New("kaput")
	})
	g.SetEntryPoint("broken")
	g.SetFinishPoint("broken")

	runnable, err := g.Compile()
	require.NoError(t, err)

	tracer := NewTracer()
	_, err = runnable.WithTracer(tracer).Invoke(context.Background(), TestState{})
	require.Error(t, err)

	var nodeErr, graphErr bool
	for _, span := range tracer.GetSpans() {
		if span.Event == TraceEventNodeError && span.NodeName == "broken" {
			nodeErr = true
			assert.EqualError(t, span.Error, "kaput")
		}
		if span.Event == TraceEventGraphEnd {
			graphErr = span.Error != nil
		}
	}
	assert.True(t, nodeErr)
	assert.True(t, graphErr)
}

func TestHookTracer_DoesNotCollectSpans(t *testing.T) {
	var events []TraceEvent
	tracer := NewHookTracer(TraceHookFunc(func(ctx context.Context, span *TraceSpan) {
		events = append(events, span.Event)
	}))

	span := tracer.StartSpan(context.Background(), TraceEventNodeStart, "n")
	tracer.EndSpan(context.Background(), span, nil, nil)

	assert.Empty(t, tracer.GetSpans())
	assert.Equal(t, []TraceEvent{TraceEventNodeStart, TraceEventNodeEnd}, events)
}

func TestTracer_ParentFromContext(t *testing.T) {
	tracer := NewTracer()
	parent := tracer.StartSpan(context.Background(), TraceEventGraphStart, "graph")
	child := tracer.StartSpan(ContextWithSpan(context.Background(), parent), TraceEventNodeStart, "n")

	assert.Equal(t, parent.ID, child.ParentID)
	assert.Same(t, parent, SpanFromContext(ContextWithSpan(context.Background(), parent)))
	assert.Nil(t, SpanFromContext(context.Background()))

	tracer.Clear()
	assert.Empty(t, tracer.GetSpans())
}
