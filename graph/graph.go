package graph

import (
	"context"
	"errors"
)

// END is a special constant used to represent the end node in the graph.
const END = "END"

var (
	// ErrEntryPointNotSet is returned when the entry point of the graph is not set.
	ErrEntryPointNotSet = errors.New("entry point not set")

	// ErrFinishPointNotSet is returned when no node of the graph leads to END.
	ErrFinishPointNotSet = errors.New("finish point not set")

	// ErrNodeNotFound is returned when a node is not found in the graph.
	ErrNodeNotFound = errors.New("node not found")

	// ErrNoOutgoingEdge is returned when no outgoing edge is found for a node.
	ErrNoOutgoingEdge = errors.New("no outgoing edge found for node")

	// ErrUnknownRoute is returned when a condition selects a node outside its declared targets.
	ErrUnknownRoute = errors.New("conditional edge returned an undeclared target")

	// ErrNodeRevisited is returned when execution would run the same node twice.
	ErrNodeRevisited = errors.New("node already executed in this run")
)

// Node represents a node in the graph.
// Function receives the current state and returns a partial update that the
// graph merges into the state through its schema.
type Node[S any] struct {
	// Name is the unique identifier for the node.
	Name string

	// Description describes the functionality of the node.
	Description string

	// Function is the function associated with the node.
	Function func(ctx context.Context, state S) (S, error)
}

// Edge represents an edge in the graph.
type Edge struct {
	// From is the name of the node from which the edge originates.
	From string

	// To is the name of the node to which the edge points.
	To string
}

// ConditionalEdge routes from a node to one of its declared targets at runtime.
type ConditionalEdge[S any] struct {
	From      string
	Condition func(ctx context.Context, state S) string
	// Targets lists every name Condition may return. Empty means unchecked.
	Targets []string
}
