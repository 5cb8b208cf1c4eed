package graph

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Exporter provides methods to export graphs in different formats
type Exporter[S any] struct {
	graph *StateGraph[S]
}

// NewExporter creates a new graph exporter for the given graph
func NewExporter[S any](graph *StateGraph[S]) *Exporter[S] {
	return &Exporter[S]{graph: graph}
}

// MermaidOptions defines configuration for Mermaid diagram generation
type MermaidOptions struct {
	// Direction of the flowchart (e.g., "TD", "LR")
	Direction string
}

// DrawMermaid generates a Mermaid diagram representation of the graph
func (ge *Exporter[S]) DrawMermaid() string {
	return ge.DrawMermaidWithOptions(MermaidOptions{
		Direction: "TD",
	})
}

// DrawMermaidWithOptions generates a Mermaid diagram with custom options.
// Conditional edges with declared targets are drawn as dashed arrows to
// each target; undeclared ones point to a "?" placeholder.
func (ge *Exporter[S]) DrawMermaidWithOptions(opts MermaidOptions) string {
	var sb strings.Builder

	direction := opts.Direction
	if direction == "" {
		direction = "TD"
	}
	fmt.Fprintf(&sb, "flowchart %s\n", direction)

	if ge.graph.entryPoint != "" {
		sb.WriteString("    START([\"START\"])\n")
		sb.WriteString("    style START fill:#90EE90\n")
		fmt.Fprintf(&sb, "    %s[[\"%s\"]]\n", ge.graph.entryPoint, ge.graph.entryPoint)
		fmt.Fprintf(&sb, "    START --> %s\n", ge.graph.entryPoint)
	}

	for _, name := range ge.nodeNames() {
		if name != ge.graph.entryPoint {
			fmt.Fprintf(&sb, "    %s[\"%s\"]\n", name, name)
		}
	}

	if ge.referencesEnd() {
		sb.WriteString("    END([\"END\"])\n")
		sb.WriteString("    style END fill:#FFB6C1\n")
	}

	for _, edge := range ge.graph.edges {
		fmt.Fprintf(&sb, "    %s --> %s\n", edge.From, edge.To)
	}

	for _, from := range ge.conditionalSources() {
		edge := ge.graph.conditionalEdges[from]
		if len(edge.Targets) == 0 {
			fmt.Fprintf(&sb, "    %s -.-> %s_condition((?))\n", from, from)
			fmt.Fprintf(&sb, "    style %s_condition fill:#FFFFE0,stroke:#333,stroke-dasharray: 5 5\n", from)
			continue
		}
		for _, target := range edge.Targets {
			fmt.Fprintf(&sb, "    %s -.-> %s\n", from, target)
		}
	}

	if ge.graph.entryPoint != "" {
		fmt.Fprintf(&sb, "    style %s fill:#87CEEB\n", ge.graph.entryPoint)
	}

	return sb.String()
}

// DrawDOT generates a DOT (Graphviz) representation of the graph
func (ge *Exporter[S]) DrawDOT() string {
	var sb strings.Builder

	sb.WriteString("digraph G {\n")
	sb.WriteString("    rankdir=TD;\n")
	sb.WriteString("    node [shape=box];\n")

	if ge.graph.entryPoint != "" {
		sb.WriteString("    START [label=\"START\", shape=ellipse, style=filled, fillcolor=lightgreen];\n")
		fmt.Fprintf(&sb, "    START -> %s;\n", ge.graph.entryPoint)
		fmt.Fprintf(&sb, "    %s [style=filled, fillcolor=lightblue];\n", ge.graph.entryPoint)
	}

	if ge.referencesEnd() {
		sb.WriteString("    END [label=\"END\", shape=ellipse, style=filled, fillcolor=lightpink];\n")
	}

	for _, edge := range ge.graph.edges {
		fmt.Fprintf(&sb, "    %s -> %s;\n", edge.From, edge.To)
	}

	for _, from := range ge.conditionalSources() {
		edge := ge.graph.conditionalEdges[from]
		if len(edge.Targets) == 0 {
			fmt.Fprintf(&sb, "    %s -> %s_condition [style=dashed, label=\"?\"];\n", from, from)
			fmt.Fprintf(&sb, "    %s_condition [label=\"?\", shape=diamond, style=filled, fillcolor=lightyellow];\n", from)
			continue
		}
		for _, target := range edge.Targets {
			fmt.Fprintf(&sb, "    %s -> %s [style=dashed];\n", from, target)
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

func (ge *Exporter[S]) nodeNames() []string {
	return slices.Sorted(maps.Keys(ge.graph.nodes))
}

func (ge *Exporter[S]) conditionalSources() []string {
	return slices.Sorted(maps.Keys(ge.graph.conditionalEdges))
}

func (ge *Exporter[S]) referencesEnd() bool {
	for _, edge := range ge.graph.edges {
		if edge.To == END {
			return true
		}
	}
	for _, edge := range ge.graph.conditionalEdges {
		if slices.Contains(edge.Targets, END) {
			return true
		}
	}
	return false
}
