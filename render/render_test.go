package render

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"github.com/jatinchawla007/LangGraph-Research-Assistant/research"
)

func sampleBrief() research.FinalBrief {
	return research.FinalBrief{
		Topic:        "quantum computing",
		Introduction: "Quantum computers use qubits.",
		Synthesis:    "Sources agree that **error correction** is the main hurdle.",
		References: []research.SourceSummary{
			{URL: "https://a.example/q", Title: "Qubits 101", KeyPoints: []string{"superposition", "entanglement"}, RelevanceScore: 0.9},
			{URL: "https://b.example/ec", KeyPoints: []string{"surface codes"}, RelevanceScore: 0.456},
		},
		PotentialFollowUps: []string{"Which vendors lead?", "When will it be practical?"},
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleBrief())

	assert.True(t, strings.HasPrefix(md, "# Research Brief: quantum computing\n\n## Introduction\n\nQuantum computers use qubits.\n"))
	assert.Contains(t, md, "## Synthesis\n\nSources agree that **error correction** is the main hurdle.\n")
	assert.Contains(t, md, "1. Which vendors lead?\n2. When will it be practical?\n")
	assert.Contains(t, md, "1. [Qubits 101](https://a.example/q) (relevance 0.90)\n    - superposition\n    - entanglement\n")
	assert.Contains(t, md, "2. [https://b.example/ec](https://b.example/ec) (relevance 0.46)\n")
}

func TestMarkdownWithoutOptionalSections(t *testing.T) {
	md := Markdown(research.FinalBrief{Topic: "t", Introduction: "i", Synthesis: "s"})
	assert.NotContains(t, md, "References")
	assert.NotContains(t, md, "Follow-up")
}

func TestHTML(t *testing.T) {
	out := HTML(sampleBrief())

	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "Research Brief: quantum computing")
	assert.Contains(t, out, "<strong>error correction</strong>")
	assert.Contains(t, out, `href="https://a.example/q"`)
}

func TestHTMLIsSanitized(t *testing.T) {
	b := sampleBrief()
	b.Synthesis = `Look <script>alert("x")</script> and <a href="javascript:alert(1)">click</a>`

	out := HTML(b)
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "javascript:")
}

func TestTerminal(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	out := Terminal(sampleBrief(), 40)
	assert.Contains(t, out, "Research Brief: quantum computing")
	assert.Contains(t, out, "Introduction")
	assert.Contains(t, out, "1. Which vendors lead?")
	assert.Contains(t, out, "Qubits 101 (https://a.example/q)")
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 60)
	}

	assert.Contains(t, Failure(research.NoSummariesMessage), research.NoSummariesMessage)
}
