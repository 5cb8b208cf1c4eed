package llm

import (
	"context"
	"fmt"
	"strings"
)

// Client is a text-generation backend.
type Client interface {
	// Complete returns the raw completion for prompt.
	Complete(ctx context.Context, prompt string) (string, error)

	// CompleteJSON asks for a single JSON document conforming to schema and
	// returns the raw reply. Callers validate and decode it, see Generate.
	CompleteJSON(ctx context.Context, prompt string, schema *Schema) (string, error)
}

// Tiers groups the two capability tiers used by the pipeline.
type Tiers struct {
	// Fast is optimised for cost and latency.
	Fast Client
	// Smart is optimised for output quality.
	Smart Client
}

// GenerationError reports a failed provider call or a reply that could not be
// validated against the requested schema.
type GenerationError struct {
	// Model is the provider model name, if known
	Model string
	// Schema is the requested schema name, empty for free text
	Schema string
	// Op is the failing stage: "complete", "decode" or "validate"
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	var sb strings.Builder
	sb.WriteString("generation failed")
	if e.Model != "" {
		fmt.Fprintf(&sb, " [model=%s]", e.Model)
	}
	if e.Schema != "" {
		fmt.Fprintf(&sb, " [schema=%s]", e.Schema)
	}
	fmt.Fprintf(&sb, " during %s: %v", e.Op, e.Err)
	return sb.String()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Option configures a Client.
type Option func(*options)

type options struct {
	temperature    float64
	hasTemperature bool
	model          string
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(o *options) {
		o.temperature = t
		o.hasTemperature = true
	}
}

// WithModelName sets the model name reported in errors and, for the
// go-openai client, sent to the provider.
func WithModelName(name string) Option {
	return func(o *options) {
		o.model = name
	}
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
