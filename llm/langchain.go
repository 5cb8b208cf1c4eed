package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// LangChainClient adapts a langchaingo model to Client. Structured output is
// requested through JSON mode with the schema embedded in the prompt.
type LangChainClient struct {
	model llms.Model
	opts  options
}

// NewLangChainClient wraps model.
func NewLangChainClient(model llms.Model, opts ...Option) *LangChainClient {
	return &LangChainClient{model: model, opts: applyOptions(opts)}
}

// NewLangChainOpenAI builds a client for any OpenAI-compatible endpoint (Groq,
// OpenAI, DeepSeek, ...) through langchaingo.
func NewLangChainOpenAI(apiKey, baseURL, model string, opts ...Option) (*LangChainClient, error) {
	lcOpts := []openai.Option{openai.WithModel(model)}
	if apiKey != "" {
		lcOpts = append(lcOpts, openai.WithToken(apiKey))
	}
	if baseURL != "" {
		lcOpts = append(lcOpts, openai.WithBaseURL(baseURL))
	}
	m, err := openai.New(lcOpts...)
	if err != nil {
		return nil, fmt.Errorf("create langchaingo model %s: %w", model, err)
	}
	return NewLangChainClient(m, append([]Option{WithModelName(model)}, opts...)...), nil
}

func (c *LangChainClient) callOptions(jsonMode bool) []llms.CallOption {
	var out []llms.CallOption
	if c.opts.hasTemperature {
		out = append(out, llms.WithTemperature(c.opts.temperature))
	}
	if jsonMode {
		out = append(out, llms.WithJSONMode())
	}
	return out
}

func (c *LangChainClient) Complete(ctx context.Context, prompt string) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt, c.callOptions(false)...)
	if err != nil {
		return "", &GenerationError{Model: c.opts.model, Op: "complete", Err: err}
	}
	return out, nil
}

func (c *LangChainClient) CompleteJSON(ctx context.Context, prompt string, schema *Schema) (string, error) {
	full := prompt + "\n\nRespond with a single JSON object that conforms to this JSON schema:\n" + string(schema.JSON())
	out, err := llms.GenerateFromSinglePrompt(ctx, c.model, full, c.callOptions(true)...)
	if err != nil {
		return "", &GenerationError{Model: c.opts.model, Schema: schema.Name, Op: "complete", Err: err}
	}
	return out, nil
}
