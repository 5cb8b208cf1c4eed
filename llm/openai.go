package llm

import (
	"context"
	"errors"

	goopenai "github.com/sashabaranov/go-openai"
)

// OpenAIClient talks to an OpenAI-compatible chat completions endpoint
// directly and uses the native json_schema response format.
type OpenAIClient struct {
	client *goopenai.Client
	opts   options
}

// NewOpenAIClient creates a client for model. An empty baseURL selects the
// OpenAI default.
func NewOpenAIClient(apiKey, baseURL, model string, opts ...Option) *OpenAIClient {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	o := applyOptions(append([]Option{WithModelName(model)}, opts...))
	return &OpenAIClient{client: goopenai.NewClientWithConfig(cfg), opts: o}
}

func (c *OpenAIClient) request(prompt string) goopenai.ChatCompletionRequest {
	req := goopenai.ChatCompletionRequest{
		Model: c.opts.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if c.opts.hasTemperature {
		req.Temperature = float32(c.opts.temperature)
	}
	return req
}

func (c *OpenAIClient) send(ctx context.Context, req goopenai.ChatCompletionRequest) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty response from provider")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	out, err := c.send(ctx, c.request(prompt))
	if err != nil {
		return "", &GenerationError{Model: c.opts.model, Op: "complete", Err: err}
	}
	return out, nil
}

func (c *OpenAIClient) CompleteJSON(ctx context.Context, prompt string, schema *Schema) (string, error) {
	req := c.request(prompt)
	req.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
		Type: goopenai.ChatCompletionResponseFormatTypeJSONSchema,
		JSONSchema: &goopenai.ChatCompletionResponseFormatJSONSchema{
			Name:        schema.Name,
			Description: schema.Description,
			Schema:      schema.JSON(),
		},
	}
	out, err := c.send(ctx, req)
	if err != nil {
		return "", &GenerationError{Model: c.opts.model, Schema: schema.Name, Op: "complete", Err: err}
	}
	return out, nil
}
