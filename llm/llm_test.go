package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type testPlan struct {
	Questions []string `json:"questions" jsonschema:"Questions to research"`
	Depth     string   `json:"depth"`
}

// mockModel is a langchaingo model returning a fixed reply.
type mockModel struct {
	reply   string
	err     error
	prompts []string
	opts    llms.CallOptions
}

func (m *mockModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.prompts = append(m.prompts, messages[0].Parts[0].(llms.TextContent).Text)
	for _, o := range options {
		o(&m.opts)
	}
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.reply}},
	}, nil
}

func (m *mockModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

// stubClient returns canned replies without a provider.
type stubClient struct {
	reply string
	err   error
}

func (s stubClient) Complete(context.Context, string) (string, error) { return s.reply, s.err }
func (s stubClient) CompleteJSON(context.Context, string, *Schema) (string, error) {
	return s.reply, s.err
}

func TestSchemaFor(t *testing.T) {
	s, err := SchemaFor[testPlan]("research_plan", "A research plan")
	require.NoError(t, err)
	assert.Equal(t, "research_plan", s.Name)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(s.JSON(), &doc))
	assert.Equal(t, "A research plan", doc["description"])
	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "questions")
	assert.ElementsMatch(t, []any{"questions", "depth"}, doc["required"])

	assert.NoError(t, s.Validate(map[string]any{"questions": []any{"a"}, "depth": "basic"}))
	assert.Error(t, s.Validate(map[string]any{"depth": "basic"}))
	assert.Error(t, s.Validate(map[string]any{"questions": "nope", "depth": "basic"}))
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"think block", "<think>let me see {x}</think>\n{\"a\":1}", `{"a":1}`},
		{"prose around", "Sure! Here it is: {\"a\":1} Hope that helps.", `{"a":1}`},
		{"no json", "nothing here", "nothing here"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.reply))
		})
	}
}

func TestGenerate(t *testing.T) {
	schema := MustSchemaFor[testPlan]("research_plan", "A research plan")
	ctx := context.Background()

	t.Run("valid reply", func(t *testing.T) {
		c := stubClient{reply: "```json\n{\"questions\":[\"q1\",\"q2\"],\"depth\":\"basic\"}\n```"}
		plan, err := Generate[testPlan](ctx, c, "plan it", schema)
		require.NoError(t, err)
		assert.Equal(t, []string{"q1", "q2"}, plan.Questions)
		assert.Equal(t, "basic", plan.Depth)
	})

	t.Run("schema violation", func(t *testing.T) {
		c := stubClient{reply: `{"questions":"q1"}`}
		_, err := Generate[testPlan](ctx, c, "plan it", schema)
		var genErr *GenerationError
		require.ErrorAs(t, err, &genErr)
		assert.Equal(t, "validate", genErr.Op)
		assert.Equal(t, "research_plan", genErr.Schema)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := Generate[testPlan](ctx, stubClient{reply: "I cannot help"}, "plan it", schema)
		var genErr *GenerationError
		require.ErrorAs(t, err, &genErr)
		assert.Equal(t, "decode", genErr.Op)
	})

	t.Run("provider failure", func(t *testing.T) {
		boom := errors.New("rate limited")
		_, err := Generate[testPlan](ctx, stubClient{err: boom}, "plan it", schema)
		var genErr *GenerationError
		require.ErrorAs(t, err, &genErr)
		assert.Equal(t, "complete", genErr.Op)
		assert.ErrorIs(t, err, boom)
	})
}

func TestText(t *testing.T) {
	out, err := Text(context.Background(), stubClient{reply: "<think>hmm</think>\n  Rewritten topic  "}, "rewrite")
	require.NoError(t, err)
	assert.Equal(t, "Rewritten topic", out)
}

func TestGenerationErrorMessage(t *testing.T) {
	err := &GenerationError{Model: "m1", Schema: "s1", Op: "validate", Err: errors.New("bad")}
	assert.Equal(t, "generation failed [model=m1] [schema=s1] during validate: bad", err.Error())
	assert.Equal(t, "generation failed during complete: x", (&GenerationError{Op: "complete", Err: errors.New("x")}).Error())
}

func TestLangChainClient(t *testing.T) {
	schema := MustSchemaFor[testPlan]("research_plan", "A research plan")
	model := &mockModel{reply: `{"questions":["q"],"depth":"advanced"}`}
	c := NewLangChainClient(model, WithTemperature(0.2), WithModelName("fast"))

	plan, err := Generate[testPlan](context.Background(), c, "plan the topic", schema)
	require.NoError(t, err)
	assert.Equal(t, []string{"q"}, plan.Questions)

	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "plan the topic")
	assert.Contains(t, model.prompts[0], `"questions"`)
	assert.True(t, model.opts.JSONMode)
	assert.InDelta(t, 0.2, model.opts.Temperature, 1e-9)

	model.err = errors.New("down")
	_, err = c.Complete(context.Background(), "hi")
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "fast", genErr.Model)
}

func TestOpenAIClient(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		data, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(data, &body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"cmpl-1","object":"chat.completion","model":"smart","choices":[{"index":0,"message":{"role":"assistant","content":"{\"questions\":[\"a\",\"b\"],\"depth\":\"basic\"}"},"finish_reason":"stop"}]}`)
	}))
	defer server.Close()

	schema := MustSchemaFor[testPlan]("research_plan", "A research plan")
	c := NewOpenAIClient("secret", server.URL, "smart", WithTemperature(0.6))

	plan, err := Generate[testPlan](context.Background(), c, "plan it", schema)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, plan.Questions)

	assert.Equal(t, "smart", body["model"])
	assert.InDelta(t, 0.6, body["temperature"], 1e-6)
	format, ok := body["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_schema", format["type"])
	js, ok := format["json_schema"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "research_plan", js["name"])
}

func TestOpenAIClientError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"message":"slow down","type":"rate_limit"}}`)
	}))
	defer server.Close()

	c := NewOpenAIClient("k", server.URL, "fast")
	_, err := c.Complete(context.Background(), "hi")
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "fast", genErr.Model)
	assert.Equal(t, "complete", genErr.Op)
}
