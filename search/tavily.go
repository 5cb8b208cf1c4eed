package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTavilyURL = "https://api.tavily.com/search"

// Tavily calls the Tavily search API.
type Tavily struct {
	APIKey  string
	BaseURL string
	client  *http.Client
}

// TavilyOption configures a Tavily client.
type TavilyOption func(*Tavily)

// WithTavilyBaseURL overrides the endpoint.
func WithTavilyBaseURL(baseURL string) TavilyOption {
	return func(t *Tavily) {
		t.BaseURL = baseURL
	}
}

// WithTavilyHTTPClient sets the HTTP client used for requests.
func WithTavilyHTTPClient(c *http.Client) TavilyOption {
	return func(t *Tavily) {
		t.client = c
	}
}

// NewTavily constructs a Tavily search provider.
func NewTavily(apiKey string, opts ...TavilyOption) (*Tavily, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("TAVILY_API_KEY not set")
	}
	t := &Tavily{
		APIKey:  apiKey,
		BaseURL: defaultTavilyURL,
		client:  &http.Client{Timeout: 20 * time.Second},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

type tavilyRequest struct {
	Query       string `json:"query"`
	APIKey      string `json:"api_key"`
	SearchDepth string `json:"search_depth"`
	MaxResults  int    `json:"max_results,omitempty"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// Search posts a query to Tavily.
func (t *Tavily) Search(ctx context.Context, q Query) ([]Result, error) {
	payload, err := json.Marshal(tavilyRequest{
		Query:       q.Text,
		APIKey:      t.APIKey,
		SearchDepth: NormalizeDepth(q.Depth),
		MaxResults:  q.MaxResults,
	})
	if err != nil {
		return nil, &SearchError{Provider: "tavily", Query: q.Text, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, &SearchError{Provider: "tavily", Query: q.Text, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &SearchError{Provider: "tavily", Query: q.Text, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &SearchError{
			Provider:   "tavily",
			Query:      q.Text,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(body))),
		}
	}

	var decoded tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &SearchError{Provider: "tavily", Query: q.Text, Err: fmt.Errorf("decode response: %w", err)}
	}

	results := make([]Result, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		results = append(results, Result{URL: r.URL, Title: r.Title, Content: r.Content})
	}
	return limit(results, q.MaxResults), nil
}
