package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Brave uses the Brave Search API.
type Brave struct {
	APIKey  string
	BaseURL string
	Country string
	Lang    string
	client  *http.Client
}

type BraveOption func(*Brave)

// WithBraveBaseURL sets the base URL for the Brave Search API.
func WithBraveBaseURL(baseURL string) BraveOption {
	return func(b *Brave) {
		b.BaseURL = baseURL
	}
}

// WithBraveCountry sets the country code for search results (e.g., "US", "CN").
func WithBraveCountry(country string) BraveOption {
	return func(b *Brave) {
		b.Country = country
	}
}

// WithBraveLang sets the language code for search results (e.g., "en", "zh").
func WithBraveLang(lang string) BraveOption {
	return func(b *Brave) {
		b.Lang = lang
	}
}

// WithBraveHTTPClient sets the HTTP client used for requests.
func WithBraveHTTPClient(c *http.Client) BraveOption {
	return func(b *Brave) {
		b.client = c
	}
}

// NewBrave creates a Brave search provider.
func NewBrave(apiKey string, opts ...BraveOption) (*Brave, error) {
	if apiKey == "" {
		return nil, errors.New("BRAVE_API_KEY not set")
	}

	b := &Brave{
		APIKey:  apiKey,
		BaseURL: "https://api.search.brave.com/res/v1/web/search",
		Country: "US",
		Lang:    "en",
		client:  &http.Client{Timeout: 20 * time.Second},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

type braveResponse struct {
	Web struct {
		Results []struct {
			Title         string   `json:"title"`
			URL           string   `json:"url"`
			Description   string   `json:"description"`
			ExtraSnippets []string `json:"extra_snippets"`
		} `json:"results"`
	} `json:"web"`
}

// Search executes the query. Brave has no depth setting; advanced depth asks
// for extra snippets per result instead.
func (b *Brave) Search(ctx context.Context, q Query) ([]Result, error) {
	count := q.MaxResults
	if count < 1 {
		count = 1
	}
	if count > 20 {
		count = 20
	}

	params := url.Values{}
	params.Set("q", q.Text)
	params.Set("count", strconv.Itoa(count))
	if b.Country != "" {
		params.Set("country", b.Country)
	}
	if b.Lang != "" {
		params.Set("search_lang", b.Lang)
	}
	advanced := NormalizeDepth(q.Depth) == DepthAdvanced
	if advanced {
		params.Set("extra_snippets", "true")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &SearchError{Provider: "brave", Query: q.Text, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", b.APIKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, &SearchError{Provider: "brave", Query: q.Text, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &SearchError{
			Provider:   "brave",
			Query:      q.Text,
			StatusCode: resp.StatusCode,
			Err:        errors.New("unexpected response"),
		}
	}

	var decoded braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &SearchError{Provider: "brave", Query: q.Text, Err: fmt.Errorf("decode response: %w", err)}
	}

	results := make([]Result, 0, len(decoded.Web.Results))
	for _, r := range decoded.Web.Results {
		content := r.Description
		if advanced {
			for _, s := range r.ExtraSnippets {
				content += "\n" + s
			}
		}
		results = append(results, Result{URL: r.URL, Title: r.Title, Content: content})
	}
	return limit(results, q.MaxResults), nil
}
