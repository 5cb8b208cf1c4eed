// Package search provides the web search collaborator used by the research
// pipeline, with Tavily and Brave backends.
package search

import (
	"context"
	"fmt"
)

// Result is a single search hit.
type Result struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Query describes one search request.
type Query struct {
	Text       string
	MaxResults int
	// Depth is the provider search depth, "basic" or "advanced".
	Depth string
}

// Searcher runs web searches.
type Searcher interface {
	Search(ctx context.Context, q Query) ([]Result, error)
}

// SearchError reports a failed provider call.
type SearchError struct {
	Provider string
	Query    string
	// StatusCode is the HTTP status returned by the provider, zero if the
	// request never completed.
	StatusCode int
	Err        error
}

func (e *SearchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s search %q: status %d: %v", e.Provider, e.Query, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s search %q: %v", e.Provider, e.Query, e.Err)
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

const (
	DepthBasic    = "basic"
	DepthAdvanced = "advanced"
)

// NormalizeDepth maps an arbitrary depth label onto the two provider depths.
// Anything other than "advanced" (or its alias "deep") is basic.
func NormalizeDepth(depth string) string {
	switch depth {
	case DepthAdvanced, "deep":
		return DepthAdvanced
	default:
		return DepthBasic
	}
}

func limit(results []Result, n int) []Result {
	if n > 0 && len(results) > n {
		return results[:n]
	}
	return results
}
