// Package fetch retrieves web pages and reduces them to plain text.
package fetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Fetcher downloads a page and returns its plain text. An empty string with a
// nil error means the page had no text.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetchError reports a page that could not be retrieved.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

const (
	defaultUserAgent = "myagent"
	defaultMaxBytes  = 2 << 20
)

// HTTPFetcher fetches pages over HTTP and extracts their text with goquery.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *HTTPFetcher) {
		f.client.Timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBytes caps how much of a response body is read.
func WithMaxBytes(n int64) Option {
	return func(f *HTTPFetcher) {
		if n > 0 {
			f.maxBytes = n
		}
	}
}

// WithHTTPClient replaces the underlying client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *HTTPFetcher) {
		f.client = c
	}
}

// NewHTTPFetcher creates a fetcher with a 15s timeout.
func NewHTTPFetcher(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		client:    &http.Client{Timeout: 15 * time.Second},
		userAgent: defaultUserAgent,
		maxBytes:  defaultMaxBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads url. HTML responses are reduced to the page title and body
// text with scripts, styles and navigation removed; other text types are
// returned as-is. Non-text media such as PDFs and images yield "".
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", &FetchError{URL: url, Err: fmt.Errorf("empty url")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status")}
	}

	body := io.LimitReader(resp.Body, f.maxBytes)

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if !isHTML(mediaType) && !strings.HasPrefix(mediaType, "text/") {
		return "", nil
	}
	if !isHTML(mediaType) {
		data, err := io.ReadAll(body)
		if err != nil {
			return "", &FetchError{URL: url, Err: err}
		}
		return collapseWhitespace(string(data)), nil
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("parse html: %w", err)}
	}
	return ExtractText(doc), nil
}

// isHTML reports whether mediaType should be parsed as a page. A missing
// Content-Type is treated as HTML.
func isHTML(mediaType string) bool {
	switch mediaType {
	case "", "text/html", "application/xhtml+xml":
		return true
	}
	return false
}

// ExtractText returns the readable text of doc.
func ExtractText(doc *goquery.Document) string {
	doc.Find("script, style, noscript, iframe, svg, nav, header, footer").Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())

	var sb strings.Builder
	doc.Find("body").Each(func(_ int, s *goquery.Selection) {
		sb.WriteString(s.Text())
		sb.WriteString("\n")
	})
	text := collapseWhitespace(sb.String())

	switch {
	case title == "":
		return text
	case text == "":
		return title
	default:
		return title + "\n\n" + text
	}
}

func collapseWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
