package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!DOCTYPE html>
<html>
<head>
	<title>Test Page</title>
	<script>console.log('test');</script>
	<style>body { color: blue; }</style>
</head>
<body>
	<nav><a href="/">Home</a> <a href="/about">About</a></nav>
	<h1>Test   Content</h1>
	<p>This is a test paragraph.</p>
	<script>alert('test');</script>
</body>
</html>`

func TestHTTPFetcherHTML(t *testing.T) {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	f := NewHTTPFetcher(WithUserAgent("research-test"))
	text, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "research-test", userAgent)
	assert.True(t, strings.HasPrefix(text, "Test Page\n\n"))
	assert.Contains(t, text, "Test Content")
	assert.Contains(t, text, "This is a test paragraph.")
	assert.NotContains(t, text, "console.log")
	assert.NotContains(t, text, "alert(")
	assert.NotContains(t, text, "color: blue")
	assert.NotContains(t, text, "About")
}

func TestHTTPFetcherPlainText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("  line one  \n\n\n line   two "))
	}))
	defer server.Close()

	text, err := NewHTTPFetcher().Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", text)
}

func TestHTTPFetcherEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>  </body></html>"))
	}))
	defer server.Close()

	text, err := NewHTTPFetcher().Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestHTTPFetcherSkipsNonTextContent(t *testing.T) {
	for _, contentType := range []string{"application/pdf", "image/png", "application/octet-stream"} {
		t.Run(contentType, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", contentType)
				_, _ = w.Write([]byte("%PDF-1.7 <html><body>binary</body></html>"))
			}))
			defer server.Close()

			text, err := NewHTTPFetcher().Fetch(context.Background(), server.URL)
			require.NoError(t, err)
			assert.Empty(t, text)
		})
	}
}

func TestHTTPFetcherXHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xhtml+xml; charset=utf-8")
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	text, err := NewHTTPFetcher().Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Contains(t, text, "This is a test paragraph.")
	assert.NotContains(t, text, "console.log")
}

func TestHTTPFetcherErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := NewHTTPFetcher()

	_, err := f.Fetch(context.Background(), server.URL)
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Contains(t, err.Error(), "status 404")

	_, err = f.Fetch(context.Background(), "   ")
	require.ErrorAs(t, err, &fetchErr)
	assert.Zero(t, fetchErr.StatusCode)
}

func TestHTTPFetcherTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	_, err := NewHTTPFetcher(WithTimeout(20 * time.Millisecond)).Fetch(context.Background(), server.URL)
	var fetchErr *FetchError
	assert.ErrorAs(t, err, &fetchErr)
}

func TestHTTPFetcherMaxBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(strings.Repeat("a", 100)))
	}))
	defer server.Close()

	text, err := NewHTTPFetcher(WithMaxBytes(10)).Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Len(t, text, 10)
}

func TestExtractTextWithoutTitle(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body><p>just body</p></body></html>"))
	require.NoError(t, err)
	assert.Equal(t, "just body", ExtractText(doc))
}
