package llm

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
)

// RetryConfig configures how a client retries failed completions.
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	// Retryable reports whether err is worth another attempt. Defaults to IsTransient.
	Retryable func(error) bool
}

// DefaultRetryConfig returns three attempts with exponential backoff from one second.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  time.Second,
		MaxDelay:      20 * time.Second,
		BackoffFactor: 2.0,
		Retryable:     IsTransient,
	}
}

// IsTransient reports whether err looks like a rate limit or a provider
// outage rather than a bad request.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}

	// langchaingo reports provider failures as plain text.
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "status code: 429") ||
		strings.Contains(msg, "status code: 5")
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// RetryClient retries the completions of another Client.
type RetryClient struct {
	next   Client
	config RetryConfig
}

// WithRetry wraps c so transient failures are retried with backoff.
func WithRetry(c Client, config RetryConfig) *RetryClient {
	def := DefaultRetryConfig()
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = def.InitialDelay
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = def.MaxDelay
	}
	if config.BackoffFactor < 1 {
		config.BackoffFactor = def.BackoffFactor
	}
	if config.Retryable == nil {
		config.Retryable = IsTransient
	}
	return &RetryClient{next: c, config: config}
}

func (c *RetryClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.do(ctx, func() (string, error) { return c.next.Complete(ctx, prompt) })
}

func (c *RetryClient) CompleteJSON(ctx context.Context, prompt string, schema *Schema) (string, error) {
	return c.do(ctx, func() (string, error) { return c.next.CompleteJSON(ctx, prompt, schema) })
}

func (c *RetryClient) do(ctx context.Context, fn func() (string, error)) (string, error) {
	delay := c.config.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= c.config.MaxAttempts; attempt++ {
		out, err := fn()
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !c.config.Retryable(err) || attempt == c.config.MaxAttempts {
			break
		}

		select {
		case <-time.After(jitter(delay)):
			delay = min(time.Duration(float64(delay)*c.config.BackoffFactor), c.config.MaxDelay)
		case <-ctx.Done():
			return "", fmt.Errorf("retry cancelled during backoff: %w", errors.Join(ctx.Err(), lastErr))
		}
	}
	return "", lastErr
}

// jitter spreads d by up to ±25%.
func jitter(d time.Duration) time.Duration {
	//nolint:gosec // not security sensitive
	return d + time.Duration(float64(d)*0.25*(2*rand.Float64()-1))
}
