package boe

// HTTP client for the Bank of England rate sheet.
// Requests pass through a rate limiter, a circuit breaker and the shared retry policy.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"rate-imaging/internal/infra/log"
	"rate-imaging/internal/infra/retry"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultMaxResponseSize = 10 * 1024 * 1024

// Client fetches raw CSV text.
type Client struct {
	httpClient      *http.Client
	rateLimiter     *rate.Limiter
	circuitBreaker  *gobreaker.CircuitBreaker
	retry           retry.Options
	maxResponseSize int64
}

// Option customizes a Client.
type Option func(*Client)

// WithRetry replaces the retry policy.
func WithRetry(opts retry.Options) Option {
	return func(c *Client) { c.retry = opts }
}

// WithMaxResponseSize caps the body size in bytes.
func WithMaxResponseSize(n int64) Option {
	return func(c *Client) { c.maxResponseSize = n }
}

func NewClient(timeout time.Duration, maxRetries int, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 90 * time.Second,
			},
		},
		// the sheet is fetched once per run; the limiter only matters for retries
		rateLimiter: rate.NewLimiter(rate.Limit(2), 2),
		circuitBreaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "RateSource",
			MaxRequests: 1,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 5
			},
		}),
		retry: retry.Options{
			MaxRetries: maxRetries,
			BaseDelay:  300 * time.Millisecond,
			MaxDelay:   5 * time.Second,
			Backoff:    2.0,
		},
		maxResponseSize: defaultMaxResponseSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.retry.OnRetry == nil {
		c.retry.OnRetry = func(attempt int, err error, sleep time.Duration) {
			log.LogWarn("Retrying rate source request",
				zap.Int("attempt", attempt+1),
				zap.Duration("sleep", sleep),
				zap.Error(err))
		}
	}
	return c
}

// Get performs one GET with the full transport policy and returns the body.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	requestID := log.GenerateRequestID()
	startTime := time.Now()
	log.LogRequest(requestID, http.MethodGet, url)

	var respBody []byte
	err := retry.Do(ctx, c.retry, func() error {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait failed: %w", err)
		}
		_, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			body, err := c.doGET(ctx, url)
			if err != nil {
				return nil, err
			}
			respBody = body
			return nil, nil
		})
		return err
	})

	duration := time.Since(startTime).Milliseconds()
	if err != nil {
		status := 0
		var he *retry.HTTPError
		if errors.As(err, &he) {
			status = he.StatusCode
		}
		log.LogResponse(requestID, status, duration, zap.String("endpoint", url), zap.Error(err))
		return nil, fmt.Errorf("rate source GET failed: %w", err)
	}

	log.LogResponse(requestID, http.StatusOK, duration,
		zap.String("endpoint", url),
		zap.Int("bytes", len(respBody)))
	return respBody, nil
}

func (c *Client) doGET(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "rate-imaging/1.0")
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > c.maxResponseSize {
		return nil, fmt.Errorf("response exceeds %d bytes", c.maxResponseSize)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Body:       body,
			RetryAfter: retry.ParseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}
	return body, nil
}
