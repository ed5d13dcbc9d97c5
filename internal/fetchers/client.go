package fetchers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	DefaultRetryMax     = 3
	DefaultRetryWaitMax = 5 * time.Second
)

// NewClient returns a retrying HTTP client for info lookups.
func NewClient() *retryablehttp.Client {
	return &retryablehttp.Client{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		Logger:       slog.Default(),
		RetryWaitMin: 500 * time.Millisecond,
		RetryWaitMax: DefaultRetryWaitMax,
		RetryMax:     DefaultRetryMax,
		CheckRetry:   retryPolicy,
		Backoff:      retryablehttp.DefaultBackoff,
	}
}

func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if resp == nil {
		slog.Warn("got no response, retrying", "err", err)
		return true, nil
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		slog.Warn("got recoverable HTTP error, retrying", "code", resp.StatusCode)
		return true, nil
	default:
		return false, nil
	}
}
