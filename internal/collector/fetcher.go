package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ShareEvaluator/internal/model"
)

// Fetcher loads fundamentals and prices for one ticker.
type Fetcher interface {
	Fetch(ctx context.Context, ticker string) (*model.StockData, error)
	Name() string
}

// ErrNoData is matched by every NoDataError.
var ErrNoData = errors.New("no data available")

// NoDataError reports that a vendor has nothing for a ticker. It is shown
// to the user as is and never retried.
type NoDataError struct {
	Ticker string
	Reason string
}

func (e *NoDataError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("no data available for %s", e.Ticker)
	}
	return fmt.Sprintf("no data available for %s: %s", e.Ticker, e.Reason)
}

func (e *NoDataError) Is(target error) bool { return target == ErrNoData }

// APIError is a vendor error response.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vendor API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// RateLimitError means the vendor refused the call for quota reasons.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("vendor rate limit exceeded, retry after %v: %s", e.RetryAfter, e.Message)
}
