// Package alphavantage fetches raw daily OHLCV series from Alpha
// Vantage. The body is returned opaque even when it carries a
// rate-limit or error marker: sentinel handling belongs to the
// normalizer, which records which marker was hit.
package alphavantage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/equilake/equilake/internal/infra"
)

const defaultBaseURL = "https://www.alphavantage.co/query"

// Client fetches daily price series per symbol.
type Client struct {
	apiKey  string
	baseURL string
	limiter *infra.RateLimiter
	log     *zap.Logger
}

// New creates an Alpha Vantage client. The free tier allows 5 requests
// per minute, so fetches go through a conservative rate limiter.
func New(apiKey string, log *zap.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		limiter: infra.NewRateLimiter(5, time.Minute),
		log:     log,
	}
}

// FetchDailySeries returns the raw TIME_SERIES_DAILY payload for a
// symbol.
func (c *Client) FetchDailySeries(ctx context.Context, symbol string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s?function=TIME_SERIES_DAILY&symbol=%s&outputsize=compact&apikey=%s",
		c.baseURL, url.QueryEscape(symbol), c.apiKey)

	body, status, err := infra.DoGet(ctx, u, nil)
	if err != nil {
		return nil, fmt.Errorf("alphavantage fetch %s: %w", symbol, err)
	}
	defer body.Close()

	if status != 200 {
		c.log.Warn("price fetch returned non-success status",
			zap.String("symbol", symbol), zap.Int("status", status))
		return nil, fmt.Errorf("alphavantage fetch %s: status %d", symbol, status)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("alphavantage read response: %w", err)
	}
	return data, nil
}
