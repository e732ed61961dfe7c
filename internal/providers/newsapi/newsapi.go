// Package newsapi fetches raw article payloads from NewsAPI's
// "everything" endpoint. Payloads are stored opaque; normalization
// happens downstream in the pipeline.
package newsapi

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"go.uber.org/zap"

	"github.com/equilake/equilake/internal/infra"
)

const defaultBaseURL = "https://newsapi.org/v2/everything"

// Client fetches news payloads for a query string.
type Client struct {
	apiKey  string
	baseURL string
	log     *zap.Logger
}

// New creates a NewsAPI client.
func New(apiKey string, log *zap.Logger) *Client {
	return &Client{apiKey: apiKey, baseURL: defaultBaseURL, log: log}
}

// FetchEverything returns the raw JSON payload for a query, newest
// first, English only, up to 50 articles. A non-200 response is a
// recoverable fetch failure: it is logged and surfaced as an error so
// the caller skips the unit.
func (c *Client) FetchEverything(ctx context.Context, query string) ([]byte, error) {
	u := fmt.Sprintf("%s?q=%s&sortBy=publishedAt&language=en&pageSize=50&apiKey=%s",
		c.baseURL, url.QueryEscape(query), c.apiKey)

	body, status, err := infra.DoGet(ctx, u, nil)
	if err != nil {
		return nil, fmt.Errorf("newsapi fetch %q: %w", query, err)
	}
	defer body.Close()

	if status != 200 {
		c.log.Warn("news fetch returned non-success status",
			zap.String("query", query), zap.Int("status", status))
		return nil, fmt.Errorf("newsapi fetch %q: status %d", query, status)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("newsapi read response: %w", err)
	}
	return data, nil
}
