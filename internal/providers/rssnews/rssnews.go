// Package rssnews is a keyless fallback news source. It pulls US
// financial RSS feeds and renders the items in the same raw article
// shape the NewsAPI payload uses, so the downstream normalizer handles
// both sources identically.
package rssnews

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"github.com/equilake/equilake/internal/infra"
)

// Source is one configured RSS feed.
type Source struct {
	Name   string
	RSSURL string
}

// DefaultSources lists the configured US market news RSS feeds.
var DefaultSources = []Source{
	{Name: "CNBC Markets", RSSURL: "https://www.cnbc.com/id/20910258/device/rss/rss.html"},
	{Name: "MarketWatch Top Stories", RSSURL: "https://feeds.content.dowjones.io/public/rss/mw_topstories"},
	{Name: "Yahoo Finance", RSSURL: "https://finance.yahoo.com/news/rssindex"},
	{Name: "Investing.com Stock News", RSSURL: "https://www.investing.com/rss/news_25.rss"},
}

// Client aggregates articles from the configured feeds.
type Client struct {
	sources []Source
	cache   *infra.Cache
	limiter *infra.RateLimiter
	parser  *gofeed.Parser
	log     *zap.Logger
}

// New creates a client with the default sources.
func New(log *zap.Logger) *Client {
	return NewWithSources(DefaultSources, log)
}

// NewWithSources creates a client with custom sources.
func NewWithSources(sources []Source, log *zap.Logger) *Client {
	return &Client{
		sources: sources,
		cache:   infra.NewCache(10 * time.Minute),
		limiter: infra.NewRateLimiter(2, time.Second), // conservative: 2 req/s
		parser:  gofeed.NewParser(),
		log:     log,
	}
}

// FetchPayload returns a raw news payload assembled from all feeds,
// capped at limit articles. Failed feeds are skipped; the payload is an
// empty article list only when every source fails.
func (c *Client) FetchPayload(ctx context.Context, limit int) ([]byte, error) {
	cacheKey := fmt.Sprintf("rssnews:payload:%d", limit)
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.([]byte), nil
	}

	var articles []map[string]any
	for _, src := range c.sources {
		items, err := c.fetchFeed(ctx, src)
		if err != nil {
			// Non-critical: skip failed sources.
			c.log.Warn("rss feed fetch failed, skipping source",
				zap.String("source", src.Name), zap.Error(err))
			continue
		}
		articles = append(articles, items...)
	}

	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}

	payload, err := json.Marshal(map[string]any{"articles": articles})
	if err != nil {
		return nil, fmt.Errorf("marshal rss payload: %w", err)
	}

	c.cache.Set(cacheKey, payload)
	return payload, nil
}

// fetchFeed parses one RSS feed into raw article maps.
func (c *Client) fetchFeed(ctx context.Context, src Source) ([]map[string]any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	feed, err := c.parser.ParseURLWithContext(src.RSSURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse RSS %s: %w", src.Name, err)
	}

	articles := make([]map[string]any, 0, len(feed.Items))
	for _, item := range feed.Items {
		a := map[string]any{
			"title":   item.Title,
			"content": cleanHTML(item.Description),
			"url":     item.Link,
			"source":  map[string]any{"name": src.Name},
		}
		if item.PublishedParsed != nil {
			a["publishedAt"] = item.PublishedParsed.UTC().Format(time.RFC3339)
		}
		if item.Image != nil {
			a["urlToImage"] = item.Image.URL
		}
		articles = append(articles, a)
	}

	return articles, nil
}

// cleanHTML strips HTML tags from a string using goquery.
func cleanHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
