// Package models defines the canonical row schemas the pipeline produces.
package models

import "time"

// SentimentLabel is the discrete sentiment class attached to a news record.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// NewsRecord is one normalized news article.
//
// PublishedRaw carries the provider timestamp as received; the validator
// parses it into PublishedAt and drops rows where parsing fails. Only
// validated records reach the snapshot writer, so PublishedAt is always
// set on written rows.
type NewsRecord struct {
	PublishedRaw   string         `json:"-"             parquet:"-"`
	PublishedAt    time.Time      `json:"published_at"  parquet:"published_at"`
	Title          string         `json:"title"         parquet:"title"`
	Source         string         `json:"source"        parquet:"source"`
	Content        string         `json:"content"       parquet:"content"`
	URL            string         `json:"url"           parquet:"url"`
	URLToImage     string         `json:"url_to_image"  parquet:"url_to_image"`
	SentimentScore float64        `json:"sentiment_score" parquet:"sentiment_score"`
	SentimentLabel SentimentLabel `json:"sentiment_label" parquet:"sentiment_label"`
}

// PriceRecord is one normalized daily OHLCV bar for a single symbol.
type PriceRecord struct {
	Date   time.Time `json:"date"   parquet:"date"`
	Symbol string    `json:"symbol" parquet:"symbol"`
	Open   float64   `json:"open"   parquet:"open"`
	High   float64   `json:"high"   parquet:"high"`
	Low    float64   `json:"low"    parquet:"low"`
	Close  float64   `json:"close"  parquet:"close"`
	Volume int64     `json:"volume" parquet:"volume"`
}

// RawNewsPayload is the loosely-shaped document returned by the news
// provider. Articles stay as generic maps: individual fields may be
// absent, null, or the wrong type, and the normalizer reads them through
// optional-field accessors rather than a rigid struct.
type RawNewsPayload struct {
	Articles []map[string]any `json:"articles"`
}
