// Package snapshot serializes validated record batches into the data
// lake's canonical output encodings: row-oriented CSV for news and
// columnar Parquet for both datasets.
package snapshot

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/equilake/equilake/pkg/models"
)

// newsCSVHeader is the full canonical column order of the news table.
var newsCSVHeader = []string{
	"published_at", "title", "source", "content",
	"url", "url_to_image", "sentiment_score", "sentiment_label",
}

// EncodeNewsCSV renders a news batch as UTF-8 CSV with a header row.
func EncodeNewsCSV(records []models.NewsRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(newsCSVHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.PublishedAt.UTC().Format(time.RFC3339),
			rec.Title,
			rec.Source,
			rec.Content,
			rec.URL,
			rec.URLToImage,
			strconv.FormatFloat(rec.SentimentScore, 'g', -1, 64),
			string(rec.SentimentLabel),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeParquet renders a batch as a typed, schema-preserving Parquet
// file. The schema derives from the row type's parquet struct tags.
func EncodeParquet[T any](records []T) ([]byte, error) {
	var buf bytes.Buffer
	w := parquet.NewGenericWriter[T](&buf)

	if _, err := w.Write(records); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("write parquet rows: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close parquet writer: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeParquet reads back a Parquet file produced by EncodeParquet.
// Used by round-trip verification.
func DecodeParquet[T any](data []byte) ([]T, error) {
	rows, err := parquet.Read[T](bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("read parquet rows: %w", err)
	}
	return rows, nil
}
