package snapshot

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/equilake/equilake/internal/storage"
	"github.com/equilake/equilake/pkg/models"
)

// Outcome reports the result of one encoding's upload. Encoding-level
// failures are collected here rather than propagated: a failed CSV
// upload never blocks the Parquet upload or the rest of the run.
type Outcome struct {
	Key      string
	Encoding string
	Err      error
}

// OK reports whether the upload succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// Writer persists validated batches to the blob store under
// deterministic date-partitioned keys.
type Writer struct {
	store storage.BlobStore
	log   *zap.Logger
}

// NewWriter creates a snapshot writer.
func NewWriter(store storage.BlobStore, log *zap.Logger) *Writer {
	return &Writer{store: store, log: log}
}

// WriteNews uploads a validated news batch in both encodings. An empty
// batch writes nothing. Each encoding's outcome is independent and
// best-effort.
func (w *Writer) WriteNews(ctx context.Context, records []models.NewsRecord, date time.Time) []Outcome {
	if len(records) == 0 {
		return nil
	}

	outcomes := make([]Outcome, 0, 2)
	outcomes = append(outcomes, w.upload(ctx, "csv", storage.ProcessedNewsKey(date, "csv"), func() ([]byte, error) {
		return EncodeNewsCSV(records)
	}))
	outcomes = append(outcomes, w.upload(ctx, "parquet", storage.ProcessedNewsKey(date, "parquet"), func() ([]byte, error) {
		return EncodeParquet(records)
	}))
	return outcomes
}

// WriteStocks uploads one symbol's validated price batch as Parquet.
// An empty batch writes nothing.
func (w *Writer) WriteStocks(ctx context.Context, symbol string, records []models.PriceRecord, date time.Time) []Outcome {
	if len(records) == 0 {
		return nil
	}

	outcome := w.upload(ctx, "parquet", storage.ProcessedStockKey(symbol, date), func() ([]byte, error) {
		return EncodeParquet(records)
	})
	return []Outcome{outcome}
}

// upload encodes and stores one snapshot, logging and absorbing any
// failure into the returned outcome.
func (w *Writer) upload(ctx context.Context, encoding, key string, encode func() ([]byte, error)) Outcome {
	data, err := encode()
	if err != nil {
		w.log.Error("snapshot encoding failed",
			zap.String("encoding", encoding), zap.String("key", key), zap.Error(err))
		return Outcome{Key: key, Encoding: encoding, Err: err}
	}

	if err := w.store.Put(ctx, key, data); err != nil {
		w.log.Error("snapshot upload failed",
			zap.String("encoding", encoding), zap.String("key", key), zap.Error(err))
		return Outcome{Key: key, Encoding: encoding, Err: err}
	}

	w.log.Info("snapshot uploaded",
		zap.String("encoding", encoding), zap.String("key", key), zap.Int("bytes", len(data)))
	return Outcome{Key: key, Encoding: encoding}
}
