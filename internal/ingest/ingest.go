// Package ingest downloads raw provider payloads and lands them in the
// blob store under the day's raw partition keys. Processing never
// touches the providers directly; it only ever reads these raw
// snapshots.
package ingest

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/equilake/equilake/internal/config"
	"github.com/equilake/equilake/internal/storage"
)

// NewsFetcher returns one raw news payload for the configured query.
type NewsFetcher func(ctx context.Context) ([]byte, error)

// PriceFetcher returns one symbol's raw price payload.
type PriceFetcher func(ctx context.Context, symbol string) ([]byte, error)

// Ingestor lands raw snapshots. Fetch failures are recovered per unit:
// the unit is skipped for this run and the next scheduled run retries.
type Ingestor struct {
	cfg        *config.Config
	store      storage.BlobStore
	fetchNews  NewsFetcher
	fetchPrice PriceFetcher
	log        *zap.Logger
}

// New wires an ingestor from its collaborators.
func New(cfg *config.Config, store storage.BlobStore, news NewsFetcher, price PriceFetcher, log *zap.Logger) *Ingestor {
	return &Ingestor{cfg: cfg, store: store, fetchNews: news, fetchPrice: price, log: log}
}

// Run fetches and stores the news payload and every symbol's price
// payload for the given run date.
func (i *Ingestor) Run(ctx context.Context, date time.Time) {
	i.IngestNews(ctx, date)
	i.IngestStocks(ctx, date)
}

// IngestNews lands the day's raw news snapshot.
func (i *Ingestor) IngestNews(ctx context.Context, date time.Time) {
	data, err := i.fetchNews(ctx)
	if err != nil {
		i.log.Warn("news fetch failed, nothing landed this run", zap.Error(err))
		return
	}
	if len(data) == 0 {
		i.log.Warn("news fetch returned an empty payload, nothing landed")
		return
	}

	key := storage.RawNewsKey(i.cfg.NewsQuery, date)
	if err := i.store.Put(ctx, key, data); err != nil {
		i.log.Error("raw news upload failed", zap.String("key", key), zap.Error(err))
		return
	}
	i.log.Info("raw news landed", zap.String("key", key), zap.Int("bytes", len(data)))
}

// IngestStocks lands every symbol's raw price snapshot. Fetches run
// concurrently under a bounded errgroup; each symbol remains an
// independent unit with no shared state, and a failed symbol never
// stops the others.
func (i *Ingestor) IngestStocks(ctx context.Context, date time.Time) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.cfg.ConcurrentFetches)

	for _, symbol := range i.cfg.Symbols {
		g.Go(func() error {
			i.ingestStock(gctx, symbol, date)
			return nil
		})
	}
	_ = g.Wait()
}

func (i *Ingestor) ingestStock(ctx context.Context, symbol string, date time.Time) {
	data, err := i.fetchPrice(ctx, symbol)
	if err != nil {
		i.log.Warn("price fetch failed, symbol skipped this run",
			zap.String("symbol", symbol), zap.Error(err))
		return
	}

	key := storage.RawStockKey(symbol, date)
	if err := i.store.Put(ctx, key, data); err != nil {
		i.log.Error("raw price upload failed",
			zap.String("symbol", symbol), zap.String("key", key), zap.Error(err))
		return
	}
	i.log.Info("raw prices landed", zap.String("key", key), zap.Int("bytes", len(data)))
}
