package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/equilake/equilake/internal/config"
	"github.com/equilake/equilake/internal/sentiment"
	"github.com/equilake/equilake/internal/snapshot"
	"github.com/equilake/equilake/internal/storage"
	"github.com/equilake/equilake/pkg/models"
)

// Pipeline runs the normalization and enrichment passes over one day's
// raw snapshots. Every failure below the configuration level is
// recovered locally: a bad unit (the news batch, or one symbol) is
// logged and abandoned until the next scheduled run.
type Pipeline struct {
	cfg    *config.Config
	store  storage.BlobStore
	writer *snapshot.Writer
	news   *NewsNormalizer
	prices *PriceNormalizer
	log    *zap.Logger
}

// New wires a pipeline from its collaborators.
func New(cfg *config.Config, store storage.BlobStore, log *zap.Logger) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		store:  store,
		writer: snapshot.NewWriter(store, log),
		news:   NewNewsNormalizer(sentiment.New(log), log),
		prices: NewPriceNormalizer(log),
		log:    log,
	}
}

// Run processes the news batch and then each symbol sequentially.
func (p *Pipeline) Run(ctx context.Context, date time.Time) {
	p.ProcessNews(ctx, date)
	p.ProcessStocks(ctx, date)
}

// ProcessNews normalizes, scores, validates, and writes the day's news
// snapshot.
func (p *Pipeline) ProcessNews(ctx context.Context, date time.Time) {
	key := storage.RawNewsKey(p.cfg.NewsQuery, date)
	raw, err := p.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			p.log.Warn("no raw news snapshot for this run", zap.String("key", key))
		} else {
			p.log.Error("raw news download failed", zap.String("key", key), zap.Error(err))
		}
		return
	}

	var payload models.RawNewsPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		p.log.Error("raw news payload is not valid JSON", zap.String("key", key), zap.Error(err))
		return
	}
	if len(payload.Articles) == 0 {
		p.log.Warn("no articles found in the raw data", zap.String("key", key))
		return
	}

	records := p.news.NormalizeBatch(payload)
	records = ValidateNews(records, p.log)
	if len(records) == 0 {
		p.log.Warn("no valid news records after filtering", zap.String("key", key))
		return
	}

	outcomes := p.writer.WriteNews(ctx, records, date)
	p.logOutcomes("news", outcomes)
}

// ProcessStocks processes every configured symbol, one at a time. A
// failed symbol never affects the others.
func (p *Pipeline) ProcessStocks(ctx context.Context, date time.Time) {
	for _, symbol := range p.cfg.Symbols {
		p.ProcessStock(ctx, symbol, date)
	}
}

// ProcessStock normalizes and writes one symbol's price snapshot.
func (p *Pipeline) ProcessStock(ctx context.Context, symbol string, date time.Time) {
	key := storage.RawStockKey(symbol, date)
	raw, err := p.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			p.log.Warn("no raw price snapshot for this run",
				zap.String("symbol", symbol), zap.String("key", key))
		} else {
			p.log.Error("raw price download failed",
				zap.String("symbol", symbol), zap.String("key", key), zap.Error(err))
		}
		return
	}

	records, err := p.prices.NormalizeSeries(symbol, raw)
	if err != nil {
		p.log.Error("price normalization failed, symbol abandoned this run",
			zap.String("symbol", symbol), zap.Error(err))
		return
	}
	if len(records) == 0 {
		return
	}

	outcomes := p.writer.WriteStocks(ctx, symbol, records, date)
	p.logOutcomes("stocks", outcomes)
}

// logOutcomes summarizes per-encoding upload results. Partial failure
// is reported but deliberately not escalated.
func (p *Pipeline) logOutcomes(dataset string, outcomes []snapshot.Outcome) {
	failed := 0
	for _, o := range outcomes {
		if !o.OK() {
			failed++
		}
	}
	if failed > 0 {
		p.log.Warn("snapshot written with partial upload failures",
			zap.String("dataset", dataset),
			zap.Int("failed", failed),
			zap.Int("total", len(outcomes)))
	}
}
