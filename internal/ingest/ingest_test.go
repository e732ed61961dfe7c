package ingest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/equilake/equilake/internal/config"
	"github.com/equilake/equilake/internal/storage"
)

var ingestDate = time.Date(2024, 1, 5, 6, 30, 0, 0, time.UTC)

func testConfig(symbols ...string) *config.Config {
	return &config.Config{
		S3Bucket:          "test",
		Symbols:           symbols,
		NewsQuery:         "stocks",
		ConcurrentFetches: 2,
	}
}

func TestRunLandsRawSnapshots(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	news := func(ctx context.Context) ([]byte, error) {
		return []byte(`{"articles":[]}`), nil
	}
	price := func(ctx context.Context, symbol string) ([]byte, error) {
		return []byte(fmt.Sprintf(`{"symbol":%q}`, symbol)), nil
	}

	New(testConfig("AAPL", "TSLA"), store, news, price, zap.NewNop()).Run(ctx, ingestDate)

	assert.Equal(t, []string{
		"raw/news/stocks_2024-01-05.json",
		"raw/stocks/AAPL_2024-01-05.json",
		"raw/stocks/TSLA_2024-01-05.json",
	}, store.Keys())
}

func TestFailedFetchSkipsUnit(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	news := func(ctx context.Context) ([]byte, error) {
		return nil, fmt.Errorf("status 401")
	}
	price := func(ctx context.Context, symbol string) ([]byte, error) {
		if symbol == "AAPL" {
			return nil, fmt.Errorf("connection refused")
		}
		return []byte(`{}`), nil
	}

	New(testConfig("AAPL", "MSFT"), store, news, price, zap.NewNop()).Run(ctx, ingestDate)

	// The failed units land nothing; the healthy symbol still does.
	assert.Equal(t, []string{"raw/stocks/MSFT_2024-01-05.json"}, store.Keys())
}

func TestIngestOverwritesSameDayKeys(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	calls := 0
	news := func(ctx context.Context) ([]byte, error) {
		calls++
		return []byte(fmt.Sprintf(`{"run":%d}`, calls)), nil
	}
	price := func(ctx context.Context, symbol string) ([]byte, error) {
		return []byte(`{}`), nil
	}

	ing := New(testConfig(), store, news, price, zap.NewNop())
	ing.IngestNews(ctx, ingestDate)
	ing.IngestNews(ctx, ingestDate)

	data, err := store.Get(ctx, "raw/news/stocks_2024-01-05.json")
	require.NoError(t, err)
	assert.Equal(t, `{"run":2}`, string(data))
	assert.Len(t, store.Keys(), 1)
}
