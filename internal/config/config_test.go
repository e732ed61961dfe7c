package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFailsWithoutBucket(t *testing.T) {
	t.Setenv("S3_BUCKET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3_BUCKET")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("S3_BUCKET", "equilake-test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "equilake-test", cfg.S3Bucket)
	assert.Equal(t, DefaultSymbols, cfg.Symbols)
	assert.Equal(t, "stocks", cfg.NewsQuery)
	assert.Equal(t, "us-east-1", cfg.AWSRegion)
	assert.Positive(t, cfg.ConcurrentFetches)
}

func TestLoadSymbolsFromEnv(t *testing.T) {
	t.Setenv("S3_BUCKET", "equilake-test")
	t.Setenv("STOCK_SYMBOLS", "nvda, amd ,intc")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"NVDA", "AMD", "INTC"}, cfg.Symbols)
}

func TestCheckAPIKeys(t *testing.T) {
	t.Setenv("NEWS_API_KEY", "0123456789abcdef")

	cfg := &Config{
		S3Bucket:   "bucket",
		NewsAPIKey: "0123456789abcdef",
	}

	statuses := CheckAPIKeys(cfg)
	require.Len(t, statuses, 4)

	byName := map[string]KeyStatus{}
	for _, s := range statuses {
		byName[s.Name] = s
	}

	news := byName["NewsAPI Key"]
	assert.True(t, news.IsSet)
	assert.Equal(t, KeySourceEnv, news.Source)
	assert.Equal(t, "012...def", news.Masked)

	av := byName["Alpha Vantage Key"]
	assert.False(t, av.IsSet)
	assert.Equal(t, KeySourceNone, av.Source)
}
