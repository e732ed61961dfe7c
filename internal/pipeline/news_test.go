package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/equilake/equilake/internal/sentiment"
	"github.com/equilake/equilake/pkg/models"
)

func newTestNormalizer() *NewsNormalizer {
	return NewNewsNormalizer(sentiment.New(zap.NewNop()), zap.NewNop())
}

func TestNormalizeArticleFull(t *testing.T) {
	n := newTestNormalizer()

	rec, ok := n.NormalizeArticle(map[string]any{
		"title":       "Stocks rally",
		"content":     "Markets surge on strong earnings",
		"publishedAt": "2024-01-05T10:00:00Z",
		"source":      map[string]any{"name": "Reuters"},
		"url":         " https://example.com/a ",
		"urlToImage":  "https://example.com/a.png",
	})
	require.True(t, ok)

	assert.Equal(t, "Stocks rally", rec.Title)
	assert.Equal(t, "Markets surge on strong earnings", rec.Content)
	assert.Equal(t, "Reuters", rec.Source)
	assert.Equal(t, "https://example.com/a", rec.URL)
	assert.Equal(t, "2024-01-05T10:00:00Z", rec.PublishedRaw)
	assert.Equal(t, models.SentimentPositive, rec.SentimentLabel)
	assert.Greater(t, rec.SentimentScore, 0.1)
}

func TestNormalizeArticleContentFallsBackToTitle(t *testing.T) {
	n := newTestNormalizer()

	rec, ok := n.NormalizeArticle(map[string]any{
		"title":   "  Fed holds rates steady  ",
		"content": "",
	})
	require.True(t, ok)
	assert.Equal(t, "Fed holds rates steady", rec.Title)
	assert.Equal(t, "Fed holds rates steady", rec.Content)
}

func TestNormalizeArticleSkipsWhenNoText(t *testing.T) {
	n := newTestNormalizer()

	cases := []map[string]any{
		{},
		{"title": "", "content": ""},
		{"title": "   ", "content": nil},
		{"title": nil, "content": 42}, // non-string fields default to ""
	}
	for _, article := range cases {
		_, ok := n.NormalizeArticle(article)
		assert.False(t, ok, "article %v should be skipped", article)
	}
}

func TestNormalizeArticleToleratesMalformedFields(t *testing.T) {
	n := newTestNormalizer()

	rec, ok := n.NormalizeArticle(map[string]any{
		"title":       "Quiet session on Wall Street",
		"content":     nil,
		"publishedAt": 12345,
		"source":      "not-an-object",
		"url":         false,
	})
	require.True(t, ok)
	assert.Equal(t, "", rec.Source)
	assert.Equal(t, "", rec.URL)
	assert.Equal(t, "", rec.PublishedRaw)
}

func TestValidateNewsDropsInvalidRows(t *testing.T) {
	batch := []models.NewsRecord{
		{Title: "Good row", PublishedRaw: "2024-01-05T10:00:00Z"},
		{Title: "Permissive timestamp", PublishedRaw: "Jan 5, 2024 10:00am"},
		{Title: "", PublishedRaw: "2024-01-05T10:00:00Z"},
		{Title: "Bad timestamp", PublishedRaw: "not-a-date"},
		{Title: "Empty timestamp", PublishedRaw: ""},
	}

	valid := ValidateNews(batch, zap.NewNop())
	require.Len(t, valid, 2)
	assert.Equal(t, "Good row", valid[0].Title)
	assert.Equal(t, "Permissive timestamp", valid[1].Title)
	for _, rec := range valid {
		assert.False(t, rec.PublishedAt.IsZero())
	}
}

func TestNormalizeBatchExcludesEmptyArticles(t *testing.T) {
	n := newTestNormalizer()

	payload := models.RawNewsPayload{Articles: []map[string]any{
		{"title": "Kept", "publishedAt": "2024-01-05T10:00:00Z"},
		{"title": "", "content": ""},
	}}

	records := n.NormalizeBatch(payload)
	require.Len(t, records, 1)
	assert.Equal(t, "Kept", records[0].Title)
}
