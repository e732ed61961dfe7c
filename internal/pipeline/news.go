package pipeline

import (
	"github.com/araddon/dateparse"
	"go.uber.org/zap"

	"github.com/equilake/equilake/internal/sentiment"
	"github.com/equilake/equilake/pkg/models"
)

// NewsNormalizer converts raw articles into canonical NewsRecords.
type NewsNormalizer struct {
	scorer *sentiment.Scorer
	log    *zap.Logger
}

// NewNewsNormalizer creates a news normalizer.
func NewNewsNormalizer(scorer *sentiment.Scorer, log *zap.Logger) *NewsNormalizer {
	return &NewsNormalizer{scorer: scorer, log: log}
}

// NormalizeArticle converts one raw article into a NewsRecord. The
// second return value is false when the article carries no usable text
// and is silently excluded from the batch.
func (n *NewsNormalizer) NormalizeArticle(article map[string]any) (models.NewsRecord, bool) {
	title := stringField(article, "title")

	content := stringField(article, "content")
	if content == "" {
		content = title
	}
	if content == "" {
		return models.NewsRecord{}, false
	}

	score, label := n.scorer.Score(content)

	return models.NewsRecord{
		PublishedRaw:   stringField(article, "publishedAt"),
		Title:          title,
		Source:         nestedStringField(article, "source", "name"),
		Content:        content,
		URL:            stringField(article, "url"),
		URLToImage:     stringField(article, "urlToImage"),
		SentimentScore: score,
		SentimentLabel: label,
	}, true
}

// NormalizeBatch normalizes every article in a raw payload, excluding
// the unusable ones.
func (n *NewsNormalizer) NormalizeBatch(payload models.RawNewsPayload) []models.NewsRecord {
	records := make([]models.NewsRecord, 0, len(payload.Articles))
	for _, article := range payload.Articles {
		if rec, ok := n.NormalizeArticle(article); ok {
			records = append(records, rec)
		}
	}
	return records
}

// ValidateNews is the single batch-wide filtering pass: it parses each
// record's raw timestamp permissively and keeps only rows with a
// non-empty title and a parseable published_at. It runs once per run,
// after all per-article normalization.
func ValidateNews(batch []models.NewsRecord, log *zap.Logger) []models.NewsRecord {
	valid := make([]models.NewsRecord, 0, len(batch))
	for _, rec := range batch {
		if rec.Title == "" {
			continue
		}
		ts, err := dateparse.ParseAny(rec.PublishedRaw)
		if err != nil {
			log.Debug("dropping record with unparseable timestamp",
				zap.String("published_at", rec.PublishedRaw),
				zap.String("title", rec.Title))
			continue
		}
		rec.PublishedAt = ts
		valid = append(valid, rec)
	}
	return valid
}
