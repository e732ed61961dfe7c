// Package sentiment implements a keyword-based polarity scorer
// (offline, deterministic, no external model). Article text maps to a
// polarity in [-1, 1] and a discrete label derived from a fixed
// threshold policy.
package sentiment

import (
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/equilake/equilake/pkg/models"
)

// labelThreshold is the fixed cutoff for the positive/negative labels.
// Boundary values map to neutral.
const labelThreshold = 0.1

// bullish / bearish keyword dictionaries (lowercase).
var bullishWords = map[string]float64{
	"bullish": 0.7, "rally": 0.6, "surge": 0.7, "upbeat": 0.5,
	"positive": 0.4, "growth": 0.4, "upgrade": 0.6, "outperform": 0.6,
	"strong": 0.4, "recovery": 0.5, "breakout": 0.6, "soar": 0.7,
	"record high": 0.7, "all-time high": 0.7, "beat": 0.5,
	"exceeds": 0.5, "beats estimate": 0.6, "expansion": 0.4,
	"profit": 0.3, "dividend": 0.4, "gain": 0.4, "jump": 0.5,
}

var bearishWords = map[string]float64{
	"bearish": 0.7, "crash": 0.8, "plunge": 0.7, "slump": 0.6,
	"negative": 0.4, "downgrade": 0.6, "underperform": 0.6,
	"weak": 0.4, "decline": 0.5, "loss": 0.4, "tumble": 0.6,
	"selloff": 0.7, "correction": 0.5, "recession": 0.6,
	"default": 0.7, "fraud": 0.8, "scam": 0.8, "investigation": 0.5,
	"miss": 0.5, "warning": 0.5, "concern": 0.3, "layoff": 0.5,
}

// Scorer maps free text to a sentiment score and label. Scoring never
// fails: any internal problem is absorbed and yields a neutral result.
type Scorer struct {
	log *zap.Logger
}

// New creates a scorer.
func New(log *zap.Logger) *Scorer {
	return &Scorer{log: log}
}

// Score returns the polarity and label for the given text. Empty or
// blank text scores exactly (0, neutral).
func (s *Scorer) Score(text string) (float64, models.SentimentLabel) {
	if strings.TrimSpace(text) == "" {
		return 0, models.SentimentNeutral
	}

	polarity := scoreText(text)
	if math.IsNaN(polarity) || math.IsInf(polarity, 0) {
		// Scoring failures are fully absorbed, never propagated.
		s.log.Warn("sentiment scoring produced a non-finite polarity",
			zap.Float64("polarity", polarity))
		return 0, models.SentimentNeutral
	}

	return polarity, Label(polarity)
}

// Label derives the discrete label from a polarity value.
func Label(polarity float64) models.SentimentLabel {
	switch {
	case polarity > labelThreshold:
		return models.SentimentPositive
	case polarity < -labelThreshold:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// scoreText computes the net keyword polarity, normalized to [-1, 1].
func scoreText(text string) float64 {
	lower := strings.ToLower(text)

	bullScore := 0.0
	bearScore := 0.0

	for word, weight := range bullishWords {
		if strings.Contains(lower, word) {
			bullScore += weight
		}
	}
	for word, weight := range bearishWords {
		if strings.Contains(lower, word) {
			bearScore += weight
		}
	}

	total := bullScore + bearScore
	if total == 0 {
		return 0
	}

	return (bullScore - bearScore) / total
}
