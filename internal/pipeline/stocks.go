package pipeline

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/equilake/equilake/pkg/models"
)

// Alpha Vantage signals error/limit conditions by replacing the series
// with marker fields. These sentinels follow the provider's actual
// contract: "Note" and "Information" are rate-limit responses,
// "Error Message" is an API error.
const (
	seriesKey = "Time Series (Daily)"

	sentinelNote        = "Note"
	sentinelInformation = "Information"
	sentinelError       = "Error Message"
)

var rateLimitSentinels = []string{sentinelNote, sentinelInformation}

// PriceNormalizer converts raw daily price series into canonical
// PriceRecord batches.
type PriceNormalizer struct {
	log *zap.Logger
}

// NewPriceNormalizer creates a price normalizer.
func NewPriceNormalizer(log *zap.Logger) *PriceNormalizer {
	return &PriceNormalizer{log: log}
}

// NormalizeSeries converts one raw payload into the symbol's record
// batch, newest first. Sentinel responses and a missing or empty series
// produce zero records without error; a coercion failure on any row
// aborts the whole symbol.
func (p *PriceNormalizer) NormalizeSeries(symbol string, raw []byte) ([]models.PriceRecord, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse payload for %s: %w", symbol, err)
	}

	for _, marker := range rateLimitSentinels {
		if msg, ok := doc[marker]; ok {
			p.log.Warn("rate limit hit, no data this run",
				zap.String("symbol", symbol),
				zap.String("marker", marker),
				zap.String("message", compactJSON(msg)))
			return nil, nil
		}
	}
	if msg, ok := doc[sentinelError]; ok {
		p.log.Warn("upstream API error, no data this run",
			zap.String("symbol", symbol),
			zap.String("marker", sentinelError),
			zap.String("message", compactJSON(msg)))
		return nil, nil
	}

	seriesRaw, ok := doc[seriesKey]
	if !ok {
		p.log.Warn("no daily series in payload", zap.String("symbol", symbol))
		return nil, nil
	}

	var series map[string]map[string]string
	if err := json.Unmarshal(seriesRaw, &series); err != nil {
		return nil, fmt.Errorf("parse daily series for %s: %w", symbol, err)
	}
	if len(series) == 0 {
		p.log.Warn("empty daily series", zap.String("symbol", symbol))
		return nil, nil
	}

	upper := strings.ToUpper(symbol)
	records := make([]models.PriceRecord, 0, len(series))
	for dateStr, bar := range series {
		rec, err := normalizeBar(upper, dateStr, bar)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
	return records, nil
}

// normalizeBar coerces one date-keyed OHLCV entry into a PriceRecord.
func normalizeBar(symbol, dateStr string, bar map[string]string) (models.PriceRecord, error) {
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return models.PriceRecord{}, fmt.Errorf("%s: bad series date %q: %w", symbol, dateStr, err)
	}

	open, err := priceField(bar, "1. open")
	if err != nil {
		return models.PriceRecord{}, fmt.Errorf("%s %s: %w", symbol, dateStr, err)
	}
	high, err := priceField(bar, "2. high")
	if err != nil {
		return models.PriceRecord{}, fmt.Errorf("%s %s: %w", symbol, dateStr, err)
	}
	low, err := priceField(bar, "3. low")
	if err != nil {
		return models.PriceRecord{}, fmt.Errorf("%s %s: %w", symbol, dateStr, err)
	}
	closing, err := priceField(bar, "4. close")
	if err != nil {
		return models.PriceRecord{}, fmt.Errorf("%s %s: %w", symbol, dateStr, err)
	}

	volume, err := strconv.ParseInt(bar["5. volume"], 10, 64)
	if err != nil {
		return models.PriceRecord{}, fmt.Errorf("%s %s: bad volume %q: %w", symbol, dateStr, bar["5. volume"], err)
	}
	if volume < 0 {
		return models.PriceRecord{}, fmt.Errorf("%s %s: negative volume %d", symbol, dateStr, volume)
	}

	return models.PriceRecord{
		Date:   date,
		Symbol: symbol,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closing,
		Volume: volume,
	}, nil
}

// priceField coerces one named price field to float64.
func priceField(bar map[string]string, key string) (float64, error) {
	v, err := strconv.ParseFloat(bar[key], 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s %q: %w", key, bar[key], err)
	}
	return v, nil
}

// compactJSON renders a raw JSON value as a short single-line string
// for log output.
func compactJSON(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
