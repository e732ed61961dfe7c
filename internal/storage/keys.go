package storage

import (
	"fmt"
	"strings"
	"time"
)

// dateLayout is the calendar-date component of every partition key.
const dateLayout = "2006-01-02"

// RawNewsKey returns the key for a raw news snapshot:
// raw/news/<query>_<YYYY-MM-DD>.json
func RawNewsKey(query string, date time.Time) string {
	return fmt.Sprintf("raw/news/%s_%s.json", query, date.Format(dateLayout))
}

// RawStockKey returns the key for a raw price snapshot:
// raw/stocks/<SYMBOL>_<YYYY-MM-DD>.json
func RawStockKey(symbol string, date time.Time) string {
	return fmt.Sprintf("raw/stocks/%s_%s.json", strings.ToUpper(symbol), date.Format(dateLayout))
}

// ProcessedNewsKey returns the key for a processed news snapshot in the
// given encoding ("csv" or "parquet"):
// processed/news/processed_news_<YYYY-MM-DD>.<ext>
func ProcessedNewsKey(date time.Time, ext string) string {
	return fmt.Sprintf("processed/news/processed_news_%s.%s", date.Format(dateLayout), ext)
}

// ProcessedStockKey returns the key for a processed price snapshot:
// processed/stocks/processed_stocks_<SYMBOL>_<YYYY-MM-DD>.parquet
func ProcessedStockKey(symbol string, date time.Time) string {
	return fmt.Sprintf("processed/stocks/processed_stocks_%s_%s.parquet",
		strings.ToUpper(symbol), date.Format(dateLayout))
}
