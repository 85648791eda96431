package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// HistoryRetention bounds how far back price points are kept.
	HistoryRetention = 7 * 24 * time.Hour
	// HistorySampleInterval is the minimum spacing between stored points.
	HistorySampleInterval = 30 * time.Minute
)

// PricePoint is one sample in a card's price history, ordered ascending by
// timestamp. Volume counts buys recorded since the previous point.
type PricePoint struct {
	Timestamp time.Time       `json:"timestamp"`
	Price     decimal.Decimal `json:"price"`
	Volume    int             `json:"volume"`
}

// DownsampleInterval returns the minimum spacing between points returned
// for a query window of the given width.
func DownsampleInterval(windowHours int) time.Duration {
	switch {
	case windowHours <= 24:
		return 30 * time.Minute
	case windowHours <= 48:
		return 60 * time.Minute
	default:
		return 240 * time.Minute
	}
}
