package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxActivityEntries bounds the in-memory activity log.
const MaxActivityEntries = 100

// ActivityType classifies a market event for the activity feed.
type ActivityType string

const (
	ActivityList   ActivityType = "list"
	ActivityBuy    ActivityType = "buy"
	ActivityExpire ActivityType = "expire"
)

// ActivityEntry is one append-only record of marketplace churn.
type ActivityEntry struct {
	Type      ActivityType    `json:"type"`
	Key       CardKey         `json:"key"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	IsFoil    bool            `json:"is_foil"`
	Timestamp time.Time       `json:"timestamp"`
}

// ActivityLog keeps the most recent MaxActivityEntries entries, newest last.
type ActivityLog struct {
	Entries []ActivityEntry `json:"entries"`
}

// Append adds an entry, evicting the oldest once the log is full.
func (l *ActivityLog) Append(e ActivityEntry) {
	l.Entries = append(l.Entries, e)
	if len(l.Entries) > MaxActivityEntries {
		l.Entries = l.Entries[len(l.Entries)-MaxActivityEntries:]
	}
}

// Recent returns up to n entries, newest first.
func (l *ActivityLog) Recent(n int) []ActivityEntry {
	if n <= 0 || n > len(l.Entries) {
		n = len(l.Entries)
	}
	out := make([]ActivityEntry, 0, n)
	for i := len(l.Entries) - 1; i >= len(l.Entries)-n; i-- {
		out = append(out, l.Entries[i])
	}
	return out
}
