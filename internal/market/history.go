package market

import (
	"sort"
	"time"

	"cardmarket/internal/domain"

	"github.com/shopspring/decimal"
)

// backfillSpacing is the point spacing used when synthesizing history for
// catalog entries that predate the history store.
const backfillSpacing = 4 * time.Hour

// backfillAgeThreshold: an entry with no point older than this is assumed
// to lack real history and gets the synthetic series.
const backfillAgeThreshold = 5 * 24 * time.Hour

// HistoryStore keeps the bounded per-card price time-series used for
// charting. Points are held ascending by timestamp.
type HistoryStore struct {
	rng    domain.RandomSource
	points map[domain.CardKey][]domain.PricePoint
}

// NewHistoryStore creates an empty store.
func NewHistoryStore(rng domain.RandomSource) *HistoryStore {
	return &HistoryStore{
		rng:    rng,
		points: make(map[domain.CardKey][]domain.PricePoint),
	}
}

// AppendIfDue appends a point only when the card has no history yet or at
// least the sampling interval has passed since the last point. Reports
// whether a point was stored.
func (h *HistoryStore) AppendIfDue(key domain.CardKey, price decimal.Decimal, volume int, now time.Time) bool {
	pts := h.points[key]
	if len(pts) > 0 && now.Sub(pts[len(pts)-1].Timestamp) < domain.HistorySampleInterval {
		return false
	}
	h.points[key] = append(pts, domain.PricePoint{Timestamp: now, Price: price, Volume: volume})
	return true
}

// Prune drops points older than the retention window. Runs every tick.
func (h *HistoryStore) Prune(now time.Time) {
	cutoff := now.Add(-domain.HistoryRetention)
	for key, pts := range h.points {
		i := 0
		for i < len(pts) && pts[i].Timestamp.Before(cutoff) {
			i++
		}
		if i > 0 {
			h.points[key] = append(pts[:0:0], pts[i:]...)
		}
	}
}

// Query returns the ascending points inside the window, greedily
// downsampled to the window's resolution. The most recent point is always
// included even when under-spaced, so the series ends at "now".
func (h *HistoryStore) Query(key domain.CardKey, windowHours int, now time.Time) []domain.PricePoint {
	pts := h.points[key]
	if len(pts) == 0 {
		return nil
	}

	cutoff := now.Add(-time.Duration(windowHours) * time.Hour)
	interval := domain.DownsampleInterval(windowHours)

	var out []domain.PricePoint
	var lastKept time.Time
	for _, p := range pts {
		if p.Timestamp.Before(cutoff) {
			continue
		}
		if len(out) == 0 || p.Timestamp.Sub(lastKept) >= interval {
			out = append(out, p)
			lastKept = p.Timestamp
		}
	}

	newest := pts[len(pts)-1]
	if len(out) == 0 || !out[len(out)-1].Timestamp.Equal(newest.Timestamp) {
		out = append(out, newest)
	}
	return out
}

// BackfillIfNeeded synthesizes a 7-day series around the base price for a
// card whose history does not reach back at least 5 days. The synthetic
// points use the same bounded-noise generator as live repricing, merge
// without duplicating timestamps, and the result stays ascending. This is
// a one-time compatibility shim for catalogs that predate the store, not
// a recurring process.
func (h *HistoryStore) BackfillIfNeeded(key domain.CardKey, base decimal.Decimal, volatility float64, now time.Time) bool {
	pts := h.points[key]
	if len(pts) > 0 && now.Sub(pts[0].Timestamp) >= backfillAgeThreshold {
		return false
	}

	existing := make(map[int64]bool, len(pts))
	for _, p := range pts {
		existing[p.Timestamp.Unix()] = true
	}

	merged := pts
	for ts := now.Add(-domain.HistoryRetention); ts.Before(now); ts = ts.Add(backfillSpacing) {
		if existing[ts.Unix()] {
			continue
		}
		noise := 1 + volatility*(2*h.rng.Float64()-1)
		price := base.Mul(decimal.NewFromFloat(noise))
		if price.LessThan(domain.PriceFloor) {
			price = domain.PriceFloor
		}
		merged = append(merged, domain.PricePoint{Timestamp: ts, Price: price})
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Timestamp.Before(merged[j].Timestamp)
	})
	h.points[key] = merged
	return true
}

// Points returns the raw stored series for a card.
func (h *HistoryStore) Points(key domain.CardKey) []domain.PricePoint {
	return h.points[key]
}

// Each visits every stored series.
func (h *HistoryStore) Each(fn func(domain.CardKey, []domain.PricePoint)) {
	for key, pts := range h.points {
		fn(key, pts)
	}
}

// Replace installs a series wholesale (snapshot restore).
func (h *HistoryStore) Replace(key domain.CardKey, pts []domain.PricePoint) {
	sort.Slice(pts, func(i, j int) bool {
		return pts[i].Timestamp.Before(pts[j].Timestamp)
	})
	h.points[key] = pts
}
