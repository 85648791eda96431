package market

import (
	"time"

	"cardmarket/internal/domain"
)

// Snapshot is the single opaque persistence unit: the whole market state,
// no partials, no deltas.
type Snapshot struct {
	SavedAt    time.Time              `json:"saved_at"`
	Sentiment  float64                `json:"sentiment"`
	Prices     []domain.PriceRecord   `json:"prices"`
	Supply     []domain.SupplyRecord  `json:"supply"`
	History    []HistorySeries        `json:"history"`
	Listings   []domain.Listing       `json:"listings"`
	Wishlist   []domain.WishlistEntry `json:"wishlist"`
	Activity   domain.ActivityLog     `json:"activity"`
	Backfilled bool                   `json:"backfilled"`
}

// HistorySeries pairs a card with its stored points.
type HistorySeries struct {
	Key    domain.CardKey      `json:"key"`
	Points []domain.PricePoint `json:"points"`
}

// Snapshot captures the full state. It shares the read lock with display
// reads and therefore never interleaves with a tick.
func (e *Engine) Snapshot(now time.Time) *Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	snap := &Snapshot{
		SavedAt:    now,
		Sentiment:  e.sentiment,
		Activity:   domain.ActivityLog{Entries: append([]domain.ActivityEntry(nil), e.activity.Entries...)},
		Backfilled: e.backfilled,
	}
	e.prices.Each(func(rec *domain.PriceRecord) {
		snap.Prices = append(snap.Prices, *rec)
	})
	e.supply.Each(func(rec *domain.SupplyRecord) {
		snap.Supply = append(snap.Supply, *rec)
	})
	e.history.Each(func(key domain.CardKey, pts []domain.PricePoint) {
		snap.History = append(snap.History, HistorySeries{
			Key:    key,
			Points: append([]domain.PricePoint(nil), pts...),
		})
	})
	e.listings.Each(func(l *domain.Listing) {
		snap.Listings = append(snap.Listings, *l)
	})
	for _, entry := range e.wishlist.Entries() {
		snap.Wishlist = append(snap.Wishlist, *entry)
	}
	return snap
}

// Restore replaces the engine state with a snapshot. The snapshot schema
// is validated and repaired here, once, rather than with scattered checks
// on every later access: nil slices load as empty state, sub-floor prices
// snap to the floor, over-cap buckets lose their surplus, and sentiment is
// clamped back into range.
func (e *Engine) Restore(snap *Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.prices = NewPriceBook(e.rng, e.params)
	e.supply = NewSupplyLedger(e.params.SupplyImpact)
	e.history = NewHistoryStore(e.rng)
	e.demand = NewDemandQueue(e.rng)
	e.listings = NewListingBook(e.rng, e.params)
	e.wishlist = NewWishlistTracker()
	e.activity = domain.ActivityLog{}
	e.pendingVolume = make(map[domain.CardKey]int)

	if snap == nil {
		e.sentiment = 1.0
		e.backfilled = false
		return
	}

	e.sentiment = clampSentiment(snap.Sentiment)
	e.backfilled = snap.Backfilled

	for _, rec := range snap.Prices {
		r := rec
		if r.Current.LessThan(domain.PriceFloor) {
			r.Current = domain.PriceFloor
		}
		if r.Base.LessThan(domain.PriceFloor) {
			r.Base = domain.PriceFloor
		}
		if r.Foil.LessThan(domain.PriceFloor) {
			r.Foil = domain.PriceFloor
		}
		if r.Trend == "" {
			r.Trend = domain.TrendStable
		}
		e.prices.records[r.Key] = &r
	}

	for _, rec := range snap.Supply {
		r := rec
		if r.TotalOpened < 0 {
			r.TotalOpened = 0
		}
		if r.MarketSupply < 0 {
			r.MarketSupply = 0
		}
		e.supply.records[r.Key] = &r
	}

	for _, series := range snap.History {
		if len(series.Points) == 0 {
			continue
		}
		e.history.Replace(series.Key, append([]domain.PricePoint(nil), series.Points...))
	}

	for _, l := range snap.Listings {
		listing := l
		if listing.Price.LessThan(domain.PriceFloor) {
			listing.Price = domain.PriceFloor
		}
		if listing.Quantity < 1 {
			listing.Quantity = 1
		}
		// Add enforces the bucket cap; surplus from a corrupt snapshot
		// is dropped here.
		e.listings.Add(&listing)
	}

	for _, entry := range snap.Wishlist {
		w := entry
		e.wishlist.entries[wishKey{Key: w.Key, IsFoil: w.IsFoil}] = &w
	}

	for _, entry := range snap.Activity.Entries {
		e.activity.Append(entry)
	}
}

func clampSentiment(v float64) float64 {
	if v == 0 {
		// Missing field in a partial snapshot: neutral mood.
		return 1.0
	}
	if v < SentimentMin {
		return SentimentMin
	}
	if v > SentimentMax {
		return SentimentMax
	}
	return v
}
