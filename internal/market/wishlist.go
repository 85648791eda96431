package market

import (
	"sort"
	"time"

	"cardmarket/internal/domain"

	"github.com/shopspring/decimal"
)

type wishKey struct {
	Key    domain.CardKey
	IsFoil bool
}

// WishlistTracker manages user-declared target cards. Entries are unique
// per (card, foilness) and auto-removed on fulfillment.
type WishlistTracker struct {
	entries map[wishKey]*domain.WishlistEntry
}

// NewWishlistTracker creates an empty tracker.
func NewWishlistTracker() *WishlistTracker {
	return &WishlistTracker{entries: make(map[wishKey]*domain.WishlistEntry)}
}

// Add upserts an entry. A repeated add for the same card/foil pair
// replaces the price cap and priority but keeps the original AddedAt.
func (w *WishlistTracker) Add(key domain.CardKey, isFoil bool, maxPrice *decimal.Decimal, priority int, now time.Time) *domain.WishlistEntry {
	wk := wishKey{Key: key, IsFoil: isFoil}
	if existing, ok := w.entries[wk]; ok {
		existing.MaxPrice = maxPrice
		existing.Priority = priority
		return existing
	}
	entry := &domain.WishlistEntry{
		Key:      key,
		IsFoil:   isFoil,
		MaxPrice: maxPrice,
		Priority: priority,
		AddedAt:  now,
	}
	w.entries[wk] = entry
	return entry
}

// Remove deletes an entry. Reports whether one existed.
func (w *WishlistTracker) Remove(key domain.CardKey, isFoil bool) bool {
	wk := wishKey{Key: key, IsFoil: isFoil}
	if _, ok := w.entries[wk]; !ok {
		return false
	}
	delete(w.entries, wk)
	return true
}

// Get returns the entry for a card/foil pair, or nil.
func (w *WishlistTracker) Get(key domain.CardKey, isFoil bool) *domain.WishlistEntry {
	return w.entries[wishKey{Key: key, IsFoil: isFoil}]
}

// Fulfill removes the matching entry after a purchase of that card/foil
// pair. Fulfillment is presence-based: any purchase of the pair clears
// the wish, whether or not it satisfied the price cap. Returns the
// removed entry or nil.
func (w *WishlistTracker) Fulfill(key domain.CardKey, isFoil bool) *domain.WishlistEntry {
	wk := wishKey{Key: key, IsFoil: isFoil}
	entry, ok := w.entries[wk]
	if !ok {
		return nil
	}
	delete(w.entries, wk)
	return entry
}

// Entries returns all entries, highest priority first, oldest first
// within a priority.
func (w *WishlistTracker) Entries() []*domain.WishlistEntry {
	out := make([]*domain.WishlistEntry, 0, len(w.entries))
	for _, e := range w.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].AddedAt.Before(out[j].AddedAt)
	})
	return out
}

// Len returns the number of entries.
func (w *WishlistTracker) Len() int {
	return len(w.entries)
}
