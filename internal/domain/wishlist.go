package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WishMatchTolerance lets an availability alert fire when the best listing
// is up to 10% above the declared cap.
var WishMatchTolerance = decimal.NewFromFloat(1.10)

// WishlistEntry is a user-declared target card. Unique per (key, isFoil).
type WishlistEntry struct {
	Key      CardKey          `json:"key"`
	IsFoil   bool             `json:"is_foil"`
	MaxPrice *decimal.Decimal `json:"max_price,omitempty"`
	Priority int              `json:"priority"`
	AddedAt  time.Time        `json:"added_at"`
}

// Matches reports whether a listing price satisfies the entry's cap,
// within the standard tolerance. An unset cap matches any price.
func (w *WishlistEntry) Matches(price decimal.Decimal) bool {
	if w.MaxPrice == nil {
		return true
	}
	return price.LessThanOrEqual(w.MaxPrice.Mul(WishMatchTolerance))
}
