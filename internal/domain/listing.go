package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxListingsPerCard caps every listing bucket.
const MaxListingsPerCard = 5

// TraderType is a behavioral archetype shaping listing price and hold time.
type TraderType string

const (
	TraderCasual    TraderType = "casual"
	TraderFlipper   TraderType = "flipper"
	TraderCollector TraderType = "collector"
	TraderWhale     TraderType = "whale"
	// TraderPlayer tags listings placed by the human player.
	TraderPlayer TraderType = "player"
)

// TraderProfile describes how one archetype prices and holds its listings.
// Weight is un-normalized; selection normalizes over the table.
type TraderProfile struct {
	Type            TraderType
	Weight          float64
	PriceMultiplier float64 // applied to the market price before variance
	HoldDays        int     // listing duration in days
	QuantityFactor  float64 // scales the per-rarity quantity roll
}

// TraderProfiles is the fixed archetype table, selection-weighted.
var TraderProfiles = []TraderProfile{
	{Type: TraderCasual, Weight: 0.3, PriceMultiplier: 0.95, HoldDays: 3, QuantityFactor: 1.5},
	{Type: TraderFlipper, Weight: 0.6, PriceMultiplier: 1.10, HoldDays: 1, QuantityFactor: 1.0},
	{Type: TraderCollector, Weight: 0.1, PriceMultiplier: 1.25, HoldDays: 7, QuantityFactor: 1.0},
	{Type: TraderWhale, Weight: 0.05, PriceMultiplier: 1.05, HoldDays: 2, QuantityFactor: 0.5},
}

// ListingChance is the per-rarity probability of filling a free bucket slot
// on a given tick.
var ListingChance = map[Rarity]float64{
	RarityCommon:   0.8,
	RarityUncommon: 0.6,
	RarityRare:     0.3,
	RarityMythic:   0.1,
}

// QuantityRange bounds the quantity roll for a listing of a given rarity.
type QuantityRange struct {
	Min int
	Max int
}

// ListingQuantities maps rarity to the quantity range before the trader's
// QuantityFactor is applied.
var ListingQuantities = map[Rarity]QuantityRange{
	RarityCommon:   {Min: 1, Max: 8},
	RarityUncommon: {Min: 1, Max: 5},
	RarityRare:     {Min: 1, Max: 3},
	RarityMythic:   {Min: 1, Max: 2},
}

// Listing is a synthetic sell offer sitting in a card's bucket.
type Listing struct {
	Key        CardKey         `json:"key"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	IsFoil     bool            `json:"is_foil"`
	SellerID   string          `json:"seller_id"`
	SellerType TraderType      `json:"seller_type"`
	ListedAt   time.Time       `json:"listed_at"`
	Duration   time.Duration   `json:"duration"`
}

// Expired reports whether the listing has outlived its duration.
func (l *Listing) Expired(now time.Time) bool {
	return now.Sub(l.ListedAt) >= l.Duration
}

// Total returns price times quantity.
func (l *Listing) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
