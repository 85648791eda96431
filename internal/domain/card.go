package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CardKey identifies a single catalog entry: a card name within a set.
type CardKey struct {
	SetID string `json:"set_id"`
	Name  string `json:"name"`
}

func (k CardKey) String() string {
	return k.SetID + "/" + k.Name
}

// Rarity drives the base price range and listing probability of a card.
type Rarity string

const (
	RarityCommon   Rarity = "common"
	RarityUncommon Rarity = "uncommon"
	RarityRare     Rarity = "rare"
	RarityMythic   Rarity = "mythic"
)

// Rarities lists all rarities in ascending value order.
var Rarities = []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityMythic}

// ParseRarity validates a rarity string from catalog data.
func ParseRarity(s string) (Rarity, error) {
	switch Rarity(s) {
	case RarityCommon, RarityUncommon, RarityRare, RarityMythic:
		return Rarity(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRarity, s)
}

// PriceRange bounds the base price drawn for a rarity at registration.
type PriceRange struct {
	Min float64
	Max float64
}

// BasePriceRanges maps each rarity to its base price range in dollars.
var BasePriceRanges = map[Rarity]PriceRange{
	RarityCommon:   {Min: 0.05, Max: 0.50},
	RarityUncommon: {Min: 0.25, Max: 2.00},
	RarityRare:     {Min: 1.00, Max: 15.00},
	RarityMythic:   {Min: 5.00, Max: 50.00},
}

// Trend classifies the last price movement of a card.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
)

// PriceFloor is the lowest price any card can reach.
var PriceFloor = decimal.NewFromFloat(0.01)

// PriceRecord holds the live market valuation of one card.
// Current never drops below PriceFloor, and outside a floor snap a single
// tick moves it by at most 15% of the prior value.
type PriceRecord struct {
	Key           CardKey         `json:"key"`
	Rarity        Rarity          `json:"rarity"`
	Current       decimal.Decimal `json:"current"`
	Base          decimal.Decimal `json:"base"`
	Foil          decimal.Decimal `json:"foil"`
	LastChangePct decimal.Decimal `json:"last_change_pct"`
	Trend         Trend           `json:"trend"`
	RegisteredAt  time.Time       `json:"registered_at"`
}

// Price returns the current valuation for the requested variant.
func (p *PriceRecord) Price(isFoil bool) decimal.Decimal {
	if isFoil {
		return p.Foil
	}
	return p.Current
}

// SupplyRecord accumulates pack-opening pressure for one card.
// TotalOpened only ever grows; there is no supply sink.
type SupplyRecord struct {
	Key          CardKey `json:"key"`
	TotalOpened  int64   `json:"total_opened"`
	MarketSupply int64   `json:"market_supply"`
}

// Reduction converts cumulative openings into a price dampening factor:
// max(0, 1 - totalOpened*impact).
func (s *SupplyRecord) Reduction(impact float64) float64 {
	r := 1.0 - float64(s.TotalOpened)*impact
	if r < 0 {
		return 0
	}
	return r
}
