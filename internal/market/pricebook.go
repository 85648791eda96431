package market

import (
	"time"

	"cardmarket/internal/domain"

	"github.com/shopspring/decimal"
)

// foilMultiplierMin/Max bound the foil premium over the non-foil price.
const (
	foilMultiplierMin = 2.0
	foilMultiplierMax = 4.0
)

var percentHundred = decimal.NewFromInt(100)

// PriceBook owns the live valuation of every registered card. It carries
// no locking of its own; the Engine serializes all access.
type PriceBook struct {
	rng     domain.RandomSource
	params  Params
	records map[domain.CardKey]*domain.PriceRecord
}

// NewPriceBook creates an empty price book.
func NewPriceBook(rng domain.RandomSource, params Params) *PriceBook {
	return &PriceBook{
		rng:     rng,
		params:  params,
		records: make(map[domain.CardKey]*domain.PriceRecord),
	}
}

// Register lazily creates the price record for a newly sighted card.
// The base price is drawn from the rarity range with a u^1.5 power skew
// (most cards land cheap) scaled by the set's pack price multiplier.
// Registering an already known card is a no-op.
func (b *PriceBook) Register(key domain.CardKey, rarity domain.Rarity, setMultiplier float64, now time.Time) *domain.PriceRecord {
	if rec, ok := b.records[key]; ok {
		return rec
	}
	if setMultiplier <= 0 {
		setMultiplier = 1.0
	}

	base := decimal.NewFromFloat(b.basePriceFor(rarity, setMultiplier))
	rec := &domain.PriceRecord{
		Key:          key,
		Rarity:       rarity,
		Base:         base,
		Current:      base,
		Foil:         base.Mul(decimal.NewFromFloat(b.rng.Uniform(foilMultiplierMin, foilMultiplierMax))),
		Trend:        domain.TrendStable,
		RegisteredAt: now,
	}
	b.records[key] = rec
	return rec
}

func (b *PriceBook) basePriceFor(rarity domain.Rarity, setMultiplier float64) float64 {
	r, ok := domain.BasePriceRanges[rarity]
	if !ok {
		r = domain.BasePriceRanges[domain.RarityCommon]
	}
	// The set multiplier scales the spread, not the rarity minimum.
	return domain.SkewedUniform(b.rng, r.Min, r.Min+(r.Max-r.Min)*setMultiplier)
}

// Reprice recomputes one card's price from the base price and the current
// supply, demand and sentiment factors, plus bounded random noise.
//
// When the uncapped price collapses to the floor it snaps there directly;
// otherwise the move is clamped to MaxChangePct of the prior price while
// preserving its direction. The foil price is rederived from the fresh
// current price every tick, so it is independently noisy rather than a
// random walk of its own.
func (b *PriceBook) Reprice(key domain.CardKey, supplyReduction, demandMultiplier, sentiment float64) {
	rec, ok := b.records[key]
	if !ok {
		return
	}

	noise := 1 + b.params.Volatility*(2*b.rng.Float64()-1)
	factor := supplyReduction * demandMultiplier * sentiment * noise
	raw := rec.Base.Mul(decimal.NewFromFloat(factor))

	prev := rec.Current
	var next decimal.Decimal
	if raw.LessThanOrEqual(domain.PriceFloor) {
		next = domain.PriceFloor
	} else {
		maxDelta := prev.Mul(decimal.NewFromFloat(b.params.MaxChangePct))
		delta := raw.Sub(prev)
		switch {
		case delta.GreaterThan(maxDelta):
			next = prev.Add(maxDelta)
		case delta.Neg().GreaterThan(maxDelta):
			next = prev.Sub(maxDelta)
		default:
			next = raw
		}
		if next.LessThan(domain.PriceFloor) {
			next = domain.PriceFloor
		}
	}

	changePct := decimal.Zero
	if prev.IsPositive() {
		changePct = next.Sub(prev).Div(prev).Mul(percentHundred)
	}

	rec.Current = next
	rec.LastChangePct = changePct
	rec.Trend = trendFor(changePct)
	rec.Foil = next.Mul(decimal.NewFromFloat(b.rng.Uniform(foilMultiplierMin, foilMultiplierMax)))
}

func trendFor(changePct decimal.Decimal) domain.Trend {
	switch {
	case changePct.GreaterThan(decimal.NewFromInt(2)):
		return domain.TrendRising
	case changePct.LessThan(decimal.NewFromInt(-2)):
		return domain.TrendFalling
	default:
		return domain.TrendStable
	}
}

// Price returns the current price for a card variant. Unknown keys yield
// zero, never an error; a transient catalog mismatch must not halt the
// simulation.
func (b *PriceBook) Price(key domain.CardKey, isFoil bool) decimal.Decimal {
	rec, ok := b.records[key]
	if !ok {
		return decimal.Zero
	}
	return rec.Price(isFoil)
}

// Record returns the full price record, or nil for unknown keys.
func (b *PriceBook) Record(key domain.CardKey) *domain.PriceRecord {
	return b.records[key]
}

// Has reports whether a card is registered.
func (b *PriceBook) Has(key domain.CardKey) bool {
	_, ok := b.records[key]
	return ok
}

// Each visits every record. Mutation through the pointer is allowed; the
// Engine holds the write lock while ticking.
func (b *PriceBook) Each(fn func(*domain.PriceRecord)) {
	for _, rec := range b.records {
		fn(rec)
	}
}

// Len returns the number of registered cards.
func (b *PriceBook) Len() int {
	return len(b.records)
}
