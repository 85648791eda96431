package market

import (
	"fmt"
	"math"
	"sort"
	"time"

	"cardmarket/internal/domain"

	"github.com/shopspring/decimal"
)

// ListingBook holds the synthetic sell offers, bucketed per card and
// capped at MaxListingsPerCard. The trader simulation that populates it
// lives here too.
type ListingBook struct {
	rng     domain.RandomSource
	params  Params
	buckets map[domain.CardKey][]*domain.Listing
}

// NewListingBook creates an empty book.
func NewListingBook(rng domain.RandomSource, params Params) *ListingBook {
	return &ListingBook{
		rng:     rng,
		params:  params,
		buckets: make(map[domain.CardKey][]*domain.Listing),
	}
}

// ExpireListings removes listings that outlived their duration and
// returns them for activity recording.
func (b *ListingBook) ExpireListings(now time.Time) []*domain.Listing {
	var expired []*domain.Listing
	for key, bucket := range b.buckets {
		kept := bucket[:0]
		for _, l := range bucket {
			if l.Expired(now) {
				expired = append(expired, l)
			} else {
				kept = append(kept, l)
			}
		}
		if len(kept) == 0 {
			delete(b.buckets, key)
		} else {
			b.buckets[key] = kept
		}
	}
	return expired
}

// FillSlots rolls the per-rarity listing chance for each free slot in the
// card's bucket and generates trader listings for the ones that hit.
// Returns the created listings.
func (b *ListingBook) FillSlots(rec *domain.PriceRecord, now time.Time) []*domain.Listing {
	chance := domain.ListingChance[rec.Rarity]
	free := domain.MaxListingsPerCard - len(b.buckets[rec.Key])
	var created []*domain.Listing
	for i := 0; i < free; i++ {
		if !domain.Chance(b.rng, chance) {
			continue
		}
		l := b.generateListing(rec, now)
		b.buckets[rec.Key] = append(b.buckets[rec.Key], l)
		created = append(created, l)
	}
	return created
}

// generateListing builds one synthetic offer for a card.
func (b *ListingBook) generateListing(rec *domain.PriceRecord, now time.Time) *domain.Listing {
	profile := b.pickTrader()
	isFoil := domain.Chance(b.rng, b.params.FoilListingChance)

	// Canonical foil valuation: the book's foil price, not a separate
	// listing-time multiplier.
	marketPrice := rec.Current
	if isFoil {
		marketPrice = rec.Foil
	}

	variance := 1 + b.params.ListingPriceVariance*(2*b.rng.Float64()-1)
	price := marketPrice.Mul(decimal.NewFromFloat(profile.PriceMultiplier * variance)).Round(2)
	if price.LessThan(domain.PriceFloor) {
		price = domain.PriceFloor
	}

	qr := domain.ListingQuantities[rec.Rarity]
	qty := qr.Min
	if qr.Max > qr.Min {
		qty += b.rng.Intn(qr.Max - qr.Min + 1)
	}
	qty = int(math.Round(float64(qty) * profile.QuantityFactor))
	if qty < 1 {
		qty = 1
	}

	return &domain.Listing{
		Key:        rec.Key,
		Price:      price,
		Quantity:   qty,
		IsFoil:     isFoil,
		SellerID:   fmt.Sprintf("npc-%04d", b.rng.Intn(10000)),
		SellerType: profile.Type,
		ListedAt:   now,
		Duration:   time.Duration(profile.HoldDays) * 24 * time.Hour,
	}
}

// pickTrader draws an archetype from the weighted profile table. Weights
// are un-normalized; normalize over their sum.
func (b *ListingBook) pickTrader() domain.TraderProfile {
	total := 0.0
	for _, p := range domain.TraderProfiles {
		total += p.Weight
	}
	roll := b.rng.Float64() * total
	acc := 0.0
	for _, p := range domain.TraderProfiles {
		acc += p.Weight
		if roll < acc {
			return p
		}
	}
	return domain.TraderProfiles[len(domain.TraderProfiles)-1]
}

// AmbientBuys removes a random 1-3% of all listings across all buckets,
// simulating background demand, and returns the bought listings. Removal
// is by identity, so the flattened snapshot never fights bucket indices.
func (b *ListingBook) AmbientBuys() []*domain.Listing {
	var all []*domain.Listing
	for _, bucket := range b.buckets {
		all = append(all, bucket...)
	}
	if len(all) == 0 {
		return nil
	}

	share := b.rng.Uniform(b.params.AmbientBuyMin, b.params.AmbientBuyMax)
	n := int(math.Round(float64(len(all)) * share))
	if n <= 0 {
		return nil
	}

	// Partial Fisher-Yates: the first n entries become the buys.
	for i := 0; i < n && i < len(all); i++ {
		j := i + b.rng.Intn(len(all)-i)
		all[i], all[j] = all[j], all[i]
	}
	bought := all[:n]
	for _, l := range bought {
		b.Remove(l)
	}
	return bought
}

// Add places a listing in its bucket. Fails when the bucket is full.
func (b *ListingBook) Add(l *domain.Listing) bool {
	bucket := b.buckets[l.Key]
	if len(bucket) >= domain.MaxListingsPerCard {
		return false
	}
	b.buckets[l.Key] = append(bucket, l)
	return true
}

// Remove deletes the exact listing object from its bucket. Identity-based:
// two listings with equal fields but different objects never alias.
func (b *ListingBook) Remove(target *domain.Listing) bool {
	bucket := b.buckets[target.Key]
	for i, l := range bucket {
		if l == target {
			bucket = append(bucket[:i], bucket[i+1:]...)
			if len(bucket) == 0 {
				delete(b.buckets, target.Key)
			} else {
				b.buckets[target.Key] = bucket
			}
			return true
		}
	}
	return false
}

// Available returns a card's listings sorted ascending by price,
// optionally filtered by foilness. The returned slice is a copy; the
// listings themselves are shared.
func (b *ListingBook) Available(key domain.CardKey, isFoil *bool) []*domain.Listing {
	bucket := b.buckets[key]
	out := make([]*domain.Listing, 0, len(bucket))
	for _, l := range bucket {
		if isFoil != nil && l.IsFoil != *isFoil {
			continue
		}
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Price.LessThan(out[j].Price)
	})
	return out
}

// BestPrice returns the cheapest matching listing, or nil.
func (b *ListingBook) BestPrice(key domain.CardKey, isFoil bool) *domain.Listing {
	view := b.Available(key, &isFoil)
	if len(view) == 0 {
		return nil
	}
	return view[0]
}

// BucketLen returns the raw bucket size for a card.
func (b *ListingBook) BucketLen(key domain.CardKey) int {
	return len(b.buckets[key])
}

// Each visits every listing.
func (b *ListingBook) Each(fn func(*domain.Listing)) {
	for _, bucket := range b.buckets {
		for _, l := range bucket {
			fn(l)
		}
	}
}

// Len returns the total listing count across all buckets.
func (b *ListingBook) Len() int {
	n := 0
	for _, bucket := range b.buckets {
		n += len(bucket)
	}
	return n
}
