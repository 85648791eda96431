package market

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cardmarket/internal/domain"
	"cardmarket/internal/infra"

	"github.com/shopspring/decimal"
)

// Engine owns the entire market state and drives it forward one tick at a
// time. All mutation (ticks and user-triggered actions alike) runs on a
// single logical timeline behind one write lock; display reads share a
// read lock. A tick always runs to completion: teardown only stops
// scheduling of future ticks.
type Engine struct {
	mu       sync.RWMutex
	params   Params
	rng      domain.RandomSource
	catalog  domain.CatalogProvider
	notifier domain.Notifier
	wallet   domain.Wallet

	prices   *PriceBook
	supply   *SupplyLedger
	history  *HistoryStore
	demand   *DemandQueue
	listings *ListingBook
	wishlist *WishlistTracker
	activity domain.ActivityLog

	sentiment float64

	weeklySets map[string]bool
	backfilled bool

	// pendingVolume accumulates buy quantities per card between history
	// points; it becomes the next point's volume.
	pendingVolume map[domain.CardKey]int
}

// NewEngine wires an engine from its collaborators. notifier and wallet
// may be nil (headless simulation).
func NewEngine(catalog domain.CatalogProvider, notifier domain.Notifier, wallet domain.Wallet, rng domain.RandomSource, params Params) *Engine {
	return &Engine{
		params:        params,
		rng:           rng,
		catalog:       catalog,
		notifier:      notifier,
		wallet:        wallet,
		prices:        NewPriceBook(rng, params),
		supply:        NewSupplyLedger(params.SupplyImpact),
		history:       NewHistoryStore(rng),
		demand:        NewDemandQueue(rng),
		listings:      NewListingBook(rng, params),
		wishlist:      NewWishlistTracker(),
		sentiment:     1.0,
		weeklySets:    make(map[string]bool),
		pendingVolume: make(map[domain.CardKey]int),
	}
}

// Tick runs one full market update. The phase order is load-bearing:
// demand events must be current before repricing, and listings price off
// the just-updated current price rather than a stale one.
func (e *Engine) Tick(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	started := time.Now()

	e.scanCatalog(now)
	e.backfillOnce(now)
	e.walkSentiment()
	e.simulateBackgroundSupply()
	e.updateDemand(now)
	e.repriceAll(now)
	e.updateListings(now)
	e.sweepWishlist()
	e.history.Prune(now)

	infra.GlobalMetrics.RecordTick()
	infra.GlobalMetrics.RecordTickLatency(time.Since(started).Nanoseconds())
	if e.notifier != nil {
		e.notifier.MarketUpdated()
	}
}

// scanCatalog polls the provider and lazily registers newly appeared
// cards. Empty or unpopulated sets produce no registrations; the provider
// already skipped malformed entries.
func (e *Engine) scanCatalog(now time.Time) {
	for setID, def := range e.catalog.ListSets() {
		e.weeklySets[setID] = def.IsWeekly
		for _, cw := range def.Keys() {
			if e.prices.Has(cw.Key) {
				continue
			}
			e.prices.Register(cw.Key, cw.Rarity, def.PackPriceMultiplier, now)
			e.supply.Ensure(cw.Key)
		}
	}
}

// backfillOnce synthesizes chart history for permanent-catalog cards the
// first time the engine sees them without enough real history.
func (e *Engine) backfillOnce(now time.Time) {
	if e.backfilled {
		return
	}
	n := 0
	e.prices.Each(func(rec *domain.PriceRecord) {
		if e.weeklySets[rec.Key.SetID] {
			return
		}
		if e.history.BackfillIfNeeded(rec.Key, rec.Base, e.params.Volatility, now) {
			n++
		}
	})
	if n > 0 {
		slog.Info("history backfilled", slog.Int("cards", n))
	}
	e.backfilled = true
}

// walkSentiment moves the global mood multiplier by a bounded random step
// and clamps it into [SentimentMin, SentimentMax].
func (e *Engine) walkSentiment() {
	e.sentiment += e.params.SentimentStep * (2*e.rng.Float64() - 1)
	if e.sentiment < SentimentMin {
		e.sentiment = SentimentMin
	}
	if e.sentiment > SentimentMax {
		e.sentiment = SentimentMax
	}
}

// simulateBackgroundSupply gives every card a tiny chance of a phantom
// "opened" event, standing in for the wider player base cracking packs.
func (e *Engine) simulateBackgroundSupply() {
	e.prices.Each(func(rec *domain.PriceRecord) {
		if domain.Chance(e.rng, e.params.PhantomOpenChance) {
			e.supply.RecordOpened(rec.Key)
		}
	})
}

func (e *Engine) updateDemand(now time.Time) {
	e.demand.Expire(now)
	e.prices.Each(func(rec *domain.PriceRecord) {
		if ev := e.demand.MaybeCreate(rec.Key, now); ev != nil {
			infra.GlobalMetrics.RecordDemandEvent()
			slog.Debug("demand event",
				slog.String("card", ev.Key.String()),
				slog.String("type", string(ev.Type)))
		}
	})
}

func (e *Engine) repriceAll(now time.Time) {
	e.prices.Each(func(rec *domain.PriceRecord) {
		e.prices.Reprice(rec.Key,
			e.supply.Reduction(rec.Key),
			e.demand.Multiplier(rec.Key, now),
			e.sentiment)
		if e.history.AppendIfDue(rec.Key, rec.Current, e.pendingVolume[rec.Key], now) {
			delete(e.pendingVolume, rec.Key)
		}
	})
}

// updateListings runs the marketplace churn: expiry, trader backfill of
// free slots, then ambient AI purchases.
func (e *Engine) updateListings(now time.Time) {
	for _, l := range e.listings.ExpireListings(now) {
		e.recordActivity(domain.ActivityExpire, l, now)
	}

	e.prices.Each(func(rec *domain.PriceRecord) {
		for _, l := range e.listings.FillSlots(rec, now) {
			infra.GlobalMetrics.RecordListing()
			e.recordActivity(domain.ActivityList, l, now)
		}
	})

	for _, l := range e.listings.AmbientBuys() {
		infra.GlobalMetrics.RecordPurchase()
		e.recordActivity(domain.ActivityBuy, l, now)
		e.pendingVolume[l.Key] += l.Quantity
		// Player listings bought by simulated demand pay out.
		if l.SellerType == domain.TraderPlayer && e.wallet != nil {
			e.wallet.Credit(l.Total())
		}
	}
}

// sweepWishlist checks every entry against the cheapest matching listing
// and pushes an availability notification on a hit.
func (e *Engine) sweepWishlist() {
	if e.notifier == nil {
		return
	}
	for _, entry := range e.wishlist.Entries() {
		best := e.listings.BestPrice(entry.Key, entry.IsFoil)
		if best == nil || !entry.Matches(best.Price) {
			continue
		}
		e.notifier.Notify(
			fmt.Sprintf("Wishlist: %s available at $%s", entry.Key, best.Price.StringFixed(2)),
			domain.NotifyInfo)
		infra.GlobalMetrics.RecordNotification()
	}
}

func (e *Engine) recordActivity(typ domain.ActivityType, l *domain.Listing, now time.Time) {
	e.activity.Append(domain.ActivityEntry{
		Type:      typ,
		Key:       l.Key,
		Price:     l.Price,
		Quantity:  l.Quantity,
		IsFoil:    l.IsFoil,
		Timestamp: now,
	})
}

// RecordPacksOpened counts physical cards drawn from opened packs, one
// call entry per copy, foil or not.
func (e *Engine) RecordPacksOpened(keys ...domain.CardKey) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, key := range keys {
		e.supply.RecordOpened(key)
	}
}

// Purchase buys the index-th listing of the sorted, foil-filtered view of
// a card's bucket. It never overdraws the wallet and removes exactly the
// resolved listing, by identity. Never raises: failures come back as a
// structured result.
func (e *Engine) Purchase(key domain.CardKey, isFoil bool, index int, now time.Time) domain.OpResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	view := e.listings.Available(key, &isFoil)
	if index < 0 || index >= len(view) {
		return domain.Fail("listing no longer available")
	}
	l := view[index]
	total := l.Total()

	if e.wallet != nil {
		if e.wallet.Balance().LessThan(total) {
			return domain.Fail("insufficient funds")
		}
		if err := e.wallet.Debit(total); err != nil {
			return domain.Fail(err.Error())
		}
		if l.SellerType == domain.TraderPlayer {
			// Buying back an own listing nets out.
			e.wallet.Credit(total)
		}
	}

	e.listings.Remove(l)
	infra.GlobalMetrics.RecordPurchase()
	e.recordActivity(domain.ActivityBuy, l, now)
	e.pendingVolume[key] += l.Quantity

	if entry := e.wishlist.Fulfill(key, isFoil); entry != nil && e.notifier != nil {
		e.notifier.Notify(fmt.Sprintf("Wishlist fulfilled: %s", key), domain.NotifySuccess)
	}

	return domain.Ok(fmt.Sprintf("bought %dx %s for $%s", l.Quantity, key.Name, total.StringFixed(2)))
}

// Sell places a player listing for a card the player owns. A zero or
// negative asking price defaults to the current book price. The bucket
// cap applies to player listings too.
func (e *Engine) Sell(key domain.CardKey, isFoil bool, askPrice decimal.Decimal, quantity int, now time.Time) domain.OpResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	if quantity < 1 {
		return domain.Fail("quantity must be at least 1")
	}
	rec := e.prices.Record(key)
	if rec == nil {
		return domain.Fail("unknown card")
	}
	if !askPrice.IsPositive() {
		askPrice = rec.Price(isFoil)
	}
	if askPrice.LessThan(domain.PriceFloor) {
		askPrice = domain.PriceFloor
	}

	l := &domain.Listing{
		Key:        key,
		Price:      askPrice,
		Quantity:   quantity,
		IsFoil:     isFoil,
		SellerID:   "player",
		SellerType: domain.TraderPlayer,
		ListedAt:   now,
		Duration:   7 * 24 * time.Hour,
	}
	if !e.listings.Add(l) {
		return domain.Fail("no free listing slots for this card")
	}
	infra.GlobalMetrics.RecordListing()
	e.recordActivity(domain.ActivityList, l, now)
	return domain.Ok(fmt.Sprintf("listed %dx %s at $%s", quantity, key.Name, askPrice.StringFixed(2)))
}

// AddWish upserts a wishlist entry and immediately checks availability.
func (e *Engine) AddWish(key domain.CardKey, isFoil bool, maxPrice *decimal.Decimal, priority int, now time.Time) domain.OpResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry := e.wishlist.Add(key, isFoil, maxPrice, priority, now)
	if best := e.listings.BestPrice(key, isFoil); best != nil && entry.Matches(best.Price) && e.notifier != nil {
		e.notifier.Notify(
			fmt.Sprintf("Wishlist: %s available at $%s", key, best.Price.StringFixed(2)),
			domain.NotifyInfo)
		infra.GlobalMetrics.RecordNotification()
	}
	return domain.Ok(fmt.Sprintf("watching %s", key))
}

// RemoveWish deletes a wishlist entry.
func (e *Engine) RemoveWish(key domain.CardKey, isFoil bool) domain.OpResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.wishlist.Remove(key, isFoil) {
		return domain.Fail("not on wishlist")
	}
	return domain.Ok(fmt.Sprintf("stopped watching %s", key))
}

// GetPrice returns the current price of a card variant, zero if unknown.
func (e *Engine) GetPrice(key domain.CardKey, isFoil bool) decimal.Decimal {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.prices.Price(key, isFoil)
}

// GetPriceRecord returns a copy of the full price record, ok=false if the
// card is unknown.
func (e *Engine) GetPriceRecord(key domain.CardKey) (domain.PriceRecord, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	rec := e.prices.Record(key)
	if rec == nil {
		return domain.PriceRecord{}, false
	}
	return *rec, true
}

// GetListings returns a card's listings sorted ascending by price. Pass
// nil to skip the foil filter. Unknown keys yield an empty view.
func (e *Engine) GetListings(key domain.CardKey, isFoil *bool) []*domain.Listing {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.listings.Available(key, isFoil)
}

// GetHistory returns the downsampled price series for a card window. The
// series always ends at the live valuation: repricing runs every tick but
// points are only sampled every 30 minutes, so between samples the stored
// tail lags the current price and a synthetic now-point closes the gap.
func (e *Engine) GetHistory(key domain.CardKey, windowHours int, now time.Time) []domain.PricePoint {
	e.mu.RLock()
	defer e.mu.RUnlock()

	pts := e.history.Query(key, windowHours, now)
	rec := e.prices.Record(key)
	if rec == nil || len(pts) == 0 {
		return pts
	}
	if !pts[len(pts)-1].Price.Equal(rec.Current) {
		pts = append(pts, domain.PricePoint{
			Timestamp: now,
			Price:     rec.Current,
			Volume:    e.pendingVolume[key],
		})
	}
	return pts
}

// GetActivity returns up to n recent activity entries, newest first.
func (e *Engine) GetActivity(n int) []domain.ActivityEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.activity.Recent(n)
}

// GetSupply returns a copy of a card's supply record, ok=false if unseen.
func (e *Engine) GetSupply(key domain.CardKey) (domain.SupplyRecord, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	rec := e.supply.Record(key)
	if rec == nil {
		return domain.SupplyRecord{}, false
	}
	return *rec, true
}

// ActiveDemand returns the unexpired demand event for a card, or nil.
func (e *Engine) ActiveDemand(key domain.CardKey, now time.Time) *domain.DemandEvent {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.demand.Active(key, now)
}

// Sentiment returns the current global mood multiplier.
func (e *Engine) Sentiment() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sentiment
}

// Wishlist returns the current entries, highest priority first.
func (e *Engine) Wishlist() []*domain.WishlistEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.wishlist.Entries()
}
