package market

import (
	"time"

	"cardmarket/internal/domain"
)

// DemandQueue holds the transient per-card hype multipliers. At most one
// unexpired event exists per card.
type DemandQueue struct {
	rng    domain.RandomSource
	events map[domain.CardKey]*domain.DemandEvent
}

// NewDemandQueue creates an empty queue.
func NewDemandQueue(rng domain.RandomSource) *DemandQueue {
	return &DemandQueue{
		rng:    rng,
		events: make(map[domain.CardKey]*domain.DemandEvent),
	}
}

// Expire purges events past their expiry. Runs before repricing each tick
// so stale multipliers never leak into prices.
func (q *DemandQueue) Expire(now time.Time) int {
	n := 0
	for key, ev := range q.events {
		if ev.Expired(now) {
			delete(q.events, key)
			n++
		}
	}
	return n
}

// MaybeCreate rolls for a new demand event on one card. The summed
// per-type chance gates whether anything fires; the type itself is drawn
// weighted by those same chances. A card with an unexpired event is left
// alone. Returns the created event or nil.
func (q *DemandQueue) MaybeCreate(key domain.CardKey, now time.Time) *domain.DemandEvent {
	if ev, ok := q.events[key]; ok && !ev.Expired(now) {
		return nil
	}

	total := 0.0
	for _, spec := range domain.DemandEventSpecs {
		total += spec.Chance
	}

	roll := q.rng.Float64()
	if roll >= total {
		return nil
	}

	acc := 0.0
	for _, spec := range domain.DemandEventSpecs {
		acc += spec.Chance
		if roll < acc {
			ev := &domain.DemandEvent{
				Key:        key,
				Type:       spec.Type,
				Multiplier: spec.Multiplier,
				CreatedAt:  now,
				ExpiresAt:  now.Add(spec.Duration),
			}
			q.events[key] = ev
			return ev
		}
	}
	return nil
}

// Multiplier returns the active demand factor for a card, 1.0 if none.
func (q *DemandQueue) Multiplier(key domain.CardKey, now time.Time) float64 {
	ev, ok := q.events[key]
	if !ok || ev.Expired(now) {
		return 1.0
	}
	return ev.Multiplier
}

// Active returns the unexpired event for a card, or nil.
func (q *DemandQueue) Active(key domain.CardKey, now time.Time) *domain.DemandEvent {
	ev, ok := q.events[key]
	if !ok || ev.Expired(now) {
		return nil
	}
	return ev
}

// Len returns the number of tracked events, expired or not.
func (q *DemandQueue) Len() int {
	return len(q.events)
}
