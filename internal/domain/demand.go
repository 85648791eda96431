package domain

import "time"

// DemandEventType names the hype source behind a transient price spike.
type DemandEventType string

const (
	DemandMetaShift      DemandEventType = "meta_shift"
	DemandTournamentPlay DemandEventType = "tournament_play"
	DemandContentCreator DemandEventType = "content_creator"
	DemandSpeculation    DemandEventType = "speculation"
)

// DemandEventSpec fixes the multiplier, lifetime and trigger chance of one
// event type. Chance both gates whether any event fires for a card on a
// tick (summed over the table) and weights which type is drawn.
type DemandEventSpec struct {
	Type       DemandEventType
	Multiplier float64
	Duration   time.Duration
	Chance     float64
}

// DemandEventSpecs is the fixed event type table.
var DemandEventSpecs = []DemandEventSpec{
	{Type: DemandMetaShift, Multiplier: 1.5, Duration: time.Hour, Chance: 0.002},
	{Type: DemandTournamentPlay, Multiplier: 2.0, Duration: 2 * time.Hour, Chance: 0.001},
	{Type: DemandContentCreator, Multiplier: 1.8, Duration: 30 * time.Minute, Chance: 0.0015},
	{Type: DemandSpeculation, Multiplier: 1.3, Duration: 15 * time.Minute, Chance: 0.003},
}

// DemandEvent is a time-boxed price multiplier attached to one card.
// At most one unexpired event exists per card at any instant.
type DemandEvent struct {
	Key        CardKey         `json:"key"`
	Type       DemandEventType `json:"type"`
	Multiplier float64         `json:"multiplier"`
	CreatedAt  time.Time       `json:"created_at"`
	ExpiresAt  time.Time       `json:"expires_at"`
}

// Expired reports whether the event is past its expiry.
func (e *DemandEvent) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}
