package domain

import "github.com/shopspring/decimal"

// CatalogProvider supplies card/set definitions. The engine polls it once
// per tick; it is never pushed to.
type CatalogProvider interface {
	ListSets() map[string]SetDefinition
}

// NotificationLevel grades a UI notification.
type NotificationLevel string

const (
	NotifyInfo    NotificationLevel = "info"
	NotifySuccess NotificationLevel = "success"
	NotifyWarning NotificationLevel = "warning"
)

// Notifier is the one-way UI boundary: a market-update ping after each
// tick and leveled notifications for wishlist alerts.
type Notifier interface {
	MarketUpdated()
	Notify(message string, level NotificationLevel)
}

// Wallet is the player-economy boundary. The engine reads the balance
// before a purchase and never silently overdraws it.
type Wallet interface {
	Balance() decimal.Decimal
	Debit(amount decimal.Decimal) error
	Credit(amount decimal.Decimal)
}

// RandomSource abstracts the engine's randomness so tests can inject a
// deterministic stream while preserving distribution shapes.
type RandomSource interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// Uniform returns a uniform value in [min, max).
	Uniform(min, max float64) float64
	// Intn returns a uniform int in [0, n).
	Intn(n int) int
}
