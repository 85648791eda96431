package market

// Params bundles the simulation constants. Values come from configuration;
// DefaultParams mirrors the tuning the simulator ships with.
type Params struct {
	// Volatility bounds the per-tick random noise factor (±).
	Volatility float64
	// MaxChangePct clamps a single tick's price move relative to the
	// prior price.
	MaxChangePct float64
	// SupplyImpact converts cumulative pack openings into price pressure.
	SupplyImpact float64
	// PhantomOpenChance is the per-card chance of a background "opened"
	// event each tick, simulating other players cracking packs.
	PhantomOpenChance float64
	// FoilListingChance is the chance a generated listing is foil.
	FoilListingChance float64
	// ListingPriceVariance spreads listing prices around the market price.
	ListingPriceVariance float64
	// AmbientBuyMin/Max bound the share of all listings bought by
	// background demand each tick.
	AmbientBuyMin float64
	AmbientBuyMax float64
	// SentimentStep is the max per-tick move of the global sentiment walk.
	SentimentStep float64
}

// DefaultParams returns the stock tuning.
func DefaultParams() Params {
	return Params{
		Volatility:           0.05,
		MaxChangePct:         0.15,
		SupplyImpact:         0.005,
		PhantomOpenChance:    0.02,
		FoilListingChance:    0.15,
		ListingPriceVariance: 0.15,
		AmbientBuyMin:        0.01,
		AmbientBuyMax:        0.03,
		SentimentStep:        0.02,
	}
}

// Sentiment bounds; the global mood multiplier random-walks inside them.
const (
	SentimentMin = 0.8
	SentimentMax = 1.2
)
