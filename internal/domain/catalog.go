package domain

// SetDefinition describes one card set as supplied by the catalog.
// Cards maps rarity to the card names printed at that rarity.
type SetDefinition struct {
	SetID               string              `yaml:"-" json:"set_id"`
	Cards               map[Rarity][]string `yaml:"cards" json:"cards"`
	IsWeekly            bool                `yaml:"is_weekly" json:"is_weekly"`
	Lifecycle           string              `yaml:"lifecycle" json:"lifecycle"`
	PackPriceMultiplier float64             `yaml:"pack_price_multiplier" json:"pack_price_multiplier"`
}

// Keys enumerates every card in the set as (key, rarity) pairs.
func (s *SetDefinition) Keys() []CardWithRarity {
	var out []CardWithRarity
	for _, r := range Rarities {
		for _, name := range s.Cards[r] {
			out = append(out, CardWithRarity{Key: CardKey{SetID: s.SetID, Name: name}, Rarity: r})
		}
	}
	return out
}

// CardWithRarity pairs a card key with its printed rarity.
type CardWithRarity struct {
	Key    CardKey
	Rarity Rarity
}
