package catalog

import "cardmarket/internal/domain"

// StaticProvider serves a fixed in-memory catalog. Used by tests and by
// the pack-opening layer when it owns set generation itself.
type StaticProvider struct {
	sets map[string]domain.SetDefinition
}

// NewStaticProvider builds a provider over the given sets.
func NewStaticProvider(sets ...domain.SetDefinition) *StaticProvider {
	m := make(map[string]domain.SetDefinition, len(sets))
	for _, s := range sets {
		m[s.SetID] = s
	}
	return &StaticProvider{sets: m}
}

// Add registers or replaces a set.
func (p *StaticProvider) Add(def domain.SetDefinition) {
	p.sets[def.SetID] = def
}

// ListSets returns the catalog.
func (p *StaticProvider) ListSets() map[string]domain.SetDefinition {
	return p.sets
}
