package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"cardmarket/internal/domain"
)

const sampleCatalog = `
sets:
  alpha:
    lifecycle: permanent
    pack_price_multiplier: 1.0
    cards:
      common: [Ember Drake, Mire Toad]
      uncommon: [Gale Sprite]
      rare: [Sunken Reliquary]
      mythic: [Tidebound Leviathan]
  weekly_01:
    is_weekly: true
    lifecycle: weekly
    pack_price_multiplier: 1.5
    cards:
      common: [Paper Golem]
      rare: [Glass Cannon]
  broken:
    lifecycle: permanent
    cards: "not a mapping"
  empty:
    lifecycle: permanent
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestFileProvider_SkipsMalformedEntries(t *testing.T) {
	p, err := NewFileProvider(writeCatalog(t, sampleCatalog))
	if err != nil {
		t.Fatalf("NewFileProvider: %v", err)
	}

	sets := p.ListSets()
	if len(sets) != 2 {
		t.Fatalf("Expected 2 valid sets, got %d", len(sets))
	}
	if _, ok := sets["broken"]; ok {
		t.Error("Malformed set should be skipped")
	}
	if _, ok := sets["empty"]; ok {
		t.Error("Set without rarity buckets should be skipped")
	}

	alpha := sets["alpha"]
	if alpha.IsWeekly {
		t.Error("alpha should not be weekly")
	}
	if len(alpha.Cards[domain.RarityCommon]) != 2 {
		t.Errorf("Expected 2 commons in alpha, got %d", len(alpha.Cards[domain.RarityCommon]))
	}

	weekly := sets["weekly_01"]
	if !weekly.IsWeekly || weekly.PackPriceMultiplier != 1.5 {
		t.Errorf("weekly_01 parsed wrong: %+v", weekly)
	}
}

func TestFileProvider_UnknownRarityBucketDropped(t *testing.T) {
	path := writeCatalog(t, `
sets:
  oddball:
    cards:
      common: [Plain Card]
      legendary: [Fancy Card]
`)
	p, err := NewFileProvider(path)
	if err != nil {
		t.Fatalf("NewFileProvider: %v", err)
	}

	def, ok := p.ListSets()["oddball"]
	if !ok {
		t.Fatal("Set with one valid bucket should survive")
	}
	if len(def.Keys()) != 1 {
		t.Errorf("Expected only the common card, got %d keys", len(def.Keys()))
	}
}

func TestFileProvider_MissingFile(t *testing.T) {
	if _, err := NewFileProvider(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing catalog file")
	}
}

func TestSetDefinition_Keys(t *testing.T) {
	def := domain.SetDefinition{
		SetID: "alpha",
		Cards: map[domain.Rarity][]string{
			domain.RarityCommon: {"A", "B"},
			domain.RarityMythic: {"C"},
		},
	}

	keys := def.Keys()
	if len(keys) != 3 {
		t.Fatalf("Expected 3 keys, got %d", len(keys))
	}
	for _, cw := range keys {
		if cw.Key.SetID != "alpha" {
			t.Errorf("Wrong set id: %s", cw.Key.SetID)
		}
	}
}
