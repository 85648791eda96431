// Package catalog supplies card/set definitions to the engine. The engine
// polls a provider once per tick and lazily registers whatever appears;
// malformed entries are skipped with a warning, never fatal.
package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"cardmarket/internal/domain"

	"gopkg.in/yaml.v3"
)

// FileProvider reads set definitions from a yaml file. The file is
// re-read when its mtime changes, so sets added while the simulator runs
// show up on the next tick.
type FileProvider struct {
	path string

	mu      sync.Mutex
	loaded  map[string]domain.SetDefinition
	modTime time.Time
}

// NewFileProvider loads the catalog file. The initial load must succeed;
// later reload failures keep serving the last good catalog.
func NewFileProvider(path string) (*FileProvider, error) {
	p := &FileProvider{path: path}
	if err := p.reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// ListSets returns the current catalog, reloading if the file changed.
func (p *FileProvider) ListSets() map[string]domain.SetDefinition {
	p.mu.Lock()
	defer p.mu.Unlock()

	if info, err := os.Stat(p.path); err == nil && info.ModTime().After(p.modTime) {
		if err := p.reload(); err != nil {
			slog.Warn("catalog reload failed, keeping previous",
				slog.String("path", p.path), slog.Any("error", err))
		}
	}
	return p.loaded
}

// catalogFile mirrors the on-disk layout. Each set node is decoded
// separately so one malformed entry cannot poison the rest.
type catalogFile struct {
	Sets map[string]yaml.Node `yaml:"sets"`
}

type rawSet struct {
	Cards               map[string][]string `yaml:"cards"`
	IsWeekly            bool                `yaml:"is_weekly"`
	Lifecycle           string              `yaml:"lifecycle"`
	PackPriceMultiplier float64             `yaml:"pack_price_multiplier"`
}

func (p *FileProvider) reload() error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return err
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse catalog: %w", err)
	}

	sets := make(map[string]domain.SetDefinition, len(file.Sets))
	for setID, node := range file.Sets {
		def, err := decodeSet(setID, &node)
		if err != nil {
			slog.Warn("skipping malformed catalog entry", slog.Any("error", err))
			continue
		}
		sets[setID] = def
	}

	p.loaded = sets
	if info, err := os.Stat(p.path); err == nil {
		p.modTime = info.ModTime()
	}
	return nil
}

// decodeSet validates one entry: it needs at least one well-formed rarity
// bucket; unknown rarities within an otherwise valid set are dropped.
func decodeSet(setID string, node *yaml.Node) (domain.SetDefinition, error) {
	var raw rawSet
	if err := node.Decode(&raw); err != nil {
		return domain.SetDefinition{}, &domain.CatalogError{SetID: setID, Err: err}
	}
	if len(raw.Cards) == 0 {
		return domain.SetDefinition{}, &domain.CatalogError{
			SetID: setID,
			Err:   fmt.Errorf("no rarity buckets"),
		}
	}

	cards := make(map[domain.Rarity][]string)
	for rarityName, names := range raw.Cards {
		rarity, err := domain.ParseRarity(rarityName)
		if err != nil {
			slog.Warn("dropping unknown rarity bucket",
				slog.String("set", setID), slog.String("rarity", rarityName))
			continue
		}
		cards[rarity] = names
	}
	if len(cards) == 0 {
		return domain.SetDefinition{}, &domain.CatalogError{
			SetID: setID,
			Err:   fmt.Errorf("no valid rarity buckets"),
		}
	}

	mult := raw.PackPriceMultiplier
	if mult <= 0 {
		mult = 1.0
	}
	return domain.SetDefinition{
		SetID:               setID,
		Cards:               cards,
		IsWeekly:            raw.IsWeekly,
		Lifecycle:           raw.Lifecycle,
		PackPriceMultiplier: mult,
	}, nil
}
