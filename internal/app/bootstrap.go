package app

import (
	"errors"
	"log/slog"
	"time"

	"cardmarket/internal/catalog"
	"cardmarket/internal/domain"
	"cardmarket/internal/infra"
	"cardmarket/internal/infra/push"
	"cardmarket/internal/infra/storage"
	"cardmarket/internal/market"

	"github.com/shopspring/decimal"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config  *infra.Config
	Storage *storage.Storage
	Catalog *catalog.FileProvider
	Hub     *push.Hub
	Wallet  *infra.MemoryWallet
	Engine  *market.Engine
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization: config, logger,
// storage, catalog, then the engine with any persisted state restored.
func (b *Bootstrap) Initialize(configPath string) error {
	slog.Info("🚀 Bootstrapping card market...")

	// 1. Load Config
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// 3. Initialize Storage (DB)
	store, err := storage.NewStorage(cfg.Storage.Path)
	if err != nil {
		return err
	}
	b.Storage = store
	slog.Info("✅ Database initialized")

	// 4. Catalog provider
	cat, err := catalog.NewFileProvider(cfg.Catalog.Path)
	if err != nil {
		return err
	}
	b.Catalog = cat
	slog.Info("✅ Catalog loaded", slog.Int("sets", len(cat.ListSets())))

	// 5. Push hub + wallet
	b.Hub = push.NewHub(cfg.Push.NotifyPerSec, cfg.Push.NotifyBurst)
	b.Wallet = infra.NewMemoryWallet(decimal.NewFromFloat(cfg.Wallet.StartingBalance))

	// 6. Engine, restored from the last snapshot when one exists.
	seed := cfg.Market.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	b.Engine = market.NewEngine(cat, b.Hub, b.Wallet, domain.NewRandomSource(seed), market.Params{
		Volatility:           cfg.Market.Volatility,
		MaxChangePct:         cfg.Market.MaxChangePct,
		SupplyImpact:         cfg.Market.SupplyImpact,
		PhantomOpenChance:    cfg.Market.PhantomOpenChance,
		FoilListingChance:    cfg.Market.FoilListingChance,
		ListingPriceVariance: cfg.Market.ListingPriceVariance,
		AmbientBuyMin:        cfg.Market.AmbientBuyMin,
		AmbientBuyMax:        cfg.Market.AmbientBuyMax,
		SentimentStep:        cfg.Market.SentimentStep,
	})

	var snap market.Snapshot
	switch err := store.LoadSnapshot(&snap); {
	case err == nil:
		b.Engine.Restore(&snap)
		slog.Info("✅ Market state restored", slog.Time("saved_at", snap.SavedAt))
	case errors.Is(err, domain.ErrSnapshotNotFound):
		slog.Info("No saved market, starting fresh")
	default:
		// A corrupt save must not brick the simulator.
		slog.Warn("Snapshot load failed, starting fresh", slog.Any("error", err))
	}

	return nil
}

// SaveState persists the full market snapshot. Runs under the engine's
// read lock, so it never interleaves with a tick.
func (b *Bootstrap) SaveState() error {
	now := time.Now()
	if err := b.Storage.SaveSnapshot(b.Engine.Snapshot(now), now); err != nil {
		infra.GlobalMetrics.RecordError()
		return err
	}
	infra.GlobalMetrics.RecordSnapshotSave()
	return nil
}
