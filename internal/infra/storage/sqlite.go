package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"cardmarket/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// snapshotRow is the single opaque persistence unit: the serialized market
// state as one blob. There is no partial or delta persistence.
type snapshotRow struct {
	ID      uint   `gorm:"primaryKey"`
	Data    []byte `gorm:"not null"`
	SavedAt time.Time
}

func (snapshotRow) TableName() string { return "market_snapshots" }

// Storage persists market snapshots in SQLite.
type Storage struct {
	db *gorm.DB
}

// NewStorage creates a SQLite storage instance at path. An empty path
// resolves to the per-user config directory.
func NewStorage(path string) (*Storage, error) {
	dbPath := path
	if dbPath == "" {
		resolved, err := defaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve DB path: %w", err)
		}
		dbPath = resolved
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&snapshotRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// defaultDBPath resolves the database file path based on OS
func defaultDBPath() (string, error) {
	var configDir string
	var err error

	if runtime.GOOS == "windows" {
		configDir = os.Getenv("LOCALAPPDATA")
		if configDir == "" {
			configDir, err = os.UserConfigDir()
		}
	} else {
		configDir, err = os.UserConfigDir()
	}

	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "CardMarket", "data", "market.db"), nil
}

// SaveSnapshot serializes and stores the snapshot, replacing any prior
// one. The market only ever has one save.
func (s *Storage) SaveSnapshot(snap any, savedAt time.Time) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return &domain.SnapshotError{Op: "encode", Err: err}
	}
	row := snapshotRow{ID: 1, Data: data, SavedAt: savedAt}
	if err := s.db.Save(&row).Error; err != nil {
		return &domain.SnapshotError{Op: "save", Err: err}
	}
	return nil
}

// LoadSnapshot reads the stored snapshot into out. Returns
// domain.ErrSnapshotNotFound when nothing has been saved yet.
func (s *Storage) LoadSnapshot(out any) error {
	var row snapshotRow
	err := s.db.First(&row, "id = ?", 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrSnapshotNotFound
	}
	if err != nil {
		return &domain.SnapshotError{Op: "load", Err: err}
	}
	if err := json.Unmarshal(row.Data, out); err != nil {
		return &domain.SnapshotError{Op: "decode", Err: err}
	}
	return nil
}
