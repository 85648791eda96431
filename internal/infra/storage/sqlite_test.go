package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"cardmarket/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *Storage {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := db.AutoMigrate(&snapshotRow{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	return &Storage{db: db}
}

type testState struct {
	Sentiment float64            `json:"sentiment"`
	Cards     map[string]float64 `json:"cards"`
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	s := setupTestDB(t)

	in := testState{
		Sentiment: 1.05,
		Cards:     map[string]float64{"alpha/Ember Drake": 2.34},
	}

	if err := s.SaveSnapshot(in, time.Now()); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	var out testState
	if err := s.LoadSnapshot(&out); err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if out.Sentiment != 1.05 {
		t.Errorf("expected sentiment 1.05, got %v", out.Sentiment)
	}
	if out.Cards["alpha/Ember Drake"] != 2.34 {
		t.Errorf("expected card price 2.34, got %v", out.Cards["alpha/Ember Drake"])
	}
}

func TestSaveReplacesPriorSnapshot(t *testing.T) {
	s := setupTestDB(t)

	s.SaveSnapshot(testState{Sentiment: 0.9}, time.Now())
	if err := s.SaveSnapshot(testState{Sentiment: 1.1}, time.Now()); err != nil {
		t.Fatalf("second SaveSnapshot failed: %v", err)
	}

	var out testState
	if err := s.LoadSnapshot(&out); err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if out.Sentiment != 1.1 {
		t.Errorf("expected latest snapshot to win, got sentiment %v", out.Sentiment)
	}

	var count int64
	s.db.Model(&snapshotRow{}).Count(&count)
	if count != 1 {
		t.Errorf("expected a single snapshot row, got %d", count)
	}
}

func TestLoadMissingSnapshot(t *testing.T) {
	s := setupTestDB(t)

	var out testState
	err := s.LoadSnapshot(&out)
	if !errors.Is(err, domain.ErrSnapshotNotFound) {
		t.Errorf("expected ErrSnapshotNotFound, got %v", err)
	}
}
