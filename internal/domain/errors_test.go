package domain

import (
	"errors"
	"testing"
)

func TestCatalogError(t *testing.T) {
	baseErr := errors.New("missing rarity buckets")
	err := &CatalogError{SetID: "alpha", Err: baseErr}

	if err.Error() != "catalog error [alpha]: missing rarity buckets" {
		t.Errorf("Error message = %q", err.Error())
	}

	if !errors.Is(err, baseErr) {
		t.Error("Expected error to wrap baseErr")
	}
}

func TestSnapshotError(t *testing.T) {
	baseErr := errors.New("disk full")
	err := &SnapshotError{Op: "save", Err: baseErr}

	if err.Error() != "snapshot save: disk full" {
		t.Errorf("Error message = %q", err.Error())
	}

	if !errors.Is(err, baseErr) {
		t.Error("Expected error to wrap baseErr")
	}
}

func TestParseRarity(t *testing.T) {
	t.Run("known rarities", func(t *testing.T) {
		for _, r := range Rarities {
			got, err := ParseRarity(string(r))
			if err != nil || got != r {
				t.Errorf("ParseRarity(%q) = %v, %v", r, got, err)
			}
		}
	})

	t.Run("unknown rarity", func(t *testing.T) {
		_, err := ParseRarity("legendary")
		if !errors.Is(err, ErrInvalidRarity) {
			t.Errorf("Expected ErrInvalidRarity, got %v", err)
		}
	})
}

func TestOpResult(t *testing.T) {
	ok := Ok("bought")
	if !ok.Success || ok.Message != "bought" {
		t.Errorf("Ok() = %+v", ok)
	}

	fail := Fail("no listing")
	if fail.Success || fail.Message != "no listing" {
		t.Errorf("Fail() = %+v", fail)
	}
}
