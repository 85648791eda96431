package domain

import "errors"

// CatalogError flags a malformed catalog entry. These are always skipped
// per-entry with a warning, never fatal to the simulation.
type CatalogError struct {
	SetID string
	Err   error
}

func (e *CatalogError) Error() string {
	return "catalog error [" + e.SetID + "]: " + e.Err.Error()
}

func (e *CatalogError) Unwrap() error {
	return e.Err
}

// SnapshotError wraps persistence failures around the single-blob
// save/load path.
type SnapshotError struct {
	Op  string // "save", "load", "decode"
	Err error
}

func (e *SnapshotError) Error() string {
	return "snapshot " + e.Op + ": " + e.Err.Error()
}

func (e *SnapshotError) Unwrap() error {
	return e.Err
}

var (
	// ErrInvalidRarity is returned when catalog data names an unknown rarity.
	ErrInvalidRarity = errors.New("invalid rarity")

	// ErrInsufficientFunds is returned when a purchase would overdraw the wallet.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrSnapshotNotFound is returned when no persisted snapshot exists yet.
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// OpResult is the structured outcome of a user-facing market operation.
// Operations report failure through it instead of raising.
type OpResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Ok builds a successful result.
func Ok(message string) OpResult {
	return OpResult{Success: true, Message: message}
}

// Fail builds a failed result.
func Fail(message string) OpResult {
	return OpResult{Success: false, Message: message}
}
