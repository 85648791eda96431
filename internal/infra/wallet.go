package infra

import (
	"sync"

	"cardmarket/internal/domain"

	"github.com/shopspring/decimal"
)

// MemoryWallet is a simple thread-safe wallet for the single-player
// economy. The engine only reads and adjusts it through domain.Wallet.
type MemoryWallet struct {
	mu      sync.Mutex
	balance decimal.Decimal
}

// NewMemoryWallet creates a wallet with a starting balance.
func NewMemoryWallet(starting decimal.Decimal) *MemoryWallet {
	return &MemoryWallet{balance: starting}
}

// Balance returns the current balance.
func (w *MemoryWallet) Balance() decimal.Decimal {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.balance
}

// Debit removes funds. It refuses to overdraw.
func (w *MemoryWallet) Debit(amount decimal.Decimal) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if amount.GreaterThan(w.balance) {
		return domain.ErrInsufficientFunds
	}
	w.balance = w.balance.Sub(amount)
	return nil
}

// Credit adds funds.
func (w *MemoryWallet) Credit(amount decimal.Decimal) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.balance = w.balance.Add(amount)
}
