package wallet

import (
	"context"
	"sync"

	"BeatWave/core/ledger"
)

// MemoryPayments is an in-memory ledger.Payments, used by tests and local
// development. Balances are keyed by principal id.
type MemoryPayments struct {
	mu       sync.Mutex
	balances map[int64]uint64
}

// NewMemoryPayments creates an empty in-memory payments engine.
func NewMemoryPayments() *MemoryPayments {
	return &MemoryPayments{balances: make(map[int64]uint64)}
}

// Credit adds funds to a wallet.
func (p *MemoryPayments) Credit(id int64, amount uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.balances[id] += amount
}

// Balance returns the current balance of a wallet.
func (p *MemoryPayments) Balance(id int64) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.balances[id]
}

// Transfer moves amount between wallets, or returns
// ledger.ErrInsufficientFunds leaving both balances untouched.
func (p *MemoryPayments) Transfer(ctx context.Context, from, to int64, amount uint64) error {
	if amount == 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.balances[from] < amount {
		return ledger.ErrInsufficientFunds
	}
	p.balances[from] -= amount
	p.balances[to] += amount
	return nil
}
