package stub

import (
	"sync"

	"docsmith/internal/domain"
)

// DefaultCosts is the per-document-type credit price the stub charges.
var DefaultCosts = map[domain.DocumentType]int{
	domain.DocumentFormal:      5,
	domain.DocumentInfographic: 8,
}

// Ledger is the stub's in-memory credit balance.
type Ledger struct {
	mu      sync.Mutex
	balance int
}

func NewLedger(balance int) *Ledger {
	return &Ledger{balance: balance}
}

// Deduct charges cost credits and returns the new balance, or
// domain.ErrInsufficientCredits leaving the balance untouched.
func (l *Ledger) Deduct(cost int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cost > l.balance {
		return l.balance, domain.ErrInsufficientCredits
	}
	l.balance -= cost
	return l.balance, nil
}

// Balance returns the current balance.
func (l *Ledger) Balance() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}
