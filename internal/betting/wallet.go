package betting

import (
	"errors"
	"sync"

	"github.com/shopspring/decimal"
)

// ErrInsufficientFunds is returned when a stake exceeds the wallet balance
var ErrInsufficientFunds = errors.New("insufficient funds")

// Wallet tracks the bettor's balance and open exposure
type Wallet struct {
	mu       sync.RWMutex
	balance  decimal.Decimal
	exposure decimal.Decimal
}

// NewWallet creates a wallet with an opening balance
func NewWallet(balance decimal.Decimal) *Wallet {
	return &Wallet{balance: balance}
}

// Balance returns the current balance
func (w *Wallet) Balance() decimal.Decimal {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.balance
}

// Exposure returns the total stake on unsettled bets
func (w *Wallet) Exposure() decimal.Decimal {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.exposure
}

// Debit takes a stake out of the balance
func (w *Wallet) Debit(stake decimal.Decimal) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if stake.GreaterThan(w.balance) {
		return ErrInsufficientFunds
	}
	w.balance = w.balance.Sub(stake)
	w.exposure = w.exposure.Add(stake)
	return nil
}

// Release closes a stake's exposure and credits any payout
func (w *Wallet) Release(stake, payout decimal.Decimal) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.exposure = w.exposure.Sub(stake)
	if w.exposure.IsNegative() {
		w.exposure = decimal.Zero
	}
	w.balance = w.balance.Add(payout)
}

// Credit adds funds such as a prize
func (w *Wallet) Credit(amount decimal.Decimal) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.balance = w.balance.Add(amount)
}
