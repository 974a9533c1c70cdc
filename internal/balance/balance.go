package balance

import (
	"context"
	"errors"
	"time"

	"github.com/kantor-pay/kantor_pay/internal/money"
)

// ErrInsufficientFunds occurs when a debit precondition fails: the balance
// at the moment of the atomic check-and-decrement was below the requested
// amount. The balance is left unchanged.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Wallet is a point-in-time view of a user's balances. Absent currencies
// imply a zero balance. Amounts are always normalized and never negative.
type Wallet struct {
	UserID    string
	Balances  map[string]money.Money
	UpdatedAt time.Time
}

// Store is the only component permitted to mutate wallet balances. Mutations
// are atomic per (user, currency) pair: a debit is a single guarded
// check-and-decrement, never a separate read followed by a write, and
// operations on distinct pairs do not block each other.
//
// Credit and Debit require a strictly positive, normalized amount; callers
// validate input before reaching the store.
type Store interface {
	// Get returns the user's current balances. An unknown user yields an
	// empty wallet, not an error.
	Get(ctx context.Context, userID string) (Wallet, error)

	// GetOrCreate returns the user's balances, lazily creating the wallet
	// with a zero entry in the given reference currency on first contact.
	GetOrCreate(ctx context.Context, userID, referenceCurrency string) (Wallet, error)

	// Credit adds amount to the (user, currency) balance, creating the
	// entry at zero when absent.
	Credit(ctx context.Context, userID, currency string, amount money.Money) error

	// Debit atomically subtracts amount if the current balance covers it,
	// otherwise fails with ErrInsufficientFunds without partial effect.
	Debit(ctx context.Context, userID, currency string, amount money.Money) error
}
