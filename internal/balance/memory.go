package balance

import (
	"context"
	"sync"
	"time"

	"github.com/kantor-pay/kantor_pay/internal/money"
)

type memoryStore struct {
	mu      sync.Mutex
	wallets map[string]map[string]money.Money
	touched map[string]time.Time
}

// NewMemoryStore creates a concurrency-safe in-memory store. The debit
// check-and-decrement happens entirely under the lock, so the same
// no-phantom-overdraft guarantee holds as for the database-backed store.
// Used by tests and by dev mode without a database.
func NewMemoryStore() Store {
	return &memoryStore{
		wallets: make(map[string]map[string]money.Money),
		touched: make(map[string]time.Time),
	}
}

func (s *memoryStore) Get(_ context.Context, userID string) (Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(userID), nil
}

func (s *memoryStore) GetOrCreate(_ context.Context, userID, referenceCurrency string) (Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Seed only a wallet that holds nothing at all.
	if _, exists := s.wallets[userID]; !exists {
		s.wallets[userID] = map[string]money.Money{referenceCurrency: money.Zero()}
		s.touched[userID] = time.Now().UTC()
	}

	return s.snapshotLocked(userID), nil
}

func (s *memoryStore) Credit(_ context.Context, userID, currency string, amount money.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	balances, exists := s.wallets[userID]
	if !exists {
		balances = make(map[string]money.Money)
		s.wallets[userID] = balances
	}
	balances[currency] = balances[currency].Add(amount).Normalize()
	s.touched[userID] = time.Now().UTC()
	return nil
}

func (s *memoryStore) Debit(_ context.Context, userID, currency string, amount money.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	balances, exists := s.wallets[userID]
	if !exists {
		return ErrInsufficientFunds
	}
	current := balances[currency]
	if current.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}
	balances[currency] = current.Sub(amount).Normalize()
	s.touched[userID] = time.Now().UTC()
	return nil
}

func (s *memoryStore) snapshotLocked(userID string) Wallet {
	wallet := Wallet{UserID: userID, Balances: make(map[string]money.Money)}
	for currency, amount := range s.wallets[userID] {
		wallet.Balances[currency] = amount
	}
	wallet.UpdatedAt = s.touched[userID]
	return wallet
}
