package wallet

import (
	"context"
	"fmt"

	"github.com/kantor-pay/kantor_pay/internal/balance"
	"github.com/kantor-pay/kantor_pay/internal/money"
	"github.com/kantor-pay/kantor_pay/internal/notification"
	"github.com/kantor-pay/kantor_pay/internal/rates"
	"github.com/kantor-pay/kantor_pay/internal/valuation"
)

// RateProvider supplies the current rate table.
type RateProvider interface {
	Rates(ctx context.Context) (rates.Table, error)
}

// Snapshot is the combined balances-plus-valuation result returned by every
// wallet operation.
type Snapshot struct {
	Balances map[string]money.Money
	Values   map[string]money.Money
	Total    money.Money
}

// Service sequences the balance store, rate provider and valuation into the
// caller-facing wallet operations. It holds no cross-call state of its own.
type Service struct {
	store     balance.Store
	rates     RateProvider
	cache     *SnapshotCache
	notifier  notification.Notifier
	reference string
}

// NewService builds a wallet service. The snapshot cache and notifier are
// optional.
func NewService(store balance.Store, provider RateProvider, cache *SnapshotCache, notifier notification.Notifier, referenceCurrency string) *Service {
	return &Service{
		store:     store,
		rates:     provider,
		cache:     cache,
		notifier:  notifier,
		reference: referenceCurrency,
	}
}

// ReferenceCurrency returns the currency valuations are expressed in.
func (s *Service) ReferenceCurrency() string {
	return s.reference
}

// Snapshot returns the user's balances valued in the reference currency. A
// never-seen user gets a wallet lazily seeded with a zero reference-currency
// entry.
func (s *Service) Snapshot(ctx context.Context, userID string) (Snapshot, error) {
	if snap, ok := s.cache.Get(ctx, userID); ok {
		return snap, nil
	}

	w, err := s.store.GetOrCreate(ctx, userID, s.reference)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load balances: %w", err)
	}

	table, err := s.rates.Rates(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	v := valuation.Value(w.Balances, table, s.reference)
	snap := Snapshot{Balances: w.Balances, Values: v.Values, Total: v.Total}

	s.cache.Set(ctx, userID, snap)
	return snap, nil
}

// Deposit validates the currency, credits the balance and returns a fresh
// snapshot. Rates may move between the credit and the re-valuation; that
// relaxation is accepted.
func (s *Service) Deposit(ctx context.Context, userID, currency string, amount money.Money) (Snapshot, error) {
	if err := s.validateCurrency(ctx, currency); err != nil {
		return Snapshot{}, err
	}

	if err := s.store.Credit(ctx, userID, currency, amount); err != nil {
		return Snapshot{}, err
	}
	s.cache.Invalidate(ctx, userID)
	s.notify(ctx, notification.KindDeposit, userID, currency, amount)

	return s.Snapshot(ctx, userID)
}

// Withdraw validates the currency, debits the balance atomically and
// returns a fresh snapshot. An uncovered debit fails with
// balance.ErrInsufficientFunds and leaves the balance untouched.
func (s *Service) Withdraw(ctx context.Context, userID, currency string, amount money.Money) (Snapshot, error) {
	if err := s.validateCurrency(ctx, currency); err != nil {
		return Snapshot{}, err
	}

	if err := s.store.Debit(ctx, userID, currency, amount); err != nil {
		return Snapshot{}, err
	}
	s.cache.Invalidate(ctx, userID)
	s.notify(ctx, notification.KindWithdrawal, userID, currency, amount)

	return s.Snapshot(ctx, userID)
}

// validateCurrency enforces the currency-validity policy: three uppercase
// letters, and either the reference currency or a code present in the
// current rate table. Runs before any mutation.
func (s *Service) validateCurrency(ctx context.Context, currency string) error {
	if !wellFormedCode(currency) {
		return fmt.Errorf("%w: %q", ErrMalformedCurrency, currency)
	}
	if currency == s.reference {
		return nil
	}

	table, err := s.rates.Rates(ctx)
	if err != nil {
		return err
	}
	if !table.Has(currency) {
		return fmt.Errorf("%w: %s", ErrInvalidCurrency, currency)
	}
	return nil
}

func (s *Service) notify(ctx context.Context, kind, userID, currency string, amount money.Money) {
	if s.notifier == nil {
		return
	}
	// Best effort; delivery failures never fail the operation.
	_ = s.notifier.Send(ctx, notification.Message{
		Kind:     kind,
		UserID:   userID,
		Currency: currency,
		Amount:   amount.String(),
	})
}

func wellFormedCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
