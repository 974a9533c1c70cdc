package wallet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kantor-pay/kantor_pay/internal/balance"
	"github.com/kantor-pay/kantor_pay/internal/money"
	"github.com/kantor-pay/kantor_pay/internal/rates"
)

type stubRates struct {
	table rates.Table
	err   error
}

func (s *stubRates) Rates(context.Context) (rates.Table, error) {
	if s.err != nil {
		return rates.Table{}, s.err
	}
	return s.table, nil
}

func testRates() *stubRates {
	return &stubRates{table: rates.Table{
		Rates: map[string]money.Money{
			"EUR": money.MustParse("4.50"),
			"USD": money.MustParse("4.00"),
		},
		FetchedAt: time.Now().UTC(),
	}}
}

func newTestService(store balance.Store, provider RateProvider) *Service {
	return NewService(store, provider, nil, nil, "PLN")
}

func TestSnapshotEmptyWalletSeedsReferenceCurrency(t *testing.T) {
	svc := newTestService(balance.NewMemoryStore(), testRates())

	snap, err := svc.Snapshot(context.Background(), uuid.NewString())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	if len(snap.Balances) != 1 {
		t.Fatalf("expected only the seeded PLN entry, got %v", snap.Balances)
	}
	if got := snap.Balances["PLN"].String(); got != "0.00" {
		t.Errorf("PLN balance = %s, want 0.00", got)
	}
	if got := snap.Values["PLN"].String(); got != "0.00" {
		t.Errorf("PLN value = %s, want 0.00", got)
	}
	if got := snap.Total.String(); got != "0.00" {
		t.Errorf("total = %s, want 0.00", got)
	}
}

func TestDepositAndValuation(t *testing.T) {
	store := balance.NewMemoryStore()
	svc := newTestService(store, testRates())
	ctx := context.Background()
	userID := uuid.NewString()

	snap, err := svc.Deposit(ctx, userID, "EUR", money.MustParse("100.00"))
	if err != nil {
		t.Fatalf("deposit EUR: %v", err)
	}
	if _, err = svc.Deposit(ctx, userID, "USD", money.MustParse("50.00")); err != nil {
		t.Fatalf("deposit USD: %v", err)
	}

	snap, err = svc.Snapshot(ctx, userID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if got := snap.Values["EUR"].String(); got != "450.00" {
		t.Errorf("EUR value = %s, want 450.00", got)
	}
	if got := snap.Values["USD"].String(); got != "200.00" {
		t.Errorf("USD value = %s, want 200.00", got)
	}
	if got := snap.Total.String(); got != "650.00" {
		t.Errorf("total = %s, want 650.00", got)
	}
}

func TestWithdrawInsufficientFunds(t *testing.T) {
	store := balance.NewMemoryStore()
	svc := newTestService(store, testRates())
	ctx := context.Background()
	userID := uuid.NewString()

	if _, err := svc.Deposit(ctx, userID, "USD", money.MustParse("30.00")); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	_, err := svc.Withdraw(ctx, userID, "USD", money.MustParse("50.00"))
	if !errors.Is(err, balance.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	// Balance untouched by the rejected withdrawal.
	snap, err := svc.Snapshot(ctx, userID)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if got := snap.Balances["USD"].String(); got != "30.00" {
		t.Errorf("balance after rejected withdrawal = %s, want 30.00", got)
	}
}

func TestInvalidCurrencyRejectedBeforeMutation(t *testing.T) {
	store := balance.NewMemoryStore()
	svc := newTestService(store, testRates())
	ctx := context.Background()
	userID := uuid.NewString()

	_, err := svc.Deposit(ctx, userID, "XYZ", money.MustParse("100.00"))
	if !errors.Is(err, ErrInvalidCurrency) {
		t.Fatalf("expected ErrInvalidCurrency, got %v", err)
	}

	// No side effect on the store.
	w, err := store.Get(ctx, userID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(w.Balances) != 0 {
		t.Fatalf("store mutated by rejected deposit: %v", w.Balances)
	}
}

func TestMalformedCurrencyRejected(t *testing.T) {
	svc := newTestService(balance.NewMemoryStore(), testRates())
	ctx := context.Background()

	for _, code := range []string{"", "eu", "eur", "EURO", "E1R"} {
		if _, err := svc.Deposit(ctx, uuid.NewString(), code, money.MustParse("1.00")); !errors.Is(err, ErrMalformedCurrency) {
			t.Errorf("code %q: expected ErrMalformedCurrency, got %v", code, err)
		}
	}
}

func TestReferenceCurrencyAlwaysValid(t *testing.T) {
	// Rates are down, but PLN operations must still work.
	svc := newTestService(balance.NewMemoryStore(), &stubRates{err: rates.ErrUnavailable})
	ctx := context.Background()
	userID := uuid.NewString()

	// Validation passes for PLN, but the snapshot after the credit still
	// needs rates, so the call as a whole fails with ErrUnavailable while
	// the credit itself lands.
	_, err := svc.Deposit(ctx, userID, "PLN", money.MustParse("10.00"))
	if !errors.Is(err, rates.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable from re-valuation, got %v", err)
	}
}

func TestDepositWithdrawRoundTrip(t *testing.T) {
	store := balance.NewMemoryStore()
	svc := newTestService(store, testRates())
	ctx := context.Background()
	userID := uuid.NewString()

	before, err := svc.Snapshot(ctx, userID)
	if err != nil {
		t.Fatalf("initial snapshot: %v", err)
	}

	if _, err := svc.Deposit(ctx, userID, "EUR", money.MustParse("100.00")); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	after, err := svc.Withdraw(ctx, userID, "EUR", money.MustParse("100.00"))
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	if got := after.Balances["EUR"].String(); got != "0.00" {
		t.Errorf("EUR after round trip = %s, want 0.00", got)
	}
	if got, want := after.Total.String(), before.Total.String(); got != want {
		t.Errorf("total after round trip = %s, want %s", got, want)
	}
}

func TestRatesUnavailablePropagates(t *testing.T) {
	svc := newTestService(balance.NewMemoryStore(), &stubRates{err: rates.ErrUnavailable})

	if _, err := svc.Snapshot(context.Background(), uuid.NewString()); !errors.Is(err, rates.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if _, err := svc.Deposit(context.Background(), uuid.NewString(), "EUR", money.MustParse("1.00")); !errors.Is(err, rates.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable from currency validation, got %v", err)
	}
}
