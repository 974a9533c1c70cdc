package balance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kantor-pay/kantor_pay/internal/money"
)

// PostgresStore keeps one row per (user, currency) pair in PostgreSQL. The
// debit guard lives in the UPDATE statement itself, so the check and the
// decrement are a single atomic step and row-level locking keeps unrelated
// pairs independent.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a store backed by PostgreSQL.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Get fetches all balance rows for the user.
func (s *PostgresStore) Get(ctx context.Context, userID string) (Wallet, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return Wallet{}, fmt.Errorf("parse user id: %w", err)
	}

	rows, err := s.db.Query(ctx, `SELECT currency, amount::text, updated_at
        FROM wallet_balances WHERE user_id = $1`, uid)
	if err != nil {
		return Wallet{}, err
	}
	defer rows.Close()

	wallet := Wallet{UserID: userID, Balances: make(map[string]money.Money)}
	for rows.Next() {
		var (
			currency  string
			amount    string
			updatedAt time.Time
		)
		if err := rows.Scan(&currency, &amount, &updatedAt); err != nil {
			return Wallet{}, err
		}
		parsed, err := money.Parse(amount)
		if err != nil {
			return Wallet{}, fmt.Errorf("stored amount for %s: %w", currency, err)
		}
		wallet.Balances[currency] = parsed
		if updatedAt.After(wallet.UpdatedAt) {
			wallet.UpdatedAt = updatedAt.UTC()
		}
	}
	return wallet, rows.Err()
}

// GetOrCreate seeds a zero reference-currency entry only when the user has
// no balance rows at all, then returns the current balances. A wallet that
// already holds some currency is left as it is.
func (s *PostgresStore) GetOrCreate(ctx context.Context, userID, referenceCurrency string) (Wallet, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return Wallet{}, fmt.Errorf("parse user id: %w", err)
	}

	_, err = s.db.Exec(ctx, `INSERT INTO wallet_balances (user_id, currency, amount, created_at, updated_at)
        SELECT $1, $2, 0, now(), now()
        WHERE NOT EXISTS (SELECT 1 FROM wallet_balances WHERE user_id = $1)
        ON CONFLICT (user_id, currency) DO NOTHING`, uid, referenceCurrency)
	if err != nil {
		return Wallet{}, err
	}

	return s.Get(ctx, userID)
}

// Credit upserts the balance row, adding the amount to whatever is there.
func (s *PostgresStore) Credit(ctx context.Context, userID, currency string, amount money.Money) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("parse user id: %w", err)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("credit amount must be positive")
	}

	_, err = s.db.Exec(ctx, `INSERT INTO wallet_balances (user_id, currency, amount, created_at, updated_at)
        VALUES ($1, $2, $3, now(), now())
        ON CONFLICT (user_id, currency)
        DO UPDATE SET amount = wallet_balances.amount + EXCLUDED.amount, updated_at = now()`,
		uid, currency, amount.String())
	return err
}

// Debit runs the guarded decrement. Zero rows affected means the guard did
// not hold at the moment of the update, so the debit is rejected.
func (s *PostgresStore) Debit(ctx context.Context, userID, currency string, amount money.Money) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("parse user id: %w", err)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("debit amount must be positive")
	}

	cmd, err := s.db.Exec(ctx, `UPDATE wallet_balances
        SET amount = amount - $3, updated_at = now()
        WHERE user_id = $1 AND currency = $2 AND amount >= $3`,
		uid, currency, amount.String())
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrInsufficientFunds
	}
	return nil
}
