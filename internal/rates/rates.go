package rates

import (
	"context"
	"errors"
	"time"

	"github.com/kantor-pay/kantor_pay/internal/money"
)

// ErrUnavailable occurs when the external rate source is unreachable or
// returned unusable data. Transport and parse failures are collapsed into
// this single error so callers never see source-specific shapes.
var ErrUnavailable = errors.New("exchange rates unavailable")

// Table is an immutable point-in-time snapshot of exchange rates. Each rate
// is the reference-currency value of one unit of the keyed currency.
type Table struct {
	Rates     map[string]money.Money
	FetchedAt time.Time
}

// Rate looks up the rate for a currency code.
func (t Table) Rate(code string) (money.Money, bool) {
	r, ok := t.Rates[code]
	return r, ok
}

// Has reports whether the table carries a rate for the currency code.
func (t Table) Has(code string) bool {
	_, ok := t.Rates[code]
	return ok
}

// Source fetches a fresh rate table from an external provider.
type Source interface {
	Fetch(ctx context.Context) (Table, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (Table, error)

// Fetch implements Source.
func (f SourceFunc) Fetch(ctx context.Context) (Table, error) {
	return f(ctx)
}
