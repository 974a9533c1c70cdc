// Package valuation converts a balance snapshot into reference-currency
// terms using a rate table. It is pure: no I/O, no side effects.
package valuation

import (
	"github.com/kantor-pay/kantor_pay/internal/money"
	"github.com/kantor-pay/kantor_pay/internal/rates"
)

// Valuation holds reference-currency equivalents per currency plus their
// sum. Currencies missing from the rate table are omitted, not zeroed.
type Valuation struct {
	Values map[string]money.Money
	Total  money.Money
}

// Value computes the valuation of balances against the given rate table.
// The reference currency passes through unchanged. Summation is exact with
// one final rounding step.
func Value(balances map[string]money.Money, table rates.Table, referenceCurrency string) Valuation {
	values := make(map[string]money.Money, len(balances))
	total := money.Zero()

	for currency, amount := range balances {
		if currency == referenceCurrency {
			values[currency] = amount
			total = total.Add(amount)
			continue
		}
		rate, ok := table.Rate(currency)
		if !ok {
			continue
		}
		converted := amount.MulRate(rate).Normalize()
		values[currency] = converted
		total = total.Add(converted)
	}

	return Valuation{Values: values, Total: total.Normalize()}
}
