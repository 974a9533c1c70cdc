package wallet

import "errors"

var (
	// ErrInvalidCurrency occurs when a currency code is well-formed but not
	// recognized by the current rate table (and is not the reference
	// currency).
	ErrInvalidCurrency = errors.New("invalid currency")

	// ErrMalformedCurrency occurs when a currency code is not three
	// uppercase letters.
	ErrMalformedCurrency = errors.New("malformed currency code")
)
