package money

import (
	"errors"
	"testing"
)

func TestParseNormalizes(t *testing.T) {
	cases := map[string]string{
		"100":     "100.00",
		"100.005": "100.01",
		"100.004": "100.00",
		"0.1":     "0.10",
		"4.4999":  "4.50",
	}
	for raw, want := range cases {
		m, err := Parse(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got := m.String(); got != want {
			t.Errorf("parse %q: got %s want %s", raw, got, want)
		}
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "abc", "1.2.3", "1e", "NaN", "Inf"} {
		if _, err := Parse(raw); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("parse %q: expected ErrInvalidAmount, got %v", raw, err)
		}
	}
}

func TestParsePositive(t *testing.T) {
	if _, err := ParsePositive("0.00"); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero amount: expected ErrInvalidAmount, got %v", err)
	}
	if _, err := ParsePositive("-100.00"); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative amount: expected ErrInvalidAmount, got %v", err)
	}
	// Rounds to zero, so still rejected.
	if _, err := ParsePositive("0.001"); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("sub-cent amount: expected ErrInvalidAmount, got %v", err)
	}
	m, err := ParsePositive("0.01")
	if err != nil {
		t.Fatalf("parse 0.01: %v", err)
	}
	if !m.IsPositive() {
		t.Error("0.01 should be positive")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, raw := range []string{"100.005", "0.015", "99.994", "1234.56"} {
		m := MustParse(raw)
		once := m.Normalize()
		twice := once.Normalize()
		if !once.Equal(twice) {
			t.Errorf("normalize(%s) not idempotent: %s vs %s", raw, once, twice)
		}
	}
}

func TestArithmeticKeepsPrecision(t *testing.T) {
	// Chained multiplication must not round intermediates.
	amount := MustParse("100.00")
	rate := MustParse("4.50")
	got := amount.MulRate(rate).Normalize()
	if got.String() != "450.00" {
		t.Errorf("100.00 * 4.50 = %s, want 450.00", got)
	}

	a := MustParse("0.10")
	b := MustParse("0.20")
	if sum := a.Add(b); sum.String() != "0.30" {
		t.Errorf("0.10 + 0.20 = %s, want 0.30", sum)
	}
}

func TestSubRoundTrip(t *testing.T) {
	start := MustParse("42.42")
	after := start.Add(MustParse("100.00")).Sub(MustParse("100.00"))
	if !after.Equal(start) {
		t.Errorf("round trip drift: %s -> %s", start, after)
	}
}

func TestZeroValue(t *testing.T) {
	var m Money
	if !m.IsZero() {
		t.Error("zero value should be zero")
	}
	if m.String() != "0.00" {
		t.Errorf("zero renders as %s, want 0.00", m)
	}
}
