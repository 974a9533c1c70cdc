package balance

import "github.com/kantor-pay/kantor_pay/internal/money"

// SeedBalance is a test helper that sets a balance directly when using the
// in-memory store.
func SeedBalance(s Store, userID, currency string, amount money.Money) {
	if mem, ok := s.(*memoryStore); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		if _, exists := mem.wallets[userID]; !exists {
			mem.wallets[userID] = make(map[string]money.Money)
		}
		mem.wallets[userID][currency] = amount.Normalize()
	}
}
