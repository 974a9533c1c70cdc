package wallet

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kantor-pay/kantor_pay/internal/money"
)

// SnapshotCache is a short-lived Redis cache for wallet snapshots,
// invalidated explicitly on every balance mutation. All methods are safe on
// a nil receiver and fail open on Redis errors: the cache can never make a
// read fail, only make it slower.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewSnapshotCache builds a snapshot cache with the given TTL.
func NewSnapshotCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *SnapshotCache {
	return &SnapshotCache{client: client, ttl: ttl, logger: logger}
}

// snapshotKey is the cache key constructor, kept as a named function so the
// keying scheme is testable on its own.
func snapshotKey(userID string) string {
	return "wallet:snapshot:v1:" + userID
}

// snapshotPayload is the wire form of a cached snapshot. Amounts travel as
// decimal strings.
type snapshotPayload struct {
	Balances map[string]string `json:"balances"`
	Values   map[string]string `json:"values"`
	Total    string            `json:"total"`
}

// Get returns a cached snapshot when present and decodable.
func (c *SnapshotCache) Get(ctx context.Context, userID string) (Snapshot, bool) {
	if c == nil || c.client == nil {
		return Snapshot{}, false
	}

	raw, err := c.client.Get(ctx, snapshotKey(userID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("snapshot cache lookup failed", slog.String("user_id", userID), slog.Any("error", err))
		}
		return Snapshot{}, false
	}

	var payload snapshotPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		c.logger.Warn("snapshot cache entry undecodable", slog.String("user_id", userID), slog.Any("error", err))
		return Snapshot{}, false
	}

	snap, err := payload.toSnapshot()
	if err != nil {
		c.logger.Warn("snapshot cache entry invalid", slog.String("user_id", userID), slog.Any("error", err))
		return Snapshot{}, false
	}
	return snap, true
}

// Set stores a snapshot under the user's key. Best effort.
func (c *SnapshotCache) Set(ctx context.Context, userID string, snap Snapshot) {
	if c == nil || c.client == nil {
		return
	}

	payload := snapshotPayload{
		Balances: stringAmounts(snap.Balances),
		Values:   stringAmounts(snap.Values),
		Total:    snap.Total.String(),
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, snapshotKey(userID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("snapshot cache store failed", slog.String("user_id", userID), slog.Any("error", err))
	}
}

// Invalidate drops the user's cached snapshot. Called on every mutation.
func (c *SnapshotCache) Invalidate(ctx context.Context, userID string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, snapshotKey(userID)).Err(); err != nil {
		c.logger.Warn("snapshot cache invalidation failed", slog.String("user_id", userID), slog.Any("error", err))
	}
}

func (p snapshotPayload) toSnapshot() (Snapshot, error) {
	balances, err := parseAmounts(p.Balances)
	if err != nil {
		return Snapshot{}, err
	}
	values, err := parseAmounts(p.Values)
	if err != nil {
		return Snapshot{}, err
	}
	total, err := money.Parse(p.Total)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Balances: balances, Values: values, Total: total}, nil
}

func stringAmounts(amounts map[string]money.Money) map[string]string {
	out := make(map[string]string, len(amounts))
	for currency, amount := range amounts {
		out[currency] = amount.String()
	}
	return out
}

func parseAmounts(raw map[string]string) (map[string]money.Money, error) {
	out := make(map[string]money.Money, len(raw))
	for currency, amount := range raw {
		parsed, err := money.Parse(amount)
		if err != nil {
			return nil, err
		}
		out[currency] = parsed
	}
	return out, nil
}
