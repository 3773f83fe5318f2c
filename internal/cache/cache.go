package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Retention is how long entries stay in Redis. It is deliberately much
// longer than any caller's staleness window so that a failed refresh can
// still fall back to the stale value.
const Retention = 24 * time.Hour

// envelope wraps a cached value with its write timestamp. Staleness is the
// caller's decision: Read reports the age and the caller compares it against
// its own window.
type envelope struct {
	CachedAt time.Time       `json:"cached_at"`
	Value    json.RawMessage `json:"value"`
}

type Cache struct {
	rdb *redis.Client
	now func() time.Time
}

// New creates and pings a Redis-backed cache with optional password auth.
func New(ctx context.Context, addr, password string) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &Cache{rdb: rdb, now: time.Now}, nil
}

// Read returns the cached value and its age. A nil cache, a missing key, and
// a corrupt entry all report ok=false; corrupt entries are treated the same
// as absent ones.
func (c *Cache) Read(ctx context.Context, key string) (json.RawMessage, time.Duration, bool) {
	if c == nil || c.rdb == nil {
		return nil, 0, false
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, 0, false
	}

	value, age, err := decodeEnvelope(raw, c.now())
	if err != nil {
		return nil, 0, false
	}

	return value, age, true
}

// Write stores the value under key, stamped with the current time.
func (c *Cache) Write(ctx context.Context, key string, value interface{}) error {
	if c == nil || c.rdb == nil {
		return nil
	}

	raw, err := encodeEnvelope(value, c.now())
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, key, raw, Retention).Err()
}

func encodeEnvelope(value interface{}, now time.Time) ([]byte, error) {
	inner, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	return json.Marshal(envelope{CachedAt: now, Value: inner})
}

func decodeEnvelope(raw []byte, now time.Time) (json.RawMessage, time.Duration, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, 0, err
	}

	return env.Value, now.Sub(env.CachedAt), nil
}
