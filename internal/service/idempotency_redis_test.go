package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockRedisEvaler struct {
	lastScript string
	lastKeys   []string
	lastArgs   []interface{}
	result     int64
	err        error
}

func (m *mockRedisEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	m.lastScript = script
	m.lastKeys = keys
	m.lastArgs = args
	cmd := redis.NewCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	cmd.SetVal(m.result)
	return cmd
}

func TestRedisIdempotencyStoreFirstSeen(t *testing.T) {
	ctx := context.Background()

	t.Run("first registration", func(t *testing.T) {
		mock := &mockRedisEvaler{result: 1}
		store := &redisIdempotencyStore{client: mock, ttl: time.Hour, prefix: "payment:idem:"}
		if !store.FirstSeen(ctx, " key-1 ", "consultation-1") {
			t.Fatalf("expected first registration to return true")
		}
		if len(mock.lastKeys) != 1 || mock.lastKeys[0] != "payment:idem:key-1" {
			t.Fatalf("unexpected redis key %v", mock.lastKeys)
		}
		if len(mock.lastArgs) != 2 || mock.lastArgs[0] != "consultation-1" || mock.lastArgs[1] != 3600 {
			t.Fatalf("unexpected args %v", mock.lastArgs)
		}
	})

	t.Run("replay detected", func(t *testing.T) {
		store := &redisIdempotencyStore{client: &mockRedisEvaler{result: 0}, ttl: time.Hour, prefix: "payment:idem:"}
		if store.FirstSeen(ctx, "key-1", "consultation-1") {
			t.Fatalf("expected replay to return false")
		}
	})

	t.Run("empty key treated as first", func(t *testing.T) {
		store := &redisIdempotencyStore{client: &mockRedisEvaler{result: 0}, ttl: time.Hour, prefix: "payment:idem:"}
		if !store.FirstSeen(ctx, "   ", "consultation-1") {
			t.Fatalf("blank key must not be tracked")
		}
	})

	t.Run("redis error fail-open", func(t *testing.T) {
		store := &redisIdempotencyStore{client: &mockRedisEvaler{err: errors.New("redis down")}, ttl: time.Hour, prefix: "payment:idem:"}
		if !store.FirstSeen(ctx, "key-1", "consultation-1") {
			t.Fatalf("expected fail-open on redis errors")
		}
	})
}

func TestRedisCreateRateLimiterAllow(t *testing.T) {
	t.Run("allow when count within max", func(t *testing.T) {
		mock := &mockRedisEvaler{result: 2}
		l := &redisCreateRateLimiter{client: mock, window: 2 * time.Minute, max: 3, prefix: "consult:rl:"}
		if !l.Allow(" Client-1 ") {
			t.Fatalf("expected allow when count <= max")
		}
		if len(mock.lastKeys) != 1 || mock.lastKeys[0] != "consult:rl:client-1" {
			t.Fatalf("unexpected key normalization %v", mock.lastKeys)
		}
		if len(mock.lastArgs) != 1 || mock.lastArgs[0] != 120 {
			t.Fatalf("expected TTL seconds=120, got %v", mock.lastArgs)
		}
	})

	t.Run("deny when count exceeds max", func(t *testing.T) {
		l := &redisCreateRateLimiter{client: &mockRedisEvaler{result: 4}, window: time.Minute, max: 3, prefix: "consult:rl:"}
		if l.Allow("client-1") {
			t.Fatalf("expected deny when count > max")
		}
	})

	t.Run("redis error fail-open", func(t *testing.T) {
		l := &redisCreateRateLimiter{client: &mockRedisEvaler{err: errors.New("redis down")}, window: time.Minute, max: 3, prefix: "consult:rl:"}
		if !l.Allow("client-1") {
			t.Fatalf("expected fail-open on redis errors")
		}
	})

	t.Run("empty key rejected", func(t *testing.T) {
		l := &redisCreateRateLimiter{client: &mockRedisEvaler{result: 1}, window: time.Minute, max: 3, prefix: "consult:rl:"}
		if l.Allow("  ") {
			t.Fatalf("expected empty key to be rejected")
		}
	})
}
