package service

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyStore marca claves de webhook ya procesadas. FirstSeen devuelve
// false cuando la clave ya fue registrada antes. Es best-effort: el unlock es
// idempotente por el CAS de estado, asi que un fallo de redis nunca bloquea
// la confirmacion de pago.
type IdempotencyStore interface {
	FirstSeen(ctx context.Context, key, value string) bool
}

const redisIdempotencyScript = `
if redis.call("SET", KEYS[1], ARGV[1], "NX", "EX", ARGV[2]) then
  return 1
end
return 0
`

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type redisIdempotencyStore struct {
	client redisEvaler
	ttl    time.Duration
	prefix string
}

func NewRedisIdempotencyStore(client *redis.Client, ttl time.Duration) IdempotencyStore {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 48 * time.Hour
	}
	return &redisIdempotencyStore{
		client: client,
		ttl:    ttl,
		prefix: "payment:idem:",
	}
}

func (s *redisIdempotencyStore) FirstSeen(ctx context.Context, key, value string) bool {
	if s == nil || s.client == nil {
		return true
	}
	normalizedKey := strings.TrimSpace(key)
	if normalizedKey == "" {
		return true
	}
	evalCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	seconds := int(s.ttl.Seconds())
	first, err := s.client.Eval(evalCtx, redisIdempotencyScript, []string{s.prefix + normalizedKey}, value, seconds).Int()
	if err != nil {
		return true
	}
	return first == 1
}
