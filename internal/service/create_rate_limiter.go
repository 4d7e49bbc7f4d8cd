package service

import (
	"sync"
	"time"
)

// CreateRateLimiter limita cuantas consultas puede crear un cliente por
// ventana de tiempo. El teaser es gratis, asi que el intake necesita freno.
type CreateRateLimiter interface {
	Allow(key string) bool
}

type createRateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	hits   map[string][]time.Time
}

// NewCreateRateLimiter crea un rate limiter en memoria de ventana deslizante.
func NewCreateRateLimiter(window time.Duration, max int) CreateRateLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &createRateLimiter{
		window: window,
		max:    max,
		hits:   make(map[string][]time.Time),
	}
}

func (l *createRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now().UTC()
	cutoff := now.Add(-l.window)
	entries := l.hits[key]
	kept := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.hits[key] = kept
		return false
	}
	kept = append(kept, now)
	l.hits[key] = kept
	return true
}
