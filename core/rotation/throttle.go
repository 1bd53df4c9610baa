package rotation

import (
	"context"
	"sync"
	"time"
)

// Throttle bounds the frequency of rotation attempts per credential.
// It is best-effort shared state, not a correctness-critical lock: its only
// job is to limit wasted backend refresh calls.
type Throttle interface {
	// Ready reports whether enough time has passed since the last marked
	// attempt for the key.
	Ready(ctx context.Context, key string) bool
	// Mark records an attempt for the key at the current time.
	Mark(ctx context.Context, key string)
}

// MemoryThrottle is the process-local default. Each server instance keeps its
// own attempt timestamps, so in a horizontally scaled deployment the spacing
// is enforced per instance only; use RedisThrottle for a global bound.
type MemoryThrottle struct {
	mu       sync.Mutex
	attempts map[string]time.Time
	interval time.Duration
	now      func() time.Time
}

// NewMemoryThrottle creates an in-memory throttle with the given minimum
// spacing between attempts.
func NewMemoryThrottle(interval time.Duration, now func() time.Time) *MemoryThrottle {
	if now == nil {
		now = time.Now
	}
	return &MemoryThrottle{
		attempts: make(map[string]time.Time),
		interval: interval,
		now:      now,
	}
}

func (t *MemoryThrottle) Ready(_ context.Context, key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	last, ok := t.attempts[key]
	return !ok || t.now().Sub(last) >= t.interval
}

func (t *MemoryThrottle) Mark(_ context.Context, key string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.attempts[key] = now

	// Opportunistic pruning keeps the map bounded without a cleanup goroutine:
	// entries older than the interval carry no information.
	if len(t.attempts) > 1024 {
		for k, at := range t.attempts {
			if now.Sub(at) >= t.interval {
				delete(t.attempts, k)
			}
		}
	}
}
