package payment

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// leaseRegistry hands out time-bounded exclusive claims keyed by payment id.
// At-least-once redelivery means two workers can hold the same job; the lease
// guarantees only one of them attempts a transition or settlement. The expiry
// covers the crash case: a worker that died mid-claim stops blocking the
// payment once its lease lapses.
type leaseRegistry struct {
	mu     sync.Mutex
	ttl    time.Duration
	claims map[uuid.UUID]time.Time
}

func newLeaseRegistry(ttl time.Duration) *leaseRegistry {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &leaseRegistry{
		ttl:    ttl,
		claims: make(map[uuid.UUID]time.Time),
	}
}

// Acquire claims the payment id. It reports false when a non-expired claim is
// already held, compare-and-swap style.
func (l *leaseRegistry) Acquire(id uuid.UUID) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	if expiry, held := l.claims[id]; held && now.Before(expiry) {
		return false
	}
	l.claims[id] = now.Add(l.ttl)
	return true
}

// Release drops the claim.
func (l *leaseRegistry) Release(id uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.claims, id)
}
