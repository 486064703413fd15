package payment

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaseRegistry_Exclusive(t *testing.T) {
	leases := newLeaseRegistry(time.Minute)
	id := uuid.New()

	require.True(t, leases.Acquire(id))
	assert.False(t, leases.Acquire(id), "second claim must lose")

	leases.Release(id)
	assert.True(t, leases.Acquire(id), "released claims can be reacquired")
}

func TestLeaseRegistry_Expiry(t *testing.T) {
	leases := newLeaseRegistry(10 * time.Millisecond)
	id := uuid.New()

	require.True(t, leases.Acquire(id))
	time.Sleep(20 * time.Millisecond)
	assert.True(t, leases.Acquire(id), "expired claims stop blocking")
}

func TestLeaseRegistry_ConcurrentSingleWinner(t *testing.T) {
	leases := newLeaseRegistry(time.Minute)
	id := uuid.New()

	const goroutines = 16
	var wins int64
	var mu sync.Mutex
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if leases.Acquire(id) {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	close(start)
	wg.Wait()
	assert.EqualValues(t, 1, wins)
}
