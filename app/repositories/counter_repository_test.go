package repositories_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterNextStartsAtOne(t *testing.T) {
	db := openTestDB(t)
	counters := repositories.NewCounterRepository(db)

	v, err := counters.Next(context.Background(), "orders")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}

func TestCounterNextIsStrictlyIncreasing(t *testing.T) {
	db := openTestDB(t)
	counters := repositories.NewCounterRepository(db)

	var prev int64
	for i := 0; i < 10; i++ {
		v, err := counters.Next(context.Background(), "orders")
		require.NoError(t, err)
		assert.Greater(t, v, prev)
		prev = v
	}
}

func TestCounterSequencesAreIndependent(t *testing.T) {
	db := openTestDB(t)
	counters := repositories.NewCounterRepository(db)

	a, err := counters.Next(context.Background(), "orders")
	require.NoError(t, err)
	b, err := counters.Next(context.Background(), "invoices")
	require.NoError(t, err)

	assert.Equal(t, int64(1), a)
	assert.Equal(t, int64(1), b)
}

func TestCounterNextConcurrentNoDuplicates(t *testing.T) {
	db := openTestDB(t)
	counters := repositories.NewCounterRepository(db)

	const goroutines = 50

	var (
		mu     sync.Mutex
		issued = make(map[int64]bool, goroutines)
		wg     sync.WaitGroup
	)

	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			v, err := counters.Next(context.Background(), "orders")
			if err != nil {
				t.Errorf("Next failed: %v", err)
				return
			}
			mu.Lock()
			if issued[v] {
				t.Errorf("value %d issued twice", v)
			}
			issued[v] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, issued, goroutines)
}
