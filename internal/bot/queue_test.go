package bot

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueKeepsOrderPerKey(t *testing.T) {
	q := NewQueue()
	var (
		mu  sync.Mutex
		got = map[int64][]int{}
	)
	for i := 0; i < 100; i++ {
		key := int64(i % 3)
		n := i
		q.Submit(key, func() {
			mu.Lock()
			got[key] = append(got[key], n)
			mu.Unlock()
		})
	}
	q.Wait()

	for key, seq := range got {
		for i := 1; i < len(seq); i++ {
			assert.Less(t, seq[i-1], seq[i], "key %d out of order", key)
		}
	}
	assert.Len(t, got[0], 34)
	assert.Equal(t, 0, q.Active(), "workers exit when idle")
}

func TestQueueRunsKeysInParallel(t *testing.T) {
	q := NewQueue()
	release := make(chan struct{})
	done := make(chan struct{})

	q.Submit(1, func() { <-release })
	q.Submit(2, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("key 2 was blocked by key 1")
	}
	assert.Equal(t, 1, q.Active())
	close(release)
	q.Wait()
}

func TestQueueSerialPerKey(t *testing.T) {
	q := NewQueue()
	var (
		mu      sync.Mutex
		running int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		q.Submit(7, func() {
			mu.Lock()
			running++
			if running > maxSeen {
				maxSeen = running
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			running--
			mu.Unlock()
		})
	}
	q.Wait()
	require.Equal(t, 1, maxSeen)
}
