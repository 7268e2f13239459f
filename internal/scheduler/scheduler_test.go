package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hray3182/julius/internal/session"
)

type countingSweeper struct {
	mu    sync.Mutex
	calls int
	n     int
}

func (c *countingSweeper) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.n
}

func (c *countingSweeper) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestCheckSumsTargets(t *testing.T) {
	a := &countingSweeper{n: 2}
	b := &countingSweeper{n: 3}
	s := New(time.Hour, nil, Target{Name: "a", Sweeper: a}, Target{Name: "b", Sweeper: b})

	assert.Equal(t, 5, s.check())
	assert.Equal(t, 1, a.Calls())
	assert.Equal(t, 1, b.Calls())
}

func TestNotifyTriggersSweep(t *testing.T) {
	sw := &countingSweeper{}
	s := New(time.Hour, nil, Target{Name: "sessions", Sweeper: sw})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	s.Notify()
	s.Notify() // coalesced or queued, never blocks
	assert.Eventually(t, func() bool { return sw.Calls() >= 1 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestTickerSweepsSessionStore(t *testing.T) {
	store := session.New[string](time.Millisecond)
	store.Put(1, "stale")

	s := New(5*time.Millisecond, nil, Target{Name: "sessions", Sweeper: store})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Start(ctx)

	assert.Eventually(t, func() bool { return store.Len() == 0 }, 2*time.Second, 5*time.Millisecond)
}
