package refresh

import (
	"context"
	"sync"
	"testing"
	"time"
)

// recorder collects refreshed keys and lets tests wait for quiescence.
type recorder struct {
	mu   sync.Mutex
	keys []string

	gate chan struct{} // non-nil blocks run until released
}

func (r *recorder) run(ctx context.Context, key string) {
	if r.gate != nil {
		<-r.gate
	}
	r.mu.Lock()
	r.keys = append(r.keys, key)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

func TestRefresherRunsRequestedKeys(t *testing.T) {
	rec := &recorder{}
	r := New(rec.run)
	r.Start(context.Background())
	defer r.Stop()

	r.Request("transactions")
	r.Request("categories")

	waitFor(t, func() bool { return len(rec.snapshot()) == 2 })

	got := rec.snapshot()
	if got[0] != "transactions" || got[1] != "categories" {
		t.Errorf("keys = %v, want request order preserved", got)
	}
}

func TestRefresherCoalescesDuplicates(t *testing.T) {
	rec := &recorder{gate: make(chan struct{})}
	r := New(rec.run)
	r.Start(context.Background())
	defer r.Stop()

	// First request occupies the worker at the gate; the burst behind it
	// must collapse to a single pending entry.
	r.Request("transactions")
	for i := 0; i < 10; i++ {
		r.Request("categories")
	}
	close(rec.gate)

	waitFor(t, func() bool { return len(rec.snapshot()) >= 2 })
	time.Sleep(20 * time.Millisecond)

	if got := rec.snapshot(); len(got) != 2 {
		t.Errorf("ran %d refreshes %v, want 2", len(got), got)
	}
}

func TestRefresherStopIsIdempotent(t *testing.T) {
	rec := &recorder{}
	r := New(rec.run)
	r.Start(context.Background())

	r.Stop()
	r.Stop()
}

func TestRefresherStopsOnContextCancel(t *testing.T) {
	rec := &recorder{}
	r := New(rec.run)

	ctx, cancel := context.WithCancel(context.Background())
	r.Start(ctx)
	cancel()

	// Stop must return even though the worker already exited via ctx.
	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after context cancellation")
	}
}
