// Package refresh runs background collection refreshes on a single worker,
// coalescing duplicate requests: a burst of edits to the same collection
// results in one re-fetch, not one per edit.
package refresh

import (
	"context"
	"sync"
)

// Func re-fetches one collection, identified by key.
type Func func(ctx context.Context, key string)

// Refresher is a channel-fed single worker with a pending set. Requests for
// a key already pending are dropped.
type Refresher struct {
	run Func

	mu      sync.Mutex
	pending map[string]struct{}
	order   []string

	kick chan struct{}
	done chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

func New(run Func) *Refresher {
	return &Refresher{
		run:     run,
		pending: make(map[string]struct{}),
		kick:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Start launches the worker. It exits when ctx is cancelled or Stop is called.
func (r *Refresher) Start(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-r.done:
				return
			case <-r.kick:
				for {
					key, ok := r.next()
					if !ok {
						break
					}
					r.run(ctx, key)
				}
			}
		}
	}()
}

// Request schedules a refresh for key. Never blocks.
func (r *Refresher) Request(key string) {
	r.mu.Lock()
	if _, dup := r.pending[key]; !dup {
		r.pending[key] = struct{}{}
		r.order = append(r.order, key)
	}
	r.mu.Unlock()

	select {
	case r.kick <- struct{}{}:
	default:
	}
}

// Stop shuts the worker down and waits for an in-flight refresh to finish.
func (r *Refresher) Stop() {
	r.once.Do(func() { close(r.done) })
	r.wg.Wait()
}

func (r *Refresher) next() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.order) == 0 {
		return "", false
	}
	key := r.order[0]
	r.order = r.order[1:]
	delete(r.pending, key)
	return key, true
}
