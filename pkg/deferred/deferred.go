// Package deferred schedules one-shot functions to run after a delay, with
// per-key tracking so a pending action can be cancelled or replaced.
//
// Typical usage:
//
//	r := deferred.NewRunner(func(msg string) {
//	    log.Println("DEFER:", msg)
//	})
//
//	r.After("reply:1234", 5*time.Second, func() {
//	    // post the delayed reply
//	})
//
// Scheduling a second action under the same key cancels the pending one.
// The package is intentionally minimal: no recurring jobs, no persistence.
package deferred

import (
	"context"
	"sync"
	"time"
)

// Reporter receives lifecycle events: "done:<key>" or "cancelled:<key>".
type Reporter func(string)

type entry struct {
	cancel context.CancelFunc
}

// Runner tracks pending deferred actions by key. Safe for concurrent use.
type Runner struct {
	mu       sync.Mutex
	pending  map[string]*entry
	Reporter Reporter
}

// NewRunner creates a Runner. The reporter callback may be nil.
func NewRunner(reporter Reporter) *Runner {
	return &Runner{
		pending:  make(map[string]*entry),
		Reporter: reporter,
	}
}

// After schedules fn to run once delay has elapsed. A pending action under
// the same key is cancelled and replaced. A zero delay still runs fn on its
// own goroutine.
func (r *Runner) After(key string, delay time.Duration, fn func()) {
	ctx, cancel := context.WithCancel(context.Background())
	e := &entry{cancel: cancel}

	r.mu.Lock()
	if old, ok := r.pending[key]; ok {
		old.cancel()
	}
	r.pending[key] = e
	r.mu.Unlock()

	go func() {
		defer func() {
			r.mu.Lock()
			if r.pending[key] == e {
				delete(r.pending, key)
			}
			r.mu.Unlock()
		}()

		if delay > 0 {
			select {
			case <-ctx.Done():
				r.report("cancelled:" + key)
				return
			case <-time.After(delay):
			}
		}
		fn()
		r.report("done:" + key)
	}()
}

// Cancel drops a pending action by key. Returns false when nothing was
// pending.
func (r *Runner) Cancel(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.pending[key]
	if !ok {
		return false
	}
	e.cancel()
	delete(r.pending, key)
	return true
}

// Pending returns the keys with actions still scheduled.
func (r *Runner) Pending() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.pending))
	for k := range r.pending {
		out = append(out, k)
	}
	return out
}

func (r *Runner) report(s string) {
	if r.Reporter != nil {
		r.Reporter(s)
	}
}
