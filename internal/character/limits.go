package character

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// httpError carries the status of a failed service call so the gate can tell
// transient overload from hard failures.
type httpError struct {
	status int
	body   string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("status=%d body=%s", e.status, e.body)
}

func (e *httpError) transient() bool {
	return e.status == http.StatusTooManyRequests || e.status >= 500
}

// callGate paces requests to the character service and retries transient
// failures with exponential backoff. The rate adapts: it climbs slowly after
// a quiet stretch of successes and halves whenever the service pushes back.
type callGate struct {
	mu       sync.Mutex
	limiter  *rate.Limiter
	minLimit rate.Limit
	maxLimit rate.Limit
	lastErr  time.Time
}

func newCallGate() *callGate {
	return &callGate{
		limiter:  rate.NewLimiter(2, 2),
		minLimit: 1,
		maxLimit: 5,
	}
}

func (g *callGate) do(ctx context.Context, attempts int, fn func() error) error {
	delay := 500 * time.Millisecond

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := g.limiter.Wait(ctx); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			g.success()
			return nil
		}
		lastErr = err

		var he *httpError
		if errors.As(err, &he) && !he.transient() {
			return err
		}
		g.slowDown()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if delay > 10*time.Second {
			delay = 10 * time.Second
		}
	}
	return fmt.Errorf("character service unavailable: %w", lastErr)
}

func (g *callGate) success() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if time.Since(g.lastErr) > 10*time.Second {
		g.adjust(g.limiter.Limit() + 1)
	}
}

func (g *callGate) slowDown() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastErr = time.Now()
	g.adjust(g.limiter.Limit() / 2)
}

func (g *callGate) adjust(l rate.Limit) {
	if l > g.maxLimit {
		l = g.maxLimit
	}
	if l < g.minLimit {
		l = g.minLimit
	}
	if l != g.limiter.Limit() {
		g.limiter.SetLimit(l)
		g.limiter.SetBurst(int(l))
	}
}
