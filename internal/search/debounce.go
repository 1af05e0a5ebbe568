// Package search implements the keystroke-driven catalog search used
// while building a bill: keystrokes within a quiet window are coalesced
// into one backend request, and only the newest request's results are
// delivered (last-request-wins).
package search

import (
	"context"
	"sync"
	"time"

	"github.com/shopbill/pos/internal/domain/entity"
)

// DefaultWindow matches the frontend debounce the backend was tuned for.
const DefaultWindow = 300 * time.Millisecond

// SearchFunc performs one catalog search.
type SearchFunc func(ctx context.Context, query string) ([]entity.CatalogItem, error)

// ResultFunc receives the results of the winning request. err is nil on
// success; an empty query delivers an empty result set immediately.
type ResultFunc func(query string, items []entity.CatalogItem, err error)

// Debouncer coalesces queries and issues at most one in-flight search.
// A newer query cancels the effect of any older in-flight request.
type Debouncer struct {
	search  SearchFunc
	deliver ResultFunc
	window  time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	seq    uint64
	cancel context.CancelFunc
	closed bool
}

// NewDebouncer creates a debouncer. window <= 0 uses DefaultWindow.
func NewDebouncer(search SearchFunc, deliver ResultFunc, window time.Duration) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Debouncer{search: search, deliver: deliver, window: window}
}

// Query records a keystroke. The search fires once the operator has
// been quiet for the debounce window. An empty query clears results
// without touching the backend.
func (d *Debouncer) Query(query string) {
	d.mu.Lock()

	if d.closed {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	// invalidate any in-flight request right away
	d.seq++
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}

	if query == "" {
		d.mu.Unlock()
		d.deliver("", nil, nil)
		return
	}

	d.timer = time.AfterFunc(d.window, func() {
		d.fire(query)
	})
	d.mu.Unlock()
}

func (d *Debouncer) fire(query string) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.seq++
	seq := d.seq
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.mu.Unlock()

	items, err := d.search(ctx, query)

	d.mu.Lock()
	latest := d.seq == seq && !d.closed
	d.mu.Unlock()

	if latest {
		d.deliver(query, items, err)
	}
}

// Close cancels pending and in-flight work. No results are delivered
// after Close returns.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
