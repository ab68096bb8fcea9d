package preview

import (
	"context"
	"sync"
	"time"
)

// DefaultQuietWindow is how long sources must stay unchanged before a rebuild.
const DefaultQuietWindow = 300 * time.Millisecond

// Debouncer coalesces bursts of triggers into one call of fire.
type Debouncer struct {
	wait time.Duration
	fire func()

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer returns a debouncer calling fire once wait has passed without a trigger.
func NewDebouncer(wait time.Duration, fire func()) *Debouncer {
	if wait <= 0 {
		wait = DefaultQuietWindow
	}
	return &Debouncer{wait: wait, fire: fire}
}

// Trigger restarts the quiet window.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, d.fire)
}

// Stop cancels a pending fire.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}

// Rebuilder runs builds one at a time. Requests arriving during a build collapse
// into a single follow-up build.
type Rebuilder struct {
	build func(ctx context.Context) error
	done  func(err error)
	req   chan struct{}
}

// NewRebuilder returns a rebuilder. done, if set, receives every build result.
func NewRebuilder(build func(ctx context.Context) error, done func(err error)) *Rebuilder {
	return &Rebuilder{build: build, done: done, req: make(chan struct{}, 1)}
}

// Request asks for a rebuild without blocking.
func (r *Rebuilder) Request() {
	select {
	case r.req <- struct{}{}:
	default:
	}
}

// Run processes requests until ctx is done.
func (r *Rebuilder) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-r.req:
			err := r.build(ctx)
			if r.done != nil {
				r.done(err)
			}
		}
	}
}
