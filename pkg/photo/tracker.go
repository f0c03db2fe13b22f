package photo

import (
	"context"
	"image"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Tracker counts pending image loads. Wait returns once the count is zero.
// The zero value is not usable; call [NewTracker].
type Tracker struct {
	mu      sync.Mutex
	pending int
	zero    chan struct{}
}

// NewTracker returns a tracker with nothing pending.
func NewTracker() *Tracker {
	t := &Tracker{zero: make(chan struct{})}
	close(t.zero)
	return t
}

// Add adds n, which may be negative, to the pending count. It panics if
// the count goes negative.
func (t *Tracker) Add(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending == 0 && n > 0 {
		t.zero = make(chan struct{})
	}
	t.pending += n
	switch {
	case t.pending < 0:
		panic("photo: negative pending count")
	case t.pending == 0 && n < 0:
		close(t.zero)
	}
}

// Done marks one load finished.
func (t *Tracker) Done() { t.Add(-1) }

// Pending returns the number of loads not yet finished.
func (t *Tracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Wait blocks until nothing is pending or ctx ends.
func (t *Tracker) Wait(ctx context.Context) error {
	t.mu.Lock()
	zero := t.zero
	t.mu.Unlock()
	select {
	case <-zero:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Result is the outcome of loading one reference.
type Result struct {
	Image image.Image
	Err   error
}

// Images is a set of references being loaded.
type Images struct {
	tracker *Tracker
	mu      sync.Mutex
	results map[string]Result
}

// Preload starts loading refs with at most limit loads in flight and
// returns immediately. Duplicate references are loaded once. A limit <= 0
// means no limit.
func Preload(ctx context.Context, l Loader, refs []string, limit int) *Images {
	s := &Images{tracker: NewTracker(), results: make(map[string]Result, len(refs))}

	var unique []string
	seen := make(map[string]bool, len(refs))
	for _, r := range refs {
		if !seen[r] {
			seen[r] = true
			unique = append(unique, r)
		}
	}
	if len(unique) == 0 {
		return s
	}
	s.tracker.Add(len(unique))

	go func() {
		var g errgroup.Group
		if limit > 0 {
			g.SetLimit(limit)
		}
		for _, ref := range unique {
			g.Go(func() error {
				defer s.tracker.Done()
				img, err := l.Load(ctx, ref)
				s.mu.Lock()
				s.results[ref] = Result{Image: img, Err: err}
				s.mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
	}()
	return s
}

// Wait blocks until every load has finished or ctx ends.
func (s *Images) Wait(ctx context.Context) error { return s.tracker.Wait(ctx) }

// Pending returns the number of loads still running.
func (s *Images) Pending() int { return s.tracker.Pending() }

// Get returns the result for ref. ok is false if ref was never requested
// or has not finished loading.
func (s *Images) Get(ref string) (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.results[ref]
	return r, ok
}

// Failed returns the references whose load failed, with their errors.
func (s *Images) Failed() map[string]error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]error{}
	for ref, r := range s.results {
		if r.Err != nil {
			out[ref] = r.Err
		}
	}
	return out
}
