package runtime

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/daisyflow/daisy/pkg/domain"
	"github.com/daisyflow/daisy/pkg/ports"
)

// DefaultEdgeActiveTTL is how long an activation keeps its edges rendered
// as "flowing" before auto-expiry.
const DefaultEdgeActiveTTL = 3 * time.Second

// Signaler tracks which edges are currently rendered as carrying data. It is
// purely cosmetic state: activations are reference-counted per edge so
// overlapping activations of the same edge never clear each other, and every
// operation returns immediately — the dispatcher never waits on it.
type Signaler struct {
	sink  ports.EventSink
	after func(time.Duration, func()) *time.Timer

	mu   sync.Mutex
	refs map[string]int
	gen  uint64
}

// SignalerOption configures a Signaler.
type SignalerOption func(*Signaler)

// WithAfterFunc replaces the expiry scheduler. Tests use it to fire expiry
// deterministically.
func WithAfterFunc(after func(time.Duration, func()) *time.Timer) SignalerOption {
	return func(s *Signaler) { s.after = after }
}

// NewSignaler creates a signaler publishing activity events to sink.
func NewSignaler(sink ports.EventSink, opts ...SignalerOption) *Signaler {
	s := &Signaler{
		sink:  sink,
		after: time.AfterFunc,
		refs:  make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Activate marks the given edges active for the default duration. The
// returned release function removes exactly the references this activation
// added; calling it early (e.g. when dispatch finishes before expiry) is
// safe and idempotent, and the scheduled expiry becomes a no-op afterwards.
func (s *Signaler) Activate(ctx context.Context, edgeIDs []string) func() {
	return s.ActivateFor(ctx, edgeIDs, DefaultEdgeActiveTTL)
}

// ActivateFor is Activate with an explicit duration. The manual test trigger
// uses it with a longer delay.
func (s *Signaler) ActivateFor(ctx context.Context, edgeIDs []string, ttl time.Duration) func() {
	if len(edgeIDs) == 0 {
		return func() {}
	}

	s.mu.Lock()
	gen := s.gen
	var fresh []string
	for _, id := range edgeIDs {
		s.refs[id]++
		if s.refs[id] == 1 {
			fresh = append(fresh, id)
		}
	}
	s.mu.Unlock()

	// Only 0->1 transitions are announced; edges already flowing stay as
	// they are, mirroring the 1->0 publication on release.
	if len(fresh) > 0 {
		s.publish(ctx, domain.EventEdgesActivated, fresh)
	}

	var once sync.Once
	release := func() {
		once.Do(func() { s.release(ctx, gen, edgeIDs) })
	}
	s.after(ttl, release)
	return release
}

// release drops one reference per edge id. Activations from before the most
// recent DeactivateAll are stale and ignored.
func (s *Signaler) release(ctx context.Context, gen uint64, edgeIDs []string) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	var expired []string
	for _, id := range edgeIDs {
		if s.refs[id] == 0 {
			continue
		}
		s.refs[id]--
		if s.refs[id] == 0 {
			delete(s.refs, id)
			expired = append(expired, id)
		}
	}
	s.mu.Unlock()

	if len(expired) > 0 {
		s.publish(ctx, domain.EventEdgesDeactivated, expired)
	}
}

// DeactivateAll clears every active edge immediately and invalidates
// outstanding activations.
func (s *Signaler) DeactivateAll(ctx context.Context) {
	s.mu.Lock()
	var cleared []string
	for id := range s.refs {
		cleared = append(cleared, id)
	}
	s.refs = make(map[string]int)
	s.gen++
	s.mu.Unlock()

	if len(cleared) > 0 {
		sort.Strings(cleared)
		s.publish(ctx, domain.EventEdgesDeactivated, cleared)
	}
}

// Active returns the sorted ids of currently active edges.
func (s *Signaler) Active() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.refs))
	for id := range s.refs {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s *Signaler) publish(ctx context.Context, t domain.EventType, edgeIDs []string) {
	if s.sink == nil {
		return
	}
	s.sink.Publish(ctx, domain.Event{
		Type:      t,
		Timestamp: time.Now(),
		EdgeIDs:   edgeIDs,
	})
}
