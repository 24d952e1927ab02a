package observability

import (
	"context"
	"log/slog"
	"sync"

	"github.com/daisyflow/daisy/pkg/domain"
	"github.com/daisyflow/daisy/pkg/ports"
)

// Fanout publishes each event to every wrapped sink in order.
func Fanout(sinks ...ports.EventSink) ports.EventSink {
	return ports.EventSinkFunc(func(ctx context.Context, ev domain.Event) {
		for _, s := range sinks {
			if s != nil {
				s.Publish(ctx, ev)
			}
		}
	})
}

// NewLogSink returns a sink writing one structured log line per event.
func NewLogSink(logger *slog.Logger) ports.EventSink {
	return ports.EventSinkFunc(func(_ context.Context, ev domain.Event) {
		attrs := []any{"type", ev.Type}
		if ev.NodeID != "" {
			attrs = append(attrs, "node", ev.NodeID, "kind", ev.NodeKind)
		}
		if len(ev.EdgeIDs) > 0 {
			attrs = append(attrs, "edges", ev.EdgeIDs)
		}
		if ev.Type == domain.EventExecutionFinished {
			attrs = append(attrs, "duration", ev.Duration)
		}
		if ev.Err != nil {
			attrs = append(attrs, "category", ev.ErrKind, "err", ev.Err)
			logger.Warn("engine_event", attrs...)
			return
		}
		logger.Info("engine_event", attrs...)
	})
}

// Broker fans events out to channel subscribers. The HTTP adapter's event
// stream subscribes through it. Slow subscribers lose events rather than
// stalling the engine.
type Broker struct {
	mu   sync.Mutex
	subs map[chan domain.Event]struct{}
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[chan domain.Event]struct{})}
}

// Subscribe registers a buffered subscriber channel. The returned cancel
// function removes the subscription and closes the channel.
func (b *Broker) Subscribe() (<-chan domain.Event, func()) {
	ch := make(chan domain.Event, 64)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish implements ports.EventSink. Events are dropped for subscribers
// with a full buffer.
func (b *Broker) Publish(_ context.Context, ev domain.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

var _ ports.EventSink = (*Broker)(nil)
