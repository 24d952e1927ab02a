package ports

import (
	"context"

	"github.com/daisyflow/daisy/pkg/domain"
)

// EventSink receives engine events. The dispatcher publishes node-updated,
// execution and edge-activity events through this interface instead of
// threading callbacks into every node; rendering layers and observability
// subscribe on the other side.
//
// Publish must not block: sinks that fan out to slow consumers drop or
// buffer on their own.
type EventSink interface {
	Publish(ctx context.Context, ev domain.Event)
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(ctx context.Context, ev domain.Event)

// Publish implements EventSink.
func (f EventSinkFunc) Publish(ctx context.Context, ev domain.Event) { f(ctx, ev) }
