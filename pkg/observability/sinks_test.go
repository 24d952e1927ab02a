package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daisyflow/daisy/pkg/domain"
	"github.com/daisyflow/daisy/pkg/observability"
	"github.com/daisyflow/daisy/pkg/ports"
)

func TestFanout(t *testing.T) {
	var first, second []domain.Event
	sink := observability.Fanout(
		ports.EventSinkFunc(func(_ context.Context, ev domain.Event) { first = append(first, ev) }),
		nil,
		ports.EventSinkFunc(func(_ context.Context, ev domain.Event) { second = append(second, ev) }),
	)

	sink.Publish(context.Background(), domain.Event{Type: domain.EventNodeUpdated, NodeID: "n1"})

	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, "n1", first[0].NodeID)
}

func TestBrokerSubscribe(t *testing.T) {
	b := observability.NewBroker()
	ch1, cancel1 := b.Subscribe()
	ch2, cancel2 := b.Subscribe()
	defer cancel2()

	b.Publish(context.Background(), domain.Event{Type: domain.EventExecutionStarted, NodeID: "n1"})

	assert.Equal(t, "n1", (<-ch1).NodeID)
	assert.Equal(t, "n1", (<-ch2).NodeID)

	cancel1()
	cancel1() // Re-cancel is a no-op.
	_, open := <-ch1
	assert.False(t, open)

	// Remaining subscribers still receive.
	b.Publish(context.Background(), domain.Event{Type: domain.EventExecutionFinished, NodeID: "n1"})
	select {
	case ev := <-ch2:
		assert.Equal(t, domain.EventExecutionFinished, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive event")
	}
}

func TestBrokerDropsWhenFull(t *testing.T) {
	b := observability.NewBroker()
	ch, cancel := b.Subscribe()
	defer cancel()

	// Publish never blocks, even past the subscriber's buffer.
	for i := 0; i < 200; i++ {
		b.Publish(context.Background(), domain.Event{Type: domain.EventNodeUpdated})
	}
	assert.Len(t, ch, 64)
}

func TestMetricsSink(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	ctx := context.Background()

	m.Publish(ctx, domain.Event{
		Type:     domain.EventExecutionFinished,
		NodeKind: domain.KindAIPrompt,
		Duration: 120 * time.Millisecond,
	})
	m.Publish(ctx, domain.Event{
		Type:     domain.EventExecutionFinished,
		NodeKind: domain.KindAIPrompt,
		Err:      domain.NewExecError(domain.ErrAuth, "bad key", nil),
		ErrKind:  domain.ErrAuth,
	})
	m.Publish(ctx, domain.Event{Type: domain.EventEdgesActivated, EdgeIDs: []string{"e1", "e2"}})
	m.Publish(ctx, domain.Event{Type: domain.EventEdgesDeactivated, EdgeIDs: []string{"e1"}})

	families, err := reg.Gather()
	require.NoError(t, err)
	byName := map[string]float64{}
	seen := map[string]bool{}
	for _, fam := range families {
		seen[fam.GetName()] = true
		for _, metric := range fam.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				byName[fam.GetName()] += metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				byName[fam.GetName()] += metric.GetGauge().GetValue()
			}
		}
	}

	assert.Equal(t, 2.0, byName["daisy_node_executions_total"])
	assert.Equal(t, 1.0, byName["daisy_node_failures_total"])
	assert.Equal(t, 1.0, byName["daisy_active_edges"])
	assert.True(t, seen["daisy_node_duration_seconds"])
}
