package domain

import "time"

// EventType defines the category of an engine event.
type EventType string

const (
	// EventExecutionStarted fires when a node enters Dispatching.
	EventExecutionStarted EventType = "execution_started"
	// EventExecutionFinished fires on the Succeeded or Failed transition.
	EventExecutionFinished EventType = "execution_finished"
	// EventNodeUpdated fires whenever a node's attributes are patched.
	EventNodeUpdated EventType = "node_updated"
	// EventEdgesActivated fires when edges start rendering as "flowing".
	EventEdgesActivated EventType = "edges_activated"
	// EventEdgesDeactivated fires when the activation expires or is cleared.
	EventEdgesDeactivated EventType = "edges_deactivated"
)

// Event is the message the engine publishes to subscribed sinks. The
// rendering layer listens for node-updated and edges-(de)activated to keep
// the canvas in sync; observability sinks consume all of it.
type Event struct {
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	NodeID    string         `json:"node_id,omitempty"`
	NodeKind  NodeKind       `json:"node_kind,omitempty"`
	EdgeIDs   []string       `json:"edge_ids,omitempty"`
	Patch     map[string]any `json:"patch,omitempty"`
	Duration  time.Duration  `json:"duration,omitempty"`
	Err       *ExecError     `json:"-"`
	ErrKind   ExecErrorKind  `json:"error_kind,omitempty"`
}

// Succeeded reports whether a finished execution completed without error.
func (e Event) Succeeded() bool {
	return e.Type == EventExecutionFinished && e.Err == nil
}
