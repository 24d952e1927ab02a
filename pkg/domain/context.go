package domain

// ConnectedInput is a read-only summary of one upstream node, surfaced for
// UI previews. It is a projection of the snapshot, not execution state.
type ConnectedInput struct {
	NodeID     string         `json:"nodeId"`
	Kind       NodeKind       `json:"kind"`
	Attributes map[string]any `json:"attributes"`
}

// ExecutionContext is the aggregated payload built from a node's upstream
// inputs. It is derived on every execution request and has no lifecycle of
// its own.
//
// TextContext concatenates the upstream text contributions, trimmed of
// trailing whitespace. ImageContext carries at most one image reference;
// when several upstream nodes supply images, the latest in incoming-edge
// order wins.
type ExecutionContext struct {
	TextContext     string           `json:"textContext"`
	ImageContext    string           `json:"imageContext,omitempty"`
	ConnectedInputs []ConnectedInput `json:"connectedInputs"`
}

// HasText reports whether any upstream node contributed text.
func (c ExecutionContext) HasText() bool { return c.TextContext != "" }

// HasImage reports whether an image-bearing upstream node supplied a
// reference.
func (c ExecutionContext) HasImage() bool { return c.ImageContext != "" }
