package domain

import "fmt"

// NodeKind identifies the behavior of a node in the workflow graph.
// The set is closed: the dispatcher matches exhaustively on it, so adding a
// kind is a compile-time-visible change.
type NodeKind string

const (
	KindTextInput       NodeKind = "textInput"
	KindImageInput      NodeKind = "imageInput"
	KindAIPrompt        NodeKind = "aiPrompt"
	KindTextProcessor   NodeKind = "textProcessor"
	KindImageGeneration NodeKind = "imageGeneration"
	KindVideoGeneration NodeKind = "videoGeneration"
	KindOutput          NodeKind = "output"
)

// Kinds lists every valid node kind in a stable order.
func Kinds() []NodeKind {
	return []NodeKind{
		KindTextInput,
		KindImageInput,
		KindAIPrompt,
		KindTextProcessor,
		KindImageGeneration,
		KindVideoGeneration,
		KindOutput,
	}
}

// Valid reports whether k is one of the known node kinds.
func (k NodeKind) Valid() bool {
	switch k {
	case KindTextInput, KindImageInput, KindAIPrompt, KindTextProcessor,
		KindImageGeneration, KindVideoGeneration, KindOutput:
		return true
	}
	return false
}

// ParseNodeKind converts a raw string (e.g. from a workflow file or HTTP
// request) into a NodeKind.
func ParseNodeKind(s string) (NodeKind, error) {
	k := NodeKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownNodeKind, s)
	}
	return k, nil
}

// Node is a unit in the workflow graph. Identity and kind are immutable once
// created; Attributes are kind-specific and mutated only through
// Graph.UpdateNodeData. Nodes handed out by the Graph are snapshots.
type Node struct {
	ID         string         `json:"id" yaml:"id"`
	Kind       NodeKind       `json:"kind" yaml:"kind"`
	Attributes map[string]any `json:"attributes" yaml:"attributes"`
}

// Clone returns a copy of the node with its own attribute map.
func (n Node) Clone() Node {
	attrs := make(map[string]any, len(n.Attributes))
	for k, v := range n.Attributes {
		attrs[k] = v
	}
	return Node{ID: n.ID, Kind: n.Kind, Attributes: attrs}
}

// Edge is a directed connection: the source node's output feeds the target.
// Edges carry no payload; "active" (data flowing) state is transient and
// owned by the signaling layer, not the graph.
type Edge struct {
	ID     string `json:"id" yaml:"id"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// DefaultAttributes returns the seed attribute set a freshly created node of
// the given kind starts with, matching what the canvas drops onto the board.
func DefaultAttributes(kind NodeKind) map[string]any {
	switch kind {
	case KindTextInput:
		return map[string]any{"label": "Text Input", "value": ""}
	case KindImageInput:
		return map[string]any{"label": "Image Input", "imageUrl": ""}
	case KindAIPrompt:
		return map[string]any{
			"label":       "AI Prompt",
			"prompt":      "",
			"model":       DefaultVisionModel,
			"temperature": 0.7,
			"maxTokens":   1000,
		}
	case KindTextProcessor:
		return map[string]any{"label": "Text Processor", "operation": "uppercase"}
	case KindImageGeneration:
		return map[string]any{
			"label":   "Image Generation",
			"prompt":  "",
			"size":    "1024x1024",
			"quality": "standard",
			"style":   "vivid",
		}
	case KindVideoGeneration:
		return map[string]any{
			"label":      "Video Generation",
			"prompt":     "",
			"model":      "gen3a_turbo",
			"duration":   5,
			"ratio":      "16:9",
			"resolution": "1280x768",
		}
	case KindOutput:
		return map[string]any{"label": "Output", "value": "", "format": "text"}
	}
	return map[string]any{}
}
