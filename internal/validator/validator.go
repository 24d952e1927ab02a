// Package validator lints workflow graphs for problems that would surface
// only at execution time.
package validator

import (
	"fmt"

	"github.com/daisyflow/daisy/internal/runtime"
	"github.com/daisyflow/daisy/pkg/domain"
)

// Issue is one problem found in a workflow.
type Issue struct {
	NodeID  string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.NodeID, i.Message)
}

// ValidateGraph inspects every node and reports conditions that would make
// it fail or do nothing when run. The graph itself already rejects
// structural errors (unknown kinds, dangling edges, self-loops) at build
// time, so this covers the semantic layer on top.
func ValidateGraph(g *domain.Graph) []Issue {
	var issues []Issue

	for _, n := range g.Nodes() {
		incoming := g.IncomingNodes(n.ID)

		switch n.Kind {
		case domain.KindTextInput:
			if attrString(n, "value") == "" {
				issues = append(issues, Issue{n.ID, "text input is empty; downstream nodes receive nothing"})
			}
		case domain.KindImageInput:
			if attrString(n, "imageUrl") == "" {
				issues = append(issues, Issue{n.ID, "image input has no URL"})
			}
		case domain.KindAIPrompt:
			if attrString(n, "prompt") == "" {
				issues = append(issues, Issue{n.ID, "prompt is empty; the node will fail validation when run"})
			}
		case domain.KindImageGeneration, domain.KindVideoGeneration:
			if attrString(n, "prompt") == "" && !hasTextSource(incoming) {
				issues = append(issues, Issue{n.ID, "no prompt and no connected text source"})
			}
		case domain.KindTextProcessor:
			if op := attrString(n, "operation"); op != "" && !runtime.IsTextOperation(op) {
				issues = append(issues, Issue{n.ID, fmt.Sprintf("unknown operation %q; text passes through unchanged", op)})
			}
			if len(incoming) == 0 && attrString(n, "inputText") == "" {
				issues = append(issues, Issue{n.ID, "no connected inputs and no inline text"})
			}
		case domain.KindOutput:
			if len(incoming) == 0 {
				issues = append(issues, Issue{n.ID, "output node has no inputs; running it is a no-op"})
			}
		}
	}

	return issues
}

func attrString(n domain.Node, key string) string {
	s, _ := n.Attributes[key].(string)
	return s
}

// hasTextSource reports whether any input node can supply prompt text.
func hasTextSource(nodes []domain.Node) bool {
	for _, n := range nodes {
		switch n.Kind {
		case domain.KindTextInput, domain.KindAIPrompt, domain.KindTextProcessor:
			return true
		}
	}
	return false
}
