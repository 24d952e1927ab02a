package cli

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/daisyflow/daisy"
	"github.com/daisyflow/daisy/internal/presentation/tui"
	"github.com/daisyflow/daisy/pkg/domain"
)

// RunResult reports the outcome of executing one node.
type RunResult struct {
	Node domain.Node
	Err  error
}

// RunTargets executes the named node, or every output node when nodeID is
// empty. Nodes run sequentially in ID order so repeated invocations behave
// the same way.
func RunTargets(ctx context.Context, engine *daisy.Engine, nodeID string) ([]RunResult, error) {
	var targets []string
	if nodeID != "" {
		targets = []string{nodeID}
	} else {
		for _, n := range engine.Graph().Nodes() {
			if n.Kind == domain.KindOutput {
				targets = append(targets, n.ID)
			}
		}
		sort.Strings(targets)
		if len(targets) == 0 {
			return nil, fmt.Errorf("workflow has no output nodes; name a node to run")
		}
	}

	results := make([]RunResult, 0, len(targets))
	for _, id := range targets {
		node, err := engine.RunNode(ctx, id)
		if err != nil && node.ID == "" {
			return results, err
		}
		results = append(results, RunResult{Node: node, Err: err})
	}
	return results, nil
}

// Render writes each result to w, formatting node output through the
// terminal renderer and surfacing failures as display messages.
func Render(w io.Writer, results []RunResult) {
	render := tui.NewRenderer()

	for _, r := range results {
		if r.Err != nil {
			execErr := domain.AsExecError(r.Err)
			fmt.Fprintf(w, "%s failed:\n%s\n", r.Node.ID, execErr.DisplayMessage())
			continue
		}

		value, format := nodeOutput(r.Node)
		rendered, err := render(value, format)
		if err != nil {
			rendered = value + "\n"
		}
		fmt.Fprintf(w, "%s:\n%s", r.Node.ID, rendered)
	}
}

func nodeOutput(n domain.Node) (value, format string) {
	switch n.Kind {
	case domain.KindOutput:
		value, _ = n.Attributes["value"].(string)
		format, _ = n.Attributes["format"].(string)
	case domain.KindAIPrompt:
		value, _ = n.Attributes["response"].(string)
		format = "markdown"
	case domain.KindImageGeneration:
		value, _ = n.Attributes["imageUrl"].(string)
		format = "image"
	case domain.KindVideoGeneration:
		value, _ = n.Attributes["videoUrl"].(string)
		format = "text"
	case domain.KindTextProcessor:
		value, _ = n.Attributes["outputText"].(string)
		format = "text"
	default:
		value, _ = n.Attributes["value"].(string)
		format = "text"
	}
	if format == "" {
		format = "text"
	}
	return value, format
}
