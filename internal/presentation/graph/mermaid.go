package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/daisyflow/daisy/pkg/domain"
)

// Overlay contains dynamic state data to visualize on the graph.
type Overlay struct {
	ActiveEdges []string
	FailedNodes []string
}

// GenerateMermaid produces a Mermaid flowchart from the workflow graph.
// It applies semantic shapes per node kind:
// - Inputs (text/image): [/Parallelogram/]
// - Generators (AI, image, video): [[Subroutine]]
// - Output: ((Circle))
// - Default: [Rectangle]
// Active edges render as thick links when an overlay is provided.
func GenerateMermaid(g *domain.Graph, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	nodes := g.Nodes()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	for _, node := range nodes {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch node.Kind {
		case domain.KindTextInput, domain.KindImageInput:
			opener, closer = "[/", "/]" // Parallelogram (Input)
		case domain.KindAIPrompt, domain.KindImageGeneration, domain.KindVideoGeneration:
			opener, closer = "[[", "]]" // Subroutine (external call)
		case domain.KindOutput:
			opener, closer = "((", "))" // Circle (sink)
		}

		label := nodeLabel(node)
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))
	}

	active := make(map[string]bool)
	if overlay != nil {
		for _, id := range overlay.ActiveEdges {
			active[id] = true
		}
	}

	for _, e := range g.Edges() {
		arrow := "-->"
		if active[e.ID] {
			arrow = "==>"
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", sanitizeMermaidID(e.Source), arrow, sanitizeMermaidID(e.Target)))
	}

	if overlay != nil && len(overlay.FailedNodes) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef failed fill:#fee2e2,stroke:#b91c1c,stroke-width:2px,color:#000;\n")

		styled := make(map[string]bool)
		for _, id := range overlay.FailedNodes {
			safeID := sanitizeMermaidID(id)
			if safeID != "" && !styled[safeID] {
				styled[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s failed;\n", safeID))
			}
		}
	}

	return sb.String()
}

// nodeLabel renders "id<br/>kind" so both identity and behavior are visible
// on the chart.
func nodeLabel(node domain.Node) string {
	id := strings.ReplaceAll(node.ID, "\"", "'")
	return fmt.Sprintf("%s <br/> %s", id, node.Kind)
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
