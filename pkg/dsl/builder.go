package dsl

import (
	"fmt"

	"github.com/daisyflow/daisy/pkg/domain"
)

// Builder manages the graph construction.
type Builder struct {
	order []*NodeBuilder
	nodes map[string]*NodeBuilder
	edges [][2]string
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		nodes: make(map[string]*NodeBuilder),
	}
}

// Add creates a new node in the graph.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(id string, kind domain.NodeKind) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node: domain.Node{
			ID:         id,
			Kind:       kind,
			Attributes: make(map[string]any),
		},
		builder: b,
	}
	b.nodes[id] = nb
	b.order = append(b.order, nb)
	return nb
}

// TextInput adds a text input node.
func (b *Builder) TextInput(id string) *NodeBuilder {
	return b.Add(id, domain.KindTextInput)
}

// ImageInput adds an image input node.
func (b *Builder) ImageInput(id string) *NodeBuilder {
	return b.Add(id, domain.KindImageInput)
}

// AIPrompt adds an AI prompt node.
func (b *Builder) AIPrompt(id string) *NodeBuilder {
	return b.Add(id, domain.KindAIPrompt)
}

// TextProcessor adds a text processor node.
func (b *Builder) TextProcessor(id string) *NodeBuilder {
	return b.Add(id, domain.KindTextProcessor)
}

// ImageGeneration adds an image generation node.
func (b *Builder) ImageGeneration(id string) *NodeBuilder {
	return b.Add(id, domain.KindImageGeneration)
}

// VideoGeneration adds a video generation node.
func (b *Builder) VideoGeneration(id string) *NodeBuilder {
	return b.Add(id, domain.KindVideoGeneration)
}

// Output adds an output node.
func (b *Builder) Output(id string) *NodeBuilder {
	return b.Add(id, domain.KindOutput)
}

// Connect records an edge from source to target. Edge ids are derived at
// build time.
func (b *Builder) Connect(source, target string) *Builder {
	b.edges = append(b.edges, [2]string{source, target})
	return b
}

// Build compiles the accumulated nodes and edges into a graph. Nodes are
// added in declaration order so validation errors point at the first
// offender.
func (b *Builder) Build() (*domain.Graph, error) {
	g := domain.NewGraph()
	for _, nb := range b.order {
		if err := g.AddNode(nb.node); err != nil {
			return nil, fmt.Errorf("node %s: %w", nb.node.ID, err)
		}
	}
	for _, e := range b.edges {
		if _, err := g.Connect("", e[0], e[1]); err != nil {
			return nil, fmt.Errorf("edge %s -> %s: %w", e[0], e[1], err)
		}
	}
	return g, nil
}
