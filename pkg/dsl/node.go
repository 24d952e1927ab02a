package dsl

import "github.com/daisyflow/daisy/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node    domain.Node
	builder *Builder
}

// Label sets the node's display label.
func (n *NodeBuilder) Label(label string) *NodeBuilder {
	return n.Set("label", label)
}

// Text sets the value of a text input node.
func (n *NodeBuilder) Text(value string) *NodeBuilder {
	return n.Set("value", value)
}

// Image sets the image URL of an image input node.
func (n *NodeBuilder) Image(url string) *NodeBuilder {
	return n.Set("imageUrl", url)
}

// Prompt sets the prompt of an AI, image or video generation node.
func (n *NodeBuilder) Prompt(prompt string) *NodeBuilder {
	return n.Set("prompt", prompt)
}

// Model overrides the model used by a generation node.
func (n *NodeBuilder) Model(model string) *NodeBuilder {
	return n.Set("model", model)
}

// Operation sets the operation of a text processor node.
func (n *NodeBuilder) Operation(op string) *NodeBuilder {
	return n.Set("operation", op)
}

// Set stores an arbitrary attribute on the node.
func (n *NodeBuilder) Set(key string, value any) *NodeBuilder {
	n.node.Attributes[key] = value
	return n
}

// Go adds an edge from this node to the target.
func (n *NodeBuilder) Go(target string) *NodeBuilder {
	n.builder.Connect(n.node.ID, target)
	return n
}
