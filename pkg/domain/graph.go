package domain

import (
	"fmt"
	"sync"
)

// Graph holds the node and edge collections for one canvas session. It is
// the only shared mutable state in the engine: reads (input resolution) and
// writes (post-execution attribute updates) both go through it, and each
// write replaces exactly one node's attribute map, so concurrent node
// executions never corrupt each other.
//
// The Graph lives for the life of the session; it is never destroyed
// mid-flight.
type Graph struct {
	mu    sync.RWMutex
	nodes map[string]Node
	edges []Edge
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]Node)}
}

// AddNode inserts a node. Missing attributes are seeded with the kind's
// defaults. The node id must be unique and the kind valid.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return fmt.Errorf("add node: %w", ErrEmptyNodeID)
	}
	if !n.Kind.Valid() {
		return fmt.Errorf("add node %s: %w: %q", n.ID, ErrUnknownNodeKind, n.Kind)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.nodes[n.ID]; exists {
		return fmt.Errorf("add node: %w: %s", ErrDuplicateNode, n.ID)
	}

	node := n.Clone()
	if node.Attributes == nil {
		node.Attributes = map[string]any{}
	}
	for k, v := range DefaultAttributes(n.Kind) {
		if _, ok := node.Attributes[k]; !ok {
			node.Attributes[k] = v
		}
	}
	g.nodes[n.ID] = node
	return nil
}

// Connect creates a directed edge from source to target. Both endpoints must
// exist and self-loops are rejected. Duplicate source/target pairs are not
// hard-enforced away (one logical connection per pair in practice). When id
// is empty a stable "edge-{source}-{target}" id is derived.
func (g *Graph) Connect(id, source, target string) (Edge, error) {
	if source == target {
		return Edge{}, fmt.Errorf("connect %s -> %s: %w", source, target, ErrSelfLoop)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[source]; !ok {
		return Edge{}, fmt.Errorf("connect: source: %w: %s", ErrNodeNotFound, source)
	}
	if _, ok := g.nodes[target]; !ok {
		return Edge{}, fmt.Errorf("connect: target: %w: %s", ErrNodeNotFound, target)
	}

	if id == "" {
		id = fmt.Sprintf("edge-%s-%s", source, target)
	}
	edge := Edge{ID: id, Source: source, Target: target}
	g.edges = append(g.edges, edge)
	return edge, nil
}

// Node returns a snapshot of the node with the given id.
func (g *Graph) Node(id string) (Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return Node{}, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return n.Clone(), nil
}

// Nodes returns snapshots of every node. Order is unspecified.
func (g *Graph) Nodes() []Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n.Clone())
	}
	return out
}

// Edges returns a copy of the edge list in insertion order.
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// IncomingNodes answers "which nodes feed node targetID": every node with an
// edge into the target, in edge-insertion order. It never mutates graph
// state; a node with no incoming edges yields an empty slice, not an error.
func (g *Graph) IncomingNodes(targetID string) []Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []Node
	for _, e := range g.edges {
		if e.Target != targetID {
			continue
		}
		if src, ok := g.nodes[e.Source]; ok {
			out = append(out, src.Clone())
		}
	}
	return out
}

// IncomingEdgeIDs lists the ids of edges pointing into targetID, in
// insertion order. Used by the signaling layer.
func (g *Graph) IncomingEdgeIDs(targetID string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []string
	for _, e := range g.edges {
		if e.Target == targetID {
			out = append(out, e.ID)
		}
	}
	return out
}

// UpdateNodeData merges patch into the node's attributes and atomically
// replaces the attribute map. This is the single write path for node state:
// executions update only their own node through it, never upstream nodes.
func (g *Graph) UpdateNodeData(id string, patch map[string]any) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("update node: %w: %s", ErrNodeNotFound, id)
	}

	attrs := make(map[string]any, len(n.Attributes)+len(patch))
	for k, v := range n.Attributes {
		attrs[k] = v
	}
	for k, v := range patch {
		attrs[k] = v
	}
	n.Attributes = attrs
	g.nodes[id] = n
	return nil
}
