// Package file loads workflow definitions from disk. Files are YAML; JSON
// works too since it parses as YAML.
package file

import (
	"fmt"
	"os"
	"sort"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/daisyflow/daisy/pkg/domain"
)

// Workflow is the on-disk shape of a canvas session.
type Workflow struct {
	Name  string        `yaml:"name" json:"name"`
	Nodes []domain.Node `yaml:"nodes" json:"nodes"`
	Edges []domain.Edge `yaml:"edges" json:"edges"`
}

// Load reads a workflow file and materializes it into a graph. Nodes without
// an id are assigned one; edges keep their declared order, so aggregation
// order follows the file.
func Load(path string) (string, *domain.Graph, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read workflow: %w", err)
	}
	return Parse(raw)
}

// Parse materializes raw workflow bytes into a graph.
func Parse(raw []byte) (string, *domain.Graph, error) {
	var wf Workflow
	if err := yaml.Unmarshal(raw, &wf); err != nil {
		return "", nil, fmt.Errorf("parse workflow: %w", err)
	}

	g := domain.NewGraph()
	for i := range wf.Nodes {
		if wf.Nodes[i].ID == "" {
			wf.Nodes[i].ID = uuid.NewString()
		}
		if err := g.AddNode(wf.Nodes[i]); err != nil {
			return "", nil, fmt.Errorf("workflow node %d: %w", i, err)
		}
	}
	for i, e := range wf.Edges {
		if _, err := g.Connect(e.ID, e.Source, e.Target); err != nil {
			return "", nil, fmt.Errorf("workflow edge %d: %w", i, err)
		}
	}

	return wf.Name, g, nil
}

// Save writes the graph back to a workflow file. Nodes are sorted by id so
// saves are stable under version control.
func Save(path, name string, g *domain.Graph) error {
	nodes := g.Nodes()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	wf := Workflow{Name: name, Nodes: nodes, Edges: g.Edges()}

	raw, err := yaml.Marshal(wf)
	if err != nil {
		return fmt.Errorf("encode workflow: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write workflow: %w", err)
	}
	return nil
}
