package dsl

import (
	"testing"

	"github.com/daisyflow/daisy/pkg/domain"
)

func TestBuilder_SimpleFlow(t *testing.T) {
	b := New()

	b.TextInput("topic").
		Text("a field of daisies").
		Go("writer")

	b.AIPrompt("writer").
		Prompt("Write a haiku about the input.").
		Model("gpt-4o-mini").
		Go("result")

	b.Output("result")

	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	topic, err := g.Node("topic")
	if err != nil {
		t.Fatalf("Node('topic') failed: %v", err)
	}
	if topic.Kind != domain.KindTextInput {
		t.Errorf("Expected kind 'textInput', got '%s'", topic.Kind)
	}
	if topic.Attributes["value"] != "a field of daisies" {
		t.Errorf("Expected value 'a field of daisies', got '%v'", topic.Attributes["value"])
	}

	writer, err := g.Node("writer")
	if err != nil {
		t.Fatalf("Node('writer') failed: %v", err)
	}
	if writer.Attributes["model"] != "gpt-4o-mini" {
		t.Errorf("Expected model override, got '%v'", writer.Attributes["model"])
	}
	// Attributes not set explicitly are seeded from the kind defaults.
	if writer.Attributes["temperature"] != 0.7 {
		t.Errorf("Expected default temperature, got '%v'", writer.Attributes["temperature"])
	}

	if len(g.Nodes()) != 3 {
		t.Errorf("Expected 3 nodes, got %d", len(g.Nodes()))
	}
	if len(g.Edges()) != 2 {
		t.Errorf("Expected 2 edges, got %d", len(g.Edges()))
	}

	incoming := g.IncomingNodes("writer")
	if len(incoming) != 1 || incoming[0].ID != "topic" {
		t.Errorf("Expected writer fed by topic, got %+v", incoming)
	}
}

func TestBuilder_AddIsIdempotent(t *testing.T) {
	b := New()

	b.TextProcessor("shout").Operation("uppercase")
	b.Add("shout", domain.KindTextProcessor).Label("Shout")

	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	node, err := g.Node("shout")
	if err != nil {
		t.Fatalf("Node('shout') failed: %v", err)
	}
	if node.Attributes["operation"] != "uppercase" {
		t.Errorf("Expected operation kept, got '%v'", node.Attributes["operation"])
	}
	if node.Attributes["label"] != "Shout" {
		t.Errorf("Expected label applied to the same node, got '%v'", node.Attributes["label"])
	}
}

func TestBuilder_RejectsBadEdges(t *testing.T) {
	b := New()
	b.TextInput("a").Go("a")

	if _, err := b.Build(); err == nil {
		t.Fatal("Expected self-loop rejection, got nil")
	}

	b2 := New()
	b2.TextInput("a").Go("ghost")

	if _, err := b2.Build(); err == nil {
		t.Fatal("Expected missing-target rejection, got nil")
	}
}
