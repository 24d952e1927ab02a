/*
Package daisy is the execution engine behind a node-based AI workflow
canvas. Workflows are directed graphs where each node does one thing
(hold text, prompt a chat model, generate an image or video, transform
text, display a result) and edges feed one node's output into the next.

It separates the graph model (nodes, edges, attributes) from execution
(aggregate upstream context, dispatch the kind-specific call, write the
result back into the node). This hexagonal layout lets the engine sit
behind any surface: CLI, HTTP server, or an embedding application.

# Key Properties

  - Node-local execution: running a node reads its upstream inputs and
    writes only its own attributes. Failures stay on the failing node.
  - Deterministic aggregation: upstream inputs are flattened in
    edge-insertion order, so a fixed graph always yields the same context.
  - Categorized failures: every execution error carries a category
    (configuration, validation, auth, quota, policy, connectivity,
    remote, timeout) and a ready-to-display message.
  - Event stream: node updates, execution lifecycle, and edge activity
    are published to pluggable sinks instead of callbacks.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/daisyflow/daisy"
		"github.com/daisyflow/daisy/pkg/adapters/memory"
		"github.com/daisyflow/daisy/pkg/domain"
		"github.com/daisyflow/daisy/pkg/ports"
	)

	func main() {
		creds := memory.NewCredentialStore()
		creds.SetCredential(context.Background(), ports.ProviderOpenAI, "sk-...")

		eng := daisy.New(daisy.WithCredentials(creds))

		eng.AddNode(domain.Node{ID: "subject", Kind: domain.KindTextInput,
			Attributes: map[string]any{"value": "a lighthouse at dusk"}})
		eng.AddNode(domain.Node{ID: "ask", Kind: domain.KindAIPrompt,
			Attributes: map[string]any{"prompt": "Write a haiku about this."}})
		eng.Connect("subject", "ask")

		node, err := eng.RunNode(context.Background(), "ask")
		if err != nil {
			log.Fatal(err)
		}
		log.Println(node.Attributes["response"])
	}
*/
package daisy
