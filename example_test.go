package daisy_test

import (
	"context"
	"fmt"
	"log"

	"github.com/daisyflow/daisy"
	"github.com/daisyflow/daisy/pkg/domain"
)

// Build a small workflow and run a local text-processing node. Text
// processors execute in-process, so no API credentials are involved.
func Example() {
	eng := daisy.New()

	if err := eng.AddNode(domain.Node{
		ID:         "greeting",
		Kind:       domain.KindTextInput,
		Attributes: map[string]any{"value": "hello daisy"},
	}); err != nil {
		log.Fatal(err)
	}
	if err := eng.AddNode(domain.Node{
		ID:         "shout",
		Kind:       domain.KindTextProcessor,
		Attributes: map[string]any{"operation": "uppercase"},
	}); err != nil {
		log.Fatal(err)
	}
	if _, err := eng.Connect("greeting", "shout"); err != nil {
		log.Fatal(err)
	}

	node, err := eng.RunNode(context.Background(), "shout")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(node.Attributes["outputText"])
	// Output: HELLO DAISY
}
