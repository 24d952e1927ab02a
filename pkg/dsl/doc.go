/*
Package dsl provides a Go DSL (Domain Specific Language) for programmatically constructing daisy workflow graphs.

It allows developers to define workflows using a type-safe, fluent builder pattern
instead of relying on external YAML or JSON files. This is particularly useful for dynamic graph
generation, unit testing, and leveraging IDE autocompletion/type-checking.

Example usage:

	package main

	import (
		"github.com/daisyflow/daisy"
		"github.com/daisyflow/daisy/pkg/dsl"
	)

	func main() {
		b := dsl.New()

		b.TextInput("topic").
			Text("a field of daisies at dawn").
			Go("writer")

		b.AIPrompt("writer").
			Prompt("Write a haiku about the input.").
			Go("result")

		b.Output("result")

		g, err := b.Build()
		// ... pass g to daisy.FromGraph(g, ...)
		_ = g
		_ = err
	}
*/
package dsl
