package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daisyflow/daisy"
	"github.com/daisyflow/daisy/pkg/dsl"
)

func newTestEngine(t *testing.T) *daisy.Engine {
	t.Helper()

	b := dsl.New()
	b.TextInput("note").Text("hello daisy").Go("shout")
	b.TextProcessor("shout").Operation("uppercase").Go("result")
	b.Output("result")

	g, err := b.Build()
	require.NoError(t, err)
	return daisy.FromGraph(g)
}

func TestRunTargetsNamedNode(t *testing.T) {
	engine := newTestEngine(t)

	results, err := RunTargets(context.Background(), engine, "shout")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.Equal(t, "HELLO DAISY", results[0].Node.Attributes["outputText"])
}

func TestRunTargetsDefaultsToOutputs(t *testing.T) {
	engine := newTestEngine(t)

	_, err := engine.RunNode(context.Background(), "shout")
	require.NoError(t, err)

	results, err := RunTargets(context.Background(), engine, "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "result", results[0].Node.ID)
	assert.Equal(t, "HELLO DAISY", results[0].Node.Attributes["value"])
}

func TestRunTargetsUnknownNode(t *testing.T) {
	engine := newTestEngine(t)

	_, err := RunTargets(context.Background(), engine, "ghost")
	assert.Error(t, err)
}

func TestRunTargetsNoOutputs(t *testing.T) {
	engine := daisy.New()

	_, err := RunTargets(context.Background(), engine, "")
	assert.ErrorContains(t, err, "no output nodes")
}

func TestRenderWritesResults(t *testing.T) {
	engine := newTestEngine(t)

	results, err := RunTargets(context.Background(), engine, "shout")
	require.NoError(t, err)

	var out strings.Builder
	Render(&out, results)
	assert.Contains(t, out.String(), "shout:")
	assert.Contains(t, out.String(), "HELLO DAISY")
}
