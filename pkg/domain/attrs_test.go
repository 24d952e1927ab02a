package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAttrsWeakTyping(t *testing.T) {
	// JSON round-trips numbers as float64; decoding still lands in int
	// fields.
	attrs := map[string]any{
		"prompt":      "hi",
		"temperature": float64(0.9),
		"maxTokens":   float64(512),
	}

	var out AIPromptAttrs
	require.NoError(t, DecodeAttrs(attrs, &out))
	assert.Equal(t, 0.9, out.Temperature)
	assert.Equal(t, 512, out.MaxTokens)
}

func TestDecodeAttrsIgnoresUnknownKeys(t *testing.T) {
	attrs := map[string]any{
		"value":    "hello",
		"position": map[string]any{"x": 10, "y": 20},
	}

	var out TextInputAttrs
	require.NoError(t, DecodeAttrs(attrs, &out))
	assert.Equal(t, "hello", out.Value)
}

func TestIsVisionModel(t *testing.T) {
	assert.True(t, IsVisionModel("gpt-4o"))
	assert.True(t, IsVisionModel("gpt-4-vision-preview"))
	assert.False(t, IsVisionModel("gpt-3.5-turbo"))
}

func TestParseNodeKind(t *testing.T) {
	k, err := ParseNodeKind("videoGeneration")
	require.NoError(t, err)
	assert.Equal(t, KindVideoGeneration, k)

	_, err = ParseNodeKind("VideoGeneration")
	assert.ErrorIs(t, err, ErrUnknownNodeKind)
}
