package domain

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Chat models able to accept image content alongside text. When an AI prompt
// node receives image input while configured with a model outside this set,
// the dispatcher upgrades it to DefaultVisionModel and writes the new model
// back to the node.
const DefaultVisionModel = "gpt-4o"

var visionModels = map[string]bool{
	"gpt-4o":               true,
	"gpt-4-vision-preview": true,
}

// IsVisionModel reports whether the chat model can accept image parts.
func IsVisionModel(model string) bool {
	return visionModels[model]
}

// Typed views over a node's attribute map. Attributes stay a map at the
// graph level (the canvas patches arbitrary keys); these structs are the
// per-kind extraction contract the engine decodes through.

// TextInputAttrs holds the attributes of a textInput node.
type TextInputAttrs struct {
	Label string `mapstructure:"label"`
	Value string `mapstructure:"value"`
}

// ImageInputAttrs holds the attributes of an imageInput node.
type ImageInputAttrs struct {
	Label    string `mapstructure:"label"`
	ImageURL string `mapstructure:"imageUrl"`
}

// AIPromptAttrs holds the attributes of an aiPrompt node.
type AIPromptAttrs struct {
	Label       string  `mapstructure:"label"`
	Prompt      string  `mapstructure:"prompt"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"maxTokens"`
	Response    string  `mapstructure:"response"`
}

// TextProcessorAttrs holds the attributes of a textProcessor node.
type TextProcessorAttrs struct {
	Label           string `mapstructure:"label"`
	Operation       string `mapstructure:"operation"`
	CustomOperation string `mapstructure:"customOperation"`
	InputText       string `mapstructure:"inputText"`
	OutputText      string `mapstructure:"outputText"`
}

// ImageGenerationAttrs holds the attributes of an imageGeneration node.
type ImageGenerationAttrs struct {
	Label         string `mapstructure:"label"`
	Prompt        string `mapstructure:"prompt"`
	Size          string `mapstructure:"size"`
	Quality       string `mapstructure:"quality"`
	Style         string `mapstructure:"style"`
	ImageURL      string `mapstructure:"imageUrl"`
	RevisedPrompt string `mapstructure:"revisedPrompt"`
}

// VideoGenerationAttrs holds the attributes of a videoGeneration node.
type VideoGenerationAttrs struct {
	Label      string  `mapstructure:"label"`
	Prompt     string  `mapstructure:"prompt"`
	Model      string  `mapstructure:"model"`
	Duration   int     `mapstructure:"duration"`
	Ratio      string  `mapstructure:"ratio"`
	Resolution string  `mapstructure:"resolution"`
	VideoURL   string  `mapstructure:"videoUrl"`
	TaskID     string  `mapstructure:"taskId"`
	Progress   float64 `mapstructure:"progress"`
	Error      string  `mapstructure:"error"`
}

// OutputAttrs holds the attributes of an output node.
type OutputAttrs struct {
	Label  string `mapstructure:"label"`
	Value  string `mapstructure:"value"`
	Format string `mapstructure:"format"`
}

// DecodeAttrs decodes a node's attribute map into one of the typed views
// above. Numeric attribute values arriving from JSON (float64) decode into
// int fields via weak typing, matching how the canvas serializes them.
func DecodeAttrs(attrs map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("attrs decoder: %w", err)
	}
	if err := dec.Decode(attrs); err != nil {
		return fmt.Errorf("decode attrs: %w", err)
	}
	return nil
}
