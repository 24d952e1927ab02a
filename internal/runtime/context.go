package runtime

import (
	"strings"

	"github.com/daisyflow/daisy/pkg/domain"
)

// Placeholder lines appended to the text context for image-bearing inputs.
const (
	textInputLabel      = "Text Input: "
	imagePlaceholder    = "Image: [Image provided]\n"
	genImagePlaceholder = "Generated Image: [Image generated from DALL-E]\n"
	genVideoPlaceholder = "Generated Video: [Video generated from Runway]\n"
	revisedPromptLabel  = "Original Prompt: "
	processedTextLabel  = "Processed Text: "
	aiResponseLabel     = "AI Response: "
)

// BuildContext flattens a node's upstream inputs into one execution context.
// It walks the incoming nodes in edge-insertion order, branching on kind; the
// result is deterministic for a fixed graph state and the walk never mutates
// the graph. Image references follow last-write-wins: only the latest
// image-bearing upstream node is carried forward.
func BuildContext(g *domain.Graph, nodeID string) domain.ExecutionContext {
	incoming := g.IncomingNodes(nodeID)

	var text strings.Builder
	var image string
	inputs := make([]domain.ConnectedInput, 0, len(incoming))

	for _, src := range incoming {
		inputs = append(inputs, domain.ConnectedInput{
			NodeID:     src.ID,
			Kind:       src.Kind,
			Attributes: src.Attributes,
		})

		switch src.Kind {
		case domain.KindTextInput:
			var a domain.TextInputAttrs
			if err := domain.DecodeAttrs(src.Attributes, &a); err == nil && a.Value != "" {
				text.WriteString(textInputLabel + a.Value + "\n")
			}

		case domain.KindImageInput:
			var a domain.ImageInputAttrs
			if err := domain.DecodeAttrs(src.Attributes, &a); err == nil && a.ImageURL != "" {
				image = a.ImageURL
				text.WriteString(imagePlaceholder)
			}

		case domain.KindTextProcessor:
			var a domain.TextProcessorAttrs
			if err := domain.DecodeAttrs(src.Attributes, &a); err == nil {
				if out := firstNonEmpty(a.OutputText, a.InputText); out != "" {
					text.WriteString(processedTextLabel + out + "\n")
				}
			}

		case domain.KindAIPrompt:
			var a domain.AIPromptAttrs
			if err := domain.DecodeAttrs(src.Attributes, &a); err == nil && a.Response != "" {
				text.WriteString(aiResponseLabel + a.Response + "\n")
			}

		case domain.KindImageGeneration:
			var a domain.ImageGenerationAttrs
			if err := domain.DecodeAttrs(src.Attributes, &a); err == nil && a.ImageURL != "" {
				image = a.ImageURL
				text.WriteString(genImagePlaceholder)
				if a.RevisedPrompt != "" {
					text.WriteString(revisedPromptLabel + a.RevisedPrompt + "\n")
				}
			}

		case domain.KindVideoGeneration:
			var a domain.VideoGenerationAttrs
			if err := domain.DecodeAttrs(src.Attributes, &a); err == nil && a.VideoURL != "" {
				image = a.VideoURL
				text.WriteString(genVideoPlaceholder)
			}

		case domain.KindOutput:
			// Output nodes are sinks; they contribute nothing upstream.
		}
	}

	return domain.ExecutionContext{
		TextContext:     strings.TrimRight(text.String(), " \t\n"),
		ImageContext:    image,
		ConnectedInputs: inputs,
	}
}

// StripTextInputLabels removes the "Text Input: " labels the aggregator
// prepends, turning an aggregated context back into a usable prompt.
func StripTextInputLabels(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, textInputLabel, ""))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
