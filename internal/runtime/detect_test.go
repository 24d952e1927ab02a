package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "empty is text", content: "", want: FormatText},
		{name: "plain text", content: "just a sentence.", want: FormatText},
		{name: "data url image", content: "data:image/png;base64,iVBOR", want: FormatImage},
		{name: "http image url", content: "https://cdn.example.com/pic.png", want: FormatImage},
		{name: "image url with query", content: "https://cdn.example.com/pic.jpeg?sig=abc", want: FormatImage},
		{name: "non-image url", content: "https://example.com/page", want: FormatText},
		{name: "json object", content: `{"a": 1}`, want: FormatJSON},
		{name: "json array", content: `[1, 2, 3]`, want: FormatJSON},
		{name: "html", content: "<div>hi</div>", want: FormatHTML},
		{name: "markdown heading", content: "# Title\n\nbody", want: FormatMarkdown},
		{name: "markdown emphasis", content: "some *emphasis* here", want: FormatMarkdown},
		{name: "markdown link", content: "see [docs] for more", want: FormatMarkdown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.content))
		})
	}
}

func TestDetectFormatPriority(t *testing.T) {
	// An image URL containing markdown-looking characters is still an image,
	// and valid JSON containing angle brackets is still JSON.
	assert.Equal(t, FormatImage, DetectFormat("https://x.test/a*b.png"))
	assert.Equal(t, FormatJSON, DetectFormat(`{"html": "<b>hi</b>"}`))
	assert.Equal(t, FormatHTML, DetectFormat("<p># not markdown</p>"))
}
