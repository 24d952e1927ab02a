package ports

import "context"

// ChatMessagePart is one element of a multi-part chat message: plain text or
// an image reference for vision-capable models.
type ChatMessagePart struct {
	Text     string
	ImageURL string
}

// ChatRequest describes one chat-completion call.
type ChatRequest struct {
	// Prompt is the plain-text payload. Ignored when Parts is set.
	Prompt string
	// Parts carries a multi-part user message (text + image) for vision
	// models.
	Parts       []ChatMessagePart
	Model       string
	Temperature float64
	MaxTokens   int
}

// ChatResponse is the usable payload of a successful completion.
type ChatResponse struct {
	Response string
	Model    string
	Usage    Usage
}

// Usage reports token consumption for a completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatCompleter is the chat-completion capability.
type ChatCompleter interface {
	Complete(ctx context.Context, credential string, req ChatRequest) (ChatResponse, error)
}

// ImageRequest describes one image-generation call.
type ImageRequest struct {
	Prompt  string
	Size    string
	Quality string
	Style   string
}

// ImageResponse is the result of a successful generation.
type ImageResponse struct {
	ImageURL      string
	RevisedPrompt string
}

// ImageGenerator is the image-generation capability.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, credential string, req ImageRequest) (ImageResponse, error)
}

// VideoRequest describes one video-generation call. Image, when set, seeds
// an image-to-video generation.
type VideoRequest struct {
	Prompt     string
	Image      string
	Model      string
	Duration   int
	Ratio      string
	Resolution string
}

// VideoTask is the handle returned by an accepted video generation: the call
// yields a task identifier, not an immediate result.
type VideoTask struct {
	TaskID   string
	Status   string
	Progress float64
}

// VideoStatus is one poll observation of an asynchronous video task. Status
// tokens are provider-raw; the engine normalizes them.
type VideoStatus struct {
	Status    string
	Progress  float64
	OutputURL string
	Error     string
}

// VideoGenerator is the video-generation capability plus its status-poll
// endpoint keyed by task id.
type VideoGenerator interface {
	StartVideo(ctx context.Context, credential string, req VideoRequest) (VideoTask, error)
	VideoStatus(ctx context.Context, credential, taskID string) (VideoStatus, error)
}
