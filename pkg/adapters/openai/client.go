// Package openai adapts the OpenAI API to the engine's chat-completion and
// image-generation capability ports.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	backend "github.com/sashabaranov/go-openai"

	"github.com/daisyflow/daisy/pkg/domain"
	"github.com/daisyflow/daisy/pkg/ports"
)

// Client implements ports.ChatCompleter and ports.ImageGenerator. The API
// key is supplied per call, so one Client serves every credential.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithBaseURL overrides the API endpoint. Tests point it at a local server.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates an OpenAI capability client.
func New(opts ...Option) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) api(credential string) *backend.Client {
	cfg := backend.DefaultConfig(credential)
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	if c.httpClient != nil {
		cfg.HTTPClient = c.httpClient
	}
	return backend.NewClientWithConfig(cfg)
}

// Complete implements ports.ChatCompleter.
func (c *Client) Complete(ctx context.Context, credential string, req ports.ChatRequest) (ports.ChatResponse, error) {
	msg := backend.ChatCompletionMessage{Role: backend.ChatMessageRoleUser}
	if len(req.Parts) > 0 {
		for _, part := range req.Parts {
			if part.ImageURL != "" {
				msg.MultiContent = append(msg.MultiContent, backend.ChatMessagePart{
					Type: backend.ChatMessagePartTypeImageURL,
					ImageURL: &backend.ChatMessageImageURL{
						URL:    part.ImageURL,
						Detail: backend.ImageURLDetailHigh,
					},
				})
			} else {
				msg.MultiContent = append(msg.MultiContent, backend.ChatMessagePart{
					Type: backend.ChatMessagePartTypeText,
					Text: part.Text,
				})
			}
		}
	} else {
		msg.Content = req.Prompt
	}

	resp, err := c.api(credential).CreateChatCompletion(ctx, backend.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    []backend.ChatCompletionMessage{msg},
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return ports.ChatResponse{}, mapError(err)
	}
	if len(resp.Choices) == 0 {
		return ports.ChatResponse{}, domain.NewExecError(domain.ErrRemote, "completion returned no choices", nil)
	}

	return ports.ChatResponse{
		Response: resp.Choices[0].Message.Content,
		Model:    resp.Model,
		Usage: ports.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// GenerateImage implements ports.ImageGenerator using DALL-E 3.
func (c *Client) GenerateImage(ctx context.Context, credential string, req ports.ImageRequest) (ports.ImageResponse, error) {
	resp, err := c.api(credential).CreateImage(ctx, backend.ImageRequest{
		Prompt:         req.Prompt,
		Model:          backend.CreateImageModelDallE3,
		N:              1,
		Size:           req.Size,
		Quality:        req.Quality,
		Style:          req.Style,
		ResponseFormat: backend.CreateImageResponseFormatURL,
	})
	if err != nil {
		return ports.ImageResponse{}, mapError(err)
	}
	if len(resp.Data) == 0 {
		return ports.ImageResponse{}, domain.NewExecError(domain.ErrRemote, "image generation returned no data", nil)
	}

	return ports.ImageResponse{
		ImageURL:      resp.Data[0].URL,
		RevisedPrompt: resp.Data[0].RevisedPrompt,
	}, nil
}

// mapError translates OpenAI API failures into the engine's error
// categories.
func mapError(err error) *domain.ExecError {
	var apiErr *backend.APIError
	if !errors.As(err, &apiErr) {
		return domain.NewExecError(domain.ErrConnectivity,
			"Could not reach OpenAI. Check your network connection.", err)
	}

	code, _ := apiErr.Code.(string)
	switch {
	case apiErr.HTTPStatusCode == http.StatusUnauthorized || code == "invalid_api_key":
		return domain.NewExecError(domain.ErrAuth,
			"OpenAI rejected the API key. Verify it in Settings.", err)
	case code == "insufficient_quota" || apiErr.Type == "insufficient_quota":
		return domain.NewExecError(domain.ErrQuota,
			"OpenAI quota exceeded. Check your plan and billing details.", err)
	case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
		return domain.NewExecError(domain.ErrQuota,
			"OpenAI rate limit hit. Wait a moment and try again.", err)
	case code == "content_policy_violation":
		return &domain.ExecError{
			Kind:    domain.ErrPolicy,
			Message: "The request was rejected by OpenAI's safety system.",
			Suggestions: []string{
				"Rephrase the prompt with less sensitive wording",
				"Remove references to real people or brands",
				"Describe the scene rather than the restricted subject",
			},
			Err: err,
		}
	default:
		return domain.NewExecError(domain.ErrRemote,
			fmt.Sprintf("OpenAI request failed: %s", apiErr.Message), err)
	}
}
