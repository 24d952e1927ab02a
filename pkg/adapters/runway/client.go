// Package runway adapts the Runway image-to-video API to the engine's
// video-generation port. Runway tasks are asynchronous: submission yields a
// task id and completion is observed by polling the task endpoint.
package runway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/daisyflow/daisy/pkg/domain"
	"github.com/daisyflow/daisy/pkg/ports"
)

const (
	// DefaultBaseURL is Runway's hosted API endpoint.
	DefaultBaseURL = "https://api.dev.runwayml.com"
	apiVersion     = "2024-09-13"
)

// Client implements ports.VideoGenerator.
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

// New creates a Runway capability client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type generateRequest struct {
	PromptText  string `json:"promptText"`
	PromptImage string `json:"promptImage,omitempty"`
	Model       string `json:"model"`
	Duration    int    `json:"duration,omitempty"`
	Ratio       string `json:"ratio,omitempty"`
}

type taskResponse struct {
	ID       string   `json:"id"`
	Status   string   `json:"status"`
	State    string   `json:"state"`
	Progress float64  `json:"progress"`
	Output   []string `json:"output"`
	VideoURL string   `json:"videoUrl"`
	Failure  string   `json:"failure"`
	Error    string   `json:"error"`
}

// status tolerates both "status" and "state" shaped task payloads.
func (t taskResponse) status() string {
	if t.Status != "" {
		return t.Status
	}
	return t.State
}

func (t taskResponse) outputURL() string {
	if len(t.Output) > 0 {
		return t.Output[0]
	}
	return t.VideoURL
}

func (t taskResponse) failure() string {
	if t.Failure != "" {
		return t.Failure
	}
	return t.Error
}

// StartVideo implements ports.VideoGenerator.
func (c *Client) StartVideo(ctx context.Context, credential string, req ports.VideoRequest) (ports.VideoTask, error) {
	body := generateRequest{
		PromptText:  req.Prompt,
		PromptImage: req.Image,
		Model:       req.Model,
		Duration:    req.Duration,
		Ratio:       req.Ratio,
	}
	if body.Model == "" {
		body.Model = "gen3a_turbo"
	}

	var task taskResponse
	if err := c.do(ctx, credential, http.MethodPost, "/v1/image_to_video", body, &task); err != nil {
		return ports.VideoTask{}, err
	}
	if task.ID == "" {
		return ports.VideoTask{}, domain.NewExecError(domain.ErrRemote,
			"Runway accepted the request but returned no task id", nil)
	}

	return ports.VideoTask{
		TaskID:   task.ID,
		Status:   task.status(),
		Progress: task.Progress * 100,
	}, nil
}

// VideoStatus implements ports.VideoGenerator.
func (c *Client) VideoStatus(ctx context.Context, credential, taskID string) (ports.VideoStatus, error) {
	var task taskResponse
	if err := c.do(ctx, credential, http.MethodGet, "/v1/tasks/"+taskID, nil, &task); err != nil {
		return ports.VideoStatus{}, err
	}

	return ports.VideoStatus{
		Status:    task.status(),
		Progress:  task.Progress * 100,
		OutputURL: task.outputURL(),
		Error:     task.failure(),
	}, nil
}

func (c *Client) do(ctx context.Context, credential, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+credential)
	req.Header.Set("X-Runway-Version", apiVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.NewExecError(domain.ErrConnectivity,
			"Could not reach Runway. Check your network connection.", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.NewExecError(domain.ErrConnectivity, "reading Runway response failed", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return mapStatusError(resp.StatusCode, raw)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return domain.NewExecError(domain.ErrRemote, "Runway returned an unreadable response", err)
	}
	return nil
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func mapStatusError(status int, raw []byte) *domain.ExecError {
	var body errorResponse
	_ = json.Unmarshal(raw, &body)
	msg := body.Error
	if msg == "" {
		msg = body.Message
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.NewExecError(domain.ErrAuth,
			"Runway rejected the API key. Verify it in Settings.", fmt.Errorf("status %d: %s", status, msg))
	case http.StatusTooManyRequests:
		return domain.NewExecError(domain.ErrQuota,
			"Runway rate limit hit. Wait a moment and try again.", fmt.Errorf("status %d: %s", status, msg))
	default:
		if msg == "" {
			msg = fmt.Sprintf("Runway request failed with status %d", status)
		}
		return domain.NewExecError(domain.ErrRemote, msg, fmt.Errorf("status %d", status))
	}
}
