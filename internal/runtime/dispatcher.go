package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/daisyflow/daisy/internal/logging"
	"github.com/daisyflow/daisy/pkg/domain"
	"github.com/daisyflow/daisy/pkg/ports"
)

// Dispatcher orchestrates one node's "run" action: it aggregates the
// upstream context, performs the kind-specific external call, writes the
// result back into the node and drives edge-activity signaling.
//
// Aggregation always completes fully before dispatching begins. Across
// nodes there is no ordering: independent executions interleave freely, and
// each one writes only its own node's attributes.
type Dispatcher struct {
	graph    *domain.Graph
	chat     ports.ChatCompleter
	images   ports.ImageGenerator
	videos   ports.VideoGenerator
	creds    ports.CredentialProvider
	sink     ports.EventSink
	signaler *Signaler
	logger   *slog.Logger

	pollDelay    time.Duration
	pollInterval time.Duration
	maxPolls     int

	mu       sync.Mutex
	inflight map[string]bool
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithChatCompleter sets the chat-completion capability client.
func WithChatCompleter(c ports.ChatCompleter) Option {
	return func(d *Dispatcher) { d.chat = c }
}

// WithImageGenerator sets the image-generation capability client.
func WithImageGenerator(g ports.ImageGenerator) Option {
	return func(d *Dispatcher) { d.images = g }
}

// WithVideoGenerator sets the video-generation capability client.
func WithVideoGenerator(g ports.VideoGenerator) Option {
	return func(d *Dispatcher) { d.videos = g }
}

// WithCredentials sets the credential side-channel.
func WithCredentials(p ports.CredentialProvider) Option {
	return func(d *Dispatcher) { d.creds = p }
}

// WithEventSink sets the sink engine events are published to.
func WithEventSink(sink ports.EventSink) Option {
	return func(d *Dispatcher) { d.sink = sink }
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger }
}

// WithPollTiming overrides the video task polling schedule. Tests shrink it.
func WithPollTiming(delay, interval time.Duration, maxPolls int) Option {
	return func(d *Dispatcher) {
		d.pollDelay = delay
		d.pollInterval = interval
		d.maxPolls = maxPolls
	}
}

// WithSignalerOptions forwards options to the internal edge signaler.
func WithSignalerOptions(opts ...SignalerOption) Option {
	return func(d *Dispatcher) {
		d.signaler = NewSignaler(d.sink, opts...)
	}
}

// NewDispatcher creates a dispatcher bound to the given graph.
func NewDispatcher(graph *domain.Graph, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		graph:        graph,
		logger:       logging.NewNop(),
		pollDelay:    5 * time.Second,
		pollInterval: 10 * time.Second,
		maxPolls:     60,
		inflight:     make(map[string]bool),
	}
	// Options may replace the sink, so the signaler is (re)built after.
	for _, opt := range opts {
		opt(d)
	}
	if d.signaler == nil {
		d.signaler = NewSignaler(d.sink)
	} else if d.signaler.sink == nil {
		d.signaler.sink = d.sink
	}
	return d
}

// Signaler exposes the edge-activity signaler (used by the manual test
// trigger and the HTTP adapter).
func (d *Dispatcher) Signaler() *Signaler { return d.signaler }

// Execute runs the node once: Aggregating, then Dispatching, then writing
// back a Succeeded or Failed result. A failed execution is written into the
// node's display state and also returned as a *domain.ExecError so callers
// can inspect it; it never aborts other nodes.
//
// A second Execute for a node still dispatching returns domain.ErrNodeBusy.
func (d *Dispatcher) Execute(ctx context.Context, nodeID string) (domain.Node, error) {
	node, err := d.graph.Node(nodeID)
	if err != nil {
		return domain.Node{}, err
	}

	d.mu.Lock()
	if d.inflight[nodeID] {
		d.mu.Unlock()
		return node, fmt.Errorf("node %s: %w", nodeID, domain.ErrNodeBusy)
	}
	d.inflight[nodeID] = true
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		delete(d.inflight, nodeID)
		d.mu.Unlock()
	}()

	logger := d.logger.With("node", nodeID, "kind", node.Kind)

	// Aggregating: no external calls happen here.
	execCtx := BuildContext(d.graph, nodeID)
	logger.Debug("aggregated execution context",
		"inputs", len(execCtx.ConnectedInputs),
		"has_image", execCtx.HasImage())

	// Dispatching: light up the incoming edges for the duration.
	release := d.signaler.Activate(ctx, d.graph.IncomingEdgeIDs(nodeID))
	defer release()

	start := time.Now()
	d.publish(ctx, domain.Event{
		Type:      domain.EventExecutionStarted,
		Timestamp: start,
		NodeID:    nodeID,
		NodeKind:  node.Kind,
	})

	execErr := d.dispatch(ctx, node, execCtx, logger)
	if execErr != nil {
		logger.Warn("node execution failed", "category", execErr.Kind, "err", execErr)
		d.patchNode(ctx, node, failurePatch(node.Kind, execErr))
	}

	d.publish(ctx, domain.Event{
		Type:      domain.EventExecutionFinished,
		Timestamp: time.Now(),
		NodeID:    nodeID,
		NodeKind:  node.Kind,
		Duration:  time.Since(start),
		Err:       execErr,
		ErrKind:   errKind(execErr),
	})

	updated, err := d.graph.Node(nodeID)
	if err != nil {
		return domain.Node{}, err
	}
	if execErr != nil {
		return updated, execErr
	}
	return updated, nil
}

// dispatch performs the kind-specific Dispatching phase. The switch is
// exhaustive over domain.NodeKind.
func (d *Dispatcher) dispatch(ctx context.Context, node domain.Node, execCtx domain.ExecutionContext, logger *slog.Logger) *domain.ExecError {
	switch node.Kind {
	case domain.KindTextInput, domain.KindImageInput:
		// Pure inputs: nothing to compute.
		return nil
	case domain.KindTextProcessor:
		return d.runTextProcessor(ctx, node, execCtx)
	case domain.KindAIPrompt:
		return d.runAIPrompt(ctx, node, execCtx, logger)
	case domain.KindImageGeneration:
		return d.runImageGeneration(ctx, node, execCtx)
	case domain.KindVideoGeneration:
		return d.runVideoGeneration(ctx, node, execCtx, logger)
	case domain.KindOutput:
		return d.runOutput(ctx, node, execCtx)
	default:
		return domain.NewExecError(domain.ErrValidation,
			fmt.Sprintf("cannot execute node of kind %q", node.Kind), domain.ErrUnknownNodeKind)
	}
}

func (d *Dispatcher) runAIPrompt(ctx context.Context, node domain.Node, execCtx domain.ExecutionContext, logger *slog.Logger) *domain.ExecError {
	var attrs domain.AIPromptAttrs
	if err := domain.DecodeAttrs(node.Attributes, &attrs); err != nil {
		return domain.NewExecError(domain.ErrValidation, "invalid prompt attributes", err)
	}
	if strings.TrimSpace(attrs.Prompt) == "" {
		return domain.NewExecError(domain.ErrValidation, "Prompt is required", nil)
	}

	cred, cfgErr := d.credential(ctx, ports.ProviderOpenAI,
		"OpenAI API key not configured. Add your API key in Settings.")
	if cfgErr != nil {
		return cfgErr
	}
	if d.chat == nil {
		return domain.NewExecError(domain.ErrConfiguration, "chat-completion capability not configured", nil)
	}

	model := attrs.Model
	if model == "" {
		model = domain.DefaultVisionModel
	}

	req := ports.ChatRequest{
		Model:       model,
		Temperature: attrs.Temperature,
		MaxTokens:   attrs.MaxTokens,
	}

	if execCtx.HasImage() {
		// Image input forces a vision-capable model; the upgrade is written
		// back so the node displays the model actually used.
		if !domain.IsVisionModel(model) {
			logger.Info("switching to vision model for image input",
				"from", model, "to", domain.DefaultVisionModel)
			model = domain.DefaultVisionModel
			req.Model = model
			d.patchNode(ctx, node, map[string]any{"model": model})
		}
		text := attrs.Prompt
		if execCtx.HasText() {
			text = "Context: " + execCtx.TextContext + "\n\nTask: " + attrs.Prompt
		}
		req.Parts = []ports.ChatMessagePart{
			{Text: text},
			{ImageURL: execCtx.ImageContext},
		}
	} else if execCtx.HasText() {
		req.Prompt = "Context from connected nodes:\n" + execCtx.TextContext + "\n\nTask: " + attrs.Prompt
	} else {
		req.Prompt = attrs.Prompt
	}

	resp, err := d.chat.Complete(ctx, cred, req)
	if err != nil {
		return domain.AsExecError(err)
	}

	d.patchNode(ctx, node, map[string]any{"response": resp.Response, "model": model})
	return nil
}

func (d *Dispatcher) runImageGeneration(ctx context.Context, node domain.Node, execCtx domain.ExecutionContext) *domain.ExecError {
	var attrs domain.ImageGenerationAttrs
	if err := domain.DecodeAttrs(node.Attributes, &attrs); err != nil {
		return domain.NewExecError(domain.ErrValidation, "invalid generation attributes", err)
	}

	prompt := resolvePrompt(execCtx, attrs.Prompt)
	if prompt == "" {
		return domain.NewExecError(domain.ErrValidation,
			"Please provide a prompt for image generation", nil)
	}

	cred, cfgErr := d.credential(ctx, ports.ProviderOpenAI,
		"OpenAI API key not configured. Add your API key in Settings.")
	if cfgErr != nil {
		return cfgErr
	}
	if d.images == nil {
		return domain.NewExecError(domain.ErrConfiguration, "image-generation capability not configured", nil)
	}

	resp, err := d.images.GenerateImage(ctx, cred, ports.ImageRequest{
		Prompt:  prompt,
		Size:    attrs.Size,
		Quality: attrs.Quality,
		Style:   attrs.Style,
	})
	if err != nil {
		return domain.AsExecError(err)
	}

	d.patchNode(ctx, node, map[string]any{
		"imageUrl":      resp.ImageURL,
		"revisedPrompt": resp.RevisedPrompt,
		"error":         "",
	})
	return nil
}

func (d *Dispatcher) runVideoGeneration(ctx context.Context, node domain.Node, execCtx domain.ExecutionContext, logger *slog.Logger) *domain.ExecError {
	var attrs domain.VideoGenerationAttrs
	if err := domain.DecodeAttrs(node.Attributes, &attrs); err != nil {
		return domain.NewExecError(domain.ErrValidation, "invalid generation attributes", err)
	}

	prompt := resolvePrompt(execCtx, attrs.Prompt)
	if prompt == "" {
		return domain.NewExecError(domain.ErrValidation,
			"Please provide a prompt for video generation", nil)
	}

	cred, cfgErr := d.credential(ctx, ports.ProviderRunway,
		"Runway API key not configured. Add your API key in Settings.")
	if cfgErr != nil {
		return cfgErr
	}
	if d.videos == nil {
		return domain.NewExecError(domain.ErrConfiguration, "video-generation capability not configured", nil)
	}

	task, err := d.videos.StartVideo(ctx, cred, ports.VideoRequest{
		Prompt:     prompt,
		Image:      execCtx.ImageContext,
		Model:      attrs.Model,
		Duration:   attrs.Duration,
		Ratio:      attrs.Ratio,
		Resolution: attrs.Resolution,
	})
	if err != nil {
		return domain.AsExecError(err)
	}

	logger.Info("video task submitted", "task", task.TaskID, "status", task.Status)
	d.patchNode(ctx, node, map[string]any{
		"taskId":   task.TaskID,
		"progress": task.Progress,
		"videoUrl": "",
		"error":    "",
	})

	return d.pollVideoTask(ctx, node, cred, task.TaskID, logger)
}

func (d *Dispatcher) runTextProcessor(ctx context.Context, node domain.Node, execCtx domain.ExecutionContext) *domain.ExecError {
	var attrs domain.TextProcessorAttrs
	if err := domain.DecodeAttrs(node.Attributes, &attrs); err != nil {
		return domain.NewExecError(domain.ErrValidation, "invalid processor attributes", err)
	}

	input := attrs.InputText
	if execCtx.HasText() {
		input = StripTextInputLabels(execCtx.TextContext)
	}

	d.patchNode(ctx, node, map[string]any{
		"inputText":  input,
		"outputText": ProcessText(input, attrs.Operation, attrs.CustomOperation),
	})
	return nil
}

// runOutput copies the first connected input's normalized payload into the
// node's display value, sniffing a display format. With no connections it is
// a no-op; with several, only the first is honored.
func (d *Dispatcher) runOutput(ctx context.Context, node domain.Node, execCtx domain.ExecutionContext) *domain.ExecError {
	if len(execCtx.ConnectedInputs) == 0 {
		return nil
	}

	input := execCtx.ConnectedInputs[0]
	var value, format string

	switch input.Kind {
	case domain.KindTextInput:
		var a domain.TextInputAttrs
		_ = domain.DecodeAttrs(input.Attributes, &a)
		value, format = a.Value, FormatText
	case domain.KindImageInput:
		var a domain.ImageInputAttrs
		_ = domain.DecodeAttrs(input.Attributes, &a)
		value, format = a.ImageURL, FormatImage
	case domain.KindAIPrompt:
		var a domain.AIPromptAttrs
		_ = domain.DecodeAttrs(input.Attributes, &a)
		value, format = a.Response, DetectFormat(a.Response)
	case domain.KindTextProcessor:
		var a domain.TextProcessorAttrs
		_ = domain.DecodeAttrs(input.Attributes, &a)
		value, format = firstNonEmpty(a.OutputText, a.InputText), FormatText
	case domain.KindImageGeneration:
		var a domain.ImageGenerationAttrs
		_ = domain.DecodeAttrs(input.Attributes, &a)
		value, format = a.ImageURL, FormatImage
	case domain.KindVideoGeneration:
		var a domain.VideoGenerationAttrs
		_ = domain.DecodeAttrs(input.Attributes, &a)
		value, format = a.VideoURL, FormatText
	default:
		raw, err := json.MarshalIndent(input.Attributes, "", "  ")
		if err != nil {
			return domain.NewExecError(domain.ErrValidation, "cannot render connected input", err)
		}
		value, format = string(raw), FormatJSON
	}

	d.patchNode(ctx, node, map[string]any{"value": value, "format": format})
	return nil
}

// credential resolves a provider secret, translating absence into the
// configuration category before any network attempt.
func (d *Dispatcher) credential(ctx context.Context, provider, missingMsg string) (string, *domain.ExecError) {
	if d.creds == nil {
		return "", domain.NewExecError(domain.ErrConfiguration, missingMsg, domain.ErrCredentialNotFound)
	}
	cred, err := d.creds.Credential(ctx, provider)
	if err != nil || cred == "" {
		return "", domain.NewExecError(domain.ErrConfiguration, missingMsg, err)
	}
	return cred, nil
}

// patchNode merges attributes through the graph's single write path and
// publishes the node-updated event.
func (d *Dispatcher) patchNode(ctx context.Context, node domain.Node, patch map[string]any) {
	if err := d.graph.UpdateNodeData(node.ID, patch); err != nil {
		d.logger.Error("node update failed", "node", node.ID, "err", err)
		return
	}
	d.publish(ctx, domain.Event{
		Type:      domain.EventNodeUpdated,
		Timestamp: time.Now(),
		NodeID:    node.ID,
		NodeKind:  node.Kind,
		Patch:     patch,
	})
}

func (d *Dispatcher) publish(ctx context.Context, ev domain.Event) {
	if d.sink != nil {
		d.sink.Publish(ctx, ev)
	}
}

// resolvePrompt implements the generation-prompt precedence: aggregated
// upstream text (stripped of input labels) wins over the node's own prompt.
func resolvePrompt(execCtx domain.ExecutionContext, own string) string {
	if execCtx.HasText() {
		if p := StripTextInputLabels(execCtx.TextContext); p != "" {
			return p
		}
	}
	return strings.TrimSpace(own)
}

// failurePatch maps an execution error onto the failing node's display
// attribute.
func failurePatch(kind domain.NodeKind, execErr *domain.ExecError) map[string]any {
	msg := execErr.DisplayMessage()
	switch kind {
	case domain.KindAIPrompt:
		return map[string]any{"response": msg}
	case domain.KindImageGeneration, domain.KindVideoGeneration:
		return map[string]any{"error": msg}
	case domain.KindOutput:
		return map[string]any{"value": msg, "format": FormatText}
	case domain.KindTextProcessor:
		return map[string]any{"outputText": msg}
	default:
		return map[string]any{"value": msg}
	}
}

func errKind(err *domain.ExecError) domain.ExecErrorKind {
	if err == nil {
		return ""
	}
	return err.Kind
}
