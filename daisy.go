package daisy

import (
	"context"
	"log/slog"
	"time"

	"github.com/daisyflow/daisy/internal/logging"
	"github.com/daisyflow/daisy/internal/runtime"
	"github.com/daisyflow/daisy/pkg/adapters/file"
	"github.com/daisyflow/daisy/pkg/adapters/memory"
	"github.com/daisyflow/daisy/pkg/adapters/openai"
	"github.com/daisyflow/daisy/pkg/adapters/runway"
	"github.com/daisyflow/daisy/pkg/domain"
	"github.com/daisyflow/daisy/pkg/ports"
)

// Engine is the high-level entry point for the Daisy workflow engine.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	graph      *domain.Graph
	dispatcher *runtime.Dispatcher
	creds      ports.CredentialProvider
	chat       ports.ChatCompleter
	images     ports.ImageGenerator
	videos     ports.VideoGenerator
	sink       ports.EventSink
	logger     *slog.Logger
	pollDelay  time.Duration
	pollEvery  time.Duration
	maxPolls   int
	Name       string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithEventSink registers a sink for engine events (node updates, edge
// activity, execution lifecycle).
func WithEventSink(sink ports.EventSink) Option {
	return func(e *Engine) {
		e.sink = sink
	}
}

// WithCredentials injects the credential side-channel. Defaults to an empty
// in-memory store.
func WithCredentials(creds ports.CredentialProvider) Option {
	return func(e *Engine) {
		e.creds = creds
	}
}

// WithChatCompleter injects a custom chat-completion client, bypassing the
// default OpenAI adapter.
func WithChatCompleter(c ports.ChatCompleter) Option {
	return func(e *Engine) {
		e.chat = c
	}
}

// WithImageGenerator injects a custom image-generation client.
func WithImageGenerator(g ports.ImageGenerator) Option {
	return func(e *Engine) {
		e.images = g
	}
}

// WithVideoGenerator injects a custom video-generation client.
func WithVideoGenerator(g ports.VideoGenerator) Option {
	return func(e *Engine) {
		e.videos = g
	}
}

// WithPollTiming overrides the video task polling schedule.
func WithPollTiming(delay, interval time.Duration, maxPolls int) Option {
	return func(e *Engine) {
		e.pollDelay = delay
		e.pollEvery = interval
		e.maxPolls = maxPolls
	}
}

// New initializes a Daisy Engine over an empty graph. By default it uses the
// OpenAI and Runway adapters and an in-memory credential store.
func New(opts ...Option) *Engine {
	return newEngine(domain.NewGraph(), opts)
}

// FromGraph wraps an already-built graph in an engine. Graphs assembled with
// the dsl package plug in here.
func FromGraph(g *domain.Graph, opts ...Option) *Engine {
	return newEngine(g, opts)
}

// Load initializes an Engine from a workflow file.
func Load(path string, opts ...Option) (*Engine, error) {
	name, g, err := file.Load(path)
	if err != nil {
		return nil, err
	}

	eng := newEngine(g, opts)
	eng.Name = name
	return eng, nil
}

func newEngine(g *domain.Graph, opts []Option) *Engine {
	eng := &Engine{
		graph:     g,
		logger:    logging.NewNop(),
		pollDelay: 5 * time.Second,
		pollEvery: 10 * time.Second,
		maxPolls:  60,
	}

	for _, opt := range opts {
		opt(eng)
	}

	if eng.creds == nil {
		eng.creds = memory.NewCredentialStore()
	}
	if eng.chat == nil || eng.images == nil {
		oai := openai.New()
		if eng.chat == nil {
			eng.chat = oai
		}
		if eng.images == nil {
			eng.images = oai
		}
	}
	if eng.videos == nil {
		eng.videos = runway.New()
	}

	eng.dispatcher = runtime.NewDispatcher(eng.graph,
		runtime.WithChatCompleter(eng.chat),
		runtime.WithImageGenerator(eng.images),
		runtime.WithVideoGenerator(eng.videos),
		runtime.WithCredentials(eng.creds),
		runtime.WithEventSink(eng.sink),
		runtime.WithLogger(eng.logger),
		runtime.WithPollTiming(eng.pollDelay, eng.pollEvery, eng.maxPolls),
	)
	return eng
}

// AddNode inserts a node into the workflow graph.
func (e *Engine) AddNode(n domain.Node) error {
	return e.graph.AddNode(n)
}

// Connect wires the source node's output into the target node's input.
func (e *Engine) Connect(source, target string) (domain.Edge, error) {
	return e.graph.Connect("", source, target)
}

// RunNode executes one node through its full lifecycle and returns the
// node's state afterwards. Failures are categorized, written into the node's
// display attributes, and returned as a *domain.ExecError.
func (e *Engine) RunNode(ctx context.Context, nodeID string) (domain.Node, error) {
	return e.dispatcher.Execute(ctx, nodeID)
}

// UpdateNode merges the patch into the node's attributes.
func (e *Engine) UpdateNode(nodeID string, patch map[string]any) error {
	return e.graph.UpdateNodeData(nodeID, patch)
}

// Node returns a snapshot of one node.
func (e *Engine) Node(nodeID string) (domain.Node, error) {
	return e.graph.Node(nodeID)
}

// Graph exposes the underlying workflow graph.
func (e *Engine) Graph() *domain.Graph {
	return e.graph
}

// InputPreview builds the execution context a node would see if run now,
// without executing anything. UIs use it to show connected-input summaries.
func (e *Engine) InputPreview(nodeID string) domain.ExecutionContext {
	return runtime.BuildContext(e.graph, nodeID)
}

// ActivateEdges manually lights up the given edges for the duration, the
// "test trigger" used to verify canvas animations.
func (e *Engine) ActivateEdges(ctx context.Context, edgeIDs []string, d time.Duration) {
	e.dispatcher.Signaler().ActivateFor(ctx, edgeIDs, d)
}

// DeactivateEdges clears all edge activity immediately.
func (e *Engine) DeactivateEdges(ctx context.Context) {
	e.dispatcher.Signaler().DeactivateAll(ctx)
}

// ActiveEdges lists the ids of edges currently marked active.
func (e *Engine) ActiveEdges() []string {
	return e.dispatcher.Signaler().Active()
}

// Save writes the workflow to a file.
func (e *Engine) Save(path string) error {
	return file.Save(path, e.Name, e.graph)
}
