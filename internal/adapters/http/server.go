// Package http exposes the workflow engine over a JSON API, the transport a
// canvas front end talks to.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/daisyflow/daisy/internal/logging"
	"github.com/daisyflow/daisy/pkg/domain"
	"github.com/daisyflow/daisy/pkg/observability"
	"github.com/daisyflow/daisy/pkg/ports"
)

// Engine defines the workflow operations the API exposes.
type Engine interface {
	AddNode(n domain.Node) error
	Connect(source, target string) (domain.Edge, error)
	Node(nodeID string) (domain.Node, error)
	Graph() *domain.Graph
	UpdateNode(nodeID string, patch map[string]any) error
	RunNode(ctx context.Context, nodeID string) (domain.Node, error)
	InputPreview(nodeID string) domain.ExecutionContext
	ActivateEdges(ctx context.Context, edgeIDs []string, d time.Duration)
	DeactivateEdges(ctx context.Context)
	ActiveEdges() []string
}

// testTriggerTTL is how long the manual edge test trigger keeps edges lit.
const testTriggerTTL = 5 * time.Second

// Server wires the engine into an HTTP handler.
type Server struct {
	engine Engine
	creds  ports.CredentialStore
	broker *observability.Broker
	logger *slog.Logger
}

type Option func(*Server)

// WithCredentialStore enables the credential management endpoints.
func WithCredentialStore(store ports.CredentialStore) Option {
	return func(s *Server) { s.creds = store }
}

// WithBroker enables the live event stream endpoint.
func WithBroker(b *observability.Broker) Option {
	return func(s *Server) { s.broker = b }
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{engine: engine, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/graph", s.getGraph)
		r.Post("/nodes", s.createNode)
		r.Get("/nodes/{id}", s.getNode)
		r.Patch("/nodes/{id}", s.patchNode)
		r.Get("/nodes/{id}/inputs", s.getNodeInputs)
		r.Post("/nodes/{id}/run", s.runNode)
		r.Post("/edges", s.createEdge)
		r.Post("/edges/test-trigger", s.testTrigger)
		r.Delete("/edges/active", s.clearActiveEdges)

		if s.creds != nil {
			r.Put("/credentials/{provider}", s.putCredential)
			r.Delete("/credentials/{provider}", s.deleteCredential)
		}
		if s.broker != nil {
			r.Get("/events", s.streamEvents)
		}
	})

	return r
}

type graphResponse struct {
	Nodes       []domain.Node `json:"nodes"`
	Edges       []domain.Edge `json:"edges"`
	ActiveEdges []string      `json:"activeEdges"`
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	g := s.engine.Graph()
	writeJSON(w, http.StatusOK, graphResponse{
		Nodes:       g.Nodes(),
		Edges:       g.Edges(),
		ActiveEdges: s.engine.ActiveEdges(),
	})
}

type createNodeRequest struct {
	ID         string         `json:"id"`
	Kind       string         `json:"kind"`
	Attributes map[string]any `json:"attributes"`
}

func (s *Server) createNode(w http.ResponseWriter, r *http.Request) {
	var body createNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	kind, err := domain.ParseNodeKind(body.Kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	node := domain.Node{ID: body.ID, Kind: kind, Attributes: body.Attributes}
	if err := s.engine.AddNode(node); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, domain.ErrDuplicateNode) {
			status = http.StatusConflict
		}
		writeError(w, status, err.Error())
		return
	}

	created, err := s.engine.Node(node.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) getNode(w http.ResponseWriter, r *http.Request) {
	node, err := s.engine.Node(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, node)
}

func (s *Server) patchNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.engine.UpdateNode(id, patch); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	node, err := s.engine.Node(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, node)
}

func (s *Server) getNodeInputs(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.engine.Node(id); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.engine.InputPreview(id))
}

type runResponse struct {
	Node  domain.Node `json:"node"`
	Error *runError   `json:"error,omitempty"`
}

type runError struct {
	Kind        domain.ExecErrorKind `json:"kind"`
	Message     string               `json:"message"`
	Suggestions []string             `json:"suggestions,omitempty"`
}

func (s *Server) runNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	node, err := s.engine.RunNode(r.Context(), id)
	if err != nil {
		var execErr *domain.ExecError
		switch {
		case errors.Is(err, domain.ErrNodeNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, domain.ErrNodeBusy):
			writeError(w, http.StatusConflict, err.Error())
		case errors.As(err, &execErr):
			// Execution failures ship the failed node state so the canvas
			// can render the display message alongside the category.
			writeJSON(w, http.StatusUnprocessableEntity, runResponse{
				Node: node,
				Error: &runError{
					Kind:        execErr.Kind,
					Message:     execErr.Message,
					Suggestions: execErr.Suggestions,
				},
			})
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, runResponse{Node: node})
}

type createEdgeRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

func (s *Server) createEdge(w http.ResponseWriter, r *http.Request) {
	var body createEdgeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	edge, err := s.engine.Connect(body.Source, body.Target)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, domain.ErrNodeNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, edge)
}

type testTriggerRequest struct {
	EdgeIDs []string `json:"edgeIds"`
}

func (s *Server) testTrigger(w http.ResponseWriter, r *http.Request) {
	var body testTriggerRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	edgeIDs := body.EdgeIDs
	if len(edgeIDs) == 0 {
		for _, e := range s.engine.Graph().Edges() {
			edgeIDs = append(edgeIDs, e.ID)
		}
	}

	s.engine.ActivateEdges(r.Context(), edgeIDs, testTriggerTTL)
	writeJSON(w, http.StatusOK, map[string]any{"activated": edgeIDs})
}

func (s *Server) clearActiveEdges(w http.ResponseWriter, r *http.Request) {
	s.engine.DeactivateEdges(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

type credentialRequest struct {
	Secret string `json:"secret"`
}

func (s *Server) putCredential(w http.ResponseWriter, r *http.Request) {
	var body credentialRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Secret == "" {
		writeError(w, http.StatusBadRequest, "secret is required")
		return
	}

	provider := chi.URLParam(r, "provider")
	if err := s.creds.SetCredential(r.Context(), provider, body.Secret); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// The secret is never echoed back.
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteCredential(w http.ResponseWriter, r *http.Request) {
	if err := s.creds.DeleteCredential(r.Context(), chi.URLParam(r, "provider")); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// streamEvents serves the engine event feed as server-sent events.
func (s *Server) streamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	events, cancel := s.broker.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, open := <-events:
			if !open {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				s.logger.Error("event encode failed", "err", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, payload)
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
