package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daisyflow/daisy"
	api "github.com/daisyflow/daisy/internal/adapters/http"
	"github.com/daisyflow/daisy/pkg/adapters/memory"
	"github.com/daisyflow/daisy/pkg/domain"
	"github.com/daisyflow/daisy/pkg/ports"
)

type stubChat struct {
	response string
	err      error
}

func (s stubChat) Complete(_ context.Context, _ string, req ports.ChatRequest) (ports.ChatResponse, error) {
	if s.err != nil {
		return ports.ChatResponse{}, s.err
	}
	return ports.ChatResponse{Response: s.response, Model: req.Model}, nil
}

func newTestServer(t *testing.T, chat ports.ChatCompleter) (*httptest.Server, *memory.CredentialStore) {
	t.Helper()
	creds := memory.NewCredentialStore().Seed(map[string]string{ports.ProviderOpenAI: "sk-test"})
	eng := daisy.New(
		daisy.WithCredentials(creds),
		daisy.WithChatCompleter(chat),
	)
	ts := httptest.NewServer(api.NewHandler(eng, api.WithCredentialStore(creds)))
	t.Cleanup(ts.Close)
	return ts, creds
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req, err := http.NewRequest(method, url, &payload)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	if resp.StatusCode != http.StatusNoContent {
		_ = json.NewDecoder(resp.Body).Decode(&decoded)
	}
	return resp, decoded
}

func TestCreateAndGetNode(t *testing.T) {
	ts, _ := newTestServer(t, stubChat{})

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/nodes", map[string]any{
		"id":         "t1",
		"kind":       "textInput",
		"attributes": map[string]any{"value": "hello"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	attrs := body["attributes"].(map[string]any)
	assert.Equal(t, "hello", attrs["value"])
	assert.Equal(t, "Text Input", attrs["label"], "defaults are seeded")

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/api/nodes/t1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "t1", body["id"])

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/nodes/ghost", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateNodeRejections(t *testing.T) {
	ts, _ := newTestServer(t, stubChat{})

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/nodes", map[string]any{
		"id": "x", "kind": "banana",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/nodes", map[string]any{
		"id": "dup", "kind": "output",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/nodes", map[string]any{
		"id": "dup", "kind": "output",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestPatchNode(t *testing.T) {
	ts, _ := newTestServer(t, stubChat{})
	doJSON(t, http.MethodPost, ts.URL+"/api/nodes", map[string]any{"id": "t1", "kind": "textInput"})

	resp, body := doJSON(t, http.MethodPatch, ts.URL+"/api/nodes/t1", map[string]any{"value": "patched"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "patched", body["attributes"].(map[string]any)["value"])

	resp, _ = doJSON(t, http.MethodPatch, ts.URL+"/api/nodes/ghost", map[string]any{})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEdgesAndGraph(t *testing.T) {
	ts, _ := newTestServer(t, stubChat{})
	doJSON(t, http.MethodPost, ts.URL+"/api/nodes", map[string]any{"id": "a", "kind": "textInput"})
	doJSON(t, http.MethodPost, ts.URL+"/api/nodes", map[string]any{"id": "b", "kind": "output"})

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/edges", map[string]any{"source": "a", "target": "b"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "edge-a-b", body["id"])

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/edges", map[string]any{"source": "a", "target": "a"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/edges", map[string]any{"source": "a", "target": "ghost"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/api/graph", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["nodes"], 2)
	assert.Len(t, body["edges"], 1)
}

func TestRunNode(t *testing.T) {
	ts, _ := newTestServer(t, stubChat{response: "the answer"})
	doJSON(t, http.MethodPost, ts.URL+"/api/nodes", map[string]any{
		"id": "ai", "kind": "aiPrompt", "attributes": map[string]any{"prompt": "question"},
	})

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/nodes/ai/run", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	node := body["node"].(map[string]any)
	assert.Equal(t, "the answer", node["attributes"].(map[string]any)["response"])
	assert.Nil(t, body["error"])
}

func TestRunNodeFailure(t *testing.T) {
	ts, _ := newTestServer(t, stubChat{err: domain.NewExecError(domain.ErrAuth, "bad key", nil)})
	doJSON(t, http.MethodPost, ts.URL+"/api/nodes", map[string]any{
		"id": "ai", "kind": "aiPrompt", "attributes": map[string]any{"prompt": "question"},
	})

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/nodes/ai/run", nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	apiErr := body["error"].(map[string]any)
	assert.Equal(t, "auth", apiErr["kind"])
	assert.Equal(t, "bad key", apiErr["message"])

	// The failed node state rides along for rendering.
	node := body["node"].(map[string]any)
	assert.Contains(t, node["attributes"].(map[string]any)["response"], "Authentication Error")

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/nodes/ghost/run", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNodeInputsPreview(t *testing.T) {
	ts, _ := newTestServer(t, stubChat{})
	doJSON(t, http.MethodPost, ts.URL+"/api/nodes", map[string]any{
		"id": "t1", "kind": "textInput", "attributes": map[string]any{"value": "ctx"},
	})
	doJSON(t, http.MethodPost, ts.URL+"/api/nodes", map[string]any{"id": "ai", "kind": "aiPrompt"})
	doJSON(t, http.MethodPost, ts.URL+"/api/edges", map[string]any{"source": "t1", "target": "ai"})

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/nodes/ai/inputs", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Text Input: ctx", body["textContext"])
	assert.Len(t, body["connectedInputs"], 1)
}

func TestEdgeTestTrigger(t *testing.T) {
	ts, _ := newTestServer(t, stubChat{})
	doJSON(t, http.MethodPost, ts.URL+"/api/nodes", map[string]any{"id": "a", "kind": "textInput"})
	doJSON(t, http.MethodPost, ts.URL+"/api/nodes", map[string]any{"id": "b", "kind": "output"})
	doJSON(t, http.MethodPost, ts.URL+"/api/edges", map[string]any{"source": "a", "target": "b"})

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/edges/test-trigger", map[string]any{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{"edge-a-b"}, body["activated"])

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/api/graph", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{"edge-a-b"}, body["activeEdges"])

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/edges/active", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestCredentialEndpoints(t *testing.T) {
	ts, creds := newTestServer(t, stubChat{})

	resp, _ := doJSON(t, http.MethodPut, ts.URL+"/api/credentials/runway", map[string]any{"secret": "rw-key"})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	secret, err := creds.Credential(context.Background(), "runway")
	require.NoError(t, err)
	assert.Equal(t, "rw-key", secret)

	resp, _ = doJSON(t, http.MethodPut, ts.URL+"/api/credentials/runway", map[string]any{"secret": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/credentials/runway", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	_, err = creds.Credential(context.Background(), "runway")
	assert.ErrorIs(t, err, domain.ErrCredentialNotFound)
}
