package runway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daisyflow/daisy/pkg/adapters/runway"
	"github.com/daisyflow/daisy/pkg/domain"
	"github.com/daisyflow/daisy/pkg/ports"
)

func newClient(t *testing.T, handler http.HandlerFunc) *runway.Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return runway.New(runway.WithBaseURL(ts.URL))
}

func TestStartVideo(t *testing.T) {
	var captured map[string]any
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/image_to_video", r.URL.Path)
		require.Equal(t, "Bearer rw-test", r.Header.Get("Authorization"))
		require.Equal(t, "2024-09-13", r.Header.Get("X-Runway-Version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]any{"id": "task-abc", "status": "PENDING"})
	})

	task, err := client.StartVideo(context.Background(), "rw-test", ports.VideoRequest{
		Prompt:   "a drone shot of a coastline",
		Image:    "https://x.test/seed.png",
		Model:    "gen3a_turbo",
		Duration: 5,
		Ratio:    "16:9",
	})
	require.NoError(t, err)

	assert.Equal(t, "task-abc", task.TaskID)
	assert.Equal(t, "PENDING", task.Status)
	assert.Equal(t, "a drone shot of a coastline", captured["promptText"])
	assert.Equal(t, "https://x.test/seed.png", captured["promptImage"])
	assert.Equal(t, "gen3a_turbo", captured["model"])
	assert.EqualValues(t, 5, captured["duration"])
}

func TestStartVideoDefaultsModel(t *testing.T) {
	var captured map[string]any
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]any{"id": "t", "status": "PENDING"})
	})

	_, err := client.StartVideo(context.Background(), "rw-test", ports.VideoRequest{Prompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, "gen3a_turbo", captured["model"])
}

func TestStartVideoMissingTaskID(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"status": "PENDING"})
	})

	_, err := client.StartVideo(context.Background(), "rw-test", ports.VideoRequest{Prompt: "x"})

	var execErr *domain.ExecError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, domain.ErrRemote, execErr.Kind)
}

func TestVideoStatusShapes(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
		want ports.VideoStatus
	}{
		{
			name: "status with output list",
			body: map[string]any{"status": "SUCCEEDED", "progress": 1.0, "output": []string{"https://v.test/a.mp4"}},
			want: ports.VideoStatus{Status: "SUCCEEDED", Progress: 100, OutputURL: "https://v.test/a.mp4"},
		},
		{
			name: "state with videoUrl",
			body: map[string]any{"state": "running", "progress": 0.4, "videoUrl": ""},
			want: ports.VideoStatus{Status: "running", Progress: 40},
		},
		{
			name: "failure message",
			body: map[string]any{"status": "FAILED", "failure": "moderation rejected the prompt"},
			want: ports.VideoStatus{Status: "FAILED", Error: "moderation rejected the prompt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodGet, r.Method)
				require.Equal(t, "/v1/tasks/task-1", r.URL.Path)
				json.NewEncoder(w).Encode(tt.body)
			})

			status, err := client.VideoStatus(context.Background(), "rw-test", "task-1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestStatusErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantKind domain.ExecErrorKind
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantKind: domain.ErrAuth},
		{name: "forbidden", status: http.StatusForbidden, wantKind: domain.ErrAuth},
		{name: "rate limited", status: http.StatusTooManyRequests, wantKind: domain.ErrQuota},
		{name: "server error", status: http.StatusBadGateway, wantKind: domain.ErrRemote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]any{"error": "nope"})
			})

			_, err := client.StartVideo(context.Background(), "rw-test", ports.VideoRequest{Prompt: "x"})

			var execErr *domain.ExecError
			require.ErrorAs(t, err, &execErr)
			assert.Equal(t, tt.wantKind, execErr.Kind)
		})
	}
}

func TestConnectivityError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()
	client := runway.New(runway.WithBaseURL(ts.URL))

	_, err := client.VideoStatus(context.Background(), "rw-test", "task-1")

	var execErr *domain.ExecError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, domain.ErrConnectivity, execErr.Kind)
}
