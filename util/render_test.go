package util_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	util "visionforge-backend/util"

	"github.com/stretchr/testify/assert"
)

func testRenderClient(serverURL string) *util.ShotstackClient {
	client := util.NewShotstackClient(serverURL, "test-key")
	client.PollInterval = time.Millisecond
	client.MaxAttempts = 5
	return client
}

func minimalPayload() *util.RenderPayload {
	return &util.RenderPayload{
		Timeline: util.Timeline{
			Background: "#000000",
			Tracks: []util.Track{{Clips: []util.Clip{{
				Asset:  util.Asset{Type: "image", Src: "https://example.com/a.png"},
				Start:  0,
				Length: 4,
			}}}},
		},
		Output: util.Output{Format: "mp4", Resolution: "hd", AspectRatio: "16:9", FPS: 30, Quality: "high"},
	}
}

func TestSubmitRender(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/render", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))

		var payload util.RenderPayload
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "mp4", payload.Output.Format)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"response": {"id": "render-123"}}`))
	}))
	defer server.Close()

	renderID, err := testRenderClient(server.URL).SubmitRender(context.Background(), minimalPayload())

	assert.NoError(t, err)
	assert.Equal(t, "render-123", renderID)
}

func TestSubmitRender_MissingID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": {}}`))
	}))
	defer server.Close()

	_, err := testRenderClient(server.URL).SubmitRender(context.Background(), minimalPayload())

	var renderErr *util.RenderError
	assert.ErrorAs(t, err, &renderErr)
	assert.Contains(t, renderErr.Reason, "no render id")
}

func TestSubmitRender_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "invalid api key"}`))
	}))
	defer server.Close()

	_, err := testRenderClient(server.URL).SubmitRender(context.Background(), minimalPayload())

	var renderErr *util.RenderError
	assert.ErrorAs(t, err, &renderErr)
	assert.Equal(t, "invalid api key", renderErr.Reason)
}

func TestPollRender_DoneAfterRetries(t *testing.T) {
	polls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/render/render-123", r.URL.Path)
		polls++
		switch polls {
		case 1:
			w.Write([]byte(`{"response": {"status": "queued"}}`))
		case 2:
			w.Write([]byte(`{"response": {"status": "rendering"}}`))
		default:
			w.Write([]byte(`{"response": {"status": "done", "url": "https://cdn.example.com/video.mp4"}}`))
		}
	}))
	defer server.Close()

	url, err := testRenderClient(server.URL).PollRender(context.Background(), "render-123")

	assert.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/video.mp4", url)
	assert.Equal(t, 3, polls)
}

func TestPollRender_Failed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": {"status": "failed", "error": "asset could not be fetched"}}`))
	}))
	defer server.Close()

	_, err := testRenderClient(server.URL).PollRender(context.Background(), "render-123")

	var renderErr *util.RenderError
	assert.ErrorAs(t, err, &renderErr)
	assert.False(t, renderErr.Timeout)
	assert.Equal(t, "asset could not be fetched", renderErr.Reason)
}

func TestPollRender_Timeout(t *testing.T) {
	polls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		polls++
		w.Write([]byte(`{"response": {"status": "rendering"}}`))
	}))
	defer server.Close()

	client := testRenderClient(server.URL)
	_, err := client.PollRender(context.Background(), "render-123")

	var renderErr *util.RenderError
	assert.ErrorAs(t, err, &renderErr)
	assert.True(t, renderErr.Timeout)
	assert.Equal(t, client.MaxAttempts, polls)
}

func TestPollRender_DoneWithoutURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": {"status": "done"}}`))
	}))
	defer server.Close()

	_, err := testRenderClient(server.URL).PollRender(context.Background(), "render-123")

	var renderErr *util.RenderError
	assert.ErrorAs(t, err, &renderErr)
	assert.False(t, renderErr.Timeout)
	assert.Contains(t, renderErr.Reason, "without an output URL")
}

func TestPollRender_TransportErrorIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": {"status": "queued"}}`))
	}))
	serverURL := server.URL
	server.Close()

	_, err := testRenderClient(serverURL).PollRender(context.Background(), "render-123")

	var renderErr *util.RenderError
	assert.ErrorAs(t, err, &renderErr)
	assert.False(t, renderErr.Timeout)
	assert.Contains(t, renderErr.Reason, "failed to check render status")
}

func TestPollRender_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": {"status": "queued"}}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := testRenderClient(server.URL)
	client.PollInterval = time.Minute

	_, err := client.PollRender(ctx, "render-123")

	var renderErr *util.RenderError
	assert.ErrorAs(t, err, &renderErr)
	assert.Contains(t, renderErr.Reason, "cancelled")
}

func TestSubmitAndWait(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "POST" {
			w.Write([]byte(`{"response": {"id": "render-456"}}`))
			return
		}
		w.Write([]byte(`{"response": {"status": "done", "url": "https://cdn.example.com/final.mp4"}}`))
	}))
	defer server.Close()

	url, err := testRenderClient(server.URL).SubmitAndWait(context.Background(), minimalPayload())

	assert.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/final.mp4", url)
}
