package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	testCases := []struct {
		name     string
		in       string
		expected string
	}{
		{name: "plain", in: "  Revised text.\n", expected: "Revised text."},
		{name: "fenced with language", in: "```text\nRevised text.\n```", expected: "Revised text."},
		{name: "fenced without language", in: "```\nLine one.\nLine two.\n```\n", expected: "Line one.\nLine two."},
		{name: "single line fence", in: "```Revised```", expected: "Revised"},
		{name: "inner fence kept", in: "Use this:\n```go\nx := 1\n```", expected: "Use this:\n```go\nx := 1\n```"},
		{name: "bare fence", in: "```", expected: "```"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, stripFences(tc.in))
		})
	}
}

func TestNewOllamaClient_InvalidHost(t *testing.T) {
	_, err := NewOllamaClient("127.0.0.1:11434", "llama3")
	assert.Error(t, err)

	_, err = NewOllamaClient("http://[::1", "llama3")
	assert.Error(t, err)
}

func TestOllamaRequest_CancelledContext(t *testing.T) {
	c, err := NewOllamaClient("http://127.0.0.1:11434", "llama3")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Request(ctx, "p", "t")
	assert.ErrorIs(t, err, context.Canceled)
}

func newOllamaTestClient(t *testing.T, handler http.HandlerFunc) *OllamaClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewOllamaClient(srv.URL, "llama3")
	require.NoError(t, err)
	return c
}

func TestOllamaRequest_Generate(t *testing.T) {
	var got map[string]any
	c := newOllamaTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, "{\"model\":\"llama3\",\"response\":\"```text\\nFixed.\\n```\",\"done\":true}")
	})

	text, err := c.Request(context.Background(), "sys", "user text")
	require.NoError(t, err)
	assert.Equal(t, "Fixed.", text)

	assert.Equal(t, "llama3", got["model"])
	assert.Equal(t, "sys", got["system"])
	assert.Equal(t, "user text", got["prompt"])
	assert.Equal(t, false, got["stream"])
}

func TestOllamaRequest_NotDone(t *testing.T) {
	c := newOllamaTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"model":"llama3","response":"Fix","done":false}`)
	})

	_, err := c.Request(context.Background(), "sys", "user text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not finished")
}
