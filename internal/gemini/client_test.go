package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{APIKey: "test-key", BaseURL: srv.URL + "/", Model: "gemini-test"})
}

func TestGenerateSendsRequestAndJoinsParts(t *testing.T) {
	var got generateRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Muraho "},{"text":"neza"}]}}]}`))
	})

	out, err := client.Generate(context.Background(), Request{
		Prompt:            "hello",
		SystemInstruction: "be kind",
		ResponseSchema:    map[string]any{"type": "OBJECT"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Muraho neza", out)

	require.Len(t, got.Contents, 1)
	assert.Equal(t, "hello", got.Contents[0].Parts[0].Text)
	require.NotNil(t, got.SystemInstruction)
	assert.Equal(t, "be kind", got.SystemInstruction.Parts[0].Text)
	require.NotNil(t, got.GenerationConfig)
	assert.Equal(t, "application/json", got.GenerationConfig.ResponseMimeType)
}

func TestGenerateModelOverride(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/chat-model:generateContent", r.URL.Path)
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	})
	out, err := client.Generate(context.Background(), Request{Model: "chat-model", Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		wantMsg string
	}{
		{name: "http error", status: http.StatusTooManyRequests, body: `{"error":{"message":"quota"}}`, wantMsg: "quota"},
		{name: "blocked", status: http.StatusOK, body: `{"promptFeedback":{"blockReason":"SAFETY"}}`, wantErr: ErrBlocked},
		{name: "no candidates", status: http.StatusOK, body: `{"candidates":[]}`, wantErr: ErrEmptyResponse},
		{name: "not json", status: http.StatusOK, body: `<html>`, wantMsg: "malformed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := client.Generate(context.Background(), Request{Prompt: "x"})
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestGenerateWithoutKey(t *testing.T) {
	_, err := NewClient(Config{}).Generate(context.Background(), Request{Prompt: "x"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
