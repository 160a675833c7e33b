package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOpenAIServer(t *testing.T, handler http.HandlerFunc) *OpenAICompleter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAICompleter("sk-test", "", WithBaseURL(srv.URL+"/"), WithHTTPClient(srv.Client()))
}

func TestOpenAICompleter_Complete(t *testing.T) {
	var got openAIRequest
	c := newOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"score\": 61}"}}]}`))
	})

	out, err := c.Complete(context.Background(), "evaluate this")
	require.NoError(t, err)
	assert.Equal(t, `{"score": 61}`, out)

	assert.Equal(t, defaultOpenAIModel, got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "evaluate this", got.Messages[0].Content)
}

func TestOpenAICompleter_EmptyChoices(t *testing.T) {
	for _, body := range []string{`{"choices":[]}`, `{"choices":[{"message":{"role":"assistant","content":null}}]}`} {
		c := newOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})

		out, err := c.Complete(context.Background(), "p")
		require.NoError(t, err)
		assert.Equal(t, "", out)
	}
}

func TestOpenAICompleter_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"error":{"message":"bad key"}}`, wantErr: "openai 401"},
		{name: "quota", status: http.StatusTooManyRequests, body: `{"error":{"message":"quota"}}`, wantErr: "openai 429"},
		{name: "malformed body", status: http.StatusOK, body: `<html>`, wantErr: "failed to parse response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.Complete(context.Background(), "p")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOpenAICompleter_MissingKey(t *testing.T) {
	c := NewOpenAICompleter("  ", "gpt-4o-mini")
	_, err := c.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Equal(t, "gpt-4o-mini", c.Model)
}

func TestOpenAICompleter_ContextCanceled(t *testing.T) {
	c := newOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Complete(ctx, "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
