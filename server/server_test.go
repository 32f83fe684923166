package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hannahmacd/portfolio-core/chat"
	"github.com/hannahmacd/portfolio-core/llm"
)

type noopComposer struct{}

func (noopComposer) Answer(ctx context.Context, message string, history []llm.Message) (*chat.Answer, error) {
	return &chat.Answer{Reply: "ok"}, nil
}

func TestHealthz(t *testing.T) {
	s := New(":0", noopComposer{})

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}

func TestCORSHeaders(t *testing.T) {
	s := New(":0", noopComposer{})

	t.Run("Preflight", func(t *testing.T) {
		w := httptest.NewRecorder()
		s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/chat", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	})

	t.Run("ActualRequest", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message": "hi"}`))
		req.Header.Set("Content-Type", "application/json")
		s.engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestServeStopsOnContextCancel(t *testing.T) {
	s := New("127.0.0.1:0", noopComposer{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	cancel()
	require.NoError(t, <-done)
}
