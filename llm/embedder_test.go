package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/ollama/ollama/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// embeddingServer fakes the Ollama embeddings endpoint, answering every
// request with a vector of the given length.
func embeddingServer(t *testing.T, dims int) *OllamaEmbedder {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/embeddings", r.URL.Path)

		var req api.EmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "nomic-embed-text", req.Model)

		embedding := make([]float64, dims)
		for i := range embedding {
			embedding[i] = float64(i) * 0.001
		}
		require.NoError(t, json.NewEncoder(w).Encode(api.EmbeddingResponse{Embedding: embedding}))
	}))
	t.Cleanup(srv.Close)

	base, err := url.Parse(srv.URL)
	require.NoError(t, err)

	return NewOllamaEmbedder(api.NewClient(base, srv.Client()), "nomic-embed-text")
}

func TestEmbed(t *testing.T) {
	embedder := embeddingServer(t, EmbeddingDimensions)

	got, err := embedder.Embed(context.Background(), "What does she build?")
	require.NoError(t, err)
	require.Len(t, got, EmbeddingDimensions)

	assert.Equal(t, float32(0), got[0])
	assert.Equal(t, float32(0.001), got[1])
}

func TestEmbedDimensionMismatch(t *testing.T) {
	embedder := embeddingServer(t, 10)

	_, err := embedder.Embed(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding dimension mismatch: got 10, expected 768")
}
