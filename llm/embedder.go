package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/ollama/ollama/api"
)

// EmbeddingDimensions is the dimensionality of the vector index schema.
// Every embedding is validated against it before leaving this package; a
// mismatch means the configured model and the store schema disagree.
const EmbeddingDimensions = 768

// Embedder converts text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// OllamaEmbedder computes embeddings through a local Ollama server.
type OllamaEmbedder struct {
	cli   *api.Client
	model string
}

func NewOllamaEmbedder(cli *api.Client, model string) *OllamaEmbedder {
	return &OllamaEmbedder{cli: cli, model: model}
}

func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	req := &api.EmbeddingRequest{
		Model:     e.model,
		Prompt:    text,
		KeepAlive: &api.Duration{Duration: 60 * time.Minute}, // keep connection alive for reuse
	}
	resp, err := e.cli.Embeddings(ctx, req) // blocking, non-streaming
	if err != nil {
		return nil, err
	}

	if len(resp.Embedding) != EmbeddingDimensions {
		return nil, fmt.Errorf(
			"embedding dimension mismatch: got %d, expected %d; update the vector index dimension or change the embedding model",
			len(resp.Embedding), EmbeddingDimensions)
	}

	emb64 := resp.Embedding // []float64
	emb32 := make([]float32, len(emb64))
	for i, v := range emb64 {
		emb32[i] = float32(v)
	}
	return emb32, nil
}
