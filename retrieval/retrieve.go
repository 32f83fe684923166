// Package retrieval embeds a question, queries the knowledge store for
// nearest neighbors, and trims the result set to a per-intent context budget.
package retrieval

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/SaiNageswarS/go-collection-boot/ds"
	"golang.org/x/crypto/blake2s"

	"github.com/hannahmacd/portfolio-core/db"
	"github.com/hannahmacd/portfolio-core/intent"
	"github.com/hannahmacd/portfolio-core/llm"
)

// DefaultMatchCount is how many candidates the store is asked for before
// deduplication and truncation.
const DefaultMatchCount = 12

// dedupePrefixLen bounds the content prefix used in the dedupe key, guarding
// against near-duplicate chunks without exact-text comparison.
const dedupePrefixLen = 80

// Store is the similarity-search surface the retriever consumes.
type Store interface {
	MatchDocuments(ctx context.Context, queryEmbedding []float32, matchCount int) ([]db.ScoredDocument, error)
	MatchDocumentsFiltered(ctx context.Context, queryEmbedding []float32, docTypes []db.DocType, matchCount int) ([]db.ScoredDocument, error)
}

type Retriever struct {
	embedder llm.Embedder
	store    Store
}

func NewRetriever(embedder llm.Embedder, store Store) *Retriever {
	return &Retriever{embedder: embedder, store: store}
}

// Retrieve returns the deduplicated, budget-capped context for a question.
// Results arrive similarity-sorted from the store and keep that order, so
// truncation always keeps the best-ranked survivors. Errors from the
// embedding call or the store propagate to the caller; there is no
// partial-result fallback.
func (r *Retriever) Retrieve(ctx context.Context, question string, it intent.Intent, matchCount int) ([]db.ScoredDocument, error) {
	if matchCount <= 0 {
		matchCount = DefaultMatchCount
	}

	queryEmbedding, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	var rows []db.ScoredDocument
	if allowed := intent.DocTypeFilter(it); allowed != nil {
		rows, err = r.store.MatchDocumentsFiltered(ctx, queryEmbedding, allowed, matchCount)
	} else {
		rows, err = r.store.MatchDocuments(ctx, queryEmbedding, matchCount)
	}
	if err != nil {
		return nil, err
	}

	maxChunks := intent.MaxChunks(it)

	seen := ds.NewSet[string]()
	deduped := make([]db.ScoredDocument, 0, maxChunks)
	for _, row := range rows {
		key := dedupeKey(row)
		if seen.Contains(key) {
			continue
		}
		seen.Add(key)
		deduped = append(deduped, row)
		if len(deduped) >= maxChunks {
			break
		}
	}

	return deduped, nil
}

// dedupeKey hashes (sourceFile, sectionTitle, content prefix) so re-ingested
// or overlapping sections collapse to one entry.
func dedupeKey(row db.ScoredDocument) string {
	prefix := row.Content
	if len(prefix) > dedupePrefixLen {
		prefix = prefix[:dedupePrefixLen]
	}

	h, _ := blake2s.New256(nil)
	h.Write([]byte(row.SourceFile + "::" + row.SectionTitle + "::" + prefix))
	return hex.EncodeToString(h.Sum(nil))
}
