// Package chat assembles retrieved context, persona prompt and conversation
// history into one chat-completion call and returns the reply with citations.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/SaiNageswarS/go-collection-boot/async"
	"github.com/SaiNageswarS/go-collection-boot/linq"

	"github.com/hannahmacd/portfolio-core/db"
	"github.com/hannahmacd/portfolio-core/intent"
	"github.com/hannahmacd/portfolio-core/llm"
	"github.com/hannahmacd/portfolio-core/memory"
	"github.com/hannahmacd/portfolio-core/prompts"
	"github.com/hannahmacd/portfolio-core/retrieval"
)

// historyLimit bounds how many prior turns reach the model per request.
const historyLimit = 6

// ContextRetriever is the retrieval surface the composer consumes.
type ContextRetriever interface {
	Retrieve(ctx context.Context, question string, it intent.Intent, matchCount int) ([]db.ScoredDocument, error)
}

// Source is one citation for a reply, parallel to the retrieved context.
type Source struct {
	SourceFile   string           `json:"source_file"`
	SectionTitle string           `json:"section_title,omitempty"`
	DocType      db.DocType       `json:"doc_type"`
	Similarity   float64          `json:"similarity"`
	RankScore    *float64         `json:"rank_score"`
	Metadata     db.ChunkMetadata `json:"metadata"`
}

type Answer struct {
	Reply   string        `json:"reply"`
	Sources []Source      `json:"sources"`
	Intent  intent.Intent `json:"intent"`
}

type Composer struct {
	retriever ContextRetriever
	llmClient llm.LLMClient
	ownerName string
}

func NewComposer(retriever ContextRetriever, llmClient llm.LLMClient, ownerName string) *Composer {
	return &Composer{
		retriever: retriever,
		llmClient: llmClient,
		ownerName: ownerName,
	}
}

// Answer runs the full request-time chain: classify, retrieve, compose, call
// the model. Any downstream failure aborts the whole answer; replying with no
// context is worse than failing.
func (c *Composer) Answer(ctx context.Context, message string, history []llm.Message) (*Answer, error) {
	it := intent.Classify(message)

	chunks, err := c.retriever.Retrieve(ctx, message, it, retrieval.DefaultMatchCount)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	conversation := memory.Conversation{Messages: history}

	reply, err := async.Await(prompts.GenerateAnswer(
		ctx, c.llmClient, c.ownerName, message, formatContext(chunks), conversation.Tail(historyLimit)))
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	sources, err := linq.Pipe2(
		linq.FromSlice(ctx, chunks),

		linq.Select(func(row db.ScoredDocument) Source {
			return Source{
				SourceFile:   row.SourceFile,
				SectionTitle: row.SectionTitle,
				DocType:      row.DocType,
				Similarity:   row.Similarity,
				RankScore:    row.RankScore,
				Metadata:     row.Metadata,
			}
		}),

		linq.ToSlice[Source](),
	)
	if err != nil {
		return nil, fmt.Errorf("collect sources: %w", err)
	}

	return &Answer{
		Reply:   strings.TrimSpace(reply),
		Sources: sources,
		Intent:  it,
	}, nil
}

// formatContext renders the retrieved chunks as short labeled blocks.
func formatContext(chunks []db.ScoredDocument) string {
	blocks := make([]string, 0, len(chunks))

	for i, c := range chunks {
		headerParts := make([]string, 0, 3)

		if c.DocType != "" {
			headerParts = append(headerParts, fmt.Sprintf("[%s]", c.DocType))
		} else {
			headerParts = append(headerParts, "[doc]")
		}
		if c.SourceFile != "" {
			headerParts = append(headerParts, c.SourceFile)
		} else {
			headerParts = append(headerParts, "unknown_source")
		}
		if c.SectionTitle != "" {
			headerParts = append(headerParts, "— "+c.SectionTitle)
		}

		blocks = append(blocks, fmt.Sprintf("### Context %d: %s\n%s", i+1, strings.Join(headerParts, " "), c.Content))
	}

	return strings.Join(blocks, "\n\n")
}
