// Package ingest runs the offline knowledge-base build: chunk every markdown
// document in a directory, embed each chunk, and write the rows to the store.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/hannahmacd/portfolio-core/chunker"
	"github.com/hannahmacd/portfolio-core/db"
	"github.com/hannahmacd/portfolio-core/llm"
)

// embedDelay is a courtesy pause between embedding calls, not an adaptive
// backoff.
const embedDelay = 80 * time.Millisecond

// Store is the write surface of the knowledge store the pipeline needs.
type Store interface {
	Insert(ctx context.Context, doc db.DocumentModel) error
	DeleteBySourceFile(ctx context.Context, sourceFile string) (int64, error)
}

type Options struct {
	DryRun bool // compute and log chunks without embedding or writing
	Reset  bool // delete a file's existing rows before re-inserting
}

type Pipeline struct {
	store    Store
	embedder llm.Embedder
	chunker  *chunker.MarkdownChunker
	limiter  *rate.Limiter
}

func NewPipeline(store Store, embedder llm.Embedder, maxChunkChars int) *Pipeline {
	return &Pipeline{
		store:    store,
		embedder: embedder,
		chunker:  chunker.NewMarkdownChunker(maxChunkChars),
		limiter:  rate.NewLimiter(rate.Every(embedDelay), 1),
	}
}

// Run processes every markdown file in dir in sorted filename order. The
// first embedding or insert failure aborts the whole run; rows already
// written stay, so re-running with Reset is the recovery path.
func (p *Pipeline) Run(ctx context.Context, dir string, opts Options) error {
	files, err := listMarkdownFiles(dir)
	if err != nil {
		return err
	}

	logger.Info("Starting knowledge ingestion",
		zap.Int("files", len(files)),
		zap.Bool("dryRun", opts.DryRun),
		zap.Bool("reset", opts.Reset))

	for _, file := range files {
		if err := p.ingestFile(ctx, dir, file, opts); err != nil {
			return err
		}
	}

	logger.Info("Ingestion complete")
	return nil
}

func (p *Pipeline) ingestFile(ctx context.Context, dir, file string, opts Options) error {
	raw, err := os.ReadFile(filepath.Join(dir, file))
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}

	docType := db.InferDocType(file)
	priority := db.Priority(docType)
	chunks := p.chunker.Split(string(raw))

	logger.Info("Chunked knowledge file",
		zap.String("file", file),
		zap.String("docType", string(docType)),
		zap.Float64("priority", priority),
		zap.Int("chunks", len(chunks)))

	if opts.Reset && !opts.DryRun {
		if _, err := p.store.DeleteBySourceFile(ctx, file); err != nil {
			return err
		}
	}

	for _, c := range chunks {
		content := strings.TrimSpace(c.Content)
		if content == "" {
			continue
		}

		if opts.DryRun {
			logger.Info("Dry-run chunk",
				zap.String("file", file),
				zap.Int("chunk", c.ChunkIndex+1),
				zap.Int("of", c.TotalChunks),
				zap.String("sectionTitle", c.SectionTitle))
			continue
		}

		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}

		embedding, err := p.embedder.Embed(ctx, content)
		if err != nil {
			return fmt.Errorf("embed %s chunk %d: %w", file, c.ChunkIndex, err)
		}

		// Fresh id per insert: re-ingesting without reset accumulates rows;
		// retrieval dedupes, and reset is the documented cleanup path.
		doc := db.DocumentModel{
			DocID:        uuid.NewString(),
			Content:      content,
			Embedding:    bson.NewVector(embedding),
			SourceFile:   file,
			SectionTitle: c.SectionTitle,
			DocType:      docType,
			Priority:     priority,
			Metadata:     chunkMetadata(file, c),
		}

		if err := p.store.Insert(ctx, doc); err != nil {
			return err
		}
	}

	logger.Info("Finished knowledge file", zap.String("file", file))
	return nil
}

// chunkMetadata always records chunk position; chunks of projects.md also
// carry their enclosing project section as a tag.
func chunkMetadata(file string, c chunker.Chunk) db.ChunkMetadata {
	meta := db.ChunkMetadata{
		ChunkIndex:  c.ChunkIndex,
		TotalChunks: c.TotalChunks,
	}
	if strings.EqualFold(file, "projects.md") && c.ParentTitle != "" {
		meta.Project = c.ParentTitle
	}
	return meta
}

func listMarkdownFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("missing knowledge directory %s: %w", dir, err)
	}

	var files []string // ReadDir output is already sorted by filename
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), ".md") {
			files = append(files, e.Name())
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no .md files found in %s", dir)
	}
	return files, nil
}
