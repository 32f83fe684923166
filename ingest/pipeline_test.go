package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hannahmacd/portfolio-core/db"
)

var _ Store = (*db.KnowledgeStore)(nil)

type fakeStore struct {
	inserted  []db.DocumentModel
	deleted   []string
	insertErr error
}

func (f *fakeStore) Insert(ctx context.Context, doc db.DocumentModel) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, doc)
	return nil
}

func (f *fakeStore) DeleteBySourceFile(ctx context.Context, sourceFile string) (int64, error) {
	f.deleted = append(f.deleted, sourceFile)
	var n int64
	kept := f.inserted[:0]
	for _, doc := range f.inserted {
		if doc.SourceFile == sourceFile {
			n++
			continue
		}
		kept = append(kept, doc)
	}
	f.inserted = kept
	return n, nil
}

type fakeEmbedder struct {
	calls int
	err   error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func writeKnowledgeDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestRunIngestsDirectory(t *testing.T) {
	dir := writeKnowledgeDir(t, map[string]string{
		"projects.md": "## Graph Investment\nAn explorer.\n### Stack\nVector search.",
		"faq.md":      "## Remote\nOpen to remote work.",
		"notes.txt":   "ignored",
	})

	store := &fakeStore{}
	embedder := &fakeEmbedder{}
	p := NewPipeline(store, embedder, 0)

	require.NoError(t, p.Run(context.Background(), dir, Options{}))
	require.Len(t, store.inserted, 3)
	assert.Equal(t, 3, embedder.calls)

	// sorted filename order: faq.md before projects.md
	assert.Equal(t, "faq.md", store.inserted[0].SourceFile)
	assert.Equal(t, db.DocTypeFaq, store.inserted[0].DocType)
	assert.Equal(t, db.Priority(db.DocTypeFaq), store.inserted[0].Priority)

	graph := store.inserted[1]
	assert.Equal(t, "projects.md", graph.SourceFile)
	assert.Equal(t, db.DocTypeProjects, graph.DocType)
	assert.Equal(t, "Graph Investment", graph.SectionTitle)
	assert.NotEmpty(t, graph.DocID)
	assert.Equal(t, 0, graph.Metadata.ChunkIndex)
	assert.Equal(t, 2, graph.Metadata.TotalChunks)
	assert.Empty(t, graph.Metadata.Project) // top-level section has no parent

	stack := store.inserted[2]
	assert.Equal(t, "Stack", stack.SectionTitle)
	assert.Equal(t, "Graph Investment", stack.Metadata.Project)
}

func TestRunProjectTagOnlyForProjectsFile(t *testing.T) {
	dir := writeKnowledgeDir(t, map[string]string{
		"experience.md": "## Acme\nData work.\n### Impact\nShipped things.",
	})

	store := &fakeStore{}
	p := NewPipeline(store, &fakeEmbedder{}, 0)

	require.NoError(t, p.Run(context.Background(), dir, Options{}))
	require.Len(t, store.inserted, 2)
	assert.Empty(t, store.inserted[1].Metadata.Project)
}

func TestRunDryRun(t *testing.T) {
	dir := writeKnowledgeDir(t, map[string]string{
		"about.md": "## Bio\nA data scientist.",
	})

	store := &fakeStore{}
	embedder := &fakeEmbedder{}
	p := NewPipeline(store, embedder, 0)

	require.NoError(t, p.Run(context.Background(), dir, Options{DryRun: true, Reset: true}))
	assert.Empty(t, store.inserted)
	assert.Empty(t, store.deleted) // dry-run never touches the store
	assert.Zero(t, embedder.calls)
}

func TestRunResetReplacesRows(t *testing.T) {
	dir := writeKnowledgeDir(t, map[string]string{
		"skills.md": "## Skills\nPython, SQL.",
	})

	store := &fakeStore{}
	p := NewPipeline(store, &fakeEmbedder{}, 0)

	require.NoError(t, p.Run(context.Background(), dir, Options{}))
	require.NoError(t, p.Run(context.Background(), dir, Options{Reset: true}))

	assert.Equal(t, []string{"skills.md"}, store.deleted)
	assert.Len(t, store.inserted, 1)
}

func TestRunWithoutResetAccumulatesRows(t *testing.T) {
	dir := writeKnowledgeDir(t, map[string]string{
		"contact.md": "## Contact\nUse the form.",
	})

	store := &fakeStore{}
	p := NewPipeline(store, &fakeEmbedder{}, 0)

	require.NoError(t, p.Run(context.Background(), dir, Options{}))
	require.NoError(t, p.Run(context.Background(), dir, Options{}))

	require.Len(t, store.inserted, 2)
	assert.NotEqual(t, store.inserted[0].DocID, store.inserted[1].DocID)
}

func TestRunFailsFast(t *testing.T) {
	t.Run("EmbedError", func(t *testing.T) {
		dir := writeKnowledgeDir(t, map[string]string{
			"about.md": "## Bio\nText.",
		})

		store := &fakeStore{}
		p := NewPipeline(store, &fakeEmbedder{err: errors.New("ollama down")}, 0)

		err := p.Run(context.Background(), dir, Options{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "embed about.md chunk 0")
		assert.Empty(t, store.inserted)
	})

	t.Run("InsertError", func(t *testing.T) {
		dir := writeKnowledgeDir(t, map[string]string{
			"about.md": "## Bio\nText.",
		})

		storeErr := errors.New("connection reset")
		p := NewPipeline(&fakeStore{insertErr: storeErr}, &fakeEmbedder{}, 0)

		assert.ErrorIs(t, p.Run(context.Background(), dir, Options{}), storeErr)
	})
}

func TestListMarkdownFiles(t *testing.T) {
	t.Run("MissingDir", func(t *testing.T) {
		_, err := listMarkdownFiles(filepath.Join(t.TempDir(), "nope"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing knowledge directory")
	})

	t.Run("NoMarkdown", func(t *testing.T) {
		dir := writeKnowledgeDir(t, map[string]string{"readme.txt": "hi"})
		_, err := listMarkdownFiles(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no .md files")
	})

	t.Run("SkipsSubdirs", func(t *testing.T) {
		dir := writeKnowledgeDir(t, map[string]string{"a.md": "x"})
		require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.md"), 0755))

		files, err := listMarkdownFiles(dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"a.md"}, files)
	})
}
