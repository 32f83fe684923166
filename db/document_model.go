package db

import (
	"github.com/SaiNageswarS/go-api-boot/odm"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/hannahmacd/portfolio-core/llm"
)

const VectorIndexName = "documentEmbeddingIndex"

// ChunkMetadata carries the chunk's position within its source document.
// Project is set only for chunks of projects.md, tagging the enclosing
// project section.
type ChunkMetadata struct {
	ChunkIndex  int    `json:"chunk_index" bson:"chunkIndex"`
	TotalChunks int    `json:"total_chunks" bson:"totalChunks"`
	Project     string `json:"project,omitempty" bson:"project,omitempty"`
}

// DocumentModel is one retrievable knowledge chunk row.
type DocumentModel struct {
	DocID        string        `json:"id" bson:"_id"`
	Content      string        `json:"content" bson:"content"`
	Embedding    bson.Vector   `json:"-" bson:"embedding"`
	SourceFile   string        `json:"source_file" bson:"sourceFile"`
	SectionTitle string        `json:"section_title,omitempty" bson:"sectionTitle,omitempty"`
	DocType      DocType       `json:"doc_type" bson:"docType"`
	Priority     float64       `json:"priority" bson:"priority"`
	Metadata     ChunkMetadata `json:"metadata" bson:"metadata"`
}

func (m DocumentModel) Id() string { return m.DocID }

func (m DocumentModel) CollectionName() string { return "documents" }

// Indexes
func (m DocumentModel) VectorIndexSpecs() []odm.VectorIndexSpec {
	return []odm.VectorIndexSpec{
		{
			Name:          VectorIndexName,
			Path:          "embedding",
			Type:          "vector",
			NumDimensions: llm.EmbeddingDimensions,
			Similarity:    "cosine",
			Quantization:  "scalar",
		},
	}
}

// ScoredDocument is a DocumentModel annotated with its vector similarity for
// the query that retrieved it. RankScore is populated only by stores that
// re-rank beyond raw similarity.
type ScoredDocument struct {
	DocumentModel `bson:",inline"`

	Similarity float64  `json:"similarity" bson:"similarity"`
	RankScore  *float64 `json:"rank_score" bson:"rankScore,omitempty"`
}
