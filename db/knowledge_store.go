package db

import (
	"context"
	"fmt"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/SaiNageswarS/go-api-boot/odm"
	"github.com/SaiNageswarS/go-collection-boot/async"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
)

// numCandidates multiplier for the ANN stage. Filtered queries over-fetch so
// that the post-filter still has matchCount survivors to choose from.
const (
	candidateFactor = 10
	filterFactor    = 4
)

// KnowledgeStore wraps the documents collection with the similarity-search
// surface the retrieval pipeline consumes.
type KnowledgeStore struct {
	mongo  odm.MongoClient
	dbName string
}

func ProvideKnowledgeStore(mongoClient odm.MongoClient, dbName string) *KnowledgeStore {
	return &KnowledgeStore{mongo: mongoClient, dbName: dbName}
}

func (s *KnowledgeStore) collection() *mongo.Collection {
	return s.mongo.Database(s.dbName).Collection(DocumentModel{}.CollectionName())
}

// MatchDocuments returns up to matchCount nearest neighbors of the query
// embedding, ordered by cosine similarity.
func (s *KnowledgeStore) MatchDocuments(ctx context.Context, queryEmbedding []float32, matchCount int) ([]ScoredDocument, error) {
	pipeline := mongo.Pipeline{
		vectorSearchStage(queryEmbedding, matchCount, matchCount*candidateFactor),
		similarityStage(),
	}
	return s.aggregate(ctx, pipeline)
}

// MatchDocumentsFiltered is MatchDocuments restricted to a doc-type
// allow-list. The ANN stage over-fetches and the allow-list is applied as a
// post-filter, so candidates outside the list never reach the caller.
func (s *KnowledgeStore) MatchDocumentsFiltered(ctx context.Context, queryEmbedding []float32, docTypes []DocType, matchCount int) ([]ScoredDocument, error) {
	if len(docTypes) == 0 {
		return s.MatchDocuments(ctx, queryEmbedding, matchCount)
	}

	pipeline := mongo.Pipeline{
		vectorSearchStage(queryEmbedding, matchCount*filterFactor, matchCount*filterFactor*candidateFactor),
		similarityStage(),
		bson.D{{Key: "$match", Value: bson.M{"docType": bson.M{"$in": docTypes}}}},
		bson.D{{Key: "$limit", Value: matchCount}},
	}
	return s.aggregate(ctx, pipeline)
}

func (s *KnowledgeStore) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]ScoredDocument, error) {
	cursor, err := s.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer cursor.Close(ctx)

	var hits []ScoredDocument
	if err := cursor.All(ctx, &hits); err != nil {
		return nil, fmt.Errorf("vector search decode: %w", err)
	}
	return hits, nil
}

// Insert writes one chunk row.
func (s *KnowledgeStore) Insert(ctx context.Context, doc DocumentModel) error {
	_, err := async.Await(odm.CollectionOf[DocumentModel](s.mongo, s.dbName).Save(ctx, doc))
	if err != nil {
		return fmt.Errorf("insert chunk %s: %w", doc.DocID, err)
	}
	return nil
}

// DeleteBySourceFile removes every row ingested from the given file. Source
// file is the natural key for "replace this document's knowledge".
func (s *KnowledgeStore) DeleteBySourceFile(ctx context.Context, sourceFile string) (int64, error) {
	res, err := s.collection().DeleteMany(ctx, bson.M{"sourceFile": sourceFile})
	if err != nil {
		return 0, fmt.Errorf("reset rows for %s: %w", sourceFile, err)
	}
	logger.Info("Reset existing rows", zap.String("sourceFile", sourceFile), zap.Int64("deleted", res.DeletedCount))
	return res.DeletedCount, nil
}

func vectorSearchStage(queryEmbedding []float32, limit, numCandidates int) bson.D {
	return bson.D{{Key: "$vectorSearch", Value: bson.D{
		{Key: "index", Value: VectorIndexName},
		{Key: "path", Value: "embedding"},
		{Key: "queryVector", Value: queryEmbedding},
		{Key: "numCandidates", Value: numCandidates},
		{Key: "limit", Value: limit},
	}}}
}

func similarityStage() bson.D {
	return bson.D{{Key: "$addFields", Value: bson.M{
		"similarity": bson.M{"$meta": "vectorSearchScore"},
	}}}
}
