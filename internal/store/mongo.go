package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pdfchat/internal/config"
	"pdfchat/internal/models"
)

const searchIndexName = "vector_index"

// MongoStore persists chunk records in a MongoDB Atlas collection and
// retrieves them with the $vectorSearch aggregation stage. The collection's
// search index must be bound to the embedding field with the same
// dimensionality as the embedding provider's output.
type MongoStore struct {
	client        *mongo.Client
	collection    *mongo.Collection
	vectorSize    int
	numCandidates int
}

type chunkRecord struct {
	DocumentName string    `bson:"document_name"`
	ChunkIndex   int       `bson:"chunk_index"`
	Text         string    `bson:"text"`
	Embedding    []float32 `bson:"embedding"`
}

func NewMongoStore(ctx context.Context, cfg *config.Config) (*MongoStore, error) {
	clientOpts := options.Client().
		ApplyURI(cfg.Store.MongoURI).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	collection := client.Database(cfg.Store.MongoDatabase).Collection(cfg.Store.MongoCollection)
	return &MongoStore{
		client:        client,
		collection:    collection,
		vectorSize:    cfg.RAG.VectorSize,
		numCandidates: cfg.RAG.NumCandidates,
	}, nil
}

// Provision creates the Atlas vector search index if it does not exist yet.
// No sample record is needed; the index can be created on an empty
// collection.
func (s *MongoStore) Provision(ctx context.Context) error {
	cursor, err := s.collection.SearchIndexes().List(ctx, options.SearchIndexes().SetName(searchIndexName))
	if err == nil {
		var existing []bson.M
		if err := cursor.All(ctx, &existing); err == nil && len(existing) > 0 {
			return nil
		}
	}

	definition := bson.D{{Key: "fields", Value: bson.A{
		bson.D{
			{Key: "type", Value: "vector"},
			{Key: "path", Value: "embedding"},
			{Key: "similarity", Value: "cosine"},
			{Key: "numDimensions", Value: s.vectorSize},
		},
	}}}

	model := mongo.SearchIndexModel{
		Definition: definition,
		Options:    options.SearchIndexes().SetName(searchIndexName).SetType("vectorSearch"),
	}
	if _, err := s.collection.SearchIndexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("failed to create search index: %w", err)
	}
	return nil
}

func (s *MongoStore) DeleteByDocument(ctx context.Context, name string) error {
	_, err := s.collection.DeleteMany(ctx, bson.M{"document_name": name})
	return err
}

func (s *MongoStore) Insert(ctx context.Context, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	records := make([]interface{}, len(chunks))
	for i, chunk := range chunks {
		records[i] = chunkRecord{
			DocumentName: chunk.DocumentName,
			ChunkIndex:   chunk.Index,
			Text:         chunk.Text,
			Embedding:    chunk.Embedding,
		}
	}
	if _, err := s.collection.InsertMany(ctx, records); err != nil {
		return fmt.Errorf("failed to insert chunks: %w", err)
	}
	return nil
}

func (s *MongoStore) Search(ctx context.Context, embedding []float32, k int) ([]models.SimilarityMatch, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$vectorSearch", Value: bson.D{
			{Key: "index", Value: searchIndexName},
			{Key: "path", Value: "embedding"},
			{Key: "queryVector", Value: embedding},
			{Key: "numCandidates", Value: s.numCandidates},
			{Key: "limit", Value: k},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "text", Value: 1},
			{Key: "score", Value: bson.D{{Key: "$meta", Value: "vectorSearchScore"}}},
		}}},
	}

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Text  string  `bson:"text"`
		Score float32 `bson:"score"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}

	matches := make([]models.SimilarityMatch, len(rows))
	for i, row := range rows {
		matches[i] = models.SimilarityMatch{Text: row.Text, Score: row.Score}
	}
	return matches, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ VectorStore = (*MongoStore)(nil)
