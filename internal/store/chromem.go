package store

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/philippgille/chromem-go"

	"pdfchat/internal/models"
)

const chromemCollection = "chunks"

// ChromemStore is an embedded vector store for local development. An empty
// path selects an in-memory database.
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
}

func NewChromemStore(path string) (*ChromemStore, error) {
	var db *chromem.DB
	var err error
	if path == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(path, false)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
	}

	collection, err := db.GetOrCreateCollection(chromemCollection, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}
	return &ChromemStore{db: db, collection: collection}, nil
}

// Provision is satisfied by collection creation in the constructor; chromem
// needs no separate index step.
func (s *ChromemStore) Provision(ctx context.Context) error {
	return nil
}

func (s *ChromemStore) DeleteByDocument(ctx context.Context, name string) error {
	return s.collection.Delete(ctx, map[string]string{"document_name": name}, nil)
}

func (s *ChromemStore) Insert(ctx context.Context, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	docs := make([]chromem.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = chromem.Document{
			ID:      fmt.Sprintf("%s-%d", chunk.DocumentName, chunk.Index),
			Content: chunk.Text,
			Metadata: map[string]string{
				"document_name": chunk.DocumentName,
				"chunk_index":   strconv.Itoa(chunk.Index),
			},
			Embedding: chunk.Embedding,
		}
	}
	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}
	return nil
}

func (s *ChromemStore) Search(ctx context.Context, embedding []float32, k int) ([]models.SimilarityMatch, error) {
	// chromem rejects queries asking for more results than stored documents.
	if count := s.collection.Count(); k > count {
		k = count
	}
	if k == 0 {
		return nil, nil
	}

	results, err := s.collection.QueryEmbedding(ctx, embedding, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	matches := make([]models.SimilarityMatch, len(results))
	for i, result := range results {
		matches[i] = models.SimilarityMatch{Text: result.Content, Score: result.Similarity}
	}
	return matches, nil
}

func (s *ChromemStore) Close(ctx context.Context) error {
	return nil
}

var _ VectorStore = (*ChromemStore)(nil)
