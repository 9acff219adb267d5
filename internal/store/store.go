package store

import (
	"context"
	"fmt"

	"pdfchat/internal/config"
	"pdfchat/internal/models"
)

// Backend names accepted in configuration.
const (
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendChromem  = "chromem"
)

// VectorStore is the contract the pipelines rely on. Chunk records are
// immutable once inserted; DeleteByDocument exists only so re-ingesting a
// document replaces its records instead of duplicating them.
type VectorStore interface {
	// Provision creates the cosine vector index for the configured
	// dimensionality. It is idempotent and is run as an explicit step,
	// never during request handling.
	Provision(ctx context.Context) error

	// DeleteByDocument removes all chunk records for a document name.
	DeleteByDocument(ctx context.Context, name string) error

	// Insert bulk-writes chunk records in a single call.
	Insert(ctx context.Context, chunks []models.Chunk) error

	// Search runs an approximate nearest-neighbor query and returns up to
	// k matches ranked by cosine similarity, descending. An empty result
	// is valid.
	Search(ctx context.Context, embedding []float32, k int) ([]models.SimilarityMatch, error)

	Close(ctx context.Context) error
}

// New constructs the configured backend.
func New(ctx context.Context, cfg *config.Config) (VectorStore, error) {
	switch cfg.Store.Backend {
	case BackendMongo:
		return NewMongoStore(ctx, cfg)
	case BackendPostgres:
		return NewPgStore(cfg)
	case BackendChromem:
		return NewChromemStore(cfg.Store.ChromemPath)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}
}
