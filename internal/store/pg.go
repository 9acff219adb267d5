package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pgvector/pgvector-go"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"pdfchat/internal/config"
	"pdfchat/internal/models"
)

// PgStore persists chunk records in a Postgres table with a pgvector column
// and retrieves them with the cosine distance operator.
type PgStore struct {
	db         *bun.DB
	vectorSize int
}

type pgChunk struct {
	bun.BaseModel `bun:"table:chunks,alias:c"`
	ID            int64           `bun:"id,pk,autoincrement"`
	DocumentName  string          `bun:"document_name,notnull"`
	ChunkIndex    int             `bun:"chunk_index,notnull"`
	Text          string          `bun:"text,notnull"`
	Embedding     pgvector.Vector `bun:"embedding,notnull"`

	Score float32 `bun:"score,scanonly"`
}

// chunksTableDDL builds the table definition with the configured embedding
// dimensionality; the vector type cannot come from a model tag since the
// dimensionality is not fixed at compile time.
func chunksTableDDL(vectorSize int) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS chunks (
	id BIGSERIAL PRIMARY KEY,
	document_name VARCHAR NOT NULL,
	chunk_index BIGINT NOT NULL,
	text VARCHAR NOT NULL,
	embedding vector(%d) NOT NULL
)`, vectorSize)
}

func NewPgStore(cfg *config.Config) (*PgStore, error) {
	dsn := cfg.Store.PostgresDSN + "?sslmode=disable"
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithPassword(cfg.Store.PostgresPassword),
	))
	db := bun.NewDB(sqldb, pgdialect.New())
	db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithEnabled(cfg.Store.Debug), bundebug.WithVerbose(true)))
	return &PgStore{db: db, vectorSize: cfg.RAG.VectorSize}, nil
}

func (s *PgStore) Provision(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("failed to enable pgvector: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, chunksTableDDL(s.vectorSize)); err != nil {
		return fmt.Errorf("failed to create chunks table: %w", err)
	}
	// ANN index so search is approximate rather than a sequential scan.
	if _, err := s.db.ExecContext(ctx,
		"CREATE INDEX IF NOT EXISTS chunks_embedding_idx ON chunks USING hnsw (embedding vector_cosine_ops)"); err != nil {
		return fmt.Errorf("failed to create embedding index: %w", err)
	}
	return nil
}

func (s *PgStore) DeleteByDocument(ctx context.Context, name string) error {
	_, err := s.db.NewDelete().Model((*pgChunk)(nil)).Where("document_name = ?", name).Exec(ctx)
	return err
}

func (s *PgStore) Insert(ctx context.Context, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	rows := make([]pgChunk, len(chunks))
	for i, chunk := range chunks {
		rows[i] = pgChunk{
			DocumentName: chunk.DocumentName,
			ChunkIndex:   chunk.Index,
			Text:         chunk.Text,
			Embedding:    pgvector.NewVector(chunk.Embedding),
		}
	}
	if _, err := s.db.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert chunks: %w", err)
	}
	return nil
}

func (s *PgStore) Search(ctx context.Context, embedding []float32, k int) ([]models.SimilarityMatch, error) {
	query := pgvector.NewVector(embedding)

	var rows []pgChunk
	err := s.db.NewSelect().
		Model(&rows).
		Column("text").
		ColumnExpr("1 - (embedding <=> ?) AS score", query).
		OrderExpr("embedding <=> ?", query).
		Limit(k).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	matches := make([]models.SimilarityMatch, len(rows))
	for i, row := range rows {
		matches[i] = models.SimilarityMatch{Text: row.Text, Score: row.Score}
	}
	return matches, nil
}

func (s *PgStore) Close(ctx context.Context) error {
	return s.db.Close()
}

var _ VectorStore = (*PgStore)(nil)
