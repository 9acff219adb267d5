package rag

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"pdfchat/internal/config"
	"pdfchat/internal/embedding"
	"pdfchat/internal/models"
	"pdfchat/internal/parser"
	"pdfchat/internal/store"
)

// ObjectStore archives and retrieves original document bytes.
type ObjectStore interface {
	Put(ctx context.Context, name string, data []byte, contentType string) error
	Get(ctx context.Context, name string) ([]byte, error)
}

// Generator produces a single-shot text completion.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// RAG orchestrates ingestion, retrieval and answer synthesis. All
// substantive work is delegated to the collaborators; RAG itself only
// chunks text, sequences the calls and assembles the prompt.
type RAG struct {
	store     store.VectorStore
	objects   ObjectStore
	embedder  embedding.Embedder
	generator Generator
	cfg       *config.Config
}

func NewRAG(vs store.VectorStore, objects ObjectStore, embedder embedding.Embedder, generator Generator, cfg *config.Config) *RAG {
	return &RAG{
		store:     vs,
		objects:   objects,
		embedder:  embedder,
		generator: generator,
		cfg:       cfg,
	}
}

// Ingest extracts text from data, chunks it, embeds each chunk in index
// order, replaces any previous records for name with one bulk write, and
// archives the original bytes. It returns the chunk count. The vector write
// and the archive upload are not transactional with each other; a failure
// between them leaves one side done.
func (r *RAG) Ingest(ctx context.Context, data []byte, name string) (int, error) {
	text, err := parser.ExtractText(data, name)
	if err != nil {
		return 0, fmt.Errorf("read document %s: %w", name, err)
	}
	if text == "" {
		return 0, fmt.Errorf("%w: %s", ErrEmptyDocument, name)
	}

	pieces := parser.ChunkText(text, r.cfg.RAG.ChunkSize)
	log.Debug().Str("document", name).Int("chunks", len(pieces)).Msg("Chunked document")

	vectors, err := embedding.EmbedTexts(ctx, r.embedder, pieces)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrEmbeddingProvider, name, err)
	}

	chunks := make([]models.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = models.Chunk{
			DocumentName: name,
			Index:        i,
			Text:         piece,
			Embedding:    vectors[i],
		}
	}

	// Re-ingesting a name replaces its records; duplicates would skew
	// retrieval.
	if err := r.store.DeleteByDocument(ctx, name); err != nil {
		return 0, fmt.Errorf("%w: clearing %s: %v", ErrStorageWrite, name, err)
	}
	if err := r.store.Insert(ctx, chunks); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	if err := r.objects.Put(ctx, name, data, contentTypeFor(name)); err != nil {
		return 0, fmt.Errorf("%w: uploading %s: %v", ErrObjectStore, name, err)
	}

	log.Info().Str("document", name).Int("chunks", len(chunks)).Msg("Document ingested")
	return len(chunks), nil
}

// Retrieve embeds the question with the same model as ingestion and returns
// up to k matches ranked by descending similarity. An empty result is not an
// error.
func (r *RAG) Retrieve(ctx context.Context, question string, k int) ([]models.SimilarityMatch, error) {
	vector, err := r.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding question: %v", ErrRetrieval, err)
	}
	matches, err := r.store.Search(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrieval, err)
	}
	return matches, nil
}

// Synthesize builds the prompt from the matches in retrieval order and makes
// one model call. With no matches it returns the fixed fallback answer
// without calling the model.
func (r *RAG) Synthesize(ctx context.Context, question string, matches []models.SimilarityMatch) (string, error) {
	if len(matches) == 0 {
		return models.FallbackAnswer, nil
	}

	var contextBlock strings.Builder
	for i, match := range matches {
		if i > 0 {
			contextBlock.WriteString("\n\n")
		}
		contextBlock.WriteString(match.Text)
	}

	prompt := fmt.Sprintf(models.AnswerPromptTemplate, contextBlock.String(), question, r.cfg.RAG.AnswerLanguage)
	answer, err := r.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return answer, nil
}

// Query answers a question end to end: retrieve, then synthesize. The
// matches are returned alongside the answer for display.
func (r *RAG) Query(ctx context.Context, question string) (string, []models.SimilarityMatch, error) {
	matches, err := r.Retrieve(ctx, question, r.cfg.RAG.TopK)
	if err != nil {
		return "", nil, err
	}
	answer, err := r.Synthesize(ctx, question, matches)
	if err != nil {
		return "", nil, err
	}
	return answer, matches, nil
}

// Fetch downloads the archived original document.
func (r *RAG) Fetch(ctx context.Context, name string) ([]byte, error) {
	data, err := r.objects.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrObjectStore, err)
	}
	return data, nil
}

func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
