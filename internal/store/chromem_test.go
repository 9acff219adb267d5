package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfchat/internal/models"
)

func newTestChromem(t *testing.T) *ChromemStore {
	t.Helper()
	s, err := NewChromemStore("") // in-memory
	require.NoError(t, err)
	return s
}

func seedChunks(t *testing.T, s *ChromemStore, name string, embeddings ...[]float32) {
	t.Helper()
	chunks := make([]models.Chunk, len(embeddings))
	for i, embedding := range embeddings {
		chunks[i] = models.Chunk{
			DocumentName: name,
			Index:        i,
			Text:         name + "-chunk",
			Embedding:    embedding,
		}
	}
	require.NoError(t, s.Insert(context.Background(), chunks))
}

func TestChromemStore(t *testing.T) {
	ctx := context.Background()

	t.Run("search ranks by descending similarity", func(t *testing.T) {
		s := newTestChromem(t)
		seedChunks(t, s, "a",
			[]float32{1, 0, 0},
			[]float32{0, 1, 0},
			[]float32{0.9, 0.1, 0},
		)

		matches, err := s.Search(ctx, []float32{1, 0, 0}, 3)
		require.NoError(t, err)
		require.Len(t, matches, 3)
		for i := 1; i < len(matches); i++ {
			assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
		}
	})

	t.Run("k larger than stored documents is clamped", func(t *testing.T) {
		s := newTestChromem(t)
		seedChunks(t, s, "a", []float32{1, 0, 0}, []float32{0, 1, 0})

		matches, err := s.Search(ctx, []float32{1, 0, 0}, 5)
		require.NoError(t, err)
		assert.Len(t, matches, 2)
	})

	t.Run("search on empty store", func(t *testing.T) {
		s := newTestChromem(t)
		matches, err := s.Search(ctx, []float32{1, 0, 0}, 5)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("delete by document removes only that document", func(t *testing.T) {
		s := newTestChromem(t)
		seedChunks(t, s, "a", []float32{1, 0, 0})
		seedChunks(t, s, "b", []float32{0, 1, 0})

		require.NoError(t, s.DeleteByDocument(ctx, "a"))

		matches, err := s.Search(ctx, []float32{1, 0, 0}, 5)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "b-chunk", matches[0].Text)
	})

	t.Run("insert nothing is a no-op", func(t *testing.T) {
		s := newTestChromem(t)
		require.NoError(t, s.Insert(ctx, nil))
	})

	t.Run("provision is idempotent", func(t *testing.T) {
		s := newTestChromem(t)
		require.NoError(t, s.Provision(ctx))
		require.NoError(t, s.Provision(ctx))
	})
}
