package embedding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct {
	dim    int
	failOn string
	seen   []string
}

func (s *stubEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if text == s.failOn {
		return nil, errors.New("provider down")
	}
	s.seen = append(s.seen, text)
	return make([]float32, s.dim), nil
}

func TestEmbedTexts(t *testing.T) {
	ctx := context.Background()

	t.Run("preserves order and dimensionality", func(t *testing.T) {
		stub := &stubEmbedder{dim: 768}
		texts := []string{"one", "two", "three"}

		vectors, err := EmbedTexts(ctx, stub, texts)
		require.NoError(t, err)
		require.Len(t, vectors, 3)
		for _, vector := range vectors {
			assert.Len(t, vector, 768)
		}
		assert.Equal(t, texts, stub.seen)
	})

	t.Run("first failure aborts the rest", func(t *testing.T) {
		stub := &stubEmbedder{dim: 768, failOn: "two"}

		_, err := EmbedTexts(ctx, stub, []string{"one", "two", "three"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "embed text 1")
		assert.Equal(t, []string{"one"}, stub.seen)
	})

	t.Run("empty input", func(t *testing.T) {
		vectors, err := EmbedTexts(ctx, &stubEmbedder{dim: 8}, nil)
		require.NoError(t, err)
		assert.Empty(t, vectors)
	})
}
