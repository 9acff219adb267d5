package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunksTableDDL(t *testing.T) {
	t.Run("uses the configured dimensionality", func(t *testing.T) {
		assert.Contains(t, chunksTableDDL(768), "vector(768)")
		assert.Contains(t, chunksTableDDL(1024), "vector(1024)")
	})

	t.Run("is idempotent", func(t *testing.T) {
		assert.Contains(t, chunksTableDDL(768), "IF NOT EXISTS")
	})
}
