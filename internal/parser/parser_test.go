package parser

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkText(t *testing.T) {
	t.Run("exact multiples plus remainder", func(t *testing.T) {
		text := strings.Repeat("a", 2500)
		chunks := ChunkText(text, 1000)
		require.Len(t, chunks, 3)
		assert.Len(t, chunks[0], 1000)
		assert.Len(t, chunks[1], 1000)
		assert.Len(t, chunks[2], 500)
	})

	t.Run("concatenation reconstructs input", func(t *testing.T) {
		inputs := []string{
			"short",
			strings.Repeat("x", 1000),
			strings.Repeat("y", 1001),
			"line one\nline two\nline three",
			strings.Repeat("año café 日本語 ", 200),
		}
		for _, text := range inputs {
			chunks := ChunkText(text, 1000)
			assert.Equal(t, text, strings.Join(chunks, ""))
		}
	})

	t.Run("no chunk is empty", func(t *testing.T) {
		chunks := ChunkText(strings.Repeat("z", 3000), 1000)
		for _, chunk := range chunks {
			assert.NotEmpty(t, chunk)
		}
	})

	t.Run("no overlap between chunks", func(t *testing.T) {
		// Distinct runes per position make any overlap visible as a
		// length mismatch after joining.
		var b strings.Builder
		for i := 0; i < 250; i++ {
			b.WriteRune(rune('A' + i%26))
		}
		text := b.String()
		chunks := ChunkText(text, 100)
		require.Len(t, chunks, 3)
		assert.Equal(t, len(text), len(strings.Join(chunks, "")))
	})

	t.Run("multi-byte runes never split", func(t *testing.T) {
		text := strings.Repeat("日", 150)
		chunks := ChunkText(text, 100)
		require.Len(t, chunks, 2)
		assert.Equal(t, 100, len([]rune(chunks[0])))
		assert.Equal(t, 50, len([]rune(chunks[1])))
		for _, chunk := range chunks {
			assert.True(t, strings.HasPrefix(chunk, "日"))
		}
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, ChunkText("", 1000))
	})

	t.Run("non-positive size", func(t *testing.T) {
		assert.Nil(t, ChunkText("abc", 0))
		assert.Nil(t, ChunkText("abc", -1))
	})

	t.Run("input shorter than size", func(t *testing.T) {
		chunks := ChunkText("hello", 1000)
		require.Len(t, chunks, 1)
		assert.Equal(t, "hello", chunks[0])
	})
}

func TestExtractText(t *testing.T) {
	t.Run("txt is trimmed", func(t *testing.T) {
		text, err := ExtractText([]byte("  hello world \n"), "notes.txt")
		require.NoError(t, err)
		assert.Equal(t, "hello world", text)
	})

	t.Run("txt with only whitespace is empty", func(t *testing.T) {
		text, err := ExtractText([]byte(" \n\t "), "blank.txt")
		require.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("markdown drops markup", func(t *testing.T) {
		src := []byte("# Title\n\nSome *emphasized* text.\n")
		text, err := ExtractText(src, "readme.md")
		require.NoError(t, err)
		assert.Contains(t, text, "Title")
		assert.Contains(t, text, "emphasized")
		assert.NotContains(t, text, "#")
		assert.NotContains(t, text, "*")
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := ExtractText([]byte("data"), "image.png")
		assert.Error(t, err)
	})

	t.Run("corrupt pdf", func(t *testing.T) {
		_, err := ExtractText([]byte("not a pdf"), "broken.pdf")
		assert.Error(t, err)
	})

	t.Run("ods paragraphs with nested spans", func(t *testing.T) {
		content := `<?xml version="1.0"?>` +
			`<office:document-content>` +
			`<text:p text:style-name="P1">hello</text:p>` +
			`<text:p><text:span text:style-name="T1">wor</text:span>ld</text:p>` +
			`</office:document-content>`
		text, err := ExtractText(odsArchive(t, content), "sheet.ods")
		require.NoError(t, err)
		assert.Equal(t, "hello\nworld", text)
	})

	t.Run("ods without content.xml", func(t *testing.T) {
		var buf bytes.Buffer
		w := zip.NewWriter(&buf)
		f, err := w.Create("meta.xml")
		require.NoError(t, err)
		_, err = f.Write([]byte("<office:meta/>"))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		_, err = ExtractText(buf.Bytes(), "empty.ods")
		assert.ErrorContains(t, err, "content.xml")
	})

	t.Run("corrupt ods", func(t *testing.T) {
		_, err := ExtractText([]byte("not a zip"), "broken.ods")
		assert.Error(t, err)
	})
}

func odsArchive(t *testing.T, contentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("content.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(contentXML))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}
