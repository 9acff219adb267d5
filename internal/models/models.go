package models

// Chunk is a fixed-length contiguous slice of a document's extracted text,
// paired with its embedding vector. Index is 0-based and contiguous within a
// document; concatenating chunk texts in index order reproduces the
// document's extracted text.
type Chunk struct {
	DocumentName string
	Index        int
	Text         string
	Embedding    []float32
}

// SimilarityMatch is a transient retrieval result. Higher score means more
// relevant.
type SimilarityMatch struct {
	Text  string
	Score float32
}
