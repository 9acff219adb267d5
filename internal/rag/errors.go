package rag

import "errors"

// Failure categories surfaced to callers. Per-request failures wrap their
// cause with one of these so the user sees which stage failed instead of a
// raw provider error; branch with errors.Is.
var (
	ErrEmptyDocument     = errors.New("document contains no extractable text")
	ErrEmbeddingProvider = errors.New("embedding provider failure")
	ErrStorageWrite      = errors.New("vector store write failure")
	ErrObjectStore       = errors.New("object store failure")
	ErrRetrieval         = errors.New("retrieval failure")
	ErrGeneration        = errors.New("answer generation failure")
)
