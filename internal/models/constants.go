package models

const (
	DefaultChunkSize     = 1000 // characters
	DefaultTopK          = 5
	DefaultNumCandidates = 100
	DefaultVectorSize    = 768
)

// FallbackAnswer is returned when retrieval finds no matches; the generative
// model is not called in that case.
const FallbackAnswer = "No relevant information found."

var (
	AnswerPromptTemplate = `Use the context to answer the question.

Context:
%s

Question: %s

Answer in %s, clearly and concisely, using only the given context.
`
)
