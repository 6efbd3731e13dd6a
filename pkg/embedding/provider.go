package embedding

// EmbeddingProvider defines the interface for generating text embeddings.
// Implementations must be deterministic for identical input; the same
// provider is used at index time and query time.
type EmbeddingProvider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}
