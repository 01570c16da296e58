package retrieval

import (
	"os"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// NewEmbedder initializes the embedding client using the
// OPENAI_EMBEDDING_MODEL environment variable.
func NewEmbedder() (embeddings.Embedder, error) {
	llm, err := openai.New(openai.WithEmbeddingModel(os.Getenv("OPENAI_EMBEDDING_MODEL")))
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(
		llm,
		embeddings.WithBatchSize(50),
		embeddings.WithStripNewLines(false),
	)
	if err != nil {
		return nil, err
	}

	return embedder, nil
}
