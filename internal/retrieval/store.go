package retrieval

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/embeddings"
)

// ErrDeleteUnsupported is returned by backends that cannot remove vectors.
// Callers treat the leftovers as dead vectors and rely on retrieval-time
// filtering against live documents.
var ErrDeleteUnsupported = errors.New("vector store backend does not support deletion")

// Chunk is one embeddable unit of a document.
type Chunk struct {
	Text      string
	Index     int
	WordCount int
}

// Result is a retrieved chunk with its similarity score.
type Result struct {
	Text         string
	DocumentUUID uuid.UUID
	Filename     string
	ChunkIndex   int
	Similarity   float32
}

// Store indexes document chunks and answers similarity queries over them.
type Store interface {
	// AddChunks embeds and upserts all chunks of a document. Either all chunks
	// make it into the store or the document is not considered indexed.
	AddChunks(ctx context.Context, documentUUID uuid.UUID, filename string, chunks []Chunk) error

	// Search returns up to topK chunks most similar to the query, best first.
	Search(ctx context.Context, query string, topK int) ([]Result, error)

	// DeleteDocument removes all vectors of a document. May return
	// ErrDeleteUnsupported.
	DeleteDocument(ctx context.Context, documentUUID uuid.UUID) error

	// Reset drops all vectors. May return ErrDeleteUnsupported.
	Reset(ctx context.Context) error
}

// NewStore picks the vector store backend from the VECTOR_BACKEND environment
// variable. The in-memory backend is the default: the knowledge base is
// rebuilt per deployment and dies with it.
func NewStore(embedder embeddings.Embedder) (Store, error) {
	backend := os.Getenv("VECTOR_BACKEND")
	switch backend {
	case "", "memory":
		return NewMemoryStore(embedder)
	case "pinecone":
		return NewPineconeStore(embedder)
	default:
		return nil, fmt.Errorf("unknown vector backend %q", backend)
	}
}
