package retrieval

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"
	"github.com/tmc/langchaingo/embeddings"
)

const collectionName = "knowledge_base"

// MemoryStore keeps vectors in-process with chromem. Chunks live only as long
// as the process does, which matches the session-scoped knowledge base model.
type MemoryStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedder   embeddings.Embedder
}

func NewMemoryStore(embedder embeddings.Embedder) (*MemoryStore, error) {
	db := chromem.NewDB()

	collection, err := db.GetOrCreateCollection(collectionName, nil, embeddingFunc(embedder))
	if err != nil {
		return nil, err
	}

	return &MemoryStore{
		db:         db,
		collection: collection,
		embedder:   embedder,
	}, nil
}

// embeddingFunc adapts our embedder for chromem's query path.
func embeddingFunc(embedder embeddings.Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return embedder.EmbedQuery(ctx, text)
	}
}

func (s *MemoryStore) AddChunks(ctx context.Context, documentUUID uuid.UUID, filename string, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	// Embed in bulk; the embedder batches internally.
	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding chunks: %w", err)
	}

	documents := make([]chromem.Document, len(chunks))
	for i, chunk := range chunks {
		documents[i] = chromem.Document{
			ID:        fmt.Sprintf("%v:%v", documentUUID, chunk.Index),
			Content:   chunk.Text,
			Embedding: vectors[i],
			Metadata: map[string]string{
				"document_uuid": documentUUID.String(),
				"filename":      filename,
				"chunk_index":   strconv.Itoa(chunk.Index),
				"word_count":    strconv.Itoa(chunk.WordCount),
			},
		}
	}

	return s.collection.AddDocuments(ctx, documents, 4)
}

func (s *MemoryStore) Search(ctx context.Context, query string, topK int) ([]Result, error) {
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}

	if topK > count {
		topK = count
	}

	matches, err := s.collection.Query(ctx, query, topK, nil, nil)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(matches))
	for _, match := range matches {
		documentUUID, err := uuid.Parse(match.Metadata["document_uuid"])
		if err != nil {
			continue
		}

		chunkIndex, _ := strconv.Atoi(match.Metadata["chunk_index"])
		results = append(results, Result{
			Text:         match.Content,
			DocumentUUID: documentUUID,
			Filename:     match.Metadata["filename"],
			ChunkIndex:   chunkIndex,
			Similarity:   match.Similarity,
		})
	}

	return results, nil
}

func (s *MemoryStore) DeleteDocument(ctx context.Context, documentUUID uuid.UUID) error {
	return s.collection.Delete(ctx, map[string]string{"document_uuid": documentUUID.String()}, nil)
}

func (s *MemoryStore) Reset(ctx context.Context) error {
	if err := s.db.DeleteCollection(collectionName); err != nil {
		return err
	}

	collection, err := s.db.GetOrCreateCollection(collectionName, nil, embeddingFunc(s.embedder))
	if err != nil {
		return err
	}

	s.collection = collection

	return nil
}
