package retrieval

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
	"github.com/tmc/langchaingo/vectorstores/pinecone"
	"golang.org/x/sync/errgroup"
)

// PineconeStore keeps vectors in a hosted Pinecone index. Pinecone cannot
// delete by metadata through this client, so removed documents leave dead
// vectors behind; the retriever drops results that don't resolve to a live
// document.
type PineconeStore struct {
	store pinecone.Store
}

func NewPineconeStore(embedder embeddings.Embedder) (*PineconeStore, error) {
	store, err := pinecone.New(
		pinecone.WithHost(os.Getenv("PINECONE_HOST")),
		pinecone.WithAPIKey(os.Getenv("PINECONE_API_KEY")),
		pinecone.WithNameSpace(os.Getenv("PINECONE_NAMESPACE")),
		pinecone.WithEmbedder(embedder),
	)
	if err != nil {
		return nil, err
	}

	return &PineconeStore{store: store}, nil
}

func (s *PineconeStore) AddChunks(ctx context.Context, documentUUID uuid.UUID, filename string, chunks []Chunk) error {
	const batchSize = 50

	documents := make([]schema.Document, len(chunks))
	for i, chunk := range chunks {
		documents[i] = schema.Document{
			PageContent: chunk.Text,
			Metadata: map[string]any{
				"document_uuid": documentUUID.String(),
				"filename":      filename,
				"chunk_index":   chunk.Index,
				"word_count":    chunk.WordCount,
			},
		}
	}

	errs, ctx := errgroup.WithContext(ctx)
	for i := 0; i < len(documents); i += batchSize {
		end := i + batchSize
		if end > len(documents) {
			end = len(documents)
		}

		batch := documents[i:end]
		errs.Go(func() error {
			_, err := s.store.AddDocuments(ctx, batch)
			return err
		})
	}

	return errs.Wait()
}

func (s *PineconeStore) Search(ctx context.Context, query string, topK int) ([]Result, error) {
	docs, err := s.store.SimilaritySearch(ctx, query, topK,
		vectorstores.WithScoreThreshold(SimilarityFloor),
	)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(docs))
	for _, doc := range docs {
		rawUUID, _ := doc.Metadata["document_uuid"].(string)
		documentUUID, err := uuid.Parse(rawUUID)
		if err != nil {
			continue
		}

		filename, _ := doc.Metadata["filename"].(string)
		// Pinecone returns numbers as float64.
		chunkIndex, _ := doc.Metadata["chunk_index"].(float64)

		results = append(results, Result{
			Text:         doc.PageContent,
			DocumentUUID: documentUUID,
			Filename:     filename,
			ChunkIndex:   int(chunkIndex),
			Similarity:   doc.Score,
		})
	}

	return results, nil
}

func (s *PineconeStore) DeleteDocument(ctx context.Context, documentUUID uuid.UUID) error {
	return ErrDeleteUnsupported
}

func (s *PineconeStore) Reset(ctx context.Context) error {
	return ErrDeleteUnsupported
}
