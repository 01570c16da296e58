package retrieval

import (
	"context"
	"math"

	"kbase/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SimilarityFloor is the cosine similarity a chunk must exceed to count as
// relevant to a question.
const SimilarityFloor = 0.3

const defaultTopK = 5

// Retriever finds document chunks relevant to a question.
type Retriever struct {
	db    *gorm.DB
	store Store
	topK  int
}

func NewRetriever(db *gorm.DB, store Store) *Retriever {
	return &Retriever{
		db:    db,
		store: store,
		topK:  defaultTopK,
	}
}

// Retrieve searches the vector store and keeps only results that clear the
// similarity floor and still belong to a live document. The latter covers
// backends that cannot delete vectors.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]Result, error) {
	results, err := r.store.Search(ctx, query, r.topK)
	if err != nil {
		return nil, err
	}

	live := make(map[uuid.UUID]bool)
	for _, result := range results {
		if _, seen := live[result.DocumentUUID]; seen {
			continue
		}

		document, err := models.GetDocumentByUUID(r.db, result.DocumentUUID)
		if err != nil {
			return nil, err
		}

		live[result.DocumentUUID] = document != nil
	}

	return filterResults(results, SimilarityFloor, func(documentUUID uuid.UUID) bool {
		return live[documentUUID]
	}), nil
}

// filterResults applies the similarity floor and the live-document check, and
// rounds scores to three decimals for presentation.
func filterResults(results []Result, floor float32, isLive func(uuid.UUID) bool) []Result {
	filtered := make([]Result, 0, len(results))
	for _, result := range results {
		if result.Similarity <= floor {
			continue
		}

		if !isLive(result.DocumentUUID) {
			continue
		}

		result.Similarity = roundScore(result.Similarity)
		filtered = append(filtered, result)
	}

	return filtered
}

func roundScore(score float32) float32 {
	return float32(math.Round(float64(score)*1000) / 1000)
}
