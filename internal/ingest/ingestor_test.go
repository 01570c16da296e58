package ingest

import (
	"context"
	"errors"
	"testing"

	"kbase/internal/retrieval"
	"kbase/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingStore struct {
	calls int
	err   error
}

func (s *failingStore) AddChunks(ctx context.Context, documentUUID uuid.UUID, filename string, chunks []retrieval.Chunk) error {
	s.calls++
	return s.err
}

func (s *failingStore) Search(ctx context.Context, query string, topK int) ([]retrieval.Result, error) {
	return nil, nil
}

func (s *failingStore) DeleteDocument(ctx context.Context, documentUUID uuid.UUID) error {
	return nil
}

func (s *failingStore) Reset(ctx context.Context) error {
	return nil
}

// A document row must only exist once all of its vectors are stored. On a
// failed upload the pipeline has to bail out before touching the database;
// the nil DB here panics on any use, so no document or chunk rows can have
// been written.
func TestIngestorSkipsDatabaseWhenVectorStorageFails(t *testing.T) {
	assert := assert.New(t)

	storeErr := errors.New("upsert failed")
	store := &failingStore{err: storeErr}
	ingestor := NewIngestor(nil, zap.NewNop().Sugar(), store)

	text := sentenceOfWords("alpha", 20) + " " + sentenceOfWords("beta", 20)
	document, err := ingestor.ingest(context.Background(), "notes.txt", models.TextKind, "", text, 1, 128)

	require.Error(t, err)
	assert.ErrorIs(err, storeErr)
	assert.Nil(document)
	assert.Equal(1, store.calls)
}
