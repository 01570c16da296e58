package ingest

import (
	"context"
	"fmt"
	"os"

	"kbase/internal/retrieval"
	"kbase/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Ingestor runs the pipeline from an uploaded file to an indexed document:
// extract, chunk, embed into the vector store, then record the document.
type Ingestor struct {
	db        *gorm.DB
	logger    *zap.SugaredLogger
	extractor *Extractor
	chunker   *Chunker
	store     retrieval.Store
}

func NewIngestor(db *gorm.DB, logger *zap.SugaredLogger, store retrieval.Store) *Ingestor {
	return &Ingestor{
		db:        db,
		logger:    logger,
		extractor: NewExtractor(),
		chunker:   DefaultChunker(),
		store:     store,
	}
}

// IngestFile processes a single uploaded file that has been saved at path.
func (i *Ingestor) IngestFile(ctx context.Context, path, filename string) (*models.Document, error) {
	extraction, err := i.extractor.ExtractFile(path, filename)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	return i.ingest(ctx, filename, extraction.Kind, "", extraction.Text, extraction.Pages, info.Size())
}

// IngestURL fetches a remote document and runs it through the same pipeline.
func (i *Ingestor) IngestURL(ctx context.Context, rawURL string) (*models.Document, error) {
	remote, err := FetchURL(rawURL)
	if err != nil {
		return nil, err
	}

	return i.ingest(ctx, remote.Filename, remote.Kind, rawURL, remote.Text, 1, remote.SizeBytes)
}

func (i *Ingestor) ingest(ctx context.Context, filename string, kind models.SourceKind, originURL, text string, pages int, sizeBytes int64) (*models.Document, error) {
	chunks, err := i.chunker.Chunk(text)
	if err != nil {
		return nil, fmt.Errorf("chunking %v: %w", filename, err)
	}

	documentUUID := uuid.New()

	// Vectors go in first. The document row is only created once all chunks
	// are stored, so a failed upload can at worst leave dead vectors behind.
	if err := i.store.AddChunks(ctx, documentUUID, filename, chunks); err != nil {
		return nil, fmt.Errorf("storing vectors for %v: %w", filename, err)
	}

	var document *models.Document
	if err := i.db.Transaction(func(tx *gorm.DB) error {
		document, err = models.CreateDocument(tx, documentUUID, filename, kind, sizeBytes, pages, len(chunks), originURL, text)
		if err != nil {
			return err
		}

		rows := make([]models.DocumentChunk, len(chunks))
		for j, chunk := range chunks {
			rows[j] = models.DocumentChunk{
				ChunkIndex: chunk.Index,
				WordCount:  chunk.WordCount,
				RawContent: chunk.Text,
			}
		}

		_, err = models.CreateDocumentChunks(tx, document.ID, rows)
		return err
	}); err != nil {
		return nil, err
	}

	i.logger.Infow("document ingested",
		"filename", filename,
		"kind", kind,
		"pages", pages,
		"chunks", len(chunks),
	)

	return document, nil
}
