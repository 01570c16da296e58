package models

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SourceKind describes the format a document was ingested from.
type SourceKind string

const (
	PDFKind      SourceKind = "pdf"
	TextKind     SourceKind = "text"
	MarkdownKind SourceKind = "markdown"
	HTMLKind     SourceKind = "html"
)

// Documents are raw document inputs. We don't use them for search or retrieval
// directly; search runs over their chunks. They are stored for listing,
// debugging, and supportability reasons.
type Document struct {
	Generic

	// UUID is used to ensure consistency with vector storage. Since we don't
	// have atomic updates to vector storage, we always create the document only
	// once we succeed at uploading all of its chunks to vector storage. If some
	// chunks get uploaded and others fail to upload, they will be "dead" in the
	// vector storage since they won't have a matching document in the DB.
	//
	// Retrieval drops results whose document UUID is unknown, so this is fine.
	UUID       uuid.UUID  `gorm:"index;not null" json:"uuid"`
	Filename   string     `gorm:"not null" json:"filename"`
	Kind       SourceKind `gorm:"index;not null" json:"kind"`
	SizeBytes  int64      `json:"size_bytes"`
	PageCount  int        `json:"page_count"`
	ChunkCount int        `json:"chunk_count"`
	OriginURL  string     `json:"origin_url,omitempty"`
	RawContent string     `json:"-"`
}

func CreateDocument(db *gorm.DB, documentUUID uuid.UUID, filename string, kind SourceKind, sizeBytes int64, pageCount, chunkCount int, originURL, rawContent string) (*Document, error) {
	document := Document{
		UUID:       documentUUID,
		Filename:   filename,
		Kind:       kind,
		SizeBytes:  sizeBytes,
		PageCount:  pageCount,
		ChunkCount: chunkCount,
		OriginURL:  originURL,
		RawContent: rawContent,
	}

	if err := db.Create(&document).Error; err != nil {
		return nil, err
	}

	return &document, nil
}

func GetDocumentByUUID(db *gorm.DB, documentUUID uuid.UUID) (*Document, error) {
	var document Document
	err := db.Where("uuid = ?", documentUUID).First(&document).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &document, nil
}

func GetDocuments(db *gorm.DB) ([]Document, error) {
	var documents []Document
	err := db.Order("created_at DESC").Find(&documents).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return documents, nil
}

func CountDocuments(db *gorm.DB) (int64, error) {
	var count int64
	if err := db.Model(&Document{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// DeleteAllDocuments removes all documents and their chunks. Vector storage is
// cleaned up separately; backends that cannot delete leave dead vectors behind,
// which retrieval filters out.
func DeleteAllDocuments(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&DocumentChunk{}).Error; err != nil {
			return err
		}

		return tx.Where("1 = 1").Delete(&Document{}).Error
	})
}
