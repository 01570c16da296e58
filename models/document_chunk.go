package models

import (
	"errors"

	"gorm.io/gorm"
)

// DocumentChunks are text chunks used for semantic search and question
// answering. They are derived from Documents.
type DocumentChunk struct {
	Generic

	DocumentID uint     `gorm:"index;not null" json:"document_id"`
	Document   Document `json:"-"`
	ChunkIndex int      `gorm:"not null" json:"chunk_index"`
	WordCount  int      `json:"word_count"`
	RawContent string   `gorm:"not null" json:"raw_content"`
}

func CreateDocumentChunks(db *gorm.DB, documentID uint, chunks []DocumentChunk) ([]DocumentChunk, error) {
	for i := range chunks {
		chunks[i].DocumentID = documentID
	}

	if err := db.Create(&chunks).Error; err != nil {
		return nil, err
	}

	return chunks, nil
}

func GetDocumentChunks(db *gorm.DB, documentID uint) ([]DocumentChunk, error) {
	var chunks []DocumentChunk
	err := db.Where("document_id = ?", documentID).Order("chunk_index ASC").Find(&chunks).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return chunks, nil
}

func CountDocumentChunks(db *gorm.DB) (int64, error) {
	var count int64
	if err := db.Model(&DocumentChunk{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
