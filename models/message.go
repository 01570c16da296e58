package models

import (
	"errors"

	"gorm.io/gorm"
)

type MessageAuthor string

const (
	UserAuthor MessageAuthor = "user"
	AIAuthor   MessageAuthor = "ai"
)

// Message is a single entry of a session's chat history. AI messages carry the
// sources cited in the answer and the time it took to produce it.
type Message struct {
	Generic

	SessionID    uint          `gorm:"index;not null" json:"-"`
	Session      Session       `json:"-"`
	Author       MessageAuthor `gorm:"index;not null" json:"author"`
	Text         string        `gorm:"not null" json:"text"`
	Sources      Sources       `gorm:"type:jsonb" json:"sources,omitempty"`
	AnswerMillis int64         `json:"answer_millis,omitempty"`
}

func CreateUserMessage(db *gorm.DB, sessionID uint, text string) (*Message, error) {
	message := Message{
		SessionID: sessionID,
		Author:    UserAuthor,
		Text:      text,
	}

	if err := db.Create(&message).Error; err != nil {
		return nil, err
	}

	return &message, nil
}

func CreateAIMessage(db *gorm.DB, sessionID uint, text string, sources Sources, answerMillis int64) (*Message, error) {
	message := Message{
		SessionID:    sessionID,
		Author:       AIAuthor,
		Text:         text,
		Sources:      sources,
		AnswerMillis: answerMillis,
	}

	if err := db.Create(&message).Error; err != nil {
		return nil, err
	}

	return &message, nil
}

func GetSessionMessages(db *gorm.DB, sessionID uint, offset, limit int) ([]Message, error) {
	var messages []Message
	err := db.Where("session_id = ?", sessionID).Order("created_at ASC").Offset(offset).Limit(limit).Find(&messages).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return messages, nil
}

// GetRecentSessionMessages returns up to limit most recent messages in
// chronological order. They are fed back into answer generation as context.
func GetRecentSessionMessages(db *gorm.DB, sessionID uint, limit int) ([]Message, error) {
	var messages []Message
	err := db.Where("session_id = ?", sessionID).Order("created_at DESC").Limit(limit).Find(&messages).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func DeleteSessionMessages(db *gorm.DB, sessionID uint) error {
	return db.Where("session_id = ?", sessionID).Delete(&Message{}).Error
}

func CountQuestions(db *gorm.DB) (int64, error) {
	var count int64
	if err := db.Model(&Message{}).Where("author = ?", UserAuthor).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
