package models

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sessions scope chat history. All documents are shared across sessions; only
// the question/answer exchanges and their metrics are per-session.
type Session struct {
	Generic

	UUID  uuid.UUID `gorm:"index;not null" json:"uuid"`
	Title string    `json:"title"`
	// QuestionCount and AnswerMillisTotal back the metrics panel (questions
	// asked, average response time).
	QuestionCount     uint  `gorm:"not null;default:0" json:"question_count"`
	AnswerMillisTotal int64 `gorm:"not null;default:0" json:"-"`
}

func CreateSession(db *gorm.DB, title string) (*Session, error) {
	session := Session{
		UUID:  uuid.New(),
		Title: title,
	}

	if err := db.Create(&session).Error; err != nil {
		return nil, err
	}

	return &session, nil
}

func GetSessionByUUID(db *gorm.DB, sessionUUID uuid.UUID) (*Session, error) {
	var session Session
	err := db.Where("uuid = ?", sessionUUID).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &session, nil
}

func GetSessions(db *gorm.DB) ([]Session, error) {
	var sessions []Session
	err := db.Order("created_at DESC").Find(&sessions).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return sessions, nil
}

// RecordAnswer bumps the session metrics after a completed exchange.
func RecordAnswer(db *gorm.DB, sessionID uint, answerMillis int64) error {
	return db.Model(&Session{}).Where("id = ?", sessionID).Updates(map[string]any{
		"question_count":      gorm.Expr("question_count + 1"),
		"answer_millis_total": gorm.Expr("answer_millis_total + ?", answerMillis),
	}).Error
}

// ResetSessionMetrics zeroes the metrics when a session's chat is cleared.
func ResetSessionMetrics(db *gorm.DB, sessionID uint) error {
	return db.Model(&Session{}).Where("id = ?", sessionID).Updates(map[string]any{
		"question_count":      0,
		"answer_millis_total": 0,
	}).Error
}

func CountSessions(db *gorm.DB) (int64, error) {
	var count int64
	if err := db.Model(&Session{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func DeleteAllSessions(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&Message{}).Error; err != nil {
			return err
		}

		return tx.Where("1 = 1").Delete(&Session{}).Error
	})
}
