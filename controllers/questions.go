package controllers

import (
	"net/http"
	"time"

	"kbase/internal/retrieval"
	"kbase/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type QuestionsController struct {
	DB        *gorm.DB
	Logger    *zap.SugaredLogger
	Retriever *retrieval.Retriever
	Generator *retrieval.Generator
}

// QuestionInput describes user input to converse with the AI.
type QuestionInput struct {
	// Text input from the user.
	Text string `json:"text" binding:"required"`
}

// PostQuestion answers a question against the knowledge base and appends the
// exchange to the session's history.
func (qc QuestionsController) PostQuestion(c *gin.Context) {
	sessionUUID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		RespondBadRequestErr(c, []error{err})
		return
	}

	session, err := models.GetSessionByUUID(qc.DB, sessionUUID)
	if err != nil {
		qc.Logger.Errorf("Error getting session: %v", err)
		RespondInternalErr(c)
		return
	}

	if session == nil {
		RespondCustomStatusErr(c, http.StatusNotFound, []error{ErrUnknownSession})
		return
	}

	input := QuestionInput{}
	if err := c.BindJSON(&input); err != nil {
		RespondBadRequestErr(c, []error{err})
		return
	}

	history, err := models.GetRecentSessionMessages(qc.DB, session.ID, 6)
	if err != nil {
		qc.Logger.Errorf("Error getting session history: %v", err)
		RespondInternalErr(c)
		return
	}

	started := time.Now()

	results, err := qc.Retriever.Retrieve(c.Request.Context(), input.Text)
	if err != nil {
		qc.Logger.Errorf("Error retrieving chunks: %v", err)
		RespondInternalErr(c)
		return
	}

	answer, sources, err := qc.Generator.Answer(c.Request.Context(), input.Text, history, results)
	if err != nil {
		qc.Logger.Errorf("Error generating answer: %v", err)
		RespondInternalErr(c)
		return
	}

	answerMillis := time.Since(started).Milliseconds()

	var aiMessage *models.Message
	if err := qc.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := models.CreateUserMessage(tx, session.ID, input.Text); err != nil {
			return err
		}

		aiMessage, err = models.CreateAIMessage(tx, session.ID, answer, sources, answerMillis)
		if err != nil {
			return err
		}

		return models.RecordAnswer(tx, session.ID, answerMillis)
	}); err != nil {
		qc.Logger.Errorf("Error creating messages: %v", err)
		RespondInternalErr(c)
		return
	}

	RespondOK(c, aiMessage)
}
