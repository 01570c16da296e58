package controllers

import (
	"net/http"
	"strconv"

	"kbase/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SessionsController struct {
	DB     *gorm.DB
	Logger *zap.SugaredLogger
}

// SessionInput optionally names a new session.
type SessionInput struct {
	Title string `json:"title"`
}

func (sc SessionsController) CreateSession(c *gin.Context) {
	input := SessionInput{}
	// The body is optional; a session doesn't need a title.
	_ = c.BindJSON(&input)

	session, err := models.CreateSession(sc.DB, input.Title)
	if err != nil {
		sc.Logger.Errorf("Error creating session: %v", err)
		RespondInternalErr(c)
		return
	}

	RespondCreated(c, session)
}

func (sc SessionsController) GetSessions(c *gin.Context) {
	sessions, err := models.GetSessions(sc.DB)
	if err != nil {
		sc.Logger.Errorf("Error getting sessions: %v", err)
		RespondInternalErr(c)
		return
	}

	RespondOK(c, sessions)
}

func (sc SessionsController) GetMessages(c *gin.Context) {
	session := sc.session(c)
	if session == nil {
		return
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		RespondBadRequestErr(c, []error{err})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		RespondBadRequestErr(c, []error{err})
		return
	}

	messages, err := models.GetSessionMessages(sc.DB, session.ID, offset, limit)
	if err != nil {
		sc.Logger.Errorf("Error getting messages: %v", err)
		RespondInternalErr(c)
		return
	}

	RespondOK(c, messages)
}

// ClearMessages wipes a session's chat history and metrics but keeps the
// session itself.
func (sc SessionsController) ClearMessages(c *gin.Context) {
	session := sc.session(c)
	if session == nil {
		return
	}

	if err := sc.DB.Transaction(func(tx *gorm.DB) error {
		if err := models.DeleteSessionMessages(tx, session.ID); err != nil {
			return err
		}

		return models.ResetSessionMetrics(tx, session.ID)
	}); err != nil {
		sc.Logger.Errorf("Error clearing session %v: %v", session.UUID, err)
		RespondInternalErr(c)
		return
	}

	RespondOK(c, gin.H{"cleared": true})
}

// session resolves the session_id path parameter, responding with an error on
// failure.
func (sc SessionsController) session(c *gin.Context) *models.Session {
	sessionUUID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		RespondBadRequestErr(c, []error{err})
		return nil
	}

	session, err := models.GetSessionByUUID(sc.DB, sessionUUID)
	if err != nil {
		sc.Logger.Errorf("Error getting session: %v", err)
		RespondInternalErr(c)
		return nil
	}

	if session == nil {
		RespondCustomStatusErr(c, http.StatusNotFound, []error{ErrUnknownSession})
		return nil
	}

	return session
}
