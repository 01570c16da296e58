package controllers

import (
	"kbase/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type StatsController struct {
	DB     *gorm.DB
	Logger *zap.SugaredLogger
}

// Stats backs the metrics panel: what's loaded, how much it's been asked, and
// how fast answers come back.
type Stats struct {
	Documents       int64 `json:"documents"`
	Chunks          int64 `json:"chunks"`
	Sessions        int64 `json:"sessions"`
	Questions       int64 `json:"questions"`
	AvgAnswerMillis int64 `json:"avg_answer_millis"`
}

func (sc StatsController) GetStats(c *gin.Context) {
	var stats Stats
	var err error

	if stats.Documents, err = models.CountDocuments(sc.DB); err != nil {
		sc.Logger.Errorf("Error counting documents: %v", err)
		RespondInternalErr(c)
		return
	}

	if stats.Chunks, err = models.CountDocumentChunks(sc.DB); err != nil {
		sc.Logger.Errorf("Error counting chunks: %v", err)
		RespondInternalErr(c)
		return
	}

	if stats.Sessions, err = models.CountSessions(sc.DB); err != nil {
		sc.Logger.Errorf("Error counting sessions: %v", err)
		RespondInternalErr(c)
		return
	}

	if stats.Questions, err = models.CountQuestions(sc.DB); err != nil {
		sc.Logger.Errorf("Error counting questions: %v", err)
		RespondInternalErr(c)
		return
	}

	type totals struct {
		Millis int64
	}
	var t totals
	if err := sc.DB.Model(&models.Session{}).Select("COALESCE(SUM(answer_millis_total), 0) AS millis").Scan(&t).Error; err != nil {
		sc.Logger.Errorf("Error summing answer time: %v", err)
		RespondInternalErr(c)
		return
	}

	if stats.Questions > 0 {
		stats.AvgAnswerMillis = t.Millis / stats.Questions
	}

	RespondOK(c, stats)
}
