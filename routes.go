package main

import (
	"kbase/controllers"

	"github.com/gin-gonic/gin"
)

type Router struct {
	healthController    *controllers.HealthController
	documentsController *controllers.DocumentsController
	sessionsController  *controllers.SessionsController
	questionsController *controllers.QuestionsController
	statsController     *controllers.StatsController
}

func (r Router) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", r.healthController.Status)
	router.GET("/stats", r.statsController.GetStats)

	router.POST("/documents", r.documentsController.UploadDocuments)
	router.POST("/documents/url", r.documentsController.IngestURL)
	router.GET("/documents", r.documentsController.GetDocuments)
	router.DELETE("/documents", r.documentsController.DeleteDocuments)

	router.POST("/sessions", r.sessionsController.CreateSession)
	router.GET("/sessions", r.sessionsController.GetSessions)
	router.GET("/sessions/:session_id/messages", r.sessionsController.GetMessages)
	router.POST("/sessions/:session_id/messages", r.questionsController.PostQuestion)
	router.DELETE("/sessions/:session_id/messages", r.sessionsController.ClearMessages)
}
