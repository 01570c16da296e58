package main

import (
	"os"

	"kbase/controllers"
	"kbase/core"
	"kbase/internal"
	"kbase/internal/ingest"
	"kbase/internal/retrieval"
	"kbase/models"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	godotenv.Load()

	logger, err := internal.NewLogger()
	if err != nil {
		panic(err)
	}

	// connect to the database
	db, err := core.InitDB()
	if err != nil {
		panic(err)
	}

	// auto migrate the database
	err = db.AutoMigrate(
		&models.Document{},
		&models.DocumentChunk{},
		&models.Session{},
		&models.Message{},
	)
	if err != nil {
		panic(err)
	}

	if err := ingest.InitPDFLicense(); err != nil {
		logger.Warnf("PDF license not configured, PDF ingestion will fail: %v", err)
	}

	runServer(db, logger)
}

func runServer(db *gorm.DB, logger *zap.SugaredLogger) {
	// set up http server
	engine := gin.Default()
	err := engine.SetTrustedProxies(nil)
	if err != nil {
		panic(err)
	}

	engine.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "https://"+os.Getenv("UI_DOMAIN"))
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	embedder, err := retrieval.NewEmbedder()
	if err != nil {
		panic(err)
	}

	store, err := retrieval.NewStore(embedder)
	if err != nil {
		panic(err)
	}

	generator, err := retrieval.NewGenerator()
	if err != nil {
		panic(err)
	}

	ingestor := ingest.NewIngestor(db, logger, store)
	retriever := retrieval.NewRetriever(db, store)

	healthController := controllers.HealthController{}
	documentsController := controllers.DocumentsController{
		DB:       db,
		Logger:   logger,
		Ingestor: ingestor,
		Store:    store,
	}
	sessionsController := controllers.SessionsController{
		DB:     db,
		Logger: logger,
	}
	questionsController := controllers.QuestionsController{
		DB:        db,
		Logger:    logger,
		Retriever: retriever,
		Generator: generator,
	}
	statsController := controllers.StatsController{
		DB:     db,
		Logger: logger,
	}

	router := Router{
		healthController:    &healthController,
		documentsController: &documentsController,
		sessionsController:  &sessionsController,
		questionsController: &questionsController,
		statsController:     &statsController,
	}

	router.RegisterRoutes(engine)

	err = engine.Run()
	if err != nil {
		return
	}
}
