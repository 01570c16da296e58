package controllers

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"kbase/internal/ingest"
	"kbase/internal/retrieval"
	"kbase/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type DocumentsController struct {
	DB       *gorm.DB
	Logger   *zap.SugaredLogger
	Ingestor *ingest.Ingestor
	Store    retrieval.Store
}

// IngestedFile reports the outcome for one file of an upload batch.
type IngestedFile struct {
	Filename string           `json:"filename"`
	Error    string           `json:"error,omitempty"`
	Document *models.Document `json:"document,omitempty"`
}

// UploadResult summarizes an upload batch.
type UploadResult struct {
	Processed     int            `json:"processed"`
	Failed        int            `json:"failed"`
	Files         []IngestedFile `json:"files"`
	ElapsedMillis int64          `json:"elapsed_millis"`
}

// UploadDocuments ingests every file of a multipart upload. A single bad file
// doesn't fail the batch; a batch where nothing could be processed does.
func (dc DocumentsController) UploadDocuments(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		RespondBadRequestErr(c, []error{err})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		RespondBadRequestErr(c, []error{ErrDocumentsRequired})
		return
	}

	tmpDir, err := os.MkdirTemp("", "kbase-upload")
	if err != nil {
		dc.Logger.Errorf("Error creating temp dir: %v", err)
		RespondInternalErr(c)
		return
	}
	defer os.RemoveAll(tmpDir)

	started := time.Now()
	result := UploadResult{Files: make([]IngestedFile, 0, len(files))}

	for _, file := range files {
		outcome := IngestedFile{Filename: file.Filename}

		if file.Size > ingest.MaxFileBytes {
			outcome.Error = ingest.ErrFileTooLarge.Error()
			result.Failed++
			result.Files = append(result.Files, outcome)
			continue
		}

		dst := filepath.Join(tmpDir, filepath.Base(file.Filename))
		if err := c.SaveUploadedFile(file, dst); err != nil {
			dc.Logger.Errorf("Error saving upload %v: %v", file.Filename, err)
			outcome.Error = ErrInternalError.Error()
			result.Failed++
			result.Files = append(result.Files, outcome)
			continue
		}

		document, err := dc.Ingestor.IngestFile(c.Request.Context(), dst, file.Filename)
		if err != nil {
			dc.Logger.Warnf("Error ingesting %v: %v", file.Filename, err)
			outcome.Error = err.Error()
			result.Failed++
		} else {
			outcome.Document = document
			result.Processed++
		}

		result.Files = append(result.Files, outcome)
	}

	result.ElapsedMillis = time.Since(started).Milliseconds()

	if result.Processed == 0 {
		errs := []error{ErrNoDocuments}
		for _, file := range result.Files {
			errs = append(errs, errors.New(file.Filename+": "+file.Error))
		}
		RespondBadRequestErr(c, errs)
		return
	}

	RespondCreated(c, result)
}

// URLInput is a request to ingest a remote document.
type URLInput struct {
	URL string `json:"url" binding:"required"`
}

func (dc DocumentsController) IngestURL(c *gin.Context) {
	input := URLInput{}
	if err := c.BindJSON(&input); err != nil {
		RespondBadRequestErr(c, []error{err})
		return
	}

	document, err := dc.Ingestor.IngestURL(c.Request.Context(), input.URL)
	if err != nil {
		dc.Logger.Warnf("Error ingesting URL %v: %v", input.URL, err)
		RespondBadRequestErr(c, []error{err})
		return
	}

	RespondCreated(c, document)
}

func (dc DocumentsController) GetDocuments(c *gin.Context) {
	documents, err := models.GetDocuments(dc.DB)
	if err != nil {
		dc.Logger.Errorf("Error getting documents: %v", err)
		RespondInternalErr(c)
		return
	}

	RespondOK(c, documents)
}

// DeleteDocuments clears the whole knowledge base: documents, chunks, chat
// history, and vectors where the backend supports it.
func (dc DocumentsController) DeleteDocuments(c *gin.Context) {
	// Rows go first, vectors last. If the vector reset then fails we are left
	// with dead vectors, which get filtered out at query time; the reverse
	// order could leave document rows whose vectors are gone.
	if err := models.DeleteAllDocuments(dc.DB); err != nil {
		dc.Logger.Errorf("Error deleting documents: %v", err)
		RespondInternalErr(c)
		return
	}

	if err := models.DeleteAllSessions(dc.DB); err != nil {
		dc.Logger.Errorf("Error deleting sessions: %v", err)
		RespondInternalErr(c)
		return
	}

	if err := dc.Store.Reset(c.Request.Context()); err != nil {
		if !errors.Is(err, retrieval.ErrDeleteUnsupported) {
			dc.Logger.Errorf("Error resetting vector store: %v", err)
			RespondInternalErr(c)
			return
		}

		dc.Logger.Warnf("Vector store reset unsupported, leaving dead vectors behind")
	}

	RespondOK(c, gin.H{"cleared": true})
}
