package controllers

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kbase/internal/retrieval"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// opLog records database statements and vector store calls in the order they
// happen, so tests can assert on their relative ordering.
type opLog struct {
	ops []string
}

type stubConnector struct {
	log *opLog
}

func (c stubConnector) Connect(context.Context) (driver.Conn, error) {
	return &stubConn{log: c.log}, nil
}

func (c stubConnector) Driver() driver.Driver { return stubDriver{} }

type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("open through the connector")
}

type stubConn struct {
	log *opLog
}

func (c *stubConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepared statements unsupported")
}

func (c *stubConn) Close() error              { return nil }
func (c *stubConn) Begin() (driver.Tx, error) { return stubTx{}, nil }

func (c *stubConn) ExecContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Result, error) {
	c.log.ops = append(c.log.ops, query)
	return driver.RowsAffected(1), nil
}

func (c *stubConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	c.log.ops = append(c.log.ops, query)
	return stubRows{}, nil
}

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

type stubRows struct{}

func (stubRows) Columns() []string         { return nil }
func (stubRows) Close() error              { return nil }
func (stubRows) Next([]driver.Value) error { return io.EOF }

func newStubDB(t *testing.T, log *opLog) *gorm.DB {
	sqlDB := sql.OpenDB(stubConnector{log: log})
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	return db
}

type recordingStore struct {
	log      *opLog
	resetErr error
}

func (s *recordingStore) AddChunks(context.Context, uuid.UUID, string, []retrieval.Chunk) error {
	return nil
}

func (s *recordingStore) Search(context.Context, string, int) ([]retrieval.Result, error) {
	return nil, nil
}

func (s *recordingStore) DeleteDocument(context.Context, uuid.UUID) error { return nil }

func (s *recordingStore) Reset(context.Context) error {
	s.log.ops = append(s.log.ops, "vector reset")
	return s.resetErr
}

func clearKnowledgeBase(t *testing.T, log *opLog, resetErr error) *httptest.ResponseRecorder {
	controller := DocumentsController{
		DB:     newStubDB(t, log),
		Logger: zap.NewNop().Sugar(),
		Store:  &recordingStore{log: log, resetErr: resetErr},
	}

	return performRequest(controller.DeleteDocuments)
}

// Rows must be gone before the vector store is touched. Vectors without a
// document row are filtered out at query time, but a document row without
// vectors would answer nothing.
func TestDeleteDocumentsClearsRowsBeforeVectors(t *testing.T) {
	assert := assert.New(t)

	log := &opLog{}
	w := clearKnowledgeBase(t, log, nil)
	assert.Equal(http.StatusOK, w.Code)

	require.NotEmpty(t, log.ops)
	assert.Equal("vector reset", log.ops[len(log.ops)-1])

	deletes := 0
	for _, op := range log.ops[:len(log.ops)-1] {
		if strings.Contains(op, "deleted_at") {
			deletes++
		}
	}

	// Chunks, documents, messages, and sessions are all soft deleted first.
	assert.Equal(4, deletes)
}

func TestDeleteDocumentsToleratesUnsupportedVectorReset(t *testing.T) {
	assert := assert.New(t)

	log := &opLog{}
	w := clearKnowledgeBase(t, log, retrieval.ErrDeleteUnsupported)
	assert.Equal(http.StatusOK, w.Code)
	assert.Equal("vector reset", log.ops[len(log.ops)-1])
}

func TestDeleteDocumentsReportsVectorResetFailure(t *testing.T) {
	assert := assert.New(t)

	log := &opLog{}
	w := clearKnowledgeBase(t, log, errors.New("backend down"))
	assert.Equal(http.StatusInternalServerError, w.Code)

	// The rows were already cleared when the reset failed.
	assert.Equal("vector reset", log.ops[len(log.ops)-1])
	assert.Greater(len(log.ops), 1)
}
