package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performRequest(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/", handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	engine.ServeHTTP(w, req)

	return w
}

func TestRespondOK(t *testing.T) {
	assert := assert.New(t)

	w := performRequest(func(c *gin.Context) {
		RespondOK(c, gin.H{"hello": "world"})
	})

	assert.Equal(http.StatusOK, w.Code)

	var body struct {
		Data   map[string]string `json:"data"`
		Errors []string          `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal("world", body.Data["hello"])
	assert.Empty(body.Errors)
}

func TestRespondBadRequestErr(t *testing.T) {
	assert := assert.New(t)

	w := performRequest(func(c *gin.Context) {
		RespondBadRequestErr(c, []error{ErrUnknownSession, errors.New("second")})
	})

	assert.Equal(http.StatusBadRequest, w.Code)

	var body struct {
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal([]string{ErrUnknownSession.Error(), "second"}, body.Errors)
}

func TestRespondInternalErr(t *testing.T) {
	assert := assert.New(t)

	w := performRequest(func(c *gin.Context) {
		RespondInternalErr(c)
	})

	assert.Equal(http.StatusInternalServerError, w.Code)

	var body struct {
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal([]string{ErrInternalError.Error()}, body.Errors)
}
