package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	ErrInternalError     = errors.New("Internal error")
	ErrUnknownSession    = errors.New("Unknown session")
	ErrNoDocuments       = errors.New("No documents could be processed")
	ErrDocumentsRequired = errors.New("At least one file is required")
)

type apiResponse struct {
	Errors []string `json:"errors,omitempty"`
	Data   any      `json:"data,omitempty"`
}

func errorStrings(errs []error) []string {
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}

	return out
}

func RespondOK(c *gin.Context, obj any) {
	c.JSON(http.StatusOK, apiResponse{Data: obj})
}

func RespondCreated(c *gin.Context, obj any) {
	c.JSON(http.StatusCreated, apiResponse{Data: obj})
}

func RespondBadRequestErr(c *gin.Context, errs []error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, apiResponse{Errors: errorStrings(errs)})
}

func RespondCustomStatusErr(c *gin.Context, status int, errs []error) {
	c.AbortWithStatusJSON(status, apiResponse{Errors: errorStrings(errs)})
}

func RespondInternalErr(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, apiResponse{Errors: errorStrings([]error{ErrInternalError})})
}
