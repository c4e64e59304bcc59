// Package response writes the JSON envelope shared by every endpoint.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shareit-lending/service-shareit/internal/common/domain"
)

// Response is the envelope around every payload.
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorData `json:"error,omitempty"`
}

// ErrorData describes a failed request.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success writes 200 with data.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// Created writes 201 with data.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

// NoContent writes 200 with an empty success envelope.
func NoContent(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Success: true})
}

// Fail writes an error envelope with an explicit status.
func Fail(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, Response{
		Success: false,
		Error:   &ErrorData{Code: code, Message: message},
	})
}

// BadRequest writes 400 for malformed input.
func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, domain.ErrMalformedRequest.Code, message)
}

// TooManyRequests writes 429.
func TooManyRequests(c *gin.Context) {
	Fail(c, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests")
}

// Error maps a service error to its status by kind. Unclassified errors become 500 and are
// recorded on the gin context for the logging middleware.
func Error(c *gin.Context, err error) {
	kind, ok := domain.KindOf(err)
	if !ok {
		_ = c.Error(err)
		Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	Fail(c, StatusFor(kind), domain.CodeOf(err), err.Error())
}

// StatusFor returns the HTTP status for an error kind. Invalid-argument errors (duplicate
// email) are reported as server failures.
func StatusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindValidation, domain.KindUnsupportedState:
		return http.StatusBadRequest
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindInvalidArgument:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
