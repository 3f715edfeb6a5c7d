// Package response maps application results and domain errors onto HTTP.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rent-wheels/service-rental/internal/api"
	"github.com/rent-wheels/service-rental/internal/domain"
)

// Success answers 200 with the given body.
func Success(c *gin.Context, body interface{}) {
	c.JSON(http.StatusOK, body)
}

// Created answers 201 with the given body.
func Created(c *gin.Context, body interface{}) {
	c.JSON(http.StatusCreated, body)
}

// BadRequest answers 400 with a message body.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, api.ErrorResponse{
		Message: message,
		Code:    string(domain.CodeValidation),
	})
}

// statusFor maps an error code to its HTTP status.
func statusFor(code domain.ErrorCode) int {
	switch code {
	case domain.CodeUnauthenticated:
		return http.StatusUnauthorized
	case domain.CodeForbidden:
		return http.StatusForbidden
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeConflict:
		return http.StatusConflict
	case domain.CodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error classifies err through the domain taxonomy and answers the matching
// status. Untyped errors become opaque 500s so infrastructure details never
// leak to the caller.
func Error(c *gin.Context, err error) {
	message := "something went wrong, try again"
	var de *domain.Error
	if errors.As(err, &de) {
		message = de.Message
	}
	code := domain.CodeOf(err)
	c.JSON(statusFor(code), api.ErrorResponse{
		Message: message,
		Code:    string(code),
	})
}
