// Package response writes the JSON envelope every endpoint answers with.
package response

import (
	"net/http" // HTTP status codes

	"github.com/Neeraj-1996/mlmbackend/internal/apperror" // Error kinds

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// Envelope is the body of every response
type Envelope struct {
	StatusCode int    `json:"statusCode"` // HTTP status repeated in the body
	Data       any    `json:"data"`       // Payload, null on errors
	Message    string `json:"message"`    // Human readable message
	Success    bool   `json:"success"`    // True for 2xx responses
}

// OK writes a success envelope
func OK(c *gin.Context, status int, data any, message string) {
	c.JSON(status, Envelope{StatusCode: status, Data: data, Message: message, Success: true})
}

// Fail aborts the request with an error envelope
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{StatusCode: status, Message: message})
}

// Error maps err onto its status code and aborts the request. Server errors are logged with their cause.
func Error(c *gin.Context, err error) {
	kind := apperror.KindOf(err)
	if kind == apperror.KindServer {
		logrus.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).WithError(err).Error("Request failed")
	}
	Fail(c, kind.Status(), apperror.MessageOf(err))
}

// Recovery turns panics into the 500 envelope
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logrus.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"panic":  recovered,
		}).Error("Recovered from panic")
		Fail(c, http.StatusInternalServerError, apperror.GenericMessage)
	})
}
