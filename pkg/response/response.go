package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/escolaware/escola-api/pkg/errors"
)

// Envelope represents the common response contract.
type Envelope struct {
	Data    interface{}            `json:"data,omitempty"`
	Error   *appErrors.Error       `json:"error,omitempty"`
	Message string                 `json:"message,omitempty"`
	Exists  bool                   `json:"exists,omitempty"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
}

// JSON sends a success response.
func JSON(c *gin.Context, status int, data interface{}, meta ...map[string]interface{}) {
	c.Header("Cache-Control", "no-store")
	envelope := Envelope{Data: data}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// CreatedWithMessage responds with 201 and a human-readable message alongside the entity.
func CreatedWithMessage(c *gin.Context, data interface{}, message string) {
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusCreated, Envelope{Data: data, Message: message})
}

// Exists reports a duplicate-create result with a 200 status. The admin
// client branches on the exists flag instead of an error status for the
// user-register and school-create flows.
func Exists(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, Envelope{Exists: true})
}

// Error sends an error response converting the error to the common structure.
// The error is also attached to the context so downstream middleware (the
// diagnostic error log) can read what failed.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	_ = c.Error(appErr)
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, Envelope{Error: appErr})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
