// Package respond writes the single JSON error envelope every endpoint uses:
//
//	{"success": false, "error": "<message>", ...details}
package respond

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/eshop-api/store"
)

func envelope(message string, details gin.H) gin.H {
	body := gin.H{"success": false, "error": message}
	for k, v := range details {
		body[k] = v
	}
	return body
}

// Error writes a failure response. details, if given, are merged into the
// envelope.
func Error(c *gin.Context, status int, message string, details ...gin.H) {
	var extra gin.H
	if len(details) > 0 {
		extra = details[0]
	}
	c.JSON(status, envelope(message, extra))
}

// Abort writes a failure response and stops the handler chain.
func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, envelope(message, nil))
}

// StoreError maps store sentinel errors onto the shared status taxonomy.
// notFound is the message used for store.ErrNotFound. Anything unrecognised
// is logged and reported as a generic server failure.
func StoreError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		Error(c, http.StatusNotFound, notFound)
	case errors.Is(err, store.ErrInvalidID):
		Error(c, http.StatusBadRequest, "invalid id")
	case errors.Is(err, store.ErrConflict):
		Error(c, http.StatusConflict, "record already exists")
	default:
		slog.Error("store operation failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
		Error(c, http.StatusInternalServerError, "internal server error")
	}
}
