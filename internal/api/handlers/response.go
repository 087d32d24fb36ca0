package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/alanceloth/datagen/internal/storage"
)

func errorResponse(c *gin.Context, statusCode int, message string) {
	log.Error().Int("status", statusCode).Str("path", c.Request.URL.Path).Msg(message)
	c.JSON(statusCode, gin.H{"error": message})
}

// storageErrorResponse writes a gateway failure with the status matching its kind.
func storageErrorResponse(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, storage.ErrInvalidKey):
		status = http.StatusBadRequest
	case storage.KindOf(err) == storage.KindNotFound:
		status = http.StatusNotFound
	case storage.KindOf(err) == storage.KindAuthFailure:
		status = http.StatusForbidden
	case storage.KindOf(err) == storage.KindNetworkError:
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{
		"error": err.Error(),
		"kind":  storage.KindOf(err).String(),
	})
}
