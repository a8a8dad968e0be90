package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lfriedrich2/4gewinnt/pkg/httputil"
)

func profileID(c *gin.Context) string {
	return c.GetString(httputil.ProfileIDKey)
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
}

// statusForReason maps an engine rejection to its HTTP status.
func statusForReason(reason string) int {
	switch reason {
	case "invalid_column":
		return http.StatusUnprocessableEntity
	case "column_full", "game_over":
		return http.StatusConflict
	}
	return http.StatusBadRequest
}
