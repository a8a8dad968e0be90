package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lfriedrich2/4gewinnt/internal/service/game"
)

type HistoryHandler struct {
	Games *game.Service
}

func NewHistoryHandler(games *game.Service) *HistoryHandler {
	return &HistoryHandler{Games: games}
}

// GetHistory lists the profile's finished games, newest first. ?limit caps the
// result (default and maximum 50).
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	history, err := h.Games.History(c.Request.Context(), profileID(c), limit)
	if err != nil {
		log.Printf("[HISTORY] Failed to fetch history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *HistoryHandler) GetGameDetails(c *gin.Context) {
	rec, err := h.Games.HistoryGame(c.Request.Context(), profileID(c), c.Param("id"))
	if errors.Is(err, game.ErrGameNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		log.Printf("[HISTORY] Failed to fetch game %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch game"})
		return
	}
	c.JSON(http.StatusOK, rec)
}
