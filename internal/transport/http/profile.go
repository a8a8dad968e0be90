package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lfriedrich2/4gewinnt/internal/service/game"
	"github.com/lfriedrich2/4gewinnt/internal/service/profile"
)

type ProfileHandler struct {
	Profiles *profile.Service
	Sessions *game.SessionManager
}

func NewProfileHandler(profiles *profile.Service, sessions *game.SessionManager) *ProfileHandler {
	return &ProfileHandler{Profiles: profiles, Sessions: sessions}
}

func (h *ProfileHandler) GetSettings(c *gin.Context) {
	settings, err := h.Profiles.LoadSettings(c.Request.Context(), profileID(c))
	if err != nil {
		log.Printf("[PROFILE] Failed to load settings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings saves the changed fields and renames the players of the
// profile's live games.
func (h *ProfileHandler) UpdateSettings(c *gin.Context) {
	var update profile.SettingsUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	owner := profileID(c)
	settings, err := h.Profiles.UpdateSettings(c.Request.Context(), owner, update)
	if err != nil {
		log.Printf("[PROFILE] Failed to save settings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	if update.Player1Name != nil || update.Player2Name != nil {
		p1, p2 := settings.Names()
		for _, s := range h.Sessions.ListSessions(owner) {
			s.SetPlayerNames(p1, p2)
		}
	}
	c.JSON(http.StatusOK, settings)
}

func (h *ProfileHandler) ResetScores(c *gin.Context) {
	settings, err := h.Profiles.ResetScores(c.Request.Context(), profileID(c))
	if err != nil {
		log.Printf("[PROFILE] Failed to reset scores: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset scores"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *ProfileHandler) GetStats(c *gin.Context) {
	stats, err := h.Profiles.LoadStats(c.Request.Context(), profileID(c))
	if err != nil {
		log.Printf("[PROFILE] Failed to load stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
