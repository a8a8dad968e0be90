package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lfriedrich2/4gewinnt/internal/domain"
	"github.com/lfriedrich2/4gewinnt/internal/service/game"
	"github.com/lfriedrich2/4gewinnt/internal/service/profile"
	"github.com/lfriedrich2/4gewinnt/pkg/keymap"
)

type GameHandler struct {
	Games    *game.Service
	Profiles *profile.Service
}

func NewGameHandler(games *game.Service, profiles *profile.Service) *GameHandler {
	return &GameHandler{Games: games, Profiles: profiles}
}

type createGameRequest struct {
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
}

// CreateGame starts a session named after the profile's players unless the
// body overrides them.
func (h *GameHandler) CreateGame(c *gin.Context) {
	owner := profileID(c)

	var req createGameRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
	}

	settings, err := h.Profiles.LoadSettings(c.Request.Context(), owner)
	if err != nil {
		log.Printf("[GAME] Failed to load settings for %.8s: %v", owner, err)
		settings = profile.DefaultSettings()
	}
	p1, p2 := settings.Names()
	if req.Player1 != "" {
		p1 = profile.NormalizeName(req.Player1, profile.DefaultPlayer1Name)
	}
	if req.Player2 != "" {
		p2 = profile.NormalizeName(req.Player2, profile.DefaultPlayer2Name)
	}

	session := h.Games.Sessions.CreateSession(owner, p1, p2)
	c.JSON(http.StatusCreated, session.Snapshot())
}

func (h *GameHandler) ListGames(c *gin.Context) {
	sessions := h.Games.Sessions.ListSessions(profileID(c))
	games := make([]game.Snapshot, 0, len(sessions))
	for _, s := range sessions {
		games = append(games, s.Snapshot())
	}
	c.JSON(http.StatusOK, games)
}

func (h *GameHandler) GetGame(c *gin.Context) {
	session, ok := h.Games.Sessions.GetOwnedSession(c.Param("id"), profileID(c))
	if !ok {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

type moveRequest struct {
	Column *int    `json:"column"`
	Key    *string `json:"key"`
}

// MakeMove drops a piece by column (0-based) or by key ("1".."7", " ",
// "Enter").
func (h *GameHandler) MakeMove(c *gin.Context) {
	session, ok := h.Games.Sessions.GetOwnedSession(c.Param("id"), profileID(c))
	if !ok {
		notFound(c)
		return
	}

	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var column int
	switch {
	case req.Column != nil:
		column = *req.Column
	case req.Key != nil:
		col, mapped := keymap.ColumnForKey(*req.Key)
		if !mapped {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Key is not mapped to a column"})
			return
		}
		column = col
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "column or key is required"})
		return
	}

	outcome, err := session.DropPiece(column)
	if err != nil {
		reason := domain.Reason(err)
		if reason == "" {
			log.Printf("[GAME] Unexpected move error in %s: %v", session.GameID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to make move"})
			return
		}
		c.JSON(statusForReason(reason), gin.H{
			"accepted": false,
			"reason":   reason,
			"cue":      outcome.Cue,
			"state":    outcome.State,
		})
		return
	}

	res := outcome.Result
	body := gin.H{
		"accepted": true,
		"row":      res.Row,
		"column":   res.Column,
		"player":   res.Player,
		"phase":    res.Status,
		"cue":      outcome.Cue,
		"state":    outcome.State,
	}
	if res.Status == domain.StatusWon {
		body["winner"] = res.Winner
		body["winningLine"] = res.WinningLine
	}
	c.JSON(http.StatusOK, body)
}

func (h *GameHandler) NewGame(c *gin.Context) {
	session, ok := h.Games.Sessions.GetOwnedSession(c.Param("id"), profileID(c))
	if !ok {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, session.NewGame())
}

func (h *GameHandler) DeleteGame(c *gin.Context) {
	session, ok := h.Games.Sessions.GetOwnedSession(c.Param("id"), profileID(c))
	if !ok {
		notFound(c)
		return
	}
	if err := h.Games.Sessions.RemoveSession(session.GameID); err != nil {
		if errors.Is(err, game.ErrSessionNotFound) {
			notFound(c)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete game"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *GameHandler) Sounds(c *gin.Context) {
	c.JSON(http.StatusOK, game.Tones())
}
