package http

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lfriedrich2/4gewinnt/internal/config"
	"github.com/lfriedrich2/4gewinnt/internal/service/game"
	"github.com/lfriedrich2/4gewinnt/internal/service/profile"
	"github.com/lfriedrich2/4gewinnt/internal/transport/http/middleware"
	"github.com/lfriedrich2/4gewinnt/pkg/auth"
)

type RouterDeps struct {
	Config    *config.Config
	Tokens    *auth.TokenIssuer
	Games     *game.Service
	Profiles  *profile.Service
	WebSocket gin.HandlerFunc
}

func NewRouter(d RouterDeps) *gin.Engine {
	gameHandler := NewGameHandler(d.Games, d.Profiles)
	historyHandler := NewHistoryHandler(d.Games)
	profileHandler := NewProfileHandler(d.Profiles, d.Games.Sessions)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(d.Config.IsOriginAllowed))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": d.Games.Sessions.Count()})
	})

	secure := strings.HasPrefix(d.Config.FrontendURL, "https://")
	profiled := router.Group("/")
	profiled.Use(middleware.ProfileMiddleware(d.Tokens, secure))
	{
		profiled.POST("/api/games", gameHandler.CreateGame)
		profiled.GET("/api/games", gameHandler.ListGames)
		profiled.GET("/api/games/:id", gameHandler.GetGame)
		profiled.POST("/api/games/:id/moves", gameHandler.MakeMove)
		profiled.POST("/api/games/:id/new", gameHandler.NewGame)
		profiled.DELETE("/api/games/:id", gameHandler.DeleteGame)

		profiled.GET("/api/settings", profileHandler.GetSettings)
		profiled.PUT("/api/settings", profileHandler.UpdateSettings)
		profiled.DELETE("/api/scores", profileHandler.ResetScores)
		profiled.GET("/api/stats", profileHandler.GetStats)

		profiled.GET("/api/history", historyHandler.GetHistory)
		profiled.GET("/api/history/:id", historyHandler.GetGameDetails)

		if d.WebSocket != nil {
			profiled.GET("/ws/games/:id", d.WebSocket)
		}
	}
	router.GET("/api/sounds", gameHandler.Sounds)

	serveStatic(router, d.Config.StaticDir)
	return router
}

// serveStatic serves the browser client from dir with an SPA fallback to
// index.html. Nothing is mounted when dir does not exist.
func serveStatic(router *gin.Engine, dir string) {
	if dir == "" {
		return
	}
	if _, err := os.Stat(dir); err != nil {
		return
	}
	index := filepath.Join(dir, "index.html")

	router.Static("/assets", filepath.Join(dir, "assets"))
	router.GET("/", func(c *gin.Context) {
		c.File(index)
	})

	router.NoRoute(func(c *gin.Context) {
		p := c.Request.URL.Path
		if strings.HasPrefix(p, "/api/") || strings.HasPrefix(p, "/ws/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		path := filepath.Join(dir, filepath.Clean("/"+p))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			c.File(path)
			return
		}

		// Missing assets are 404s, not the SPA
		if strings.HasSuffix(p, ".css") || strings.HasSuffix(p, ".js") {
			c.Status(http.StatusNotFound)
			return
		}

		c.File(index)
	})
}
