package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/lfriedrich2/4gewinnt/internal/domain"
	"github.com/lfriedrich2/4gewinnt/internal/service/game"
	"github.com/lfriedrich2/4gewinnt/pkg/httputil"
	"github.com/lfriedrich2/4gewinnt/pkg/keymap"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

type Handler struct {
	ConnManager    *ConnectionManager
	SessionManager *game.SessionManager
	Upgrader       websocket.Upgrader
}

// NewHandler creates the websocket handler. allowOrigin decides cross-origin
// upgrades; same-origin requests and clients without an Origin header are
// always accepted.
func NewHandler(cm *ConnectionManager, sm *game.SessionManager, allowOrigin func(origin string) bool) *Handler {
	return &Handler{
		ConnManager:    cm,
		SessionManager: sm,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				if httputil.SameOrigin(r) {
					return true
				}
				return allowOrigin != nil && allowOrigin(origin)
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleWebSocket upgrades GET /ws/games/:id for the game's owner.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	profileID := c.GetString(httputil.ProfileIDKey)
	session, ok := h.SessionManager.GetOwnedSession(c.Param("id"), profileID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	h.handleConnection(session, conn)
}

func (h *Handler) handleConnection(session *game.GameSession, conn *websocket.Conn) {
	cl := &client{conn: conn}
	h.ConnManager.add(session.GameID, cl)
	log.Printf("[WS] Connection opened for game %s", session.GameID)

	done := make(chan struct{})
	defer func() {
		close(done)
		h.ConnManager.remove(session.GameID, cl)
		conn.Close()
		log.Printf("[WS] Connection closed for game %s", session.GameID)
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Keep-alive pinger
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := cl.ping(); err != nil {
					return
				}
			}
		}
	}()

	state := session.Snapshot()
	if err := cl.send(ServerMessage{Type: MsgState, GameID: session.GameID, State: &state}); err != nil {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] Game %s disconnected unexpectedly: %v", session.GameID, err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("[WS] Invalid message format: %v", err)
			cl.send(errorMessage(session.GameID, "invalid_message", "Invalid message format", nil))
			continue
		}

		h.processMessage(session, cl, msg)
	}
}

// processMessage routes one client message. Successful changes reach every
// socket through the session's notifier; rejections go to the sender only.
func (h *Handler) processMessage(session *game.GameSession, cl *client, msg ClientMessage) {
	switch msg.Type {
	case MsgDrop:
		if msg.Column == nil {
			state := session.Snapshot()
			cl.send(errorMessage(session.GameID, domain.Reason(domain.ErrInvalidColumn), "column is required", &state))
			return
		}
		h.drop(session, cl, *msg.Column)

	case MsgKey:
		column, ok := keymap.ColumnForKey(msg.Key)
		if !ok {
			return // unmapped keys are ignored
		}
		h.drop(session, cl, column)

	case MsgNewGame:
		session.NewGame()

	case MsgSync:
		state := session.Snapshot()
		cl.send(ServerMessage{Type: MsgState, GameID: session.GameID, State: &state})

	default:
		cl.send(errorMessage(session.GameID, "unknown_message", "Unknown message type: "+msg.Type, nil))
	}
}

func (h *Handler) drop(session *game.GameSession, cl *client, column int) {
	outcome, err := session.DropPiece(column)
	if err != nil {
		cl.send(errorMessage(session.GameID, domain.Reason(err), err.Error(), &outcome.State))
	}
}
