package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lfriedrich2/4gewinnt/internal/service/game"
)

const writeWait = 10 * time.Second

// client is one socket watching a game.
type client struct {
	conn *websocket.Conn
	// conn.WriteJSON is not safe for concurrent use
	writeMu sync.Mutex
}

func (c *client) send(msg ServerMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(msg)
}

func (c *client) ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// ConnectionManager tracks the sockets attached to each game and fans session
// updates out to them. It implements game.Notifier.
type ConnectionManager struct {
	games map[string]map[*client]struct{} // gameID → clients
	mu    sync.RWMutex
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		games: make(map[string]map[*client]struct{}),
	}
}

func (cm *ConnectionManager) add(gameID string, c *client) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	set, ok := cm.games[gameID]
	if !ok {
		set = make(map[*client]struct{})
		cm.games[gameID] = set
	}
	set[c] = struct{}{}
}

func (cm *ConnectionManager) remove(gameID string, c *client) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	set, ok := cm.games[gameID]
	if !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(cm.games, gameID)
	}
}

func (cm *ConnectionManager) clients(gameID string) []*client {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	set := cm.games[gameID]
	list := make([]*client, 0, len(set))
	for c := range set {
		list = append(list, c)
	}
	return list
}

// ConnectionCount returns how many sockets watch gameID.
func (cm *ConnectionManager) ConnectionCount(gameID string) int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.games[gameID])
}

// Broadcast sends msg to every socket of gameID. Failed writes are logged; the
// read loop of that socket notices the broken connection and cleans up.
func (cm *ConnectionManager) Broadcast(gameID string, msg ServerMessage) {
	for _, c := range cm.clients(gameID) {
		if err := c.send(msg); err != nil {
			log.Printf("[WS] Write to game %s failed: %v", gameID, err)
		}
	}
}

// Notify pushes a session update to the game's sockets. A closed game also
// closes its sockets.
func (cm *ConnectionManager) Notify(u game.Update) {
	cm.Broadcast(u.GameID, messageFromUpdate(u))

	if u.Type == game.UpdateClosed {
		cm.mu.Lock()
		set := cm.games[u.GameID]
		delete(cm.games, u.GameID)
		cm.mu.Unlock()

		for c := range set {
			c.conn.Close()
		}
	}
}
