package game

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/lfriedrich2/4gewinnt/internal/domain"
	"github.com/lfriedrich2/4gewinnt/pkg/uid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrGameNotFound    = errors.New("game not found")
)

const (
	finishedSessionTTL   = 1 * time.Hour
	unfinishedSessionTTL = 24 * time.Hour
	finishHookTimeout    = 10 * time.Second
)

type UpdateType string

const (
	UpdateState    UpdateType = "state"
	UpdateMoveMade UpdateType = "move_made"
	UpdateGameOver UpdateType = "game_over"
	UpdateClosed   UpdateType = "game_closed"
)

// Update is pushed to the Notifier after every change of a session.
type Update struct {
	Type   UpdateType
	GameID string
	Move   *domain.MoveResult
	Cue    Cue
	State  Snapshot
}

type Notifier interface {
	Notify(update Update)
}

// FinishHook runs in the background once per finished game.
type FinishHook func(ctx context.Context, rec domain.GameRecord) error

// MoveOutcome is what a drop returns to the caller. On a rejected move Cue is
// CueError and State is the unchanged game.
type MoveOutcome struct {
	Result domain.MoveResult
	Cue    Cue
	State  Snapshot
}

type GameSession struct {
	GameID      string
	OwnerID     string
	Player1Name string
	Player2Name string
	CreatedAt   time.Time
	FinishedAt  time.Time
	Reason      string
	// identifies the current round in the history; changes on NewGame
	recordID string
	game     *domain.Game
	mu       sync.Mutex
	manager  *SessionManager
}

// SessionManager manages active game sessions
type SessionManager struct {
	sessions map[string]*GameSession // gameID → GameSession
	mu       sync.RWMutex

	notifier Notifier
	hooks    []FinishHook
	hooksMu  sync.RWMutex
	pending  sync.WaitGroup

	now func() time.Time
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*GameSession),
		now:      time.Now,
	}
}

// SetNotifier must be called before sessions are created.
func (sm *SessionManager) SetNotifier(n Notifier) {
	sm.notifier = n
}

func (sm *SessionManager) OnFinish(hook FinishHook) {
	sm.hooksMu.Lock()
	defer sm.hooksMu.Unlock()
	sm.hooks = append(sm.hooks, hook)
}

func (sm *SessionManager) CreateSession(ownerID, player1Name, player2Name string) *GameSession {
	now := sm.now()
	session := &GameSession{
		GameID:      uid.GenerateGameID(),
		OwnerID:     ownerID,
		Player1Name: player1Name,
		Player2Name: player2Name,
		CreatedAt:   now,
		recordID:    uid.GenerateGameID(),
		game:        domain.NewGame(),
		manager:     sm,
	}

	sm.mu.Lock()
	sm.sessions[session.GameID] = session
	sm.mu.Unlock()

	log.Printf("[SESSION] Created session %s: %s vs %s (owner %.8s)", session.GameID, player1Name, player2Name, ownerID)
	return session
}

func (sm *SessionManager) GetSession(gameID string) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[gameID]
	return session, exists
}

// GetOwnedSession hides sessions of other owners.
func (sm *SessionManager) GetOwnedSession(gameID, ownerID string) (*GameSession, bool) {
	session, exists := sm.GetSession(gameID)
	if !exists || session.OwnerID != ownerID {
		return nil, false
	}
	return session, true
}

// ListSessions returns the owner's sessions, oldest first.
func (sm *SessionManager) ListSessions(ownerID string) []*GameSession {
	type entry struct {
		session   *GameSession
		createdAt time.Time
	}

	var entries []entry
	for _, s := range sm.snapshotSessions() {
		if s.OwnerID != ownerID {
			continue
		}
		s.mu.Lock()
		entries = append(entries, entry{session: s, createdAt: s.CreatedAt})
		s.mu.Unlock()
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].createdAt.Before(entries[j].createdAt)
	})
	list := make([]*GameSession, 0, len(entries))
	for _, e := range entries {
		list = append(list, e.session)
	}
	return list
}

// snapshotSessions copies the registry so callers can take session locks
// without holding sm.mu.
func (sm *SessionManager) snapshotSessions() []*GameSession {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	list := make([]*GameSession, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		list = append(list, s)
	}
	return list
}

func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

func (sm *SessionManager) RemoveSession(gameID string) error {
	sm.mu.Lock()
	_, exists := sm.sessions[gameID]
	if !exists {
		sm.mu.Unlock()
		return ErrSessionNotFound
	}
	delete(sm.sessions, gameID)
	sm.mu.Unlock()

	log.Printf("[SESSION] Removing session %s", gameID)
	sm.notify(Update{Type: UpdateClosed, GameID: gameID})
	return nil
}

// CleanupOldSessions evicts finished sessions after an hour and abandoned
// ones after a day. It returns how many were removed.
func (sm *SessionManager) CleanupOldSessions() int {
	now := sm.now()

	var stale []*GameSession
	for _, session := range sm.snapshotSessions() {
		if session.isStale(now) {
			stale = append(stale, session)
		}
	}

	var removed []string
	sm.mu.Lock()
	for _, session := range stale {
		// a session removed or replaced meanwhile is left alone
		if sm.sessions[session.GameID] == session {
			delete(sm.sessions, session.GameID)
			removed = append(removed, session.GameID)
		}
	}
	sm.mu.Unlock()

	for _, gameID := range removed {
		sm.notify(Update{Type: UpdateClosed, GameID: gameID})
	}
	if len(removed) > 0 {
		log.Printf("[SESSION] Memory cleanup: Removed %d stale game sessions", len(removed))
	}
	return len(removed)
}

// Wait blocks until all running finish hooks are done.
func (sm *SessionManager) Wait() {
	sm.pending.Wait()
}

func (sm *SessionManager) notify(update Update) {
	if sm.notifier != nil {
		sm.notifier.Notify(update)
	}
}

// runs the finish hooks in background to avoid blocking the game_over update
func (sm *SessionManager) fireFinished(rec domain.GameRecord) {
	sm.hooksMu.RLock()
	hooks := make([]FinishHook, len(sm.hooks))
	copy(hooks, sm.hooks)
	sm.hooksMu.RUnlock()

	for _, hook := range hooks {
		sm.pending.Add(1)
		go func(hook FinishHook) {
			defer sm.pending.Done()
			ctx, cancel := context.WithTimeout(context.Background(), finishHookTimeout)
			defer cancel()
			if err := hook(ctx, rec); err != nil {
				log.Printf("[GAME] Error recording game %s: %v", rec.GameID, err)
			}
		}(hook)
	}
}

func (gs *GameSession) isStale(now time.Time) bool {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	if gs.game.IsFinished() {
		return now.Sub(gs.FinishedAt) > finishedSessionTTL
	}
	return now.Sub(gs.CreatedAt) > unfinishedSessionTTL
}

// DropPiece plays the current player's piece into column. Listeners are
// notified after the session lock is released.
func (gs *GameSession) DropPiece(column int) (MoveOutcome, error) {
	gs.mu.Lock()
	result, err := gs.game.DropPiece(column)
	if err != nil {
		state := gs.snapshotLocked()
		gs.mu.Unlock()
		return MoveOutcome{Cue: CueError, State: state}, err
	}

	outcome := MoveOutcome{
		Result: result,
		Cue:    CueForStatus(result.Status),
		State:  gs.snapshotLocked(),
	}

	updateType := UpdateMoveMade
	if result.Status.IsTerminal() {
		updateType = UpdateGameOver
		gs.FinishedAt = gs.manager.now()
		if result.Status == domain.StatusWon {
			gs.Reason = domain.ReasonConnectFour
		} else {
			gs.Reason = domain.ReasonDraw
		}
		board := gs.game.Board()
		log.Printf("[GAME] Game %s finished: %s (winner %d) after %d moves\n%s", gs.GameID, gs.Reason, result.Winner, gs.game.MoveCount(), board.String())
		gs.manager.fireFinished(gs.recordLocked())
	}
	gs.mu.Unlock()

	gs.manager.notify(Update{
		Type:   updateType,
		GameID: gs.GameID,
		Move:   &result,
		Cue:    outcome.Cue,
		State:  outcome.State,
	})

	return outcome, nil
}

// NewGame resets the board for another round in the same session.
func (gs *GameSession) NewGame() Snapshot {
	gs.mu.Lock()
	gs.game.Reset()
	gs.CreatedAt = gs.manager.now()
	gs.FinishedAt = time.Time{}
	gs.Reason = ""
	gs.recordID = uid.GenerateGameID()
	state := gs.snapshotLocked()
	gs.mu.Unlock()

	gs.manager.notify(Update{Type: UpdateState, GameID: gs.GameID, State: state})
	return state
}

// SetPlayerNames changes the display names; the board is untouched.
func (gs *GameSession) SetPlayerNames(player1Name, player2Name string) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.Player1Name = player1Name
	gs.Player2Name = player2Name
}

func (gs *GameSession) Snapshot() Snapshot {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.snapshotLocked()
}

func (gs *GameSession) IsFinished() bool {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.game.IsFinished()
}

func (gs *GameSession) nameLocked(p domain.PlayerID) string {
	if p == domain.Player1 {
		return gs.Player1Name
	}
	return gs.Player2Name
}

// caller must hold gs.mu
func (gs *GameSession) recordLocked() domain.GameRecord {
	board := gs.game.Board()
	rec := domain.GameRecord{
		GameID:          gs.recordID,
		OwnerID:         gs.OwnerID,
		Player1Name:     gs.Player1Name,
		Player2Name:     gs.Player2Name,
		Winner:          gs.game.Winner(),
		Reason:          gs.Reason,
		TotalMoves:      gs.game.MoveCount(),
		DurationSeconds: int(gs.FinishedAt.Sub(gs.CreatedAt).Seconds()),
		CreatedAt:       gs.CreatedAt,
		FinishedAt:      gs.FinishedAt,
		Board:           board.Ints(),
		Moves:           gs.game.Moves(),
		WinningLine:     gs.game.WinningLine(),
	}
	if rec.Winner != domain.Empty {
		rec.WinnerName = gs.nameLocked(rec.Winner)
	}
	return rec
}
