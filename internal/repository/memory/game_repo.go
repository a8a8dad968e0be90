// Package memory keeps finished games in process when no database is
// configured. History is lost on restart.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/lfriedrich2/4gewinnt/internal/domain"
)

type GameRepo struct {
	mu    sync.RWMutex
	games map[string]domain.GameRecord
}

func NewGameRepo() *GameRepo {
	return &GameRepo{games: make(map[string]domain.GameRecord)}
}

func (r *GameRepo) SaveGame(ctx context.Context, rec domain.GameRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.games[rec.GameID] = rec
	return nil
}

// GetGameByID returns nil, nil when the game does not exist
func (r *GameRepo) GetGameByID(ctx context.Context, gameID string) (*domain.GameRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.games[gameID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *GameRepo) ListGamesByOwner(ctx context.Context, ownerID string, limit int) ([]domain.GameRecord, error) {
	r.mu.RLock()
	games := []domain.GameRecord{}
	for _, rec := range r.games {
		if rec.OwnerID == ownerID {
			games = append(games, rec)
		}
	}
	r.mu.RUnlock()

	sort.Slice(games, func(i, j int) bool {
		return games[i].FinishedAt.After(games[j].FinishedAt)
	})
	if limit > 0 && len(games) > limit {
		games = games[:limit]
	}
	return games, nil
}
