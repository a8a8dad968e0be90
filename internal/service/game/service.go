package game

import (
	"context"
	"fmt"

	"github.com/lfriedrich2/4gewinnt/internal/domain"
)

const defaultHistoryLimit = 50

type HistoryRepository interface {
	SaveGame(ctx context.Context, rec domain.GameRecord) error
	GetGameByID(ctx context.Context, gameID string) (*domain.GameRecord, error)
	ListGamesByOwner(ctx context.Context, ownerID string, limit int) ([]domain.GameRecord, error)
}

type ResultRecorder interface {
	RecordResult(ctx context.Context, profileID string, status domain.GameStatus, winner domain.PlayerID) error
}

// Service is the entry point for game logic (facade): live sessions plus the
// history of finished games.
type Service struct {
	Sessions *SessionManager
	Repo     HistoryRepository
}

// NewService wires the finish hooks: every finished game is stored in repo
// and, when results is non-nil, counted on the owner's profile.
func NewService(sessions *SessionManager, repo HistoryRepository, results ResultRecorder) *Service {
	sessions.OnFinish(func(ctx context.Context, rec domain.GameRecord) error {
		return repo.SaveGame(ctx, rec)
	})
	if results != nil {
		sessions.OnFinish(func(ctx context.Context, rec domain.GameRecord) error {
			status := domain.StatusDraw
			if rec.Winner != domain.Empty {
				status = domain.StatusWon
			}
			return results.RecordResult(ctx, rec.OwnerID, status, rec.Winner)
		})
	}
	return &Service{Sessions: sessions, Repo: repo}
}

func (s *Service) History(ctx context.Context, ownerID string, limit int) ([]domain.GameRecord, error) {
	if limit <= 0 || limit > defaultHistoryLimit {
		limit = defaultHistoryLimit
	}
	games, err := s.Repo.ListGamesByOwner(ctx, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return games, nil
}

// HistoryGame returns ErrGameNotFound for unknown games and games of other
// owners.
func (s *Service) HistoryGame(ctx context.Context, ownerID, gameID string) (*domain.GameRecord, error) {
	rec, err := s.Repo.GetGameByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("get history game: %w", err)
	}
	if rec == nil || rec.OwnerID != ownerID {
		return nil, ErrGameNotFound
	}
	return rec, nil
}
