package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lfriedrich2/4gewinnt/internal/domain"
)

type GameRepo struct {
	DB *sql.DB
}

func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{DB: db}
}

// SaveGame stores a finished game (UPSERT so a retried save is harmless)
func (r *GameRepo) SaveGame(ctx context.Context, rec domain.GameRecord) error {
	boardJSON, err := json.Marshal(rec.Board)
	if err != nil {
		return fmt.Errorf("failed to marshal board state: %w", err)
	}
	movesJSON, err := json.Marshal(rec.Moves)
	if err != nil {
		return fmt.Errorf("failed to marshal moves: %w", err)
	}
	lineJSON, err := json.Marshal(rec.WinningLine)
	if err != nil {
		return fmt.Errorf("failed to marshal winning line: %w", err)
	}

	query := `
	INSERT INTO game (game_id, owner_id, player1_name, player2_name, winner, winner_name, reason, total_moves, duration_seconds, created_at, finished_at, board_state, moves, winning_line)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (game_id) DO UPDATE SET
		winner = EXCLUDED.winner,
		winner_name = EXCLUDED.winner_name,
		reason = EXCLUDED.reason,
		total_moves = EXCLUDED.total_moves,
		duration_seconds = EXCLUDED.duration_seconds,
		finished_at = EXCLUDED.finished_at,
		board_state = EXCLUDED.board_state,
		moves = EXCLUDED.moves,
		winning_line = EXCLUDED.winning_line;
	`

	var winnerName sql.NullString
	if rec.WinnerName != "" {
		winnerName = sql.NullString{String: rec.WinnerName, Valid: true}
	}

	_, err = r.DB.ExecContext(ctx, query,
		rec.GameID, rec.OwnerID, rec.Player1Name, rec.Player2Name,
		int(rec.Winner), winnerName, rec.Reason, rec.TotalMoves, rec.DurationSeconds,
		rec.CreatedAt, rec.FinishedAt, boardJSON, movesJSON, lineJSON)
	if err != nil {
		return fmt.Errorf("failed to upsert game record: %w", err)
	}
	return nil
}

const selectGame = `
	SELECT game_id, owner_id, player1_name, player2_name, winner, winner_name,
	       reason, total_moves, duration_seconds, created_at, finished_at,
	       board_state, moves, winning_line
	FROM game`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (*domain.GameRecord, error) {
	var rec domain.GameRecord
	var winner int
	var winnerName sql.NullString
	var boardJSON, movesJSON, lineJSON []byte

	err := row.Scan(
		&rec.GameID,
		&rec.OwnerID,
		&rec.Player1Name,
		&rec.Player2Name,
		&winner,
		&winnerName,
		&rec.Reason,
		&rec.TotalMoves,
		&rec.DurationSeconds,
		&rec.CreatedAt,
		&rec.FinishedAt,
		&boardJSON,
		&movesJSON,
		&lineJSON,
	)
	if err != nil {
		return nil, err
	}

	rec.Winner = domain.PlayerID(winner)
	if winnerName.Valid {
		rec.WinnerName = winnerName.String
	}
	if err := unmarshalNullable(boardJSON, &rec.Board); err != nil {
		return nil, fmt.Errorf("failed to unmarshal board state: %w", err)
	}
	if rec.Board != nil {
		if _, err := domain.BoardFromInts(rec.Board); err != nil {
			return nil, fmt.Errorf("game %s: %w", rec.GameID, err)
		}
	}
	if err := unmarshalNullable(movesJSON, &rec.Moves); err != nil {
		return nil, fmt.Errorf("failed to unmarshal moves: %w", err)
	}
	if err := unmarshalNullable(lineJSON, &rec.WinningLine); err != nil {
		return nil, fmt.Errorf("failed to unmarshal winning line: %w", err)
	}
	return &rec, nil
}

func unmarshalNullable(data []byte, dst any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}

// GetGameByID returns nil, nil when the game does not exist
func (r *GameRepo) GetGameByID(ctx context.Context, gameID string) (*domain.GameRecord, error) {
	rec, err := scanGame(r.DB.QueryRowContext(ctx, selectGame+` WHERE game_id = $1;`, gameID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game by ID: %w", err)
	}
	return rec, nil
}

// ListGamesByOwner returns the most recently finished games first
func (r *GameRepo) ListGamesByOwner(ctx context.Context, ownerID string, limit int) ([]domain.GameRecord, error) {
	rows, err := r.DB.QueryContext(ctx, selectGame+` WHERE owner_id = $1 ORDER BY finished_at DESC LIMIT $2;`, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game history: %w", err)
	}
	defer rows.Close()

	games := []domain.GameRecord{}
	for rows.Next() {
		rec, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		games = append(games, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate game history: %w", err)
	}
	return games, nil
}
