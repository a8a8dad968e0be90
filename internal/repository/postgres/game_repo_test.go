package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/lfriedrich2/4gewinnt/internal/domain"
	"github.com/lfriedrich2/4gewinnt/pkg/uid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real database only when TEST_DATABASE_URL is set.
func TestGameRepo_Integration(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	for _, driver := range []string{"pgx", "postgres"} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			db, err := Open(ctx, driver, dsn, PoolConfig{MaxOpenConns: 2, MaxIdleConns: 2, ConnMaxLifetime: time.Minute})
			require.NoError(t, err)
			defer db.Close()
			require.NoError(t, RunMigrations(ctx, db))

			repo := NewGameRepo(db)
			owner := "owner-" + uid.GenerateGameID()

			g := domain.NewGame()
			for _, col := range []int{0, 0, 1, 1, 2, 2, 3} {
				_, err := g.DropPiece(col)
				require.NoError(t, err)
			}
			board := g.Board()
			now := time.Now().UTC().Truncate(time.Second)
			rec := domain.GameRecord{
				GameID:          uid.GenerateGameID(),
				OwnerID:         owner,
				Player1Name:     "Anna",
				Player2Name:     "Ben",
				Winner:          domain.Player1,
				WinnerName:      "Anna",
				Reason:          domain.ReasonConnectFour,
				TotalMoves:      g.MoveCount(),
				DurationSeconds: 12,
				CreatedAt:       now.Add(-12 * time.Second),
				FinishedAt:      now,
				Board:           board.Ints(),
				Moves:           g.Moves(),
				WinningLine:     g.WinningLine(),
			}

			require.NoError(t, repo.SaveGame(ctx, rec))
			require.NoError(t, repo.SaveGame(ctx, rec))

			got, err := repo.GetGameByID(ctx, rec.GameID)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, rec.Moves, got.Moves)
			assert.Equal(t, rec.WinningLine, got.WinningLine)
			assert.Equal(t, rec.Board, got.Board)
			assert.Equal(t, domain.Player1, got.Winner)

			list, err := repo.ListGamesByOwner(ctx, owner, 10)
			require.NoError(t, err)
			assert.Len(t, list, 1)

			missing, err := repo.GetGameByID(ctx, "nope")
			require.NoError(t, err)
			assert.Nil(t, missing)
		})
	}
}

type fakeRow struct {
	board []byte
}

func (r fakeRow) Scan(dest ...any) error {
	*dest[0].(*string) = "g1"
	*dest[1].(*string) = "owner"
	*dest[2].(*string) = "Anna"
	*dest[3].(*string) = "Ben"
	*dest[4].(*int) = 1
	*dest[5].(*sql.NullString) = sql.NullString{String: "Anna", Valid: true}
	*dest[6].(*string) = domain.ReasonConnectFour
	*dest[7].(*int) = 7
	*dest[8].(*int) = 3
	*dest[9].(*time.Time) = time.Unix(0, 0)
	*dest[10].(*time.Time) = time.Unix(3, 0)
	*dest[11].(*[]byte) = r.board
	*dest[12].(*[]byte) = []byte(`[]`)
	*dest[13].(*[]byte) = nil
	return nil
}

func TestScanGame_ValidatesBoard(t *testing.T) {
	var empty domain.Board
	good, err := json.Marshal(empty.Ints())
	require.NoError(t, err)

	rec, err := scanGame(fakeRow{board: good})
	require.NoError(t, err)
	assert.Equal(t, "Anna", rec.WinnerName)
	assert.Len(t, rec.Board, domain.Rows)

	_, err = scanGame(fakeRow{board: []byte(`[[1,2,3]]`)})
	assert.ErrorIs(t, err, domain.ErrInvalidBoard)

	rec, err = scanGame(fakeRow{board: nil})
	require.NoError(t, err)
	assert.Nil(t, rec.Board)
}
