package scores

import (
	"context"
	"database/sql"

	"github.com/fastprodman/economyledger/internal/economy"
)

type Scores interface {
	InsertSession(ctx context.Context, tx *sql.Tx, s economy.GameSession) (economy.GameSession, error)
	// LockHighScore returns nil when the user has no score for game yet.
	LockHighScore(ctx context.Context, tx *sql.Tx, userID uint64, game string) (*economy.HighScoreEntry, error)
	UpsertHighScore(ctx context.Context, tx *sql.Tx, e economy.HighScoreEntry) error
	HighScores(ctx context.Context, userID uint64) ([]economy.HighScoreEntry, error)
	Leaderboard(ctx context.Context, game string, limit int) ([]economy.HighScoreEntry, error)
	Sessions(ctx context.Context, userID uint64, limit int) ([]economy.GameSession, error)
}
