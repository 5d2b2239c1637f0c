package scores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/economyledger/internal/economy"
	"github.com/fastprodman/economyledger/internal/repos/scores"
)

var _ scores.Scores = (*scoresRepo)(nil)

type scoresRepo struct{ db *sql.DB }

func New(db *sql.DB) *scoresRepo {
	return &scoresRepo{db: db}
}

func (r *scoresRepo) InsertSession(ctx context.Context, tx *sql.Tx, s economy.GameSession) (economy.GameSession, error) {
	err := tx.QueryRowContext(ctx, `
		INSERT INTO game_sessions (user_id, game_type, score, gold_earned, diamond_earned, played_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, s.UserID, s.GameType, s.Score, s.GoldEarned, s.DiamondEarned, s.PlayedAt).Scan(&s.ID)
	if err != nil {
		return economy.GameSession{}, fmt.Errorf("insert game session: %w", err)
	}

	return s, nil
}

func (r *scoresRepo) LockHighScore(ctx context.Context, tx *sql.Tx, userID uint64, game string) (*economy.HighScoreEntry, error) {
	e := economy.HighScoreEntry{UserID: userID, GameType: game}

	err := tx.QueryRowContext(ctx, `
		SELECT high_score, updated_at
		FROM high_scores
		WHERE user_id = $1 AND game_type = $2
		FOR UPDATE
	`, userID, game).Scan(&e.HighScore, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("lock high score: %w", err)
	}

	e.UpdatedAt = e.UpdatedAt.UTC()

	return &e, nil
}

func (r *scoresRepo) UpsertHighScore(ctx context.Context, tx *sql.Tx, e economy.HighScoreEntry) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO high_scores (user_id, game_type, high_score, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, game_type)
		DO UPDATE SET high_score = EXCLUDED.high_score, updated_at = EXCLUDED.updated_at
	`, e.UserID, e.GameType, e.HighScore, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert high score: %w", err)
	}

	return nil
}

func (r *scoresRepo) HighScores(ctx context.Context, userID uint64) ([]economy.HighScoreEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, game_type, high_score, updated_at
		FROM high_scores
		WHERE user_id = $1
		ORDER BY game_type
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query high scores: %w", err)
	}

	return collectHighScores(rows)
}

// Leaderboard ranks by score, earlier achievers first on ties.
func (r *scoresRepo) Leaderboard(ctx context.Context, game string, limit int) ([]economy.HighScoreEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, game_type, high_score, updated_at
		FROM high_scores
		WHERE game_type = $1
		ORDER BY high_score DESC, updated_at ASC, user_id ASC
		LIMIT $2
	`, game, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}

	return collectHighScores(rows)
}

func (r *scoresRepo) Sessions(ctx context.Context, userID uint64, limit int) ([]economy.GameSession, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, game_type, score, gold_earned, diamond_earned, played_at
		FROM game_sessions
		WHERE user_id = $1
		ORDER BY played_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query game sessions: %w", err)
	}
	//nolint:errcheck
	defer rows.Close()

	var out []economy.GameSession

	for rows.Next() {
		var s economy.GameSession

		err = rows.Scan(&s.ID, &s.UserID, &s.GameType, &s.Score, &s.GoldEarned, &s.DiamondEarned, &s.PlayedAt)
		if err != nil {
			return nil, fmt.Errorf("scan game session: %w", err)
		}

		s.PlayedAt = s.PlayedAt.UTC()
		out = append(out, s)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate game sessions: %w", err)
	}

	return out, nil
}

func collectHighScores(rows *sql.Rows) ([]economy.HighScoreEntry, error) {
	//nolint:errcheck
	defer rows.Close()

	var out []economy.HighScoreEntry

	for rows.Next() {
		var e economy.HighScoreEntry

		err := rows.Scan(&e.UserID, &e.GameType, &e.HighScore, &e.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan high score: %w", err)
		}

		e.UpdatedAt = e.UpdatedAt.UTC()
		out = append(out, e)
	}

	err := rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate high scores: %w", err)
	}

	return out, nil
}
