package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fastprodman/economyledger/internal/economy"
	"github.com/fastprodman/economyledger/internal/economy/hearts"
	"github.com/fastprodman/economyledger/internal/economy/rewards"
)

// SubmitScore records a finished play, credits its gold and keeps the best
// score per game. Only a strictly better score replaces the stored one.
func (s *Service) SubmitScore(ctx context.Context, userID uint64, game string, score int64) (ScoreResult, error) {
	game = hearts.Key(game)
	if game == "" {
		return ScoreResult{}, fmt.Errorf("%w: game required", economy.ErrInvalidInput)
	}

	gold, err := rewards.ScoreGold(score, s.cfg.ScoreGoldDivisor)
	if err != nil {
		return ScoreResult{}, err
	}

	res := ScoreResult{Game: game, Score: score, GoldEarned: gold}

	var now time.Time

	saved, err := s.coord.Apply(ctx, userID, func(ctx context.Context, tx *sql.Tx, l economy.UserLedger) (economy.UserLedger, economy.AuditEntry, error) {
		now = s.clock.Now()

		prev, err := s.scores.LockHighScore(ctx, tx, l.UserID, game)
		if err != nil {
			return l, economy.AuditEntry{}, fmt.Errorf("load high score: %w", err)
		}

		res.IsHighScore = rewards.IsHighScore(prev, score)
		res.HighScore = score

		if res.IsHighScore {
			err = s.scores.UpsertHighScore(ctx, tx, economy.HighScoreEntry{
				UserID: l.UserID, GameType: game, HighScore: score, UpdatedAt: now,
			})
			if err != nil {
				return l, economy.AuditEntry{}, fmt.Errorf("store high score: %w", err)
			}
		} else {
			res.HighScore = prev.HighScore
		}

		session, err := s.scores.InsertSession(ctx, tx, economy.GameSession{
			UserID:        l.UserID,
			GameType:      game,
			Score:         score,
			GoldEarned:    gold,
			DiamondEarned: decimal.Zero,
			PlayedAt:      now,
		})
		if err != nil {
			return l, economy.AuditEntry{}, fmt.Errorf("record session: %w", err)
		}

		res.SessionID = session.ID
		l.Gold += gold

		return l, economy.AuditEntry{
			Purpose:      economy.PurposeScoreSubmission,
			RewardType:   economy.CurrencyGold,
			RewardAmount: decimal.NewFromInt(gold),
			OccurredAt:   now,
		}, nil
	})
	if err != nil {
		return ScoreResult{}, fmt.Errorf("submit score: %w", err)
	}

	res.Ledger = s.view(saved, now)

	return res, nil
}

// HighScores lists the user's best score per game.
func (s *Service) HighScores(ctx context.Context, userID uint64) ([]economy.HighScoreEntry, error) {
	err := s.ledgers.Exists(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	out, err := s.scores.HighScores(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list high scores: %w", err)
	}

	return out, nil
}

// Leaderboard ranks the best scores of game.
func (s *Service) Leaderboard(ctx context.Context, game string, limit int) ([]economy.HighScoreEntry, error) {
	game = hearts.Key(game)
	if game == "" {
		return nil, fmt.Errorf("%w: game required", economy.ErrInvalidInput)
	}

	out, err := s.scores.Leaderboard(ctx, game, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}

	return out, nil
}
