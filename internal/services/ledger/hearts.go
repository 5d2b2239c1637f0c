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

// UseHeart spends one heart of game before a play.
func (s *Service) UseHeart(ctx context.Context, userID uint64, game string) (HeartResult, error) {
	game = hearts.Key(game)

	_, err := s.hearts.Cap(game)
	if err != nil {
		return HeartResult{}, err
	}

	var now time.Time

	saved, err := s.coord.Apply(ctx, userID, func(_ context.Context, _ *sql.Tx, l economy.UserLedger) (economy.UserLedger, economy.AuditEntry, error) {
		now = s.clock.Now()

		err := hearts.Use(&l, s.hearts, game, now)
		if err != nil {
			return l, economy.AuditEntry{}, err
		}

		return l, economy.AuditEntry{
			Purpose:      economy.PurposeHeartUsed,
			RewardType:   economy.CurrencyHearts,
			RewardAmount: decimal.NewFromInt(-1),
			OccurredAt:   now,
		}, nil
	})
	if err != nil {
		return HeartResult{}, fmt.Errorf("use %s heart: %w", game, err)
	}

	v := s.view(saved, now)

	return HeartResult{Ledger: v, Game: game, Heart: v.Hearts[game]}, nil
}

// AddHeartFromAd grants one heart of game for a completed ad.
func (s *Service) AddHeartFromAd(ctx context.Context, userID uint64, game string, source economy.Source) (HeartResult, error) {
	game = hearts.Key(game)

	res, err := s.WatchAd(ctx, userID, AdRequest{Purpose: string(rewards.AdHeart), Game: game, Source: source})
	if err != nil {
		return HeartResult{}, err
	}

	return HeartResult{Ledger: res.Ledger, Game: game, Heart: res.Ledger.Hearts[game]}, nil
}
