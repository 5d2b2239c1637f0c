package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fastprodman/economyledger/internal/economy"
	"github.com/fastprodman/economyledger/internal/economy/rewards"
)

// ClaimDailyReward grants the daily gold once per calendar day and advances
// the login streak.
func (s *Service) ClaimDailyReward(ctx context.Context, userID uint64) (DailyRewardResult, error) {
	var now time.Time

	gold := s.cfg.DailyRewardGold

	saved, err := s.coord.Apply(ctx, userID, func(_ context.Context, _ *sql.Tx, l economy.UserLedger) (economy.UserLedger, economy.AuditEntry, error) {
		now = s.clock.Now()

		err := rewards.ApplyDaily(&l, gold, now, s.limits.Location)
		if err != nil {
			return l, economy.AuditEntry{}, err
		}

		return l, economy.AuditEntry{
			Purpose:      economy.PurposeDailyReward,
			RewardType:   economy.CurrencyGold,
			RewardAmount: decimal.NewFromInt(gold),
			OccurredAt:   now,
		}, nil
	})
	if err != nil {
		return DailyRewardResult{}, fmt.Errorf("claim daily reward: %w", err)
	}

	return DailyRewardResult{Ledger: s.view(saved, now), Gold: gold, Streak: saved.DailyRewardStreak}, nil
}
