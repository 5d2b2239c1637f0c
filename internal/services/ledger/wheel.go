package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fastprodman/economyledger/internal/economy"
	"github.com/fastprodman/economyledger/internal/economy/rewards"
)

// SpinWheel spends one bonus spin on a server-side draw.
func (s *Service) SpinWheel(ctx context.Context, userID uint64) (SpinResult, error) {
	var (
		now   time.Time
		idx   int
		prize rewards.Prize
	)

	saved, err := s.coord.Apply(ctx, userID, func(_ context.Context, _ *sql.Tx, l economy.UserLedger) (economy.UserLedger, economy.AuditEntry, error) {
		now = s.clock.Now()

		var err error

		idx, prize, err = s.wheel.Spin(&l, s.picker)
		if err != nil {
			return l, economy.AuditEntry{}, err
		}

		return l, economy.AuditEntry{
			Purpose:      economy.PurposeWheelSpin,
			RewardType:   prize.Currency,
			RewardAmount: prize.Amount,
			OccurredAt:   now,
		}, nil
	})
	if err != nil {
		return SpinResult{}, fmt.Errorf("spin wheel: %w", err)
	}

	return SpinResult{Ledger: s.view(saved, now), PrizeIndex: idx, Prize: prize}, nil
}
