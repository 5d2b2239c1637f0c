package ledgers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/economyledger/internal/economy"
	"github.com/fastprodman/economyledger/internal/repos/ledgers"
)

// Save writes every mutable column of l if the stored version still equals
// l.Version, and returns l with the bumped version.
func (r *ledgersRepo) Save(ctx context.Context, tx *sql.Tx, l economy.UserLedger) (economy.UserLedger, error) {
	a, err := argsOf(l)
	if err != nil {
		return economy.UserLedger{}, err
	}

	err = tx.QueryRowContext(ctx, `
		UPDATE users SET
			gold = $3,
			diamonds = $4,
			bonus_spins = $5,
			hearts = $6,
			heart_timers = $7,
			last_daily_reward_claim = $8,
			daily_reward_streak = $9,
			counters_day = $10,
			ad_views_today = $11,
			ad_spins_used_today = $12,
			total_ads_views = $13,
			referrals_made = $14,
			referral_gold_earned = $15,
			referral_diamond_earned = $16,
			daily_ad_views_limit = $17,
			version = version + 1,
			updated_at = now()
		WHERE id = $1 AND version = $2
		RETURNING version, updated_at
	`,
		l.UserID, l.Version,
		l.Gold, l.Diamonds, l.BonusSpins, a.hearts, a.timers,
		a.lastClaim, l.DailyRewardStreak, a.countersDay,
		l.AdViewsToday, l.AdSpinsUsedToday, l.TotalAdsViews,
		l.ReferralsMade, l.ReferralGoldEarned, l.ReferralDiamondEarned,
		a.adLimit,
	).Scan(&l.Version, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return economy.UserLedger{}, fmt.Errorf("save ledger %d at version %d: %w", l.UserID, l.Version, ledgers.ErrVersionConflict)
		}

		return economy.UserLedger{}, fmt.Errorf("save ledger %d: %w", l.UserID, err)
	}

	return l, nil
}
