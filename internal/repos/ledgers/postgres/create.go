package ledgers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/economyledger/internal/economy"
	"github.com/fastprodman/economyledger/internal/infra/pgutils"
	"github.com/fastprodman/economyledger/internal/repos/ledgers"
)

// Create inserts l and returns it with the generated id, version and
// timestamps.
func (r *ledgersRepo) Create(ctx context.Context, tx *sql.Tx, l economy.UserLedger) (economy.UserLedger, error) {
	a, err := argsOf(l)
	if err != nil {
		return economy.UserLedger{}, err
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO users (
			external_id, gold, diamonds, bonus_spins, hearts, heart_timers,
			last_daily_reward_claim, daily_reward_streak, counters_day,
			ad_views_today, ad_spins_used_today, total_ads_views,
			referrals_made, referral_gold_earned, referral_diamond_earned,
			daily_ad_views_limit
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING `+columns,
		l.ExternalID, l.Gold, l.Diamonds, l.BonusSpins, a.hearts, a.timers,
		a.lastClaim, l.DailyRewardStreak, a.countersDay,
		l.AdViewsToday, l.AdSpinsUsedToday, l.TotalAdsViews,
		l.ReferralsMade, l.ReferralGoldEarned, l.ReferralDiamondEarned,
		a.adLimit,
	)

	created, err := scanLedger(row)
	if err != nil {
		if pgutils.IsUniqueViolation(err) {
			return economy.UserLedger{}, ledgers.ErrDuplicateExternalID
		}

		return economy.UserLedger{}, fmt.Errorf("insert ledger: %w", err)
	}

	return created, nil
}
