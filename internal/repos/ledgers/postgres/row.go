package ledgers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fastprodman/economyledger/internal/economy"
	"github.com/fastprodman/economyledger/internal/economy/hearts"
)

const columns = `
	id, external_id, gold, diamonds, bonus_spins, hearts, heart_timers,
	last_daily_reward_claim, daily_reward_streak, counters_day,
	ad_views_today, ad_spins_used_today, total_ads_views,
	referrals_made, referral_gold_earned, referral_diamond_earned,
	daily_ad_views_limit, version, created_at, updated_at`

const dayLayout = "2006-01-02"

type scanner interface {
	Scan(dest ...any) error
}

func scanLedger(row scanner) (economy.UserLedger, error) {
	var (
		l           economy.UserLedger
		rawHearts   []byte
		rawTimers   []byte
		lastClaim   sql.NullTime
		countersDay sql.NullTime
		adLimit     sql.NullInt64
	)

	err := row.Scan(
		&l.UserID, &l.ExternalID, &l.Gold, &l.Diamonds, &l.BonusSpins, &rawHearts, &rawTimers,
		&lastClaim, &l.DailyRewardStreak, &countersDay,
		&l.AdViewsToday, &l.AdSpinsUsedToday, &l.TotalAdsViews,
		&l.ReferralsMade, &l.ReferralGoldEarned, &l.ReferralDiamondEarned,
		&adLimit, &l.Version, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return economy.UserLedger{}, err
	}

	l.Hearts, err = hearts.Decode(rawHearts)
	if err != nil {
		return economy.UserLedger{}, fmt.Errorf("decode hearts of user %d: %w", l.UserID, err)
	}

	l.HeartTimers, err = decodeTimers(rawTimers)
	if err != nil {
		return economy.UserLedger{}, fmt.Errorf("decode heart timers of user %d: %w", l.UserID, err)
	}

	if lastClaim.Valid {
		t := lastClaim.Time.UTC()
		l.LastDailyRewardClaimAt = &t
	}

	if countersDay.Valid {
		l.CountersDay = countersDay.Time.Format(dayLayout)
	}

	if adLimit.Valid {
		v := int(adLimit.Int64)
		l.DailyAdViewsLimit = &v
	}

	return l, nil
}

// rowArgs are the mutable columns in the order insert and update use them.
type rowArgs struct {
	hearts      []byte
	timers      []byte
	lastClaim   sql.NullTime
	countersDay sql.NullTime
	adLimit     sql.NullInt64
}

func argsOf(l economy.UserLedger) (rowArgs, error) {
	var a rowArgs

	var err error

	a.hearts, err = hearts.Encode(l.Hearts)
	if err != nil {
		return a, fmt.Errorf("encode hearts: %w", err)
	}

	a.timers, err = encodeTimers(l.HeartTimers)
	if err != nil {
		return a, fmt.Errorf("encode heart timers: %w", err)
	}

	if l.LastDailyRewardClaimAt != nil {
		a.lastClaim = sql.NullTime{Time: l.LastDailyRewardClaimAt.UTC(), Valid: true}
	}

	if l.CountersDay != "" {
		d, err := time.Parse(dayLayout, l.CountersDay)
		if err != nil {
			return a, fmt.Errorf("%w: counters day %q", economy.ErrInvalidInput, l.CountersDay)
		}

		a.countersDay = sql.NullTime{Time: d, Valid: true}
	}

	if l.DailyAdViewsLimit != nil {
		a.adLimit = sql.NullInt64{Int64: int64(*l.DailyAdViewsLimit), Valid: true}
	}

	return a, nil
}

func decodeTimers(raw []byte) (map[string]time.Time, error) {
	out := map[string]time.Time{}
	if len(raw) == 0 || string(raw) == "null" {
		return out, nil
	}

	var m map[string]*time.Time

	err := json.Unmarshal(raw, &m)
	if err != nil {
		return nil, err
	}

	for game, t := range m {
		if t == nil {
			continue
		}

		out[hearts.Key(game)] = t.UTC()
	}

	return out, nil
}

func encodeTimers(m map[string]time.Time) ([]byte, error) {
	if m == nil {
		m = map[string]time.Time{}
	}

	return json.Marshal(m)
}
