package rewards

import (
	"time"

	"github.com/fastprodman/economyledger/internal/economy"
	"github.com/fastprodman/economyledger/internal/infra/clock"
)

const day = 24 * time.Hour

// NextStreak decides the streak after a claim at now. A claim on the same
// calendar day as the last one is rejected. One elapsed day (or less, across
// a calendar boundary) continues the streak; more than one restarts it.
func NextStreak(last *time.Time, streak int, now time.Time, loc *time.Location) (int, error) {
	if last == nil {
		return 1, nil
	}

	if clock.SameDay(*last, now, loc) {
		return streak, economy.ErrAlreadyClaimedToday
	}

	daysSince := int(now.Sub(*last) / day)
	if daysSince <= 1 {
		return streak + 1, nil
	}

	return 1, nil
}

// ClaimedToday reports whether the daily reward was already taken on now's
// calendar day.
func ClaimedToday(last *time.Time, now time.Time, loc *time.Location) bool {
	return last != nil && clock.SameDay(*last, now, loc)
}

// ApplyDaily advances the streak and credits the fixed daily gold.
func ApplyDaily(l *economy.UserLedger, gold int64, now time.Time, loc *time.Location) error {
	streak, err := NextStreak(l.LastDailyRewardClaimAt, l.DailyRewardStreak, now, loc)
	if err != nil {
		return err
	}

	l.DailyRewardStreak = streak
	l.Gold += gold

	claimed := now
	l.LastDailyRewardClaimAt = &claimed

	return nil
}
