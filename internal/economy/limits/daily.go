// Package limits enforces the daily caps on earning actions. Counters live on
// the ledger and are reset lazily: the first action on a new calendar day
// zeroes them, no scheduler involved.
package limits

import (
	"fmt"
	"time"

	"github.com/fastprodman/economyledger/internal/economy"
	"github.com/fastprodman/economyledger/internal/infra/clock"
)

// Counter selects one of the independent daily counters.
type Counter string

const (
	AdViews Counter = "ad_views"
	SpinAds Counter = "spin_ads"
)

type Config struct {
	// DailyAdViews is the platform default; a ledger may override it.
	DailyAdViews int
	DailySpinAds int
	Location     *time.Location
}

// Rollover zeroes both counters when now falls on a later calendar day than
// the one they were counted on. It reports whether a reset happened.
func Rollover(l *economy.UserLedger, now time.Time, loc *time.Location) bool {
	today := clock.Day(now, loc)
	if l.CountersDay == today {
		return false
	}

	l.CountersDay = today
	l.AdViewsToday = 0
	l.AdSpinsUsedToday = 0

	return true
}

// Admit checks used against limit. A limit of zero or less admits nothing.
func Admit(used, limit int) error {
	if used >= limit {
		return fmt.Errorf("%w: %d of %d used", economy.ErrDailyLimitReached, used, limit)
	}

	return nil
}

// Remaining is how many more actions limit allows today.
func Remaining(used, limit int) int {
	return max(limit-used, 0)
}

// Consume rolls the counters over if needed, admits one action against the
// selected counter and increments it. On rejection l is left as it was
// apart from the rollover, which is idempotent.
func Consume(l *economy.UserLedger, cfg Config, c Counter, now time.Time) error {
	Rollover(l, now, cfg.Location)

	switch c {
	case AdViews:
		err := Admit(l.AdViewsToday, l.AdViewsLimit(cfg.DailyAdViews))
		if err != nil {
			return err
		}

		l.AdViewsToday++
	case SpinAds:
		err := Admit(l.AdSpinsUsedToday, cfg.DailySpinAds)
		if err != nil {
			return err
		}

		l.AdSpinsUsedToday++
	default:
		return fmt.Errorf("%w: unknown counter %q", economy.ErrInvalidInput, c)
	}

	return nil
}

// Usage is the read projection of both counters at now.
type Usage struct {
	AdViewsUsed      int `json:"adViewsUsed"`
	AdViewsLimit     int `json:"adViewsLimit"`
	AdViewsRemaining int `json:"adViewsRemaining"`
	SpinAdsUsed      int `json:"spinAdsUsed"`
	SpinAdsLimit     int `json:"spinAdsLimit"`
	SpinAdsRemaining int `json:"spinAdsRemaining"`
}

func Snapshot(l economy.UserLedger, cfg Config, now time.Time) Usage {
	Rollover(&l, now, cfg.Location)

	adLimit := l.AdViewsLimit(cfg.DailyAdViews)

	return Usage{
		AdViewsUsed:      l.AdViewsToday,
		AdViewsLimit:     adLimit,
		AdViewsRemaining: Remaining(l.AdViewsToday, adLimit),
		SpinAdsUsed:      l.AdSpinsUsedToday,
		SpinAdsLimit:     cfg.DailySpinAds,
		SpinAdsRemaining: Remaining(l.AdSpinsUsedToday, cfg.DailySpinAds),
	}
}
