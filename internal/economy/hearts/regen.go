// Package hearts implements per-game consumable play credits: capped pools
// that regenerate one heart per elapsed interval.
package hearts

import (
	"fmt"
	"time"

	"github.com/fastprodman/economyledger/internal/economy"
)

// Config is the immutable platform configuration for heart pools.
type Config struct {
	Caps     map[string]int
	Interval time.Duration
}

// Cap returns the configured maximum for game.
func (c Config) Cap(game string) (int, error) {
	limit, ok := c.Caps[game]
	if !ok {
		return 0, fmt.Errorf("%w: unknown game %q", economy.ErrInvalidInput, game)
	}

	return limit, nil
}

// Replenish credits one heart per whole interval elapsed since last, never
// past limit. last moves forward by exactly the intervals credited, so the
// remainder keeps counting toward the next heart. A nil last means no
// replenishment is due.
func Replenish(count int, last *time.Time, now time.Time, interval time.Duration, limit int) (int, *time.Time) {
	if last == nil || interval <= 0 {
		return count, last
	}

	t := *last
	for count < limit && now.Sub(t) >= interval {
		count++
		t = t.Add(interval)
	}

	return count, &t
}

// NextHeartIn is the wait until the next heart, or nil when the pool is full
// or its timer is not running.
func NextHeartIn(count int, last *time.Time, now time.Time, interval time.Duration, limit int) *time.Duration {
	if count >= limit || last == nil || interval <= 0 {
		return nil
	}

	elapsed := max(now.Sub(*last), 0)
	d := interval - elapsed%interval

	return &d
}

// Refresh brings every configured pool of l up to date. Games missing from
// the ledger start full.
func Refresh(l *economy.UserLedger, cfg Config, now time.Time) {
	if l.Hearts == nil {
		l.Hearts = make(map[string]int, len(cfg.Caps))
	}

	if l.HeartTimers == nil {
		l.HeartTimers = make(map[string]time.Time)
	}

	for game, limit := range cfg.Caps {
		count, ok := l.Hearts[game]
		if !ok {
			l.Hearts[game] = limit
			continue
		}

		count = min(count, limit)

		last := timerOf(l, game)
		count, last = Replenish(count, last, now, cfg.Interval, limit)

		l.Hearts[game] = count
		if last != nil {
			l.HeartTimers[game] = *last
		}
	}
}

// Use consumes one heart of game. The regeneration timer starts only when the
// pool leaves the full state (or has never run), so spending more hearts
// while already regenerating cannot push the next heart further away.
func Use(l *economy.UserLedger, cfg Config, game string, now time.Time) error {
	limit, err := cfg.Cap(game)
	if err != nil {
		return err
	}

	Refresh(l, cfg, now)

	count := l.Hearts[game]
	if count == 0 {
		return economy.ErrNoHearts
	}

	l.Hearts[game] = count - 1

	_, running := l.HeartTimers[game]
	if count == limit || !running {
		l.HeartTimers[game] = now
	}

	return nil
}

// AddFromAd grants one heart of game, failing when the pool is already full.
func AddFromAd(l *economy.UserLedger, cfg Config, game string, now time.Time) error {
	limit, err := cfg.Cap(game)
	if err != nil {
		return err
	}

	Refresh(l, cfg, now)

	if l.Hearts[game] >= limit {
		return economy.ErrResourceFull
	}

	l.Hearts[game]++

	return nil
}

// GameStatus is the read projection of one pool.
type GameStatus struct {
	Hearts      int            `json:"hearts"`
	Max         int            `json:"max"`
	NextHeartIn *time.Duration `json:"-"`
}

// Status projects every configured pool at now without touching l.
func Status(l economy.UserLedger, cfg Config, now time.Time) map[string]GameStatus {
	c := l.Clone()
	Refresh(&c, cfg, now)

	out := make(map[string]GameStatus, len(cfg.Caps))
	for game, limit := range cfg.Caps {
		count := c.Hearts[game]
		out[game] = GameStatus{
			Hearts:      count,
			Max:         limit,
			NextHeartIn: NextHeartIn(count, timerOf(&c, game), now, cfg.Interval, limit),
		}
	}

	return out
}

func timerOf(l *economy.UserLedger, game string) *time.Time {
	t, ok := l.HeartTimers[game]
	if !ok {
		return nil
	}

	return &t
}
