package hearts

import (
	"errors"
	"testing"
	"time"

	"github.com/fastprodman/economyledger/internal/economy"
)

var base = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

func ptr(t time.Time) *time.Time { return &t }

func TestReplenish_Table(t *testing.T) {
	t.Parallel()

	const interval = 3 * time.Hour

	tests := []struct {
		name      string
		count     int
		last      *time.Time
		elapsed   time.Duration
		limit     int
		wantCount int
		wantLast  *time.Time
	}{
		{
			name:      "missed_intervals_capped_in_one_pass",
			count:     1,
			last:      ptr(base),
			elapsed:   7 * time.Hour,
			limit:     3,
			wantCount: 3,
			wantLast:  ptr(base.Add(2 * interval)),
		},
		{
			name:      "partial_interval_gives_nothing",
			count:     1,
			last:      ptr(base),
			elapsed:   interval - time.Second,
			limit:     3,
			wantCount: 1,
			wantLast:  ptr(base),
		},
		{
			name:      "exact_interval_gives_one",
			count:     0,
			last:      ptr(base),
			elapsed:   interval,
			limit:     5,
			wantCount: 1,
			wantLast:  ptr(base.Add(interval)),
		},
		{
			name:      "remainder_is_kept",
			count:     0,
			last:      ptr(base),
			elapsed:   2*interval + time.Hour,
			limit:     5,
			wantCount: 2,
			wantLast:  ptr(base.Add(2 * interval)),
		},
		{
			name:      "nil_timer_never_replenishes",
			count:     0,
			last:      nil,
			elapsed:   100 * time.Hour,
			limit:     3,
			wantCount: 0,
			wantLast:  nil,
		},
		{
			name:      "full_pool_unchanged",
			count:     3,
			last:      ptr(base),
			elapsed:   10 * time.Hour,
			limit:     3,
			wantCount: 3,
			wantLast:  ptr(base),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gotCount, gotLast := Replenish(tt.count, tt.last, base.Add(tt.elapsed), interval, tt.limit)

			if gotCount != tt.wantCount {
				t.Fatalf("count: want %d, got %d", tt.wantCount, gotCount)
			}

			switch {
			case tt.wantLast == nil && gotLast != nil:
				t.Fatalf("last: want nil, got %s", gotLast)
			case tt.wantLast != nil && (gotLast == nil || !gotLast.Equal(*tt.wantLast)):
				t.Fatalf("last: want %s, got %v", tt.wantLast, gotLast)
			}
		})
	}
}

func TestNextHeartIn(t *testing.T) {
	t.Parallel()

	const interval = 3 * time.Hour

	got := NextHeartIn(1, ptr(base), base.Add(time.Hour), interval, 3)
	if got == nil || *got != 2*time.Hour {
		t.Fatalf("want 2h, got %v", got)
	}

	if got := NextHeartIn(3, ptr(base), base.Add(time.Hour), interval, 3); got != nil {
		t.Fatalf("full pool: want nil, got %v", *got)
	}

	if got := NextHeartIn(1, nil, base, interval, 3); got != nil {
		t.Fatalf("stopped timer: want nil, got %v", *got)
	}

	// clock behind the timer: a whole interval remains
	got = NextHeartIn(1, ptr(base), base.Add(-time.Minute), interval, 3)
	if got == nil || *got != interval {
		t.Fatalf("skewed clock: want %s, got %v", interval, got)
	}
}

func newLedger(hearts map[string]int) economy.UserLedger {
	return economy.UserLedger{Hearts: hearts, HeartTimers: map[string]time.Time{}}
}

func TestUse_StartsTimerOnlyWhenLeavingFull(t *testing.T) {
	t.Parallel()

	cfg := Config{Caps: map[string]int{"runner": 3}, Interval: 3 * time.Hour}
	l := newLedger(map[string]int{"runner": 3})

	err := Use(&l, cfg, "runner", base)
	if err != nil {
		t.Fatalf("first use: %v", err)
	}

	if !l.HeartTimers["runner"].Equal(base) {
		t.Fatalf("timer should start at first use, got %s", l.HeartTimers["runner"])
	}

	// second use an hour later must not restart the clock
	err = Use(&l, cfg, "runner", base.Add(time.Hour))
	if err != nil {
		t.Fatalf("second use: %v", err)
	}

	if !l.HeartTimers["runner"].Equal(base) {
		t.Fatalf("timer restarted on non-full use: %s", l.HeartTimers["runner"])
	}

	if l.Hearts["runner"] != 1 {
		t.Fatalf("hearts: want 1, got %d", l.Hearts["runner"])
	}

	// 3h after the first use one heart has regenerated
	err = Use(&l, cfg, "runner", base.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("third use: %v", err)
	}

	if l.Hearts["runner"] != 1 {
		t.Fatalf("hearts after regen+use: want 1, got %d", l.Hearts["runner"])
	}
}

func TestUse_EmptyPoolFailsWithoutSideEffects(t *testing.T) {
	t.Parallel()

	cfg := Config{Caps: map[string]int{"runner": 3}, Interval: 3 * time.Hour}
	l := newLedger(map[string]int{"runner": 0})
	l.HeartTimers["runner"] = base

	err := Use(&l, cfg, "runner", base.Add(time.Hour))
	if !errors.Is(err, economy.ErrNoHearts) {
		t.Fatalf("want ErrNoHearts, got %v", err)
	}

	if !errors.Is(err, economy.ErrInsufficientResource) {
		t.Fatalf("ErrNoHearts must classify as InsufficientResource")
	}

	if l.Hearts["runner"] != 0 || !l.HeartTimers["runner"].Equal(base) {
		t.Fatalf("pool changed on failure: %v %v", l.Hearts, l.HeartTimers)
	}
}

func TestUse_UnknownGame(t *testing.T) {
	t.Parallel()

	cfg := Config{Caps: map[string]int{"runner": 3}, Interval: time.Hour}
	l := newLedger(nil)

	err := Use(&l, cfg, "chess", base)
	if !errors.Is(err, economy.ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}

func TestAddFromAd(t *testing.T) {
	t.Parallel()

	cfg := Config{Caps: map[string]int{"runner": 3}, Interval: 3 * time.Hour}

	l := newLedger(map[string]int{"runner": 2})
	l.HeartTimers["runner"] = base

	err := AddFromAd(&l, cfg, "runner", base.Add(time.Hour))
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if l.Hearts["runner"] != 3 {
		t.Fatalf("want 3, got %d", l.Hearts["runner"])
	}

	err = AddFromAd(&l, cfg, "runner", base.Add(time.Hour))
	if !errors.Is(err, economy.ErrResourceFull) {
		t.Fatalf("want ErrResourceFull, got %v", err)
	}

	if l.Hearts["runner"] != 3 {
		t.Fatalf("cap exceeded: %d", l.Hearts["runner"])
	}
}

func TestRefresh_NewGameStartsFullAndClampsAboveCap(t *testing.T) {
	t.Parallel()

	cfg := Config{Caps: map[string]int{"runner": 3, "stack": 5}, Interval: time.Hour}
	l := newLedger(map[string]int{"runner": 9})

	Refresh(&l, cfg, base)

	if l.Hearts["stack"] != 5 {
		t.Fatalf("new game: want full 5, got %d", l.Hearts["stack"])
	}

	if l.Hearts["runner"] != 3 {
		t.Fatalf("over-cap pool: want 3, got %d", l.Hearts["runner"])
	}
}

func TestStatus_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	cfg := Config{Caps: map[string]int{"runner": 3}, Interval: 3 * time.Hour}
	l := newLedger(map[string]int{"runner": 1})
	l.HeartTimers["runner"] = base

	st := Status(l, cfg, base.Add(4*time.Hour))

	if st["runner"].Hearts != 2 || st["runner"].Max != 3 {
		t.Fatalf("projection: %+v", st["runner"])
	}

	if st["runner"].NextHeartIn == nil || *st["runner"].NextHeartIn != 2*time.Hour {
		t.Fatalf("next heart: want 2h, got %v", st["runner"].NextHeartIn)
	}

	if l.Hearts["runner"] != 1 {
		t.Fatalf("input ledger mutated: %d", l.Hearts["runner"])
	}
}

func TestCapInvariant_NeverExceeded(t *testing.T) {
	t.Parallel()

	cfg := Config{Caps: map[string]int{"runner": 3}, Interval: time.Hour}
	l := newLedger(map[string]int{"runner": 3})
	now := base

	for i := range 200 {
		now = now.Add(37 * time.Minute)

		switch i % 3 {
		case 0:
			_ = Use(&l, cfg, "runner", now)
		case 1:
			_ = AddFromAd(&l, cfg, "runner", now)
		default:
			Refresh(&l, cfg, now)
		}

		if n := l.Hearts["runner"]; n < 0 || n > 3 {
			t.Fatalf("step %d: hearts out of bounds: %d", i, n)
		}
	}
}
