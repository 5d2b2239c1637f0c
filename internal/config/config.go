package config

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fastprodman/economyledger/internal/economy/hearts"
)

type PostgresConfig struct {
	DSN             string        `env:"PG_DSN"`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" envDefault:"10"`
	ConnMaxIdleTime time.Duration `env:"PG_CONN_MAX_IDLE_TIME" envDefault:"5m"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" envDefault:"30m"`
	LockTimeout     time.Duration `env:"PG_LOCK_TIMEOUT" envDefault:"1s"`
}

type HTTPConfig struct {
	Port            uint16        `env:"APP_PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL" envDefault:"INFO"`
}

// EconomyConfig holds every tunable number of the economy.
type EconomyConfig struct {
	DailyAdViewsLimit         int             `env:"DAILY_AD_VIEWS_LIMIT" envDefault:"50"`
	DailySpinAdsLimit         int             `env:"DAILY_SPIN_ADS_LIMIT" envDefault:"5"`
	HeartGames                GameCaps        `env:"HEART_GAMES" envDefault:"runner:3,stack:3,match3:5"`
	HeartRegenInterval        time.Duration   `env:"HEART_REGEN_INTERVAL" envDefault:"3h"`
	DailyRewardGold           int64           `env:"DAILY_REWARD_GOLD" envDefault:"100"`
	ReferralPercent           decimal.Decimal `env:"REFERRAL_PERCENT" envDefault:"0.05"`
	ReferralActivationAdViews int             `env:"REFERRAL_ACTIVATION_AD_VIEWS" envDefault:"1"`
	AdDiamondReward           decimal.Decimal `env:"AD_DIAMOND_REWARD" envDefault:"1"`
	AdGoldReward              int64           `env:"AD_GOLD_REWARD" envDefault:"25"`
	ScoreGoldDivisor          int64           `env:"SCORE_GOLD_DIVISOR" envDefault:"10"`
	StartingGold              int64           `env:"STARTING_GOLD" envDefault:"0"`
	StartingSpins             int64           `env:"STARTING_SPINS" envDefault:"1"`
	DayBoundary               Location        `env:"DAY_BOUNDARY_TZ" envDefault:"UTC"`
	MutationMaxRetries        int             `env:"MUTATION_MAX_RETRIES" envDefault:"5"`
	MutationLockTimeout       time.Duration   `env:"MUTATION_LOCK_TIMEOUT" envDefault:"2s"`
}

// Validate rejects configurations the economy cannot run with.
func (c EconomyConfig) Validate() error {
	switch {
	case len(c.HeartGames) == 0:
		return fmt.Errorf("HEART_GAMES: at least one game required")
	case c.HeartRegenInterval <= 0:
		return fmt.Errorf("HEART_REGEN_INTERVAL must be positive")
	case c.ReferralPercent.IsNegative() || c.ReferralPercent.GreaterThan(decimal.NewFromInt(1)):
		return fmt.Errorf("REFERRAL_PERCENT must be within [0,1]")
	case c.AdDiamondReward.IsNegative() || c.AdGoldReward < 0 || c.DailyRewardGold < 0:
		return fmt.Errorf("rewards must not be negative")
	case c.StartingGold < 0 || c.StartingSpins < 0:
		return fmt.Errorf("starting balances must not be negative")
	case c.MutationMaxRetries < 1:
		return fmt.Errorf("MUTATION_MAX_RETRIES must be at least 1")
	}

	return nil
}

// GameCaps maps a game key to its heart cap. Its text form is
// "runner:3,stack:5".
type GameCaps map[string]int

func (g *GameCaps) UnmarshalText(text []byte) error {
	out := GameCaps{}

	for _, part := range strings.Split(string(text), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		name, rawCap, ok := strings.Cut(part, ":")
		if !ok {
			return fmt.Errorf("game cap %q: want game:cap", part)
		}

		key := hearts.Key(name)
		if key == "" {
			return fmt.Errorf("game cap %q: empty game", part)
		}

		limit, err := strconv.Atoi(strings.TrimSpace(rawCap))
		if err != nil || limit < 1 {
			return fmt.Errorf("game cap %q: cap must be a positive integer", part)
		}

		out[key] = limit
	}

	*g = out

	return nil
}

func (g GameCaps) String() string {
	parts := make([]string, 0, len(g))
	for _, k := range slices.Sorted(maps.Keys(g)) {
		parts = append(parts, fmt.Sprintf("%s:%d", k, g[k]))
	}

	return strings.Join(parts, ",")
}

// Location is a time zone given by IANA name.
type Location struct{ *time.Location }

func (l *Location) UnmarshalText(text []byte) error {
	loc, err := time.LoadLocation(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("load location: %w", err)
	}

	l.Location = loc

	return nil
}

// Get returns the zone, UTC when unset.
func (l Location) Get() *time.Location {
	if l.Location == nil {
		return time.UTC
	}

	return l.Location
}
