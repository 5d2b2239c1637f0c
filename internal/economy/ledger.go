package economy

import (
	"fmt"
	"maps"
	"time"

	"github.com/shopspring/decimal"
)

// Currency identifies what a reward or a spend is denominated in.
type Currency string

const (
	CurrencyNone       Currency = "none"
	CurrencyGold       Currency = "gold"
	CurrencyDiamonds   Currency = "diamonds"
	CurrencyBonusSpins Currency = "bonus_spin"
	CurrencyHearts     Currency = "hearts"
)

// ParseCurrency accepts the wire names of currencies.
func ParseCurrency(s string) (Currency, error) {
	switch c := Currency(s); c {
	case CurrencyNone, CurrencyGold, CurrencyDiamonds, CurrencyBonusSpins, CurrencyHearts:
		return c, nil
	default:
		return "", fmt.Errorf("%w: unknown currency %q", ErrInvalidInput, s)
	}
}

// UserLedger is the authoritative per-user record of balances and counters.
// It is owned by the mutation coordinator; everything else sees copies.
type UserLedger struct {
	UserID     uint64
	ExternalID string

	Gold       int64
	Diamonds   decimal.Decimal
	BonusSpins int64

	// Hearts and HeartTimers are keyed by normalized game key. A game with no
	// timer entry has no replenishment due.
	Hearts      map[string]int
	HeartTimers map[string]time.Time

	LastDailyRewardClaimAt *time.Time
	DailyRewardStreak      int

	// CountersDay is the calendar day (YYYY-MM-DD) AdViewsToday and
	// AdSpinsUsedToday belong to. Empty means never counted.
	CountersDay      string
	AdViewsToday     int
	AdSpinsUsedToday int
	TotalAdsViews    int64

	ReferralsMade         int
	ReferralGoldEarned    decimal.Decimal
	ReferralDiamondEarned decimal.Decimal

	// DailyAdViewsLimit overrides the platform default when set.
	DailyAdViewsLimit *int

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy so a mutation can never write through to a
// snapshot someone else holds.
func (l UserLedger) Clone() UserLedger {
	c := l
	c.Hearts = maps.Clone(l.Hearts)
	c.HeartTimers = maps.Clone(l.HeartTimers)

	if c.Hearts == nil {
		c.Hearts = map[string]int{}
	}

	if c.HeartTimers == nil {
		c.HeartTimers = map[string]time.Time{}
	}

	if l.LastDailyRewardClaimAt != nil {
		t := *l.LastDailyRewardClaimAt
		c.LastDailyRewardClaimAt = &t
	}

	if l.DailyAdViewsLimit != nil {
		v := *l.DailyAdViewsLimit
		c.DailyAdViewsLimit = &v
	}

	return c
}

// AdViewsLimit resolves the per-user override against the platform default.
func (l UserLedger) AdViewsLimit(platformDefault int) int {
	if l.DailyAdViewsLimit != nil {
		return *l.DailyAdViewsLimit
	}

	return platformDefault
}

// Balances is the snapshot echoed in responses and recorded on audit entries.
func (l UserLedger) Balances() BalanceSnapshot {
	return BalanceSnapshot{
		Gold:       l.Gold,
		Diamonds:   l.Diamonds,
		BonusSpins: l.BonusSpins,
	}
}

// Validate checks the ledger invariants: nothing negative and no heart pool
// above its configured cap.
func (l UserLedger) Validate(heartCaps map[string]int) error {
	switch {
	case l.Gold < 0:
		return fmt.Errorf("%w: gold %d", ErrInvariantViolation, l.Gold)
	case l.Diamonds.IsNegative():
		return fmt.Errorf("%w: diamonds %s", ErrInvariantViolation, l.Diamonds)
	case l.BonusSpins < 0:
		return fmt.Errorf("%w: bonus spins %d", ErrInvariantViolation, l.BonusSpins)
	case l.AdViewsToday < 0 || l.AdSpinsUsedToday < 0 || l.TotalAdsViews < 0:
		return fmt.Errorf("%w: negative ad counter", ErrInvariantViolation)
	case l.DailyRewardStreak < 0 || l.ReferralsMade < 0:
		return fmt.Errorf("%w: negative streak or referral count", ErrInvariantViolation)
	case l.ReferralGoldEarned.IsNegative() || l.ReferralDiamondEarned.IsNegative():
		return fmt.Errorf("%w: negative referral earnings", ErrInvariantViolation)
	}

	for game, n := range l.Hearts {
		if n < 0 {
			return fmt.Errorf("%w: hearts[%s] = %d", ErrInvariantViolation, game, n)
		}

		limit, ok := heartCaps[game]
		if ok && n > limit {
			return fmt.Errorf("%w: hearts[%s] = %d above cap %d", ErrInvariantViolation, game, n, limit)
		}
	}

	return nil
}

// BalanceSnapshot is the subset of the ledger a client displays.
type BalanceSnapshot struct {
	Gold       int64           `json:"gold"`
	Diamonds   decimal.Decimal `json:"diamonds"`
	BonusSpins int64           `json:"bonusSpins"`
}
