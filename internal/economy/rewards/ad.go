package rewards

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fastprodman/economyledger/internal/economy"
	"github.com/fastprodman/economyledger/internal/economy/hearts"
	"github.com/fastprodman/economyledger/internal/economy/limits"
)

// AdPurpose is the intent a client declares when it reports a finished ad.
type AdPurpose string

const (
	AdDiamond AdPurpose = "diamond"
	AdGold    AdPurpose = "gold"
	AdHeart   AdPurpose = "heart"
	AdSpin    AdPurpose = "spin"
)

// AdRule is what one admitted view of a purpose is worth.
type AdRule struct {
	Purpose  economy.Purpose
	Counter  limits.Counter
	Currency economy.Currency
	Amount   decimal.Decimal
}

type AdTable map[AdPurpose]AdRule

func DefaultAdTable(diamonds decimal.Decimal, gold int64) AdTable {
	return AdTable{
		AdDiamond: {Purpose: economy.PurposeAdDiamond, Counter: limits.AdViews, Currency: economy.CurrencyDiamonds, Amount: diamonds},
		AdGold:    {Purpose: economy.PurposeAdGold, Counter: limits.AdViews, Currency: economy.CurrencyGold, Amount: decimal.NewFromInt(gold)},
		AdHeart:   {Purpose: economy.PurposeAdHeart, Counter: limits.AdViews, Currency: economy.CurrencyHearts, Amount: decimal.NewFromInt(1)},
		AdSpin:    {Purpose: economy.PurposeAdSpin, Counter: limits.SpinAds, Currency: economy.CurrencyBonusSpins, Amount: decimal.NewFromInt(1)},
	}
}

func (t AdTable) Rule(purpose string) (AdRule, error) {
	r, ok := t[AdPurpose(purpose)]
	if !ok {
		return AdRule{}, fmt.Errorf("%w: unknown ad purpose %q", economy.ErrInvalidInput, purpose)
	}

	return r, nil
}

// AdEnv is the configuration an ad view is judged against.
type AdEnv struct {
	Limits limits.Config
	Hearts hearts.Config
	Now    time.Time
}

// ApplyAd admits one view against its daily counter and credits the rule's
// reward. game is only used by heart rewards.
func ApplyAd(l *economy.UserLedger, rule AdRule, env AdEnv, game string) error {
	err := limits.Consume(l, env.Limits, rule.Counter, env.Now)
	if err != nil {
		return fmt.Errorf("admit ad view: %w", err)
	}

	if rule.Currency == economy.CurrencyHearts {
		err = hearts.AddFromAd(l, env.Hearts, game, env.Now)
	} else {
		err = Credit(l, rule.Currency, rule.Amount)
	}

	if err != nil {
		return fmt.Errorf("credit ad reward: %w", err)
	}

	l.TotalAdsViews++

	return nil
}
