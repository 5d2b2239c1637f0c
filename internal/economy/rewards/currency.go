// Package rewards holds the pure reward rules: flat ad rewards, the prize
// wheel, the daily streak, referral delta accrual and score evaluation.
// Nothing here touches storage; every function works on a ledger copy the
// coordinator discards if the rule rejects.
package rewards

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fastprodman/economyledger/internal/economy"
)

// Credit adds amount of c to the ledger. Integer currencies reject
// fractional amounts.
func Credit(l *economy.UserLedger, c economy.Currency, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: negative credit %s", economy.ErrInvalidInput, amount)
	}

	switch c {
	case economy.CurrencyNone:
		return nil
	case economy.CurrencyGold:
		n, err := whole(amount)
		if err != nil {
			return err
		}

		l.Gold += n
	case economy.CurrencyBonusSpins:
		n, err := whole(amount)
		if err != nil {
			return err
		}

		l.BonusSpins += n
	case economy.CurrencyDiamonds:
		l.Diamonds = l.Diamonds.Add(amount)
	default:
		return fmt.Errorf("%w: cannot credit %q", economy.ErrInvalidInput, c)
	}

	return nil
}

// Debit removes amount of c, failing with ErrInsufficientBalance rather than
// going negative.
func Debit(l *economy.UserLedger, c economy.Currency, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: debit must be positive, got %s", economy.ErrInvalidInput, amount)
	}

	switch c {
	case economy.CurrencyGold:
		n, err := whole(amount)
		if err != nil {
			return err
		}

		if l.Gold < n {
			return fmt.Errorf("%w: have %d gold, need %d", economy.ErrInsufficientBalance, l.Gold, n)
		}

		l.Gold -= n
	case economy.CurrencyDiamonds:
		if l.Diamonds.LessThan(amount) {
			return fmt.Errorf("%w: have %s diamonds, need %s", economy.ErrInsufficientBalance, l.Diamonds, amount)
		}

		l.Diamonds = l.Diamonds.Sub(amount)
	default:
		return fmt.Errorf("%w: cannot spend %q", economy.ErrInvalidInput, c)
	}

	return nil
}

func whole(amount decimal.Decimal) (int64, error) {
	if !amount.IsInteger() {
		return 0, fmt.Errorf("%w: %s is not a whole amount", economy.ErrInvalidInput, amount)
	}

	return amount.IntPart(), nil
}
