package rewards

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/fastprodman/economyledger/internal/economy"
)

// Prize is one slot of the wheel. Weight is relative; the default table gives
// every slot the same weight.
type Prize struct {
	Currency economy.Currency `json:"currency"`
	Amount   decimal.Decimal  `json:"amount"`
	Weight   int              `json:"weight"`
}

func DefaultPrizes() []Prize {
	one := decimal.NewFromInt(1)

	return []Prize{
		{Currency: economy.CurrencyGold, Amount: decimal.NewFromInt(10), Weight: 1},
		{Currency: economy.CurrencyDiamonds, Amount: one, Weight: 1},
		{Currency: economy.CurrencyNone, Amount: decimal.Zero, Weight: 1},
		{Currency: economy.CurrencyGold, Amount: decimal.NewFromInt(50), Weight: 1},
		{Currency: economy.CurrencyBonusSpins, Amount: one, Weight: 1},
		{Currency: economy.CurrencyDiamonds, Amount: decimal.NewFromInt(5), Weight: 1},
		{Currency: economy.CurrencyGold, Amount: decimal.NewFromInt(100), Weight: 1},
		{Currency: economy.CurrencyNone, Amount: decimal.Zero, Weight: 1},
	}
}

// Picker draws a uniform integer in [0, n).
type Picker interface {
	Intn(n int) (int, error)
}

// CryptoPicker draws from crypto/rand.
type CryptoPicker struct{}

func (CryptoPicker) Intn(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("draw random: %w", err)
	}

	return int(v.Int64()), nil
}

// Wheel is an immutable, validated prize table.
type Wheel struct {
	prizes []Prize
	total  int
}

func NewWheel(prizes []Prize) (*Wheel, error) {
	if len(prizes) == 0 {
		return nil, fmt.Errorf("%w: empty prize table", economy.ErrInvalidInput)
	}

	total := 0

	for i, p := range prizes {
		switch p.Currency {
		case economy.CurrencyNone, economy.CurrencyGold, economy.CurrencyDiamonds, economy.CurrencyBonusSpins:
		default:
			return nil, fmt.Errorf("%w: prize %d has currency %q", economy.ErrInvalidInput, i, p.Currency)
		}

		if p.Weight <= 0 {
			return nil, fmt.Errorf("%w: prize %d has weight %d", economy.ErrInvalidInput, i, p.Weight)
		}

		if p.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: prize %d has negative amount", economy.ErrInvalidInput, i)
		}

		if p.Currency != economy.CurrencyDiamonds && !p.Amount.IsInteger() {
			return nil, fmt.Errorf("%w: prize %d needs a whole amount", economy.ErrInvalidInput, i)
		}

		total += p.Weight
	}

	return &Wheel{prizes: append([]Prize(nil), prizes...), total: total}, nil
}

func (w *Wheel) Prizes() []Prize {
	return append([]Prize(nil), w.prizes...)
}

// Pick selects a prize index by weight.
func (w *Wheel) Pick(p Picker) (int, error) {
	r, err := p.Intn(w.total)
	if err != nil {
		return 0, err
	}

	if r < 0 || r >= w.total {
		return 0, fmt.Errorf("picker returned %d outside [0,%d)", r, w.total)
	}

	for i, prize := range w.prizes {
		if r < prize.Weight {
			return i, nil
		}

		r -= prize.Weight
	}

	return len(w.prizes) - 1, nil
}

// Spin costs one bonus spin and credits the selected prize. A bonus-spin
// prize refunds the spin, so the net effect on BonusSpins is zero.
// The index is for display only; it is never taken from a caller.
func (w *Wheel) Spin(l *economy.UserLedger, p Picker) (int, Prize, error) {
	if l.BonusSpins < 1 {
		return 0, Prize{}, economy.ErrNoSpins
	}

	idx, err := w.Pick(p)
	if err != nil {
		return 0, Prize{}, fmt.Errorf("pick prize: %w", err)
	}

	prize := w.prizes[idx]

	l.BonusSpins--

	err = Credit(l, prize.Currency, prize.Amount)
	if err != nil {
		return 0, Prize{}, fmt.Errorf("credit prize: %w", err)
	}

	return idx, prize, nil
}
