package rewards

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fastprodman/economyledger/internal/economy"
)

// accrualPlaces matches the scale of the numeric columns earnings are
// stored in.
const accrualPlaces = 4

// LinkAccrual is what one active referral link contributes in a resolution.
type LinkAccrual struct {
	LinkID     uuid.UUID
	ReferredID uint64

	GoldDelta    decimal.Decimal
	DiamondDelta decimal.Decimal
	Gold         decimal.Decimal
	Diamonds     decimal.Decimal

	GoldMark    decimal.Decimal
	DiamondMark decimal.Decimal
}

// Accrual is the result of resolving every link of one referrer.
type Accrual struct {
	Links    []LinkAccrual
	Gold     decimal.Decimal
	Diamonds decimal.Decimal
}

// Accrue computes the referrer's share of balance growth of each active
// referred user since its watermark. A balance below the watermark yields
// nothing and leaves the watermark where it is. Links whose referred user is
// absent from balances are skipped.
func Accrue(links []economy.ReferralLink, balances map[uint64]economy.BalanceSnapshot, percent decimal.Decimal) (Accrual, error) {
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(1)) {
		return Accrual{}, fmt.Errorf("%w: referral percent %s outside [0,1]", economy.ErrInvalidInput, percent)
	}

	out := Accrual{Gold: decimal.Zero, Diamonds: decimal.Zero}

	for _, link := range links {
		if link.Status != economy.ReferralActive {
			continue
		}

		bal, ok := balances[link.ReferredID]
		if !ok {
			continue
		}

		gold := decimal.NewFromInt(bal.Gold)
		goldDelta := positiveDelta(gold, link.LastRewardedGold)
		diamondDelta := positiveDelta(bal.Diamonds, link.LastRewardedDiamond)

		la := LinkAccrual{
			LinkID:       link.ID,
			ReferredID:   link.ReferredID,
			GoldDelta:    goldDelta,
			DiamondDelta: diamondDelta,
			Gold:         goldDelta.Mul(percent).Truncate(accrualPlaces),
			Diamonds:     diamondDelta.Mul(percent).Truncate(accrualPlaces),
			GoldMark:     decimal.Max(gold, link.LastRewardedGold),
			DiamondMark:  decimal.Max(bal.Diamonds, link.LastRewardedDiamond),
		}

		out.Links = append(out.Links, la)
		out.Gold = out.Gold.Add(la.Gold)
		out.Diamonds = out.Diamonds.Add(la.Diamonds)
	}

	return out, nil
}

// Changed reports whether the link's watermarks move.
func (la LinkAccrual) Changed() bool {
	return la.GoldDelta.IsPositive() || la.DiamondDelta.IsPositive()
}

// ApplyAccrual adds the accrual to the referrer. Gold balances are whole, so
// only the increase of the whole part of lifetime referral gold is credited
// and fractions carry into the next resolution. Diamonds are credited as is.
// It returns the gold actually credited.
func ApplyAccrual(l *economy.UserLedger, a Accrual) int64 {
	before := l.ReferralGoldEarned.Floor()
	l.ReferralGoldEarned = l.ReferralGoldEarned.Add(a.Gold)
	credited := l.ReferralGoldEarned.Floor().Sub(before).IntPart()

	l.Gold += credited
	l.ReferralDiamondEarned = l.ReferralDiamondEarned.Add(a.Diamonds)
	l.Diamonds = l.Diamonds.Add(a.Diamonds)

	return credited
}

func positiveDelta(current, mark decimal.Decimal) decimal.Decimal {
	d := current.Sub(mark)
	if d.IsNegative() {
		return decimal.Zero
	}

	return d
}
