package rewards

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fastprodman/economyledger/internal/economy"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAccrue_PaysOnlyGrowthPastWatermark(t *testing.T) {
	t.Parallel()

	link := economy.ReferralLink{
		ID:                  uuid.New(),
		ReferrerID:          1,
		ReferredID:          2,
		Status:              economy.ReferralActive,
		LastRewardedGold:    dec("100"),
		LastRewardedDiamond: dec("0"),
	}
	balances := map[uint64]economy.BalanceSnapshot{2: {Gold: 130, Diamonds: dec("0")}}

	a, err := Accrue([]economy.ReferralLink{link}, balances, dec("0.05"))
	if err != nil {
		t.Fatalf("Accrue: %v", err)
	}

	if !a.Gold.Equal(dec("1.5")) || !a.Diamonds.IsZero() {
		t.Fatalf("accrual = %s gold %s diamonds, want 1.5 / 0", a.Gold, a.Diamonds)
	}

	if len(a.Links) != 1 || !a.Links[0].GoldMark.Equal(dec("130")) || !a.Links[0].Changed() {
		t.Fatalf("watermark not advanced: %+v", a.Links)
	}

	// resolving again against the advanced watermark pays nothing
	link.LastRewardedGold = a.Links[0].GoldMark

	again, err := Accrue([]economy.ReferralLink{link}, balances, dec("0.05"))
	if err != nil {
		t.Fatalf("Accrue again: %v", err)
	}

	if !again.Gold.IsZero() || again.Links[0].Changed() {
		t.Fatalf("second resolution paid %s", again.Gold)
	}
}

func TestAccrue_SpendingDoesNotLowerWatermark(t *testing.T) {
	t.Parallel()

	link := economy.ReferralLink{
		ReferredID:          2,
		Status:              economy.ReferralActive,
		LastRewardedGold:    dec("100"),
		LastRewardedDiamond: dec("3"),
	}
	balances := map[uint64]economy.BalanceSnapshot{2: {Gold: 40, Diamonds: dec("1")}}

	a, err := Accrue([]economy.ReferralLink{link}, balances, dec("0.05"))
	if err != nil {
		t.Fatalf("Accrue: %v", err)
	}

	if !a.Gold.IsZero() || !a.Diamonds.IsZero() {
		t.Fatalf("paid on a shrinking balance: %s / %s", a.Gold, a.Diamonds)
	}

	if !a.Links[0].GoldMark.Equal(dec("100")) || !a.Links[0].DiamondMark.Equal(dec("3")) {
		t.Fatalf("watermark lowered: %+v", a.Links[0])
	}
}

func TestAccrue_SkipsInactiveAndUnknown(t *testing.T) {
	t.Parallel()

	links := []economy.ReferralLink{
		{ReferredID: 2, Status: economy.ReferralInactive, LastRewardedGold: dec("0"), LastRewardedDiamond: dec("0")},
		{ReferredID: 3, Status: economy.ReferralActive, LastRewardedGold: dec("0"), LastRewardedDiamond: dec("0")},
	}
	balances := map[uint64]economy.BalanceSnapshot{2: {Gold: 1000, Diamonds: dec("10")}}

	a, err := Accrue(links, balances, dec("0.05"))
	if err != nil {
		t.Fatalf("Accrue: %v", err)
	}

	if len(a.Links) != 0 || !a.Gold.IsZero() {
		t.Fatalf("unexpected accrual: %+v", a)
	}
}

func TestAccrue_RejectsBadPercent(t *testing.T) {
	t.Parallel()

	_, err := Accrue(nil, nil, dec("1.5"))
	if economy.Kind(err) != economy.KindInvalidInput {
		t.Fatalf("want InvalidInput, got %v", err)
	}
}

func TestApplyAccrual_CarriesGoldFractions(t *testing.T) {
	t.Parallel()

	l := economy.UserLedger{Diamonds: dec("0"), ReferralGoldEarned: dec("0"), ReferralDiamondEarned: dec("0")}

	credited := ApplyAccrual(&l, Accrual{Gold: dec("1.5"), Diamonds: dec("0.25")})
	if credited != 1 || l.Gold != 1 {
		t.Fatalf("first credit = %d, gold = %d", credited, l.Gold)
	}

	credited = ApplyAccrual(&l, Accrual{Gold: dec("0.5"), Diamonds: dec("0")})
	if credited != 1 || l.Gold != 2 {
		t.Fatalf("second credit = %d, gold = %d", credited, l.Gold)
	}

	if !l.ReferralGoldEarned.Equal(dec("2")) || !l.Diamonds.Equal(dec("0.25")) || !l.ReferralDiamondEarned.Equal(dec("0.25")) {
		t.Fatalf("earnings not tracked: %+v", l)
	}
}
