package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fastprodman/economyledger/internal/config"
	"github.com/fastprodman/economyledger/internal/economy"
	"github.com/fastprodman/economyledger/internal/economy/rewards"
	"github.com/fastprodman/economyledger/internal/infra/clock"
	"github.com/fastprodman/economyledger/internal/repos/memory"
)

var start = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

func testConfig() config.EconomyConfig {
	return config.EconomyConfig{
		DailyAdViewsLimit:         3,
		DailySpinAdsLimit:         2,
		HeartGames:                config.GameCaps{"runner": 3},
		HeartRegenInterval:        3 * time.Hour,
		DailyRewardGold:           100,
		ReferralPercent:           decimal.RequireFromString("0.05"),
		ReferralActivationAdViews: 1,
		AdDiamondReward:           decimal.NewFromInt(1),
		AdGoldReward:              25,
		ScoreGoldDivisor:          10,
		StartingSpins:             1,
		MutationMaxRetries:        3,
		MutationLockTimeout:       5 * time.Second,
	}
}

// fixedPicker always lands on the same slot.
type fixedPicker int

func (p fixedPicker) Intn(n int) (int, error) {
	return int(p) % n, nil
}

type fixture struct {
	svc   *Service
	store *memory.Store
	clk   *clock.Manual
}

func newFixture(t *testing.T, cfg config.EconomyConfig) fixture {
	t.Helper()

	return newFixtureWithPicker(t, cfg, fixedPicker(0))
}

func newFixtureWithPicker(t *testing.T, cfg config.EconomyConfig, picker rewards.Picker) fixture {
	t.Helper()

	store := memory.New()
	clk := clock.NewManual(start)

	svc, err := New(Deps{
		Runner:    store,
		Ledgers:   store.Ledgers(),
		Audit:     store.Audit(),
		Referrals: store.Referrals(),
		Scores:    store.Scores(),
		Tasks:     store.Tasks(),
		Clock:     clk,
		Picker:    picker,
	}, cfg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	return fixture{svc: svc, store: store, clk: clk}
}

func (f fixture) register(t *testing.T, externalID string, referrer *uint64) uint64 {
	t.Helper()

	v, created, err := f.svc.Register(t.Context(), externalID, referrer)
	if err != nil {
		t.Fatalf("register %q: %v", externalID, err)
	}

	if !created {
		t.Fatalf("register %q: ledger already existed", externalID)
	}

	return v.UserID
}

func (f fixture) ledger(t *testing.T, userID uint64) View {
	t.Helper()

	v, err := f.svc.Ledger(t.Context(), userID)
	if err != nil {
		t.Fatalf("ledger %d: %v", userID, err)
	}

	return v
}

func TestNew_RejectsBadConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.HeartGames = nil

	_, err := NewMemory(memory.New(), nil, cfg)
	if err == nil {
		t.Fatal("expected error for config without games")
	}

	_, err = New(Deps{Prizes: []rewards.Prize{}}, testConfig())
	if !errors.Is(err, economy.ErrInvalidInput) {
		t.Fatalf("empty wheel err = %v", err)
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testConfig())

	v, created, err := f.svc.Register(t.Context(), "  player-1 ", nil)
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if !created || v.ExternalID != "player-1" || v.BonusSpins != 1 || v.Gold != 0 {
		t.Fatalf("view = %+v created=%v", v, created)
	}

	if h := v.Hearts["runner"]; h.Hearts != 3 || h.Max != 3 || h.NextHeartInSeconds != nil {
		t.Fatalf("hearts = %+v", h)
	}

	again, created, err := f.svc.Register(t.Context(), "player-1", nil)
	if err != nil {
		t.Fatalf("register again: %v", err)
	}

	if created || again.UserID != v.UserID {
		t.Fatalf("second register created=%v id=%d", created, again.UserID)
	}

	if n := f.store.AuditCount(v.UserID); n != 1 {
		t.Fatalf("audit entries = %d, want 1", n)
	}

	for _, bad := range []string{"", "   "} {
		_, _, err = f.svc.Register(t.Context(), bad, nil)
		if !errors.Is(err, economy.ErrInvalidInput) {
			t.Fatalf("register %q err = %v", bad, err)
		}
	}
}

func TestRegister_WithReferrer(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testConfig())

	alice := f.register(t, "alice", nil)
	bob := f.register(t, "bob", &alice)

	if got := f.ledger(t, alice).ReferralsMade; got != 1 {
		t.Fatalf("referrals made = %d", got)
	}

	links, err := f.svc.Referrals(t.Context(), alice)
	if err != nil {
		t.Fatalf("referrals: %v", err)
	}

	if len(links) != 1 || links[0].ReferredID != bob || links[0].Status != economy.ReferralInactive {
		t.Fatalf("links = %+v", links)
	}

	missing := uint64(9999)
	carol := f.register(t, "carol", &missing)

	if f.ledger(t, carol).UserID != carol {
		t.Fatal("carol not readable")
	}
}

func TestWatchAd_DailyLimit(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testConfig())
	id := f.register(t, "u", nil)

	for range 3 {
		_, err := f.svc.WatchAd(t.Context(), id, AdRequest{Purpose: "gold"})
		if err != nil {
			t.Fatalf("watch ad: %v", err)
		}
	}

	_, err := f.svc.WatchAd(t.Context(), id, AdRequest{Purpose: "diamond"})
	if !errors.Is(err, economy.ErrDailyLimitReached) {
		t.Fatalf("fourth ad err = %v", err)
	}

	v := f.ledger(t, id)
	if v.Gold != 75 || !v.Diamonds.IsZero() || v.Ads.AdViewsUsed != 3 || v.TotalAdsViews != 3 {
		t.Fatalf("after limit: %+v", v)
	}

	f.clk.Advance(24 * time.Hour)

	res, err := f.svc.WatchAd(t.Context(), id, AdRequest{Purpose: "diamond", Source: economy.Source{Platform: "adsgram", BlockID: "b1"}})
	if err != nil {
		t.Fatalf("ad next day: %v", err)
	}

	if !res.Ledger.Diamonds.Equal(decimal.NewFromInt(1)) || res.Ledger.Ads.AdViewsUsed != 1 {
		t.Fatalf("next day: %+v", res.Ledger)
	}

	entries, err := f.svc.AuditLog(t.Context(), id, 1)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}

	if entries[0].Purpose != economy.PurposeAdDiamond || entries[0].SourcePlatform != "adsgram" {
		t.Fatalf("audit entry = %+v", entries[0])
	}
}

func TestWatchAd_Rejections(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testConfig())
	id := f.register(t, "u", nil)

	tests := []struct {
		name string
		req  AdRequest
		want error
	}{
		{"unknown purpose", AdRequest{Purpose: "jackpot"}, economy.ErrInvalidInput},
		{"heart without game", AdRequest{Purpose: "heart"}, economy.ErrInvalidInput},
		{"heart unknown game", AdRequest{Purpose: "heart", Game: "chess"}, economy.ErrInvalidInput},
		{"hearts full", AdRequest{Purpose: "heart", Game: "Runner"}, economy.ErrResourceFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.WatchAd(t.Context(), id, tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	v := f.ledger(t, id)
	if v.Ads.AdViewsUsed != 0 || v.TotalAdsViews != 0 {
		t.Fatalf("rejected ads were counted: %+v", v.Ads)
	}

	_, err := f.svc.WatchAd(t.Context(), 4242, AdRequest{Purpose: "gold"})
	if !errors.Is(err, economy.ErrNotFound) {
		t.Fatalf("unknown user err = %v", err)
	}
}

func TestSpinAds_UseTheirOwnLimit(t *testing.T) {
	t.Parallel()

	f := newFixture(t, testConfig())
	id := f.register(t, "u", nil)

	for range 2 {
		_, err := f.svc.WatchAd(t.Context(), id, AdRequest{Purpose: "spin"})
		if err != nil {
			t.Fatalf("spin ad: %v", err)
		}
	}

	_, err := f.svc.WatchAd(t.Context(), id, AdRequest{Purpose: "spin"})
	if !errors.Is(err, economy.ErrDailyLimitReached) {
		t.Fatalf("third spin ad err = %v", err)
	}

	v := f.ledger(t, id)
	if v.BonusSpins != 3 || v.Ads.SpinAdsUsed != 2 {
		t.Fatalf("view = %+v", v)
	}
}
