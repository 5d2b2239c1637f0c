package economy

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestClone_IsDeep(t *testing.T) {
	t.Parallel()

	claimed := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	limit := 10
	l := UserLedger{
		Hearts:                 map[string]int{"runner": 2},
		HeartTimers:            map[string]time.Time{"runner": claimed},
		LastDailyRewardClaimAt: &claimed,
		DailyAdViewsLimit:      &limit,
	}

	c := l.Clone()
	c.Hearts["runner"] = 0
	c.HeartTimers["runner"] = claimed.Add(time.Hour)
	*c.LastDailyRewardClaimAt = claimed.Add(time.Hour)
	*c.DailyAdViewsLimit = 99

	if l.Hearts["runner"] != 2 || !l.HeartTimers["runner"].Equal(claimed) {
		t.Fatal("maps shared with clone")
	}

	if !l.LastDailyRewardClaimAt.Equal(claimed) || *l.DailyAdViewsLimit != 10 {
		t.Fatal("pointers shared with clone")
	}

	if empty := (UserLedger{}).Clone(); empty.Hearts == nil || empty.HeartTimers == nil {
		t.Fatal("clone of zero ledger has nil maps")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	caps := map[string]int{"runner": 3}

	tests := []struct {
		name    string
		ledger  UserLedger
		wantErr bool
	}{
		{name: "ok", ledger: UserLedger{Gold: 1, Hearts: map[string]int{"runner": 3}}},
		{name: "negative_gold", ledger: UserLedger{Gold: -1}, wantErr: true},
		{name: "negative_diamonds", ledger: UserLedger{Diamonds: decimal.NewFromInt(-1)}, wantErr: true},
		{name: "negative_spins", ledger: UserLedger{BonusSpins: -1}, wantErr: true},
		{name: "hearts_over_cap", ledger: UserLedger{Hearts: map[string]int{"runner": 4}}, wantErr: true},
		{name: "negative_hearts", ledger: UserLedger{Hearts: map[string]int{"runner": -1}}, wantErr: true},
		{name: "negative_counter", ledger: UserLedger{AdViewsToday: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.ledger.Validate(caps)
			if tt.wantErr != errors.Is(err, ErrInvariantViolation) {
				t.Fatalf("wantErr=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseCurrency(t *testing.T) {
	t.Parallel()

	c, err := ParseCurrency("diamonds")
	if err != nil || c != CurrencyDiamonds {
		t.Fatalf("ParseCurrency(diamonds) = %q, %v", c, err)
	}

	_, err = ParseCurrency("rubies")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}
