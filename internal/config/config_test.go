package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestGameCaps_UnmarshalText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    GameCaps
		wantErr bool
	}{
		{in: "runner:3,stack:5", want: GameCaps{"runner": 3, "stack": 5}},
		{in: " Match 3 : 4 ,", want: GameCaps{"match-3": 4}},
		{in: "runner", wantErr: true},
		{in: "runner:0", wantErr: true},
		{in: ":3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			var got GameCaps

			err := got.UnmarshalText([]byte(tt.in))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("want error, got %v", got)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got.String() != tt.want.String() {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestLocation(t *testing.T) {
	t.Parallel()

	var l Location
	if l.Get() != time.UTC {
		t.Fatal("unset location should be UTC")
	}

	err := l.UnmarshalText([]byte("Europe/Vilnius"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if l.Get().String() != "Europe/Vilnius" {
		t.Fatalf("zone = %s", l.Get())
	}

	if l.UnmarshalText([]byte("Mars/Olympus")) == nil {
		t.Fatal("unknown zone accepted")
	}
}

func TestEconomyConfig_Validate(t *testing.T) {
	t.Parallel()

	ok := EconomyConfig{
		HeartGames:         GameCaps{"runner": 3},
		HeartRegenInterval: time.Hour,
		ReferralPercent:    decimal.RequireFromString("0.05"),
		AdDiamondReward:    decimal.NewFromInt(1),
		MutationMaxRetries: 1,
	}

	if err := ok.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	bad := ok
	bad.ReferralPercent = decimal.RequireFromString("1.5")

	if bad.Validate() == nil {
		t.Fatal("percent above 1 accepted")
	}

	bad = ok
	bad.HeartGames = nil

	if bad.Validate() == nil {
		t.Fatal("empty games accepted")
	}
}
