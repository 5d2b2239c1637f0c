package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fastprodman/economyledger/internal/config"
	"github.com/fastprodman/economyledger/internal/infra/clock"
	"github.com/fastprodman/economyledger/internal/repos/memory"
	"github.com/fastprodman/economyledger/internal/services/ledger"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.EconomyConfig{
		DailyAdViewsLimit:         2,
		DailySpinAdsLimit:         1,
		HeartGames:                config.GameCaps{"runner": 1},
		HeartRegenInterval:        time.Hour,
		DailyRewardGold:           100,
		ReferralPercent:           decimal.RequireFromString("0.1"),
		ReferralActivationAdViews: 1,
		AdDiamondReward:           decimal.NewFromInt(1),
		AdGoldReward:              20,
		ScoreGoldDivisor:          10,
		StartingSpins:             1,
		MutationMaxRetries:        3,
		MutationLockTimeout:       time.Second,
	}

	svc, err := ledger.NewMemory(memory.New(), clock.NewManual(time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)), cfg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	srv := httptest.NewServer(NewRouter(svc))
	t.Cleanup(srv.Close)

	return srv
}

type envelope struct {
	Success bool `json:"success"`
	Error   struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
	Created bool `json:"created"`
	Ledger  struct {
		UserID     uint64 `json:"userId"`
		Gold       int64  `json:"gold"`
		BonusSpins int64  `json:"bonusSpins"`
		Hearts     map[string]struct {
			Hearts int `json:"hearts"`
		} `json:"hearts"`
	} `json:"ledger"`
	Entries     []json.RawMessage `json:"entries"`
	Leaderboard []struct {
		Rank   int    `json:"rank"`
		UserID uint64 `json:"userId"`
	} `json:"leaderboard"`
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (int, envelope, http.Header) {
	t.Helper()

	req, err := http.NewRequestWithContext(t.Context(), method, srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope

	err = json.NewDecoder(resp.Body).Decode(&env)
	if err != nil {
		t.Fatalf("decode %s %s: %v", method, path, err)
	}

	return resp.StatusCode, env, resp.Header
}

func register(t *testing.T, srv *httptest.Server, ext string) uint64 {
	t.Helper()

	code, env, _ := do(t, srv, http.MethodPost, "/users", `{"externalId":"`+ext+`"}`)
	if code != http.StatusCreated || !env.Success {
		t.Fatalf("register %s: %d %+v", ext, code, env)
	}

	return env.Ledger.UserID
}

func TestRegisterHandler(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	id := register(t, srv, "tg-1")

	code, env, hdr := do(t, srv, http.MethodPost, "/users", `{"externalId":"tg-1"}`)
	if code != http.StatusOK || env.Created || env.Ledger.UserID != id {
		t.Fatalf("repeat register: %d %+v", code, env)
	}

	if hdr.Get(requestIDHeader) == "" {
		t.Fatal("missing request id header")
	}

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ``},
		{"unknown field", `{"externalId":"x","admin":true}`},
		{"blank id", `{"externalId":"  "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env, _ := do(t, srv, http.MethodPost, "/users", tt.body)
			if code != http.StatusBadRequest || env.Success || env.Error.Kind != "InvalidInput" {
				t.Fatalf("got %d %+v", code, env)
			}
		})
	}
}

func TestErrorMapping(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	id := register(t, srv, "u")
	base := "/users/" + itoa(id)

	// exhaust the two ad views
	for range 2 {
		code, _, _ := do(t, srv, http.MethodPost, base+"/ads", `{"purpose":"gold"}`)
		if code != http.StatusOK {
			t.Fatalf("ad: %d", code)
		}
	}

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode int
		wantKind string
	}{
		{"bad user id", http.MethodGet, "/users/abc/ledger", "", http.StatusBadRequest, "InvalidInput"},
		{"unknown user", http.MethodGet, "/users/999/ledger", "", http.StatusNotFound, "NotFound"},
		{"limit reached", http.MethodPost, base + "/ads", `{"purpose":"diamond"}`, http.StatusConflict, "DailyLimitReached"},
		{"limit checked before heart cap", http.MethodPost, base + "/ads", `{"purpose":"heart","game":"runner"}`, http.StatusConflict, "DailyLimitReached"},
		{"overspend", http.MethodPost, base + "/continue", `{"currency":"gold","amount":"1000"}`, http.StatusConflict, "InsufficientBalance"},
		{"bad amount", http.MethodPost, base + "/continue", `{"currency":"gold","amount":"lots"}`, http.StatusBadRequest, "InvalidInput"},
		{"missing score", http.MethodPost, base + "/scores", `{"game":"runner"}`, http.StatusBadRequest, "InvalidInput"},
		{"bad limit", http.MethodGet, base + "/audit?limit=-3", "", http.StatusBadRequest, "InvalidInput"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env, _ := do(t, srv, tt.method, tt.path, tt.body)
			if code != tt.wantCode || env.Error.Kind != tt.wantKind {
				t.Fatalf("got %d %+v, want %d %s", code, env.Error, tt.wantCode, tt.wantKind)
			}
		})
	}
}

func TestGameplayFlow(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	id := register(t, srv, "player")
	base := "/users/" + itoa(id)

	code, env, _ := do(t, srv, http.MethodPost, base+"/hearts/runner/use", "")
	if code != http.StatusOK || env.Ledger.Hearts["runner"].Hearts != 0 {
		t.Fatalf("use heart: %d %+v", code, env)
	}

	code, env, _ = do(t, srv, http.MethodPost, base+"/hearts/runner/use", "")
	if code != http.StatusConflict || env.Error.Kind != "InsufficientResource" {
		t.Fatalf("use empty heart: %d %+v", code, env)
	}

	code, env, _ = do(t, srv, http.MethodPost, base+"/daily-reward/claim", "")
	if code != http.StatusOK || env.Ledger.Gold != 100 {
		t.Fatalf("daily reward: %d %+v", code, env)
	}

	code, env, _ = do(t, srv, http.MethodPost, base+"/daily-reward/claim", "")
	if code != http.StatusConflict || env.Error.Kind != "AlreadyClaimedToday" {
		t.Fatalf("second daily reward: %d %+v", code, env)
	}

	code, env, _ = do(t, srv, http.MethodPost, base+"/scores", `{"game":"runner","score":250}`)
	if code != http.StatusOK || env.Ledger.Gold != 125 {
		t.Fatalf("score: %d %+v", code, env)
	}

	code, env, _ = do(t, srv, http.MethodPost, base+"/wheel/spin", "")
	if code != http.StatusOK || env.Ledger.BonusSpins < 0 {
		t.Fatalf("spin: %d %+v", code, env)
	}

	code, env, _ = do(t, srv, http.MethodPost, base+"/tasks/join/complete", `{"currency":"gold","amount":"5"}`)
	if code != http.StatusOK {
		t.Fatalf("task: %d %+v", code, env)
	}

	code, env, _ = do(t, srv, http.MethodPost, base+"/tasks/join/complete", `{"currency":"gold","amount":"5"}`)
	if code != http.StatusConflict || env.Error.Kind != "AlreadyCompleted" {
		t.Fatalf("repeat task: %d %+v", code, env)
	}

	code, env, _ = do(t, srv, http.MethodGet, base+"/audit?limit=3", "")
	if code != http.StatusOK || len(env.Entries) != 3 {
		t.Fatalf("audit: %d %d entries", code, len(env.Entries))
	}

	code, env, _ = do(t, srv, http.MethodGet, "/games/runner/leaderboard", "")
	if code != http.StatusOK || len(env.Leaderboard) != 1 || env.Leaderboard[0].Rank != 1 || env.Leaderboard[0].UserID != id {
		t.Fatalf("leaderboard: %d %+v", code, env.Leaderboard)
	}
}

func TestStatusOf(t *testing.T) {
	t.Parallel()

	tests := map[string]int{
		"NotFound":             http.StatusNotFound,
		"InvalidInput":         http.StatusBadRequest,
		"Contention":           http.StatusServiceUnavailable,
		"Internal":             http.StatusInternalServerError,
		"InsufficientBalance":  http.StatusConflict,
		"InsufficientResource": http.StatusConflict,
		"ResourceFull":         http.StatusConflict,
	}

	for kind, want := range tests {
		if got := statusOf(kind); got != want {
			t.Errorf("statusOf(%s) = %d, want %d", kind, got, want)
		}
	}
}

func itoa(id uint64) string {
	return strconv.FormatUint(id, 10)
}
