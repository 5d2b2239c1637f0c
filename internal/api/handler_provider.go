package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/fastprodman/economyledger/internal/economy"
	"github.com/fastprodman/economyledger/internal/economy/rewards"
	"github.com/fastprodman/economyledger/internal/services/ledger"
)

// Economy is the set of operations the HTTP layer exposes.
type Economy interface {
	Register(ctx context.Context, externalID string, referrerID *uint64) (ledger.View, bool, error)
	Ledger(ctx context.Context, userID uint64) (ledger.View, error)
	WatchAd(ctx context.Context, userID uint64, req ledger.AdRequest) (ledger.AdResult, error)
	UseHeart(ctx context.Context, userID uint64, game string) (ledger.HeartResult, error)
	SpinWheel(ctx context.Context, userID uint64) (ledger.SpinResult, error)
	ClaimDailyReward(ctx context.Context, userID uint64) (ledger.DailyRewardResult, error)
	ClaimReferralRewards(ctx context.Context, userID uint64) (ledger.ReferralClaimResult, error)
	Referrals(ctx context.Context, userID uint64) ([]economy.ReferralLink, error)
	SubmitScore(ctx context.Context, userID uint64, game string, score int64) (ledger.ScoreResult, error)
	HighScores(ctx context.Context, userID uint64) ([]economy.HighScoreEntry, error)
	Sessions(ctx context.Context, userID uint64, limit int) ([]economy.GameSession, error)
	Leaderboard(ctx context.Context, game string, limit int) ([]economy.HighScoreEntry, error)
	SpendToContinue(ctx context.Context, userID uint64, currency economy.Currency, amount decimal.Decimal) (ledger.View, error)
	CompleteTask(ctx context.Context, userID uint64, task ledger.TaskReward) (ledger.TaskResult, error)
	AuditLog(ctx context.Context, userID uint64, limit int) ([]economy.AuditEntry, error)
	Prizes() []rewards.Prize
}

var _ Economy = (*ledger.Service)(nil)

// HandlerProvider wraps an Economy and exposes HTTP handlers.
type HandlerProvider struct {
	svc Economy
}

func NewHandler(svc Economy) *HandlerProvider {
	return &HandlerProvider{svc: svc}
}

// parseUserIDFromPath reads `{userId}` from routes like /users/{userId}/ledger.
func parseUserIDFromPath(r *http.Request) (uint64, error) {
	idStr := chi.URLParam(r, "userId")
	if idStr == "" {
		return 0, fmt.Errorf("missing userId")
	}

	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid userId: %w", err)
	}

	if id == 0 {
		return 0, fmt.Errorf("invalid userId: must be positive")
	}

	return id, nil
}

func parseLimit(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("limit must be a positive integer")
	}

	return n, nil
}

// userHandler adapts handlers that act on the user in the path.
func userHandler(fn func(w http.ResponseWriter, r *http.Request, userID uint64)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := parseUserIDFromPath(r)
		if err != nil {
			badRequest(w, "invalid userId in path")
			return
		}

		fn(w, r, userID)
	}
}

// --- Handlers ---

type registerRequest struct {
	ExternalID string  `json:"externalId"`
	ReferrerID *uint64 `json:"referrerId"`
}

// RegisterHandler handles POST /users. It answers 201 for a new ledger and
// 200 when externalId was already registered.
func (h *HandlerProvider) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest

	err := decodeBody(w, r, &req)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	if req.ReferrerID != nil && *req.ReferrerID == 0 {
		req.ReferrerID = nil
	}

	v, created, err := h.svc.Register(r.Context(), req.ExternalID, req.ReferrerID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	writeOK(w, status, map[string]any{"ledger": v, "created": created})
}

// GetLedgerHandler handles GET /users/{userId}/ledger
func (h *HandlerProvider) GetLedgerHandler(w http.ResponseWriter, r *http.Request, userID uint64) {
	v, err := h.svc.Ledger(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, map[string]any{"ledger": v})
}

type adRequest struct {
	Purpose        string `json:"purpose"`
	Game           string `json:"game"`
	SourcePlatform string `json:"sourcePlatform"`
	SourceBlockID  string `json:"sourceBlockId"`
}

// WatchAdHandler handles POST /users/{userId}/ads
func (h *HandlerProvider) WatchAdHandler(w http.ResponseWriter, r *http.Request, userID uint64) {
	var req adRequest

	err := decodeBody(w, r, &req)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	res, err := h.svc.WatchAd(r.Context(), userID, ledger.AdRequest{
		Purpose: strings.ToLower(strings.TrimSpace(req.Purpose)),
		Game:    req.Game,
		Source:  economy.Source{Platform: req.SourcePlatform, BlockID: req.SourceBlockID},
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, map[string]any{"ledger": res.Ledger, "reward": res.Reward})
}

// UseHeartHandler handles POST /users/{userId}/hearts/{game}/use
func (h *HandlerProvider) UseHeartHandler(w http.ResponseWriter, r *http.Request, userID uint64) {
	res, err := h.svc.UseHeart(r.Context(), userID, chi.URLParam(r, "game"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, map[string]any{"ledger": res.Ledger, "game": res.Game, "heart": res.Heart})
}

// SpinWheelHandler handles POST /users/{userId}/wheel/spin
func (h *HandlerProvider) SpinWheelHandler(w http.ResponseWriter, r *http.Request, userID uint64) {
	res, err := h.svc.SpinWheel(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, map[string]any{"ledger": res.Ledger, "prizeIndex": res.PrizeIndex, "prize": res.Prize})
}

// PrizesHandler handles GET /wheel/prizes
func (h *HandlerProvider) PrizesHandler(w http.ResponseWriter, _ *http.Request) {
	writeOK(w, http.StatusOK, map[string]any{"prizes": h.svc.Prizes()})
}

// ClaimDailyRewardHandler handles POST /users/{userId}/daily-reward/claim
func (h *HandlerProvider) ClaimDailyRewardHandler(w http.ResponseWriter, r *http.Request, userID uint64) {
	res, err := h.svc.ClaimDailyReward(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, map[string]any{"ledger": res.Ledger, "gold": res.Gold, "streak": res.Streak})
}

// ClaimReferralsHandler handles POST /users/{userId}/referrals/claim
func (h *HandlerProvider) ClaimReferralsHandler(w http.ResponseWriter, r *http.Request, userID uint64) {
	res, err := h.svc.ClaimReferralRewards(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, map[string]any{
		"ledger":       res.Ledger,
		"links":        res.Links,
		"goldAccrued":  res.GoldAccrued,
		"goldCredited": res.GoldCredited,
		"diamonds":     res.Diamonds,
	})
}

// ListReferralsHandler handles GET /users/{userId}/referrals
func (h *HandlerProvider) ListReferralsHandler(w http.ResponseWriter, r *http.Request, userID uint64) {
	links, err := h.svc.Referrals(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, map[string]any{"referrals": referralDTOs(links)})
}

type scoreRequest struct {
	Game  string `json:"game"`
	Score *int64 `json:"score"`
}

// SubmitScoreHandler handles POST /users/{userId}/scores
func (h *HandlerProvider) SubmitScoreHandler(w http.ResponseWriter, r *http.Request, userID uint64) {
	var req scoreRequest

	err := decodeBody(w, r, &req)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	if req.Score == nil {
		badRequest(w, "score required")
		return
	}

	res, err := h.svc.SubmitScore(r.Context(), userID, req.Game, *req.Score)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, map[string]any{
		"ledger":      res.Ledger,
		"game":        res.Game,
		"score":       res.Score,
		"highScore":   res.HighScore,
		"isHighScore": res.IsHighScore,
		"goldEarned":  res.GoldEarned,
		"sessionId":   res.SessionID,
	})
}

// HighScoresHandler handles GET /users/{userId}/scores
func (h *HandlerProvider) HighScoresHandler(w http.ResponseWriter, r *http.Request, userID uint64) {
	out, err := h.svc.HighScores(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, map[string]any{"highScores": scoreDTOs(out, false)})
}

// SessionsHandler handles GET /users/{userId}/sessions?limit=
func (h *HandlerProvider) SessionsHandler(w http.ResponseWriter, r *http.Request, userID uint64) {
	limit, err := parseLimit(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	out, err := h.svc.Sessions(r.Context(), userID, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, map[string]any{"sessions": sessionDTOs(out)})
}

// LeaderboardHandler handles GET /games/{game}/leaderboard?limit=
func (h *HandlerProvider) LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	out, err := h.svc.Leaderboard(r.Context(), chi.URLParam(r, "game"), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, map[string]any{"leaderboard": scoreDTOs(out, true)})
}

type amountRequest struct {
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
}

func (a amountRequest) parse() (economy.Currency, decimal.Decimal, error) {
	c, err := economy.ParseCurrency(strings.ToLower(strings.TrimSpace(a.Currency)))
	if err != nil {
		return "", decimal.Decimal{}, err
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(a.Amount))
	if err != nil {
		return "", decimal.Decimal{}, fmt.Errorf("invalid amount")
	}

	return c, amount, nil
}

// ContinueHandler handles POST /users/{userId}/continue
func (h *HandlerProvider) ContinueHandler(w http.ResponseWriter, r *http.Request, userID uint64) {
	var req amountRequest

	err := decodeBody(w, r, &req)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	currency, amount, err := req.parse()
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	v, err := h.svc.SpendToContinue(r.Context(), userID, currency, amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, map[string]any{"ledger": v})
}

// CompleteTaskHandler handles POST /users/{userId}/tasks/{taskId}/complete
func (h *HandlerProvider) CompleteTaskHandler(w http.ResponseWriter, r *http.Request, userID uint64) {
	var req amountRequest

	err := decodeBody(w, r, &req)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	currency, amount, err := req.parse()
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	res, err := h.svc.CompleteTask(r.Context(), userID, ledger.TaskReward{
		TaskID:   chi.URLParam(r, "taskId"),
		Currency: currency,
		Amount:   amount,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, map[string]any{"ledger": res.Ledger, "taskId": res.TaskID, "reward": res.Reward})
}

// AuditHandler handles GET /users/{userId}/audit?limit=
func (h *HandlerProvider) AuditHandler(w http.ResponseWriter, r *http.Request, userID uint64) {
	limit, err := parseLimit(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	entries, err := h.svc.AuditLog(r.Context(), userID, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, map[string]any{"entries": auditDTOs(entries)})
}
