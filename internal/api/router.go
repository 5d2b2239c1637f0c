package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs a chi router with all API endpoints registered.
func NewRouter(svc Economy) http.Handler {
	h := NewHandler(svc)
	r := chi.NewRouter()

	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/wheel/prizes", h.PrizesHandler)
	r.Get("/games/{game}/leaderboard", h.LeaderboardHandler)

	r.Post("/users", h.RegisterHandler)

	r.Route("/users/{userId}", func(r chi.Router) {
		r.Get("/ledger", userHandler(h.GetLedgerHandler))
		r.Post("/ads", userHandler(h.WatchAdHandler))
		r.Post("/hearts/{game}/use", userHandler(h.UseHeartHandler))
		r.Post("/wheel/spin", userHandler(h.SpinWheelHandler))
		r.Post("/daily-reward/claim", userHandler(h.ClaimDailyRewardHandler))
		r.Post("/referrals/claim", userHandler(h.ClaimReferralsHandler))
		r.Get("/referrals", userHandler(h.ListReferralsHandler))
		r.Post("/scores", userHandler(h.SubmitScoreHandler))
		r.Get("/scores", userHandler(h.HighScoresHandler))
		r.Get("/sessions", userHandler(h.SessionsHandler))
		r.Post("/continue", userHandler(h.ContinueHandler))
		r.Post("/tasks/{taskId}/complete", userHandler(h.CompleteTaskHandler))
		r.Get("/audit", userHandler(h.AuditHandler))
	})

	return r
}
