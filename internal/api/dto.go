package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fastprodman/economyledger/internal/economy"
)

type auditDTO struct {
	ID             uuid.UUID               `json:"id"`
	Purpose        economy.Purpose         `json:"purpose"`
	RewardType     economy.Currency        `json:"rewardType"`
	RewardAmount   decimal.Decimal         `json:"rewardAmount"`
	BalanceAfter   economy.BalanceSnapshot `json:"balanceAfter"`
	SourcePlatform string                  `json:"sourcePlatform,omitempty"`
	SourceBlockID  string                  `json:"sourceBlockId,omitempty"`
	OccurredAt     time.Time               `json:"occurredAt"`
}

func auditDTOs(in []economy.AuditEntry) []auditDTO {
	out := make([]auditDTO, 0, len(in))
	for _, e := range in {
		out = append(out, auditDTO{
			ID:             e.ID,
			Purpose:        e.Purpose,
			RewardType:     e.RewardType,
			RewardAmount:   e.RewardAmount,
			BalanceAfter:   e.BalanceAfter,
			SourcePlatform: e.SourcePlatform,
			SourceBlockID:  e.SourceBlockID,
			OccurredAt:     e.OccurredAt,
		})
	}

	return out
}

type referralDTO struct {
	ReferredID       uint64                 `json:"referredId"`
	Status           economy.ReferralStatus `json:"status"`
	AdViewsCount     int                    `json:"adViewsCount"`
	RewardsCollected bool                   `json:"rewardsCollected"`
	CreatedAt        time.Time              `json:"createdAt"`
	ActivatedAt      *time.Time             `json:"activatedAt"`
}

func referralDTOs(in []economy.ReferralLink) []referralDTO {
	out := make([]referralDTO, 0, len(in))
	for _, l := range in {
		out = append(out, referralDTO{
			ReferredID:       l.ReferredID,
			Status:           l.Status,
			AdViewsCount:     l.AdViewsCount,
			RewardsCollected: l.RewardsCollected,
			CreatedAt:        l.CreatedAt,
			ActivatedAt:      l.ActivatedAt,
		})
	}

	return out
}

type scoreDTO struct {
	Rank      int       `json:"rank,omitempty"`
	UserID    uint64    `json:"userId"`
	Game      string    `json:"game"`
	HighScore int64     `json:"highScore"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// scoreDTOs ranks entries from 1 when ranked is set.
func scoreDTOs(in []economy.HighScoreEntry, ranked bool) []scoreDTO {
	out := make([]scoreDTO, 0, len(in))
	for i, e := range in {
		d := scoreDTO{UserID: e.UserID, Game: e.GameType, HighScore: e.HighScore, UpdatedAt: e.UpdatedAt}
		if ranked {
			d.Rank = i + 1
		}

		out = append(out, d)
	}

	return out
}

type sessionDTO struct {
	ID         int64     `json:"id"`
	Game       string    `json:"game"`
	Score      int64     `json:"score"`
	GoldEarned int64     `json:"goldEarned"`
	PlayedAt   time.Time `json:"playedAt"`
}

func sessionDTOs(in []economy.GameSession) []sessionDTO {
	out := make([]sessionDTO, 0, len(in))
	for _, s := range in {
		out = append(out, sessionDTO{ID: s.ID, Game: s.GameType, Score: s.Score, GoldEarned: s.GoldEarned, PlayedAt: s.PlayedAt})
	}

	return out
}
