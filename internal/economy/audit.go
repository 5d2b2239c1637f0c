package economy

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purpose names the action kind that produced an audit entry.
type Purpose string

const (
	PurposeRegistered         Purpose = "registered"
	PurposeAdDiamond          Purpose = "ad_diamond"
	PurposeAdGold             Purpose = "ad_gold"
	PurposeAdHeart            Purpose = "ad_heart"
	PurposeAdSpin             Purpose = "ad_spin"
	PurposeHeartUsed          Purpose = "heart_used"
	PurposeWheelSpin          Purpose = "wheel_spin"
	PurposeDailyReward        Purpose = "daily_reward"
	PurposeReferralRegistered Purpose = "referral_registered"
	PurposeReferralPayout     Purpose = "referral_payout"
	PurposeScoreSubmission    Purpose = "score_submission"
	PurposeContinue           Purpose = "continue_game"
	PurposeTaskCompleted      Purpose = "task_completed"
)

var purposes = map[Purpose]struct{}{
	PurposeRegistered:         {},
	PurposeAdDiamond:          {},
	PurposeAdGold:             {},
	PurposeAdHeart:            {},
	PurposeAdSpin:             {},
	PurposeHeartUsed:          {},
	PurposeWheelSpin:          {},
	PurposeDailyReward:        {},
	PurposeReferralRegistered: {},
	PurposeReferralPayout:     {},
	PurposeScoreSubmission:    {},
	PurposeContinue:           {},
	PurposeTaskCompleted:      {},
}

func (p Purpose) Valid() bool {
	_, ok := purposes[p]
	return ok
}

// AuditEntry is one append-only record of a ledger mutation.
type AuditEntry struct {
	ID             uuid.UUID
	UserID         uint64
	Purpose        Purpose
	RewardType     Currency
	RewardAmount   decimal.Decimal
	BalanceAfter   BalanceSnapshot
	SourcePlatform string
	SourceBlockID  string
	OccurredAt     time.Time
}

// Source is the optional origin of an ad-driven action.
type Source struct {
	Platform string
	BlockID  string
}
