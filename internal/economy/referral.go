package economy

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReferralStatus string

const (
	ReferralInactive ReferralStatus = "inactive"
	ReferralActive   ReferralStatus = "active"
)

// ReferralLink ties a referred user to its referrer. LastRewardedGold and
// LastRewardedDiamond are watermarks: only growth of the referred balances
// past them is ever shared with the referrer.
type ReferralLink struct {
	ID                  uuid.UUID
	ReferrerID          uint64
	ReferredID          uint64
	Status              ReferralStatus
	AdViewsCount        int
	LastRewardedGold    decimal.Decimal
	LastRewardedDiamond decimal.Decimal
	RewardsCollected    bool
	CreatedAt           time.Time
	ActivatedAt         *time.Time
}
