package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fastprodman/economyledger/internal/economy"
	"github.com/fastprodman/economyledger/internal/economy/hearts"
	"github.com/fastprodman/economyledger/internal/economy/limits"
	"github.com/fastprodman/economyledger/internal/economy/rewards"
)

// HeartView is one game's pool as a client sees it.
type HeartView struct {
	Hearts             int    `json:"hearts"`
	Max                int    `json:"max"`
	NextHeartInSeconds *int64 `json:"nextHeartInSeconds"`
}

// View is the read projection of a ledger at one instant: hearts are
// replenished and ad counters rolled over as of that instant, without
// writing anything back.
type View struct {
	UserID                  uint64               `json:"userId"`
	ExternalID              string               `json:"externalId"`
	Gold                    int64                `json:"gold"`
	Diamonds                decimal.Decimal      `json:"diamonds"`
	BonusSpins              int64                `json:"bonusSpins"`
	Hearts                  map[string]HeartView `json:"hearts"`
	Ads                     limits.Usage         `json:"ads"`
	TotalAdsViews           int64                `json:"totalAdsViews"`
	DailyRewardStreak       int                  `json:"dailyRewardStreak"`
	DailyRewardClaimedToday bool                 `json:"dailyRewardClaimedToday"`
	LastDailyRewardClaimAt  *time.Time           `json:"lastDailyRewardClaimAt"`
	ReferralsMade           int                  `json:"referralsMade"`
	ReferralGoldEarned      decimal.Decimal      `json:"referralGoldEarned"`
	ReferralDiamondEarned   decimal.Decimal      `json:"referralDiamondEarned"`
	AsOf                    time.Time            `json:"asOf"`
}

func (s *Service) view(l economy.UserLedger, now time.Time) View {
	status := hearts.Status(l, s.hearts, now)

	hv := make(map[string]HeartView, len(status))
	for game, st := range status {
		v := HeartView{Hearts: st.Hearts, Max: st.Max}

		if st.NextHeartIn != nil {
			secs := int64((*st.NextHeartIn + time.Second - 1) / time.Second)
			v.NextHeartInSeconds = &secs
		}

		hv[game] = v
	}

	return View{
		UserID:                  l.UserID,
		ExternalID:              l.ExternalID,
		Gold:                    l.Gold,
		Diamonds:                l.Diamonds,
		BonusSpins:              l.BonusSpins,
		Hearts:                  hv,
		Ads:                     limits.Snapshot(l, s.limits, now),
		TotalAdsViews:           l.TotalAdsViews,
		DailyRewardStreak:       l.DailyRewardStreak,
		DailyRewardClaimedToday: rewards.ClaimedToday(l.LastDailyRewardClaimAt, now, s.limits.Location),
		LastDailyRewardClaimAt:  l.LastDailyRewardClaimAt,
		ReferralsMade:           l.ReferralsMade,
		ReferralGoldEarned:      l.ReferralGoldEarned,
		ReferralDiamondEarned:   l.ReferralDiamondEarned,
		AsOf:                    now,
	}
}

// Reward is what an action granted (or, when negative, took).
type Reward struct {
	Currency economy.Currency `json:"currency"`
	Amount   decimal.Decimal  `json:"amount"`
}

type AdResult struct {
	Ledger View   `json:"ledger"`
	Reward Reward `json:"reward"`
}

type HeartResult struct {
	Ledger View      `json:"ledger"`
	Game   string    `json:"game"`
	Heart  HeartView `json:"heart"`
}

type SpinResult struct {
	Ledger     View          `json:"ledger"`
	PrizeIndex int           `json:"prizeIndex"`
	Prize      rewards.Prize `json:"prize"`
}

type DailyRewardResult struct {
	Ledger View  `json:"ledger"`
	Gold   int64 `json:"gold"`
	Streak int   `json:"streak"`
}

// LinkPayout is one referred user's contribution to a referral claim.
type LinkPayout struct {
	ReferredID uint64          `json:"referredId"`
	Gold       decimal.Decimal `json:"gold"`
	Diamonds   decimal.Decimal `json:"diamonds"`
}

type ReferralClaimResult struct {
	Ledger       View            `json:"ledger"`
	Links        []LinkPayout    `json:"links"`
	GoldAccrued  decimal.Decimal `json:"goldAccrued"`
	GoldCredited int64           `json:"goldCredited"`
	Diamonds     decimal.Decimal `json:"diamonds"`
}

type ScoreResult struct {
	Ledger      View   `json:"ledger"`
	Game        string `json:"game"`
	Score       int64  `json:"score"`
	HighScore   int64  `json:"highScore"`
	IsHighScore bool   `json:"isHighScore"`
	GoldEarned  int64  `json:"goldEarned"`
	SessionID   int64  `json:"sessionId"`
}

type TaskResult struct {
	Ledger View   `json:"ledger"`
	TaskID string `json:"taskId"`
	Reward Reward `json:"reward"`
}
