package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fastprodman/economyledger/internal/economy"
	"github.com/fastprodman/economyledger/internal/economy/hearts"
	"github.com/fastprodman/economyledger/internal/economy/rewards"
)

// AdRequest is a client's report of a completed ad.
type AdRequest struct {
	Purpose string
	// Game is required for heart ads.
	Game   string
	Source economy.Source
}

// WatchAd credits the reward of one completed ad, subject to the daily
// limits. The view also counts toward activating the user's referral link.
func (s *Service) WatchAd(ctx context.Context, userID uint64, req AdRequest) (AdResult, error) {
	rule, err := s.ads.Rule(req.Purpose)
	if err != nil {
		return AdResult{}, err
	}

	game := hearts.Key(req.Game)

	if rule.Currency == economy.CurrencyHearts {
		_, err = s.hearts.Cap(game)
		if err != nil {
			return AdResult{}, err
		}
	}

	var now time.Time

	saved, err := s.coord.Apply(ctx, userID, func(ctx context.Context, tx *sql.Tx, l economy.UserLedger) (economy.UserLedger, economy.AuditEntry, error) {
		now = s.clock.Now()

		err := rewards.ApplyAd(&l, rule, rewards.AdEnv{Limits: s.limits, Hearts: s.hearts, Now: now}, game)
		if err != nil {
			return l, economy.AuditEntry{}, err
		}

		err = s.countReferralView(ctx, tx, l.UserID, now)
		if err != nil {
			return l, economy.AuditEntry{}, err
		}

		return l, economy.AuditEntry{
			Purpose:        rule.Purpose,
			RewardType:     rule.Currency,
			RewardAmount:   rule.Amount,
			SourcePlatform: req.Source.Platform,
			SourceBlockID:  req.Source.BlockID,
			OccurredAt:     now,
		}, nil
	})
	if err != nil {
		return AdResult{}, fmt.Errorf("watch %s ad: %w", req.Purpose, err)
	}

	return AdResult{
		Ledger: s.view(saved, now),
		Reward: Reward{Currency: rule.Currency, Amount: rule.Amount},
	}, nil
}

// countReferralView bumps the ad counter of the link that referred userID
// and activates it once the threshold is reached.
func (s *Service) countReferralView(ctx context.Context, tx *sql.Tx, userID uint64, now time.Time) error {
	link, err := s.referrals.LockByReferred(ctx, tx, userID)
	if errors.Is(err, economy.ErrNotFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("load referral link: %w", err)
	}

	link.AdViewsCount++

	if link.Status == economy.ReferralInactive && link.AdViewsCount >= s.cfg.ReferralActivationAdViews {
		link.Status = economy.ReferralActive
		activated := now
		link.ActivatedAt = &activated
	}

	err = s.referrals.Update(ctx, tx, link)
	if err != nil {
		return fmt.Errorf("update referral link: %w", err)
	}

	return nil
}
