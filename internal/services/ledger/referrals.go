package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fastprodman/economyledger/internal/economy"
	"github.com/fastprodman/economyledger/internal/economy/rewards"
)

// ClaimReferralRewards pays the referrer its share of what each active
// referred user earned since the previous claim.
func (s *Service) ClaimReferralRewards(ctx context.Context, userID uint64) (ReferralClaimResult, error) {
	var (
		now      time.Time
		acc      rewards.Accrual
		credited int64
	)

	saved, err := s.coord.Apply(ctx, userID, func(ctx context.Context, tx *sql.Tx, l economy.UserLedger) (economy.UserLedger, economy.AuditEntry, error) {
		now = s.clock.Now()

		links, err := s.referrals.LockActiveByReferrer(ctx, tx, l.UserID)
		if err != nil {
			return l, economy.AuditEntry{}, fmt.Errorf("load referral links: %w", err)
		}

		ids := make([]uint64, 0, len(links))
		for _, link := range links {
			ids = append(ids, link.ReferredID)
		}

		balances, err := s.ledgers.Balances(ctx, tx, ids)
		if err != nil {
			return l, economy.AuditEntry{}, fmt.Errorf("load referred balances: %w", err)
		}

		acc, err = rewards.Accrue(links, balances, s.cfg.ReferralPercent)
		if err != nil {
			return l, economy.AuditEntry{}, err
		}

		byID := make(map[uint64]economy.ReferralLink, len(links))
		for _, link := range links {
			byID[link.ReferredID] = link
		}

		for _, la := range acc.Links {
			if !la.Changed() {
				continue
			}

			link := byID[la.ReferredID]
			link.LastRewardedGold = la.GoldMark
			link.LastRewardedDiamond = la.DiamondMark
			link.RewardsCollected = true

			err = s.referrals.Update(ctx, tx, link)
			if err != nil {
				return l, economy.AuditEntry{}, fmt.Errorf("advance watermark: %w", err)
			}
		}

		credited = rewards.ApplyAccrual(&l, acc)

		entry := economy.AuditEntry{
			Purpose:      economy.PurposeReferralPayout,
			RewardType:   economy.CurrencyGold,
			RewardAmount: decimal.NewFromInt(credited),
			OccurredAt:   now,
		}

		if credited == 0 && acc.Diamonds.IsPositive() {
			entry.RewardType = economy.CurrencyDiamonds
			entry.RewardAmount = acc.Diamonds
		}

		return l, entry, nil
	})
	if err != nil {
		return ReferralClaimResult{}, fmt.Errorf("claim referral rewards: %w", err)
	}

	payouts := make([]LinkPayout, 0, len(acc.Links))
	for _, la := range acc.Links {
		payouts = append(payouts, LinkPayout{ReferredID: la.ReferredID, Gold: la.Gold, Diamonds: la.Diamonds})
	}

	return ReferralClaimResult{
		Ledger:       s.view(saved, now),
		Links:        payouts,
		GoldAccrued:  acc.Gold,
		GoldCredited: credited,
		Diamonds:     acc.Diamonds,
	}, nil
}

// Referrals lists the links the user created, newest last.
func (s *Service) Referrals(ctx context.Context, userID uint64) ([]economy.ReferralLink, error) {
	err := s.ledgers.Exists(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	links, err := s.referrals.ListByReferrer(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list referrals: %w", err)
	}

	return links, nil
}
