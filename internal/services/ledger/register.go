package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fastprodman/economyledger/internal/economy"
	"github.com/fastprodman/economyledger/internal/infra/logging"
	"github.com/fastprodman/economyledger/internal/repos/ledgers"
)

const maxExternalIDLen = 128

// Register creates the ledger of externalID, or returns the existing one
// with created=false. A referrer that exists gets a new inactive referral
// link and its referral count bumped in the same transaction; an unknown
// referrer is ignored.
func (s *Service) Register(ctx context.Context, externalID string, referrerID *uint64) (View, bool, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" || len(externalID) > maxExternalIDLen {
		return View{}, false, fmt.Errorf("%w: external id must be 1..%d characters", economy.ErrInvalidInput, maxExternalIDLen)
	}

	existing, err := s.ledgers.GetByExternalID(ctx, externalID)
	if err == nil {
		return s.view(existing, s.clock.Now()), false, nil
	}

	if !errors.Is(err, economy.ErrNotFound) {
		return View{}, false, fmt.Errorf("look up ledger: %w", err)
	}

	var created economy.UserLedger

	if referrerID != nil {
		created, err = s.registerReferred(ctx, externalID, *referrerID)
		if errors.Is(err, economy.ErrNotFound) {
			logging.FromContext(ctx).Info("unknown referrer ignored", "referrerId", *referrerID)

			created, err = s.register(ctx, externalID)
		}
	} else {
		created, err = s.register(ctx, externalID)
	}

	if errors.Is(err, ledgers.ErrDuplicateExternalID) {
		existing, err = s.ledgers.GetByExternalID(ctx, externalID)
		if err != nil {
			return View{}, false, fmt.Errorf("read concurrently created ledger: %w", err)
		}

		return s.view(existing, s.clock.Now()), false, nil
	}

	if err != nil {
		return View{}, false, fmt.Errorf("register: %w", err)
	}

	return s.view(created, s.clock.Now()), true, nil
}

func (s *Service) initialLedger(externalID string) economy.UserLedger {
	return economy.UserLedger{
		ExternalID:            externalID,
		Gold:                  s.cfg.StartingGold,
		Diamonds:              decimal.Zero,
		BonusSpins:            s.cfg.StartingSpins,
		Hearts:                maps.Clone(s.hearts.Caps),
		HeartTimers:           map[string]time.Time{},
		ReferralGoldEarned:    decimal.Zero,
		ReferralDiamondEarned: decimal.Zero,
	}
}

func (s *Service) register(ctx context.Context, externalID string) (economy.UserLedger, error) {
	return s.coord.Create(ctx, s.initialLedger(externalID), economy.AuditEntry{Purpose: economy.PurposeRegistered}, nil)
}

// registerReferred creates the new ledger inside the referrer's mutation so
// the link, the new ledger and the referrer's count commit together.
func (s *Service) registerReferred(ctx context.Context, externalID string, referrerID uint64) (economy.UserLedger, error) {
	var created economy.UserLedger

	_, err := s.coord.Apply(ctx, referrerID, func(ctx context.Context, tx *sql.Tx, referrer economy.UserLedger) (economy.UserLedger, economy.AuditEntry, error) {
		now := s.clock.Now()

		var err error

		created, err = s.ledgers.Create(ctx, tx, s.initialLedger(externalID))
		if err != nil {
			return referrer, economy.AuditEntry{}, err
		}

		err = s.audit.Append(ctx, tx, economy.AuditEntry{
			ID:           uuid.New(),
			UserID:       created.UserID,
			Purpose:      economy.PurposeRegistered,
			RewardType:   economy.CurrencyNone,
			RewardAmount: decimal.Zero,
			BalanceAfter: created.Balances(),
			OccurredAt:   now,
		})
		if err != nil {
			return referrer, economy.AuditEntry{}, fmt.Errorf("audit registration: %w", err)
		}

		err = s.referrals.Create(ctx, tx, economy.ReferralLink{
			ID:                  uuid.New(),
			ReferrerID:          referrer.UserID,
			ReferredID:          created.UserID,
			Status:              economy.ReferralInactive,
			LastRewardedGold:    decimal.NewFromInt(created.Gold),
			LastRewardedDiamond: created.Diamonds,
			CreatedAt:           now,
		})
		if err != nil {
			return referrer, economy.AuditEntry{}, fmt.Errorf("create referral link: %w", err)
		}

		referrer.ReferralsMade++

		return referrer, economy.AuditEntry{Purpose: economy.PurposeReferralRegistered, OccurredAt: now}, nil
	})
	if err != nil {
		return economy.UserLedger{}, err
	}

	return created, nil
}
