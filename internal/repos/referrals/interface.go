package referrals

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fastprodman/economyledger/internal/economy"
)

// ErrAlreadyReferred means the referred user already has a referrer.
var ErrAlreadyReferred = errors.New("user already referred")

type Links interface {
	Create(ctx context.Context, tx *sql.Tx, link economy.ReferralLink) error
	// LockByReferred returns the link of referredID, locked until tx ends.
	LockByReferred(ctx context.Context, tx *sql.Tx, referredID uint64) (economy.ReferralLink, error)
	// LockActiveByReferrer returns the active links of referrerID, locked
	// until tx ends.
	LockActiveByReferrer(ctx context.Context, tx *sql.Tx, referrerID uint64) ([]economy.ReferralLink, error)
	Update(ctx context.Context, tx *sql.Tx, link economy.ReferralLink) error
	ListByReferrer(ctx context.Context, referrerID uint64) ([]economy.ReferralLink, error)
}
