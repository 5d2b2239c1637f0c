package ledgers

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fastprodman/economyledger/internal/economy"
)

var (
	// ErrVersionConflict means the row changed since it was read.
	ErrVersionConflict = errors.New("ledger version conflict")
	// ErrDuplicateExternalID means a ledger for the external id already exists.
	ErrDuplicateExternalID = errors.New("duplicate external id")
)

// Ledgers stores UserLedger rows. Methods taking a tx run inside the caller's
// transaction (Exists also accepts a nil tx); missing rows are reported as
// economy.ErrNotFound.
type Ledgers interface {
	Create(ctx context.Context, tx *sql.Tx, l economy.UserLedger) (economy.UserLedger, error)
	Get(ctx context.Context, userID uint64) (economy.UserLedger, error)
	GetByExternalID(ctx context.Context, externalID string) (economy.UserLedger, error)
	LockAndGet(ctx context.Context, tx *sql.Tx, userID uint64) (economy.UserLedger, error)
	Save(ctx context.Context, tx *sql.Tx, l economy.UserLedger) (economy.UserLedger, error)
	Exists(ctx context.Context, tx *sql.Tx, userID uint64) error
	Balances(ctx context.Context, tx *sql.Tx, userIDs []uint64) (map[uint64]economy.BalanceSnapshot, error)
}
