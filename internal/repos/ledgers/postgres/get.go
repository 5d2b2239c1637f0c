package ledgers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/economyledger/internal/economy"
)

// Get reads a committed ledger without locking it.
func (r *ledgersRepo) Get(ctx context.Context, userID uint64) (economy.UserLedger, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM users WHERE id = $1`, userID)

	l, err := scanLedger(row)
	if err != nil {
		return economy.UserLedger{}, notFound(err, fmt.Sprintf("get ledger %d", userID))
	}

	return l, nil
}

func (r *ledgersRepo) GetByExternalID(ctx context.Context, externalID string) (economy.UserLedger, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM users WHERE external_id = $1`, externalID)

	l, err := scanLedger(row)
	if err != nil {
		return economy.UserLedger{}, notFound(err, fmt.Sprintf("get ledger by external id %q", externalID))
	}

	return l, nil
}

func notFound(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, economy.ErrNotFound)
	}

	return fmt.Errorf("%s: %w", op, err)
}
