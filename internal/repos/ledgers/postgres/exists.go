package ledgers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/economyledger/internal/economy"
)

// Exists runs inside tx when one is given, otherwise on the pool.
func (r *ledgersRepo) Exists(ctx context.Context, tx *sql.Tx, userID uint64) error {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`

	var row *sql.Row
	if tx != nil {
		row = tx.QueryRowContext(ctx, query, userID)
	} else {
		row = r.db.QueryRowContext(ctx, query, userID)
	}

	var exists bool

	err := row.Scan(&exists)
	if err != nil {
		return fmt.Errorf("check user exists: %w", err)
	}

	if !exists {
		return fmt.Errorf("user %d: %w", userID, economy.ErrNotFound)
	}

	return nil
}
