package ledgers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/economyledger/internal/economy"
)

// Balances reads the committed balances of userIDs without locking them.
// Unknown ids are absent from the result.
func (r *ledgersRepo) Balances(ctx context.Context, tx *sql.Tx, userIDs []uint64) (map[uint64]economy.BalanceSnapshot, error) {
	out := make(map[uint64]economy.BalanceSnapshot, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	ids := make([]int64, len(userIDs))
	for i, id := range userIDs {
		ids[i] = int64(id)
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT id, gold, diamonds, bonus_spins
		FROM users
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("query balances: %w", err)
	}
	//nolint:errcheck
	defer rows.Close()

	for rows.Next() {
		var (
			id uint64
			b  economy.BalanceSnapshot
		)

		err = rows.Scan(&id, &b.Gold, &b.Diamonds, &b.BonusSpins)
		if err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}

		out[id] = b
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate balances: %w", err)
	}

	return out, nil
}
