package ledgers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/economyledger/internal/economy"
)

// LockAndGet reads the ledger and holds its row lock until tx ends.
func (r *ledgersRepo) LockAndGet(ctx context.Context, tx *sql.Tx, userID uint64) (economy.UserLedger, error) {
	row := tx.QueryRowContext(ctx, `
		SELECT `+columns+`
		FROM users
		WHERE id = $1
		FOR UPDATE
	`, userID)

	l, err := scanLedger(row)
	if err != nil {
		return economy.UserLedger{}, notFound(err, fmt.Sprintf("lock/get ledger %d", userID))
	}

	return l, nil
}
