package audit

import (
	"context"
	"database/sql"

	"github.com/fastprodman/economyledger/internal/economy"
)

// Log is the append-only audit trail. There is deliberately no update or
// delete.
type Log interface {
	Append(ctx context.Context, tx *sql.Tx, e economy.AuditEntry) error
	ListByUser(ctx context.Context, userID uint64, limit int) ([]economy.AuditEntry, error)
}
