package memory

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/fastprodman/economyledger/internal/economy"
	"github.com/fastprodman/economyledger/internal/repos/audit"
)

var _ audit.Log = (*Audit)(nil)

type Audit struct{ s *Store }

func (r *Audit) Append(_ context.Context, _ *sql.Tx, e economy.AuditEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.FailAudit != nil {
		return r.s.FailAudit
	}

	if !e.Purpose.Valid() {
		return fmt.Errorf("unknown audit purpose %q", e.Purpose)
	}

	r.s.st.audit = append(r.s.st.audit, e)

	return nil
}

func (r *Audit) ListByUser(_ context.Context, userID uint64, limit int) ([]economy.AuditEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []economy.AuditEntry

	for _, e := range slices.Backward(r.s.st.audit) {
		if len(out) >= limit {
			break
		}

		if e.UserID == userID {
			out = append(out, e)
		}
	}

	return out, nil
}
