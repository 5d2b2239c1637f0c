package memory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/economyledger/internal/economy"
	"github.com/fastprodman/economyledger/internal/repos/ledgers"
)

var _ ledgers.Ledgers = (*Ledgers)(nil)

type Ledgers struct{ s *Store }

func (r *Ledgers) Create(_ context.Context, _ *sql.Tx, l economy.UserLedger) (economy.UserLedger, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.st.external[l.ExternalID]; ok {
		return economy.UserLedger{}, ledgers.ErrDuplicateExternalID
	}

	l = l.Clone()
	l.UserID = r.s.st.nextUserID
	l.Version = 0
	l.CreatedAt = r.s.now()
	l.UpdatedAt = l.CreatedAt

	r.s.st.nextUserID++
	r.s.st.ledgers[l.UserID] = l
	r.s.st.external[l.ExternalID] = l.UserID

	return l.Clone(), nil
}

func (r *Ledgers) Get(_ context.Context, userID uint64) (economy.UserLedger, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.get(userID)
}

func (r *Ledgers) GetByExternalID(_ context.Context, externalID string) (economy.UserLedger, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id, ok := r.s.st.external[externalID]
	if !ok {
		return economy.UserLedger{}, fmt.Errorf("ledger of %q: %w", externalID, economy.ErrNotFound)
	}

	return r.get(id)
}

func (r *Ledgers) LockAndGet(_ context.Context, _ *sql.Tx, userID uint64) (economy.UserLedger, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.get(userID)
}

func (r *Ledgers) Save(_ context.Context, _ *sql.Tx, l economy.UserLedger) (economy.UserLedger, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.st.ledgers[l.UserID]
	if !ok {
		return economy.UserLedger{}, fmt.Errorf("ledger %d: %w", l.UserID, economy.ErrNotFound)
	}

	if r.s.Conflicts > 0 {
		r.s.Conflicts--
		return economy.UserLedger{}, ledgers.ErrVersionConflict
	}

	if cur.Version != l.Version {
		return economy.UserLedger{}, ledgers.ErrVersionConflict
	}

	l = l.Clone()
	l.Version++
	l.CreatedAt = cur.CreatedAt
	l.UpdatedAt = r.s.now()
	r.s.st.ledgers[l.UserID] = l

	return l.Clone(), nil
}

func (r *Ledgers) Exists(_ context.Context, _ *sql.Tx, userID uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, err := r.get(userID)

	return err
}

func (r *Ledgers) Balances(_ context.Context, _ *sql.Tx, userIDs []uint64) (map[uint64]economy.BalanceSnapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make(map[uint64]economy.BalanceSnapshot, len(userIDs))

	for _, id := range userIDs {
		l, ok := r.s.st.ledgers[id]
		if ok {
			out[id] = l.Balances()
		}
	}

	return out, nil
}

func (r *Ledgers) get(userID uint64) (economy.UserLedger, error) {
	l, ok := r.s.st.ledgers[userID]
	if !ok {
		return economy.UserLedger{}, fmt.Errorf("ledger %d: %w", userID, economy.ErrNotFound)
	}

	return l.Clone(), nil
}
