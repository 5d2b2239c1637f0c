package coordinator

import (
	"context"
	"database/sql"
	"time"

	"github.com/fastprodman/economyledger/internal/infra/pgutils"
)

// DBRunner runs transactions on a Postgres pool with a bounded row-lock wait.
type DBRunner struct {
	DB          *sql.DB
	LockTimeout time.Duration
}

func (r DBRunner) InTx(ctx context.Context, fn func(*sql.Tx) error) error {
	return pgutils.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		err := pgutils.SetLockTimeout(ctx, tx, r.LockTimeout)
		if err != nil {
			return err
		}

		return fn(tx)
	})
}
