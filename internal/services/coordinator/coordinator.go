// Package coordinator is the single writer of user ledgers. Every mutation
// of a ledger goes through Apply, which serializes mutations of one user,
// runs them on a private copy, checks the ledger invariants and commits the
// new ledger together with exactly one audit entry.
package coordinator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fastprodman/economyledger/internal/economy"
	"github.com/fastprodman/economyledger/internal/infra/clock"
	"github.com/fastprodman/economyledger/internal/infra/keylock"
	"github.com/fastprodman/economyledger/internal/infra/logging"
	"github.com/fastprodman/economyledger/internal/infra/pgutils"
	"github.com/fastprodman/economyledger/internal/repos/audit"
	"github.com/fastprodman/economyledger/internal/repos/ledgers"
)

// Mutation computes the next ledger from current. It must not retain current
// or next, and its own writes through tx commit or roll back with the
// ledger. It may run more than once when the write has to be retried.
type Mutation func(ctx context.Context, tx *sql.Tx, current economy.UserLedger) (economy.UserLedger, economy.AuditEntry, error)

// Runner runs fn inside one transaction.
type Runner interface {
	InTx(ctx context.Context, fn func(*sql.Tx) error) error
}

type Config struct {
	MaxRetries  int
	LockTimeout time.Duration
	TxTimeout   time.Duration
	HeartCaps   map[string]int
}

type Coordinator struct {
	runner  Runner
	ledgers ledgers.Ledgers
	audit   audit.Log
	clock   clock.Clock
	locks   *keylock.Locker[uint64]
	cfg     Config
}

func New(runner Runner, l ledgers.Ledgers, a audit.Log, clk clock.Clock, cfg Config) *Coordinator {
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}

	if cfg.TxTimeout <= 0 {
		cfg.TxTimeout = 10 * time.Second
	}

	return &Coordinator{
		runner:  runner,
		ledgers: l,
		audit:   a,
		clock:   clk,
		locks:   keylock.New[uint64](),
		cfg:     cfg,
	}
}

// Apply runs fn against the current ledger of userID and commits the result.
// Domain errors returned by fn are returned unchanged in meaning and leave
// the ledger untouched. Concurrent writers that keep winning the race
// produce economy.ErrContention after the configured number of attempts.
func (c *Coordinator) Apply(ctx context.Context, userID uint64, fn Mutation) (economy.UserLedger, error) {
	log := logging.FromContext(ctx).With("userId", userID)

	unlock, err := c.acquire(ctx, userID)
	if err != nil {
		return economy.UserLedger{}, err
	}
	defer unlock()

	// Once the slot is held the write runs to completion even if the caller
	// goes away.
	txCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.TxTimeout)
	defer cancel()

	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		log.Debug("apply mutation", "attempt", attempt)

		saved, err := c.attempt(txCtx, userID, fn)
		if err == nil {
			return saved, nil
		}

		if !retryable(err) {
			if !economy.IsDomain(err) {
				log.Error("mutation failed", "attempt", attempt, "error", err)
			}

			return economy.UserLedger{}, err
		}

		log.Warn("mutation conflicted, retrying", "attempt", attempt, "error", err)

		err = sleep(txCtx, backoff(attempt))
		if err != nil {
			break
		}
	}

	log.Warn("mutation gave up", "attempts", c.cfg.MaxRetries)

	return economy.UserLedger{}, fmt.Errorf("user %d after %d attempts: %w", userID, c.cfg.MaxRetries, economy.ErrContention)
}

// Create inserts a new ledger with its registration audit entry. after runs
// in the same transaction, so anything it writes commits with the ledger.
func (c *Coordinator) Create(
	ctx context.Context,
	l economy.UserLedger,
	entry economy.AuditEntry,
	after func(ctx context.Context, tx *sql.Tx, created economy.UserLedger) error,
) (economy.UserLedger, error) {
	err := l.Validate(c.cfg.HeartCaps)
	if err != nil {
		return economy.UserLedger{}, err
	}

	var created economy.UserLedger

	err = c.runner.InTx(ctx, func(tx *sql.Tx) error {
		var err error

		created, err = c.ledgers.Create(ctx, tx, l)
		if err != nil {
			return fmt.Errorf("create ledger: %w", err)
		}

		err = c.audit.Append(ctx, tx, c.complete(entry, created))
		if err != nil {
			return fmt.Errorf("append audit entry: %w", err)
		}

		if after != nil {
			err = after(ctx, tx, created)
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return economy.UserLedger{}, err
	}

	return created, nil
}

func (c *Coordinator) acquire(ctx context.Context, userID uint64) (func(), error) {
	lockCtx := ctx

	if c.cfg.LockTimeout > 0 {
		var cancel context.CancelFunc

		lockCtx, cancel = context.WithTimeout(ctx, c.cfg.LockTimeout)
		defer cancel()
	}

	unlock, err := c.locks.Lock(lockCtx, userID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("wait for user %d: %w", userID, ctx.Err())
		}

		return nil, fmt.Errorf("user %d busy: %w", userID, economy.ErrContention)
	}

	return unlock, nil
}

func (c *Coordinator) attempt(ctx context.Context, userID uint64, fn Mutation) (economy.UserLedger, error) {
	var saved economy.UserLedger

	err := c.runner.InTx(ctx, func(tx *sql.Tx) error {
		current, err := c.ledgers.LockAndGet(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("load ledger: %w", err)
		}

		next, entry, err := fn(ctx, tx, current.Clone())
		if err != nil {
			return err
		}

		next.UserID = current.UserID
		next.ExternalID = current.ExternalID
		next.Version = current.Version

		err = next.Validate(c.cfg.HeartCaps)
		if err != nil {
			return err
		}

		saved, err = c.ledgers.Save(ctx, tx, next)
		if err != nil {
			return fmt.Errorf("save ledger: %w", err)
		}

		err = c.audit.Append(ctx, tx, c.complete(entry, saved))
		if err != nil {
			return fmt.Errorf("append audit entry: %w", err)
		}

		return nil
	})
	if err != nil {
		return economy.UserLedger{}, err
	}

	return saved, nil
}

// complete fills what the coordinator owns on an audit entry: identity,
// time and the balances the write produced.
func (c *Coordinator) complete(e economy.AuditEntry, l economy.UserLedger) economy.AuditEntry {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	if e.RewardType == "" {
		e.RewardType = economy.CurrencyNone
	}

	if e.OccurredAt.IsZero() {
		e.OccurredAt = c.clock.Now()
	}

	e.UserID = l.UserID
	e.BalanceAfter = l.Balances()

	return e
}

func retryable(err error) bool {
	return errors.Is(err, ledgers.ErrVersionConflict) || pgutils.IsRetryable(err)
}

func backoff(attempt int) time.Duration {
	return time.Duration(attempt) * 5 * time.Millisecond
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
