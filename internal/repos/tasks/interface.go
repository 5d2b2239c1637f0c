package tasks

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fastprodman/economyledger/internal/economy"
)

// Completion records that a user was rewarded for a task. A (UserID, TaskID)
// pair can be recorded once.
type Completion struct {
	UserID       uint64
	TaskID       string
	RewardType   economy.Currency
	RewardAmount decimal.Decimal
	CompletedAt  time.Time
}

type Tasks interface {
	// Insert fails with economy.ErrAlreadyCompleted for a repeated pair.
	Insert(ctx context.Context, tx *sql.Tx, c Completion) error
}
