package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fastprodman/economyledger/internal/economy"
	"github.com/fastprodman/economyledger/internal/economy/rewards"
	"github.com/fastprodman/economyledger/internal/repos/tasks"
)

// SpendToContinue debits gold or diamonds to continue a game.
func (s *Service) SpendToContinue(ctx context.Context, userID uint64, currency economy.Currency, amount decimal.Decimal) (View, error) {
	if currency != economy.CurrencyGold && currency != economy.CurrencyDiamonds {
		return View{}, fmt.Errorf("%w: cannot spend %q", economy.ErrInvalidInput, currency)
	}

	if !amount.IsPositive() {
		return View{}, fmt.Errorf("%w: amount must be positive", economy.ErrInvalidInput)
	}

	var now time.Time

	saved, err := s.coord.Apply(ctx, userID, func(_ context.Context, _ *sql.Tx, l economy.UserLedger) (economy.UserLedger, economy.AuditEntry, error) {
		now = s.clock.Now()

		err := rewards.Debit(&l, currency, amount)
		if err != nil {
			return l, economy.AuditEntry{}, err
		}

		return l, economy.AuditEntry{
			Purpose:      economy.PurposeContinue,
			RewardType:   currency,
			RewardAmount: amount.Neg(),
			OccurredAt:   now,
		}, nil
	})
	if err != nil {
		return View{}, fmt.Errorf("spend to continue: %w", err)
	}

	return s.view(saved, now), nil
}

// TaskReward is a task definition as supplied by the task catalog.
type TaskReward struct {
	TaskID   string
	Currency economy.Currency
	Amount   decimal.Decimal
}

// CompleteTask credits a task's reward once per user and task.
func (s *Service) CompleteTask(ctx context.Context, userID uint64, task TaskReward) (TaskResult, error) {
	switch {
	case task.TaskID == "" || len(task.TaskID) > maxExternalIDLen:
		return TaskResult{}, fmt.Errorf("%w: task id must be 1..%d characters", economy.ErrInvalidInput, maxExternalIDLen)
	case task.Currency != economy.CurrencyGold && task.Currency != economy.CurrencyDiamonds && task.Currency != economy.CurrencyBonusSpins:
		return TaskResult{}, fmt.Errorf("%w: task reward currency %q", economy.ErrInvalidInput, task.Currency)
	case !task.Amount.IsPositive():
		return TaskResult{}, fmt.Errorf("%w: task reward must be positive", economy.ErrInvalidInput)
	}

	var now time.Time

	saved, err := s.coord.Apply(ctx, userID, func(ctx context.Context, tx *sql.Tx, l economy.UserLedger) (economy.UserLedger, economy.AuditEntry, error) {
		now = s.clock.Now()

		err := rewards.Credit(&l, task.Currency, task.Amount)
		if err != nil {
			return l, economy.AuditEntry{}, err
		}

		err = s.tasks.Insert(ctx, tx, tasks.Completion{
			UserID:       l.UserID,
			TaskID:       task.TaskID,
			RewardType:   task.Currency,
			RewardAmount: task.Amount,
			CompletedAt:  now,
		})
		if err != nil {
			return l, economy.AuditEntry{}, err
		}

		return l, economy.AuditEntry{
			Purpose:      economy.PurposeTaskCompleted,
			RewardType:   task.Currency,
			RewardAmount: task.Amount,
			OccurredAt:   now,
		}, nil
	})
	if err != nil {
		return TaskResult{}, fmt.Errorf("complete task %q: %w", task.TaskID, err)
	}

	return TaskResult{
		Ledger: s.view(saved, now),
		TaskID: task.TaskID,
		Reward: Reward{Currency: task.Currency, Amount: task.Amount},
	}, nil
}
