package tasks

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/economyledger/internal/economy"
	"github.com/fastprodman/economyledger/internal/infra/pgutils"
	"github.com/fastprodman/economyledger/internal/repos/tasks"
)

var _ tasks.Tasks = (*tasksRepo)(nil)

type tasksRepo struct{ db *sql.DB }

func New(db *sql.DB) *tasksRepo {
	return &tasksRepo{db: db}
}

func (r *tasksRepo) Insert(ctx context.Context, tx *sql.Tx, c tasks.Completion) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO task_completions (user_id, task_id, reward_type, reward_amount, completed_at)
		VALUES ($1, $2, $3, $4, $5)
	`, c.UserID, c.TaskID, string(c.RewardType), c.RewardAmount, c.CompletedAt)
	if err != nil {
		if pgutils.IsUniqueViolation(err) {
			return fmt.Errorf("task %q: %w", c.TaskID, economy.ErrAlreadyCompleted)
		}

		return fmt.Errorf("insert task completion: %w", err)
	}

	return nil
}
