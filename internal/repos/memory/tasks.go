package memory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fastprodman/economyledger/internal/economy"
	"github.com/fastprodman/economyledger/internal/repos/tasks"
)

var _ tasks.Tasks = (*Tasks)(nil)

type Tasks struct{ s *Store }

func (r *Tasks) Insert(_ context.Context, _ *sql.Tx, c tasks.Completion) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	k := taskKey{userID: c.UserID, taskID: c.TaskID}
	if _, ok := r.s.st.tasks[k]; ok {
		return fmt.Errorf("task %q: %w", c.TaskID, economy.ErrAlreadyCompleted)
	}

	r.s.st.tasks[k] = c

	return nil
}
