// Package shutdownqueue provides a process-wide LIFO queue of named cleanup
// tasks, drained once at the end of main:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//	defer shutdownqueue.Shutdown(ctx)
//
// Tasks run once, in reverse order of registration. Panics are recovered and
// reported as errors. Shutdown is idempotent and returns every task failure
// joined with errors.Join, each prefixed by the task's name.
package shutdownqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Task is a shutdown function. It should honor ctx and return an error
// if it can't finish (or ctx is canceled).
type Task func(ctx context.Context) error

type entry struct {
	name string
	run  Task
}

type queue struct {
	mu     sync.Mutex
	tasks  []entry
	closed bool
}

var q = &queue{tasks: make([]entry, 0, 8)}

// Add registers a task to be run on Shutdown, in LIFO order. name appears in
// logs and errors. If t is nil or shutdown has already started, Add does
// nothing.
func Add(name string, t Task) {
	if t == nil {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.tasks = append(q.tasks, entry{name: name, run: t})
}

// Shutdown drains all registered tasks in LIFO order. After the first run
// subsequent calls are no-ops.
//
// If ctx is done mid-drain, Shutdown stops early and returns the context
// error joined with any task errors so far.
func Shutdown(ctx context.Context) error {
	q.mu.Lock()

	if q.closed && len(q.tasks) == 0 {
		q.mu.Unlock()

		return nil
	}

	q.closed = true
	tasks := q.tasks
	q.tasks = nil

	q.mu.Unlock()

	var errs []error

	for i := len(tasks) - 1; i >= 0; i-- {
		select {
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("shutdown canceled before %q: %w", tasks[i].name, ctx.Err()))

			return errors.Join(errs...)
		default:
		}

		err := runTask(ctx, tasks[i])
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func runTask(ctx context.Context, e entry) (err error) {
	begin := time.Now()

	defer func() {
		r := recover()
		if r != nil {
			err = fmt.Errorf("%s: panic in shutdown task: %v", e.name, r)
		}

		if err != nil {
			slog.Error("shutdown task failed", "task", e.name, "error", err)
			return
		}

		slog.Info("shutdown task done", "task", e.name, "duration", time.Since(begin))
	}()

	err = e.run(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", e.name, err)
	}

	return nil
}
