// Package shutdownqueue holds a process-wide LIFO queue of named
// cleanup tasks, drained once at the end of main:
//
//	shutdownqueue.Add("db", db.Close)
//	...
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//	defer shutdownqueue.Shutdown(ctx)
//
// Tasks run in reverse registration order so that dependents close
// before their dependencies. Panics inside a task are recovered and
// reported as errors; Shutdown runs the queue at most once.
package shutdownqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Task is a cleanup function. It should honor ctx and report whether
// it finished cleanly.
type Task func(ctx context.Context) error

type entry struct {
	name string
	task Task
}

var (
	mu      sync.Mutex
	pending []entry
	drained bool
)

// Add registers a named task to run on Shutdown. Nil tasks and tasks
// registered after Shutdown has started are dropped silently.
func Add(name string, t Task) {
	if t == nil {
		return
	}

	mu.Lock()
	defer mu.Unlock()

	if drained {
		return
	}

	pending = append(pending, entry{name: name, task: t})
}

// Shutdown drains the queue in LIFO order. The first call takes every
// registered task; later calls are no-ops. If ctx expires mid-drain
// the remaining tasks are skipped and the context error is included in
// the joined result.
func Shutdown(ctx context.Context) error {
	mu.Lock()

	if drained {
		mu.Unlock()

		return nil
	}

	drained = true
	tasks := pending
	pending = nil

	mu.Unlock()

	var errs []error

	for i := len(tasks) - 1; i >= 0; i-- {
		select {
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("shutdown interrupted: %w", ctx.Err()))

			return errors.Join(errs...)
		default:
		}

		err := runTask(ctx, tasks[i])
		if err != nil {
			slog.Error("shutdown task failed", "task", tasks[i].name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", tasks[i].name, err))
		}
	}

	return errors.Join(errs...)
}

func runTask(ctx context.Context, e entry) (err error) {
	defer func() {
		r := recover()
		if r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	return e.task(ctx)
}

// reset clears the queue. Test hook only.
func reset() {
	mu.Lock()
	defer mu.Unlock()

	pending = nil
	drained = false
}
