// Package task runs fire-and-forget background work. Failures are captured
// and logged by the dispatcher, never propagated to the caller that
// triggered them: remote errors must not roll back or block local commits.
package task

import (
	"context"
	"log/slog"
	"sync"
)

type Dispatcher struct {
	log *slog.Logger
	wg  sync.WaitGroup
}

func NewDispatcher(log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}

	return &Dispatcher{log: log}
}

// Go runs fn on its own goroutine. The call never blocks and the caller
// never sees fn's error; it is logged under the task name.
func (d *Dispatcher) Go(name string, fn func(ctx context.Context) error) {
	d.wg.Add(1)

	go func() {
		defer d.wg.Done()

		defer func() {
			if r := recover(); r != nil {
				d.log.Error("background task panicked", "task", name, "panic", r)
			}
		}()

		if err := fn(context.Background()); err != nil {
			d.log.Warn("background task failed", "task", name, "error", err)
		}
	}()
}

// Wait blocks until all dispatched tasks have finished. Used on shutdown and
// by tests that need to observe task effects.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
