package task_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/warung/internal/task"
)

func TestDispatcher_RunsTask(t *testing.T) {
	d := task.NewDispatcher(nil)

	var ran atomic.Bool

	d.Go("mark", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})
	d.Wait()

	assert.True(t, ran.Load())
}

func TestDispatcher_SwallowsErrors(t *testing.T) {
	d := task.NewDispatcher(nil)

	d.Go("fail", func(ctx context.Context) error {
		return errors.New("remote down")
	})

	// Wait must return normally; the error stays inside the dispatcher.
	d.Wait()
}

func TestDispatcher_SurvivesPanic(t *testing.T) {
	d := task.NewDispatcher(nil)

	d.Go("boom", func(ctx context.Context) error {
		panic("oops")
	})
	d.Wait()

	var ran atomic.Bool

	d.Go("after", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})
	d.Wait()

	assert.True(t, ran.Load())
}
