package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunnerExecutesTasksUntilStopped(t *testing.T) {
	var runs atomic.Int32
	runner := NewRunner(nil)
	runner.Add(Task{
		Name:     "tick",
		Interval: 5 * time.Millisecond,
		Run: func(context.Context) error {
			runs.Add(1)
			return nil
		},
	})

	runner.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	runner.Stop()

	count := runs.Load()
	require.Greater(t, count, int32(0))

	time.Sleep(15 * time.Millisecond)
	require.Equal(t, count, runs.Load())
}

func TestRunnerIgnoresInvalidTasks(t *testing.T) {
	runner := NewRunner(nil)
	runner.Add(Task{Name: "no-op"})
	runner.Add(Task{Name: "no-interval", Run: func(context.Context) error { return nil }})

	runner.Start(context.Background())
	runner.Stop()
}
