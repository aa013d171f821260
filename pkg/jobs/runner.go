package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is a named piece of maintenance work executed on a fixed interval.
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(context.Context) error
}

// Runner drives periodic maintenance tasks in background goroutines.
type Runner struct {
	logger *zap.Logger

	mu      sync.Mutex
	tasks   []Task
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

// NewRunner builds an empty runner.
func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger}
}

// Add registers a task. Tasks added after Start are ignored.
func (r *Runner) Add(task Task) {
	if task.Run == nil || task.Interval <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	r.tasks = append(r.tasks, task)
}

// Start launches one goroutine per registered task. Safe to call once.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return
	}
	r.ctx, r.cancel = context.WithCancel(ctx)
	for _, task := range r.tasks {
		r.wg.Add(1)
		go r.loop(task)
	}
	r.started = true
	r.logger.Sugar().Infow("maintenance runner started", "tasks", len(r.tasks))
}

// Stop cancels all tasks and waits for them to exit.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return
	}
	r.cancel()
	r.mu.Unlock()
	r.wg.Wait()
	r.logger.Sugar().Infow("maintenance runner stopped")
}

func (r *Runner) loop(task Task) {
	defer r.wg.Done()
	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			if err := task.Run(r.ctx); err != nil {
				r.logger.Sugar().Warnw("maintenance task failed", "task", task.Name, "error", err)
			}
		}
	}
}
