package tasks

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

type Task = func()

var ErrQueueClosed = errors.New("background tasks queue is closed")

type namedTask struct {
	name string
	run  Task
}

// BackgroudTasks runs fire-and-forget work (mail delivery) on a fixed pool of workers.
type BackgroudTasks struct {
	log        *slog.Logger
	tasks      chan namedTask
	maxWorkers int
	wg         *sync.WaitGroup
	mu         sync.RWMutex
	closed     bool
}

func New(log *slog.Logger, maxWorkers int, maxTasksQueueSize int) *BackgroudTasks {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	wg := &sync.WaitGroup{}
	wg.Add(maxWorkers)
	return &BackgroudTasks{
		log:        log,
		maxWorkers: maxWorkers,
		wg:         wg,
		tasks:      make(chan namedTask, maxTasksQueueSize),
	}
}

func (t *BackgroudTasks) Run() {
	for i := 0; i < t.maxWorkers; i++ {
		go func(worker int) {
			log := t.log.With("worker", worker)
			defer t.wg.Done()
			for task := range t.tasks {
				t.execute(log, task)
			}
		}(i)
	}
}

func (t *BackgroudTasks) execute(log *slog.Logger, task namedTask) {
	defer func() {
		if err := recover(); err != nil {
			log.Error("panic", "task", task.name, "err", err)
		}
	}()
	task.run()
	log.Debug("task done", "task", task.name)
}

// Add queues a task. It blocks while the queue is full and fails once Shutdown was called.
func (t *BackgroudTasks) Add(name string, task Task) error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return ErrQueueClosed
	}
	t.tasks <- namedTask{name: name, run: task}
	return nil
}

func (t *BackgroudTasks) Shutdown(ctx context.Context) error {
	const op = "tasks.BackgroudTasks.Shutdown"
	log := t.log.With("op", op)
	log.Info("shutting down background tasks")
	t.mu.Lock()
	if !t.closed {
		t.closed = true
		close(t.tasks)
	}
	t.mu.Unlock()
	shutdownCh := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(shutdownCh)
	}()
	select {
	case <-ctx.Done():
		log.Warn("graceful shutdown timed out.. forcing exit", "timeout", ctx.Err())
		return ctx.Err()
	case <-shutdownCh:
		log.Info("Background tasks succesfully stopped")
		return nil
	}
}

// IsEmpty reports whether no tasks are waiting in the queue.
func (t *BackgroudTasks) IsEmpty() bool {
	return len(t.tasks) == 0
}
