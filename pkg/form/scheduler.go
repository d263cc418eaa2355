package form

import (
	"sync"
	"time"
)

// Scheduler runs a task after the current call returns.
type Scheduler interface {
	Defer(task func())
}

// SchedulerFunc adapts a plain function to Scheduler.
type SchedulerFunc func(task func())

func (f SchedulerFunc) Defer(task func()) { f(task) }

// TimerScheduler runs each task on a zero-delay timer goroutine.
type TimerScheduler struct{}

func (TimerScheduler) Defer(task func()) {
	time.AfterFunc(0, task)
}

// Queue is a FIFO of deferred tasks drained by Flush.
// The zero value is ready to use.
type Queue struct {
	mu    sync.Mutex
	tasks []func()
}

func (q *Queue) Defer(task func()) {
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Flush runs pending tasks in order until the queue is empty, including tasks
// scheduled while flushing. It returns how many tasks ran.
func (q *Queue) Flush() int {
	ran := 0
	for {
		q.mu.Lock()
		if len(q.tasks) == 0 {
			q.mu.Unlock()
			return ran
		}
		task := q.tasks[0]
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		task()
		ran++
	}
}
