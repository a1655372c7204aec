package scheduler

import (
	"container/heap"
	"context"
	"log/slog"
	"sync"
	"time"
)

// Task is a one-shot deferred action.
type Task func()

type entry struct {
	at   time.Time
	seq  uint64
	task Task
}

type taskHeap []entry

func (h taskHeap) Len() int { return len(h) }
func (h taskHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}
func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *taskHeap) Push(x any)   { *h = append(*h, x.(entry)) }
func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = entry{}
	*h = old[:n-1]
	return e
}

// Scheduler runs tasks at or after their fire time, ordered by (fire time, scheduling order).
// There is no cancellation; tasks re-check their preconditions when they fire.
type Scheduler struct {
	clock Clock

	mu    sync.Mutex
	queue taskHeap
	seq   uint64
	wake  chan struct{}
}

func New(clock Clock) *Scheduler {
	return &Scheduler{
		clock: clock,
		wake:  make(chan struct{}, 1),
	}
}

// Schedule arms task to fire at t.
func (s *Scheduler) Schedule(t time.Time, task Task) {
	s.mu.Lock()
	s.seq++
	heap.Push(&s.queue, entry{at: t, seq: s.seq, task: task})
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// After arms task to fire d from now.
func (s *Scheduler) After(d time.Duration, task Task) {
	s.Schedule(s.clock.Now().Add(d), task)
}

// Pending returns the number of armed tasks.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// RunDue fires every task whose time has come, in order, on the calling goroutine.
// Tasks scheduled by a running task are fired in the same call if they are already due.
func (s *Scheduler) RunDue() int {
	fired := 0
	for {
		task, ok := s.popDue(s.clock.Now())
		if !ok {
			return fired
		}
		s.fire(task)
		fired++
	}
}

func (s *Scheduler) popDue(now time.Time) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 || s.queue[0].at.After(now) {
		return nil, false
	}
	e := heap.Pop(&s.queue).(entry)
	return e.task, true
}

func (s *Scheduler) fire(task Task) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("scheduler: Task panicked", "panic", r)
		}
	}()
	task()
}

func (s *Scheduler) next() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return time.Time{}, false
	}
	return s.queue[0].at, true
}

// Run fires tasks as they become due until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		s.RunDue()

		wait := time.Hour
		if at, ok := s.next(); ok {
			wait = at.Sub(s.clock.Now())
			if wait < 0 {
				wait = 0
			}
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.wake:
		case <-timer.C:
		}
	}
}
