// Package scheduler implements §4.6: the timer heap, microtask queue and
// deterministic clock. Grounded on the teacher's container/heap-based
// timerHeap (eventloop/loop.go), adapted from a real wall-clock-driven
// event loop to a single-threaded virtual clock advanced only by explicit
// API calls, per §5's "no parallelism, no locks" scheduling model.
package scheduler

import (
	"container/heap"
	"fmt"

	"github.com/domharness/domharness/internal/value"
)

// Task is one pending timer (setTimeout/setInterval) entry.
type Task struct {
	ID            uint64
	DueAt         int64
	InsertionOrder uint64
	IntervalMs    int64 // 0 for setTimeout, >0 for setInterval
	Run           func(args []value.Value) error
	Args          []value.Value
	Canceled      bool
}

// taskHeap is a min-heap ordered by (DueAt, InsertionOrder), the same
// shape as the teacher's timerHeap but keyed on a logical clock instead of
// wall time.
type taskHeap []*Task

func (h taskHeap) Len() int { return len(h) }
func (h taskHeap) Less(i, j int) bool {
	if h[i].DueAt != h[j].DueAt {
		return h[i].DueAt < h[j].DueAt
	}
	return h[i].InsertionOrder < h[j].InsertionOrder
}
func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *taskHeap) Push(x any)   { *h = append(*h, x.(*Task)) }
func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// StepLimitError is the fatal, non-recoverable error raised when a single
// drain exceeds the configured step budget (§4.6, §7: "designed to guard
// tests, not to be caught").
type StepLimitError struct {
	Limit int
	NowMs int64
	Steps int
}

func (e *StepLimitError) Error() string {
	return fmt.Sprintf("timer step limit (%d) exceeded at clock=%dms, steps=%d", e.Limit, e.NowMs, e.Steps)
}

// Scheduler owns the timer heap, the microtask FIFO queue, and the
// deterministic clock.
type Scheduler struct {
	heap   taskHeap
	byID   map[uint64]*Task
	nextID uint64
	nextOrder uint64

	microtasks []func()

	NowMs int64

	StepLimit int

	RunningTimerID       uint64
	RunningTimerCanceled bool

	OnTaskError func(error) // invoked with the first error seen during a drain
}

// New builds a Scheduler with the given step-limit default (§4.6: "a
// configuration number with a default").
func New(stepLimit int) *Scheduler {
	return &Scheduler{byID: make(map[uint64]*Task), StepLimit: stepLimit}
}

// SetTimeout schedules a one-shot task, clamping a negative delay to zero
// per §4.6.
func (s *Scheduler) SetTimeout(delayMs int64, run func(args []value.Value) error, args []value.Value) uint64 {
	return s.schedule(delayMs, 0, run, args)
}

// SetInterval schedules a repeating task.
func (s *Scheduler) SetInterval(delayMs int64, run func(args []value.Value) error, args []value.Value) uint64 {
	return s.schedule(delayMs, delayMs, run, args)
}

func (s *Scheduler) schedule(delayMs, intervalMs int64, run func(args []value.Value) error, args []value.Value) uint64 {
	if delayMs < 0 {
		delayMs = 0
	}
	s.nextID++
	s.nextOrder++
	t := &Task{
		ID: s.nextID, DueAt: s.NowMs + delayMs, InsertionOrder: s.nextOrder,
		IntervalMs: intervalMs, Run: run, Args: args,
	}
	s.byID[t.ID] = t
	heap.Push(&s.heap, t)
	return t.ID
}

// ClearTimeout/ClearInterval implement §4.6 cancellation: remove a pending
// task, or if it is currently firing, suppress its interval reschedule via
// the running-timer interlock (§3, §5).
func (s *Scheduler) ClearTimeout(id uint64) { s.clear(id) }
func (s *Scheduler) ClearInterval(id uint64) { s.clear(id) }

func (s *Scheduler) clear(id uint64) {
	if id == s.RunningTimerID {
		s.RunningTimerCanceled = true
	}
	t, ok := s.byID[id]
	if !ok {
		return
	}
	t.Canceled = true
	delete(s.byID, id)
	for i, item := range s.heap {
		if item.ID == id {
			heap.Remove(&s.heap, i)
			break
		}
	}
}

// QueueMicrotask appends fn to the FIFO microtask queue.
func (s *Scheduler) QueueMicrotask(fn func()) { s.microtasks = append(s.microtasks, fn) }

// DrainMicrotasks runs every queued microtask to exhaustion, including ones
// enqueued by earlier microtasks (§5: "run to exhaustion"), as its own
// top-level drain against a fresh step budget.
func (s *Scheduler) DrainMicrotasks() error {
	steps := 0
	return s.drainMicrotasks(&steps)
}

func (s *Scheduler) drainMicrotasks(steps *int) error {
	for len(s.microtasks) > 0 {
		*steps++
		if s.StepLimit > 0 && *steps > s.StepLimit {
			return &StepLimitError{Limit: s.StepLimit, NowMs: s.NowMs, Steps: *steps}
		}
		fn := s.microtasks[0]
		s.microtasks = s.microtasks[1:]
		fn()
	}
	return nil
}

// AdvanceTime implements §4.6 "Advance": repeatedly fires due timers,
// draining microtasks after each, then sets now := now + delta. The step
// limit bounds the combined count of timer fires and microtask runs across
// the whole call (§4.6: "total of timer+microtask ticks per drain").
func (s *Scheduler) AdvanceTime(deltaMs int64) error {
	steps := 0
	target := s.NowMs + deltaMs
	for s.heap.Len() > 0 {
		next := s.heap[0]
		if next.DueAt > target {
			break
		}
		steps++
		if s.StepLimit > 0 && steps > s.StepLimit {
			return &StepLimitError{Limit: s.StepLimit, NowMs: s.NowMs, Steps: steps}
		}
		heap.Pop(&s.heap)
		delete(s.byID, next.ID)
		s.NowMs = next.DueAt
		s.RunningTimerID = next.ID
		s.RunningTimerCanceled = false
		err := next.Run(next.Args)
		canceled := s.RunningTimerCanceled
		s.RunningTimerID = 0
		if err != nil {
			if s.OnTaskError != nil {
				s.OnTaskError(err)
			}
			return err
		}
		if next.IntervalMs > 0 && !canceled {
			s.nextOrder++
			next.DueAt += next.IntervalMs
			next.InsertionOrder = s.nextOrder
			s.byID[next.ID] = next
			heap.Push(&s.heap, next)
		}
		if err := s.drainMicrotasks(&steps); err != nil {
			return err
		}
	}
	s.NowMs = target
	return nil
}

// HasPendingTimers reports whether any timer remains in the heap.
func (s *Scheduler) HasPendingTimers() bool { return s.heap.Len() > 0 }
