package sim

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vitalsim/vitalsim/sim/metrics"
)

// Task is a periodically re-invoked unit of work bound to one
// (patient, generator-kind) pair. Tasks are created once at startup and
// live until the scheduler stops.
type Task struct {
	Name      string // e.g. "Saturation/patient_12", used in fault logs
	PatientID int
	Body      func()
}

// Scheduler runs registered tasks at a fixed rate on a bounded worker pool.
//
// Fixed-rate semantics: the nominal next-fire time is the previous nominal
// fire time plus the period, independent of execution duration. An execution
// that overruns its period makes the next fire due immediately, and catch-up
// accumulates rather than being skipped.
//
// A task executes serially with respect to itself: the next fire is enqueued
// only after the previous execution returns. That keeps each task's generator
// state single-owner and its timestamps monotonic even while catching up.
//
// A panic inside a task body is recovered and logged; the task's future fires
// are unaffected. Nothing a task does can silently kill its schedule.
type Scheduler struct {
	workers int

	mu      sync.Mutex
	pending *taskHeap
	seq     uint64
	stopped bool

	execCh chan *taskEntry
	wake   chan struct{}
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewScheduler creates a Scheduler with the given worker pool size.
// Sizes below 1 are raised to 1.
func NewScheduler(workers int) *Scheduler {
	if workers < 1 {
		workers = 1
	}
	return &Scheduler{
		workers: workers,
		pending: newTaskHeap(),
		execCh:  make(chan *taskEntry),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Schedule registers a task to run repeatedly at period intervals, first
// firing after initialDelay. Safe to call before or after Start.
func (s *Scheduler) Schedule(t *Task, initialDelay, period time.Duration) {
	if period <= 0 {
		logrus.Warnf("Task %s: refusing non-positive period %v", t.Name, period)
		return
	}

	entry := &taskEntry{
		task:   t,
		period: period,
		fireAt: time.Now().Add(initialDelay),
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.seq++
	entry.seq = s.seq
	s.pending.Schedule(entry)
	s.mu.Unlock()

	s.signalWake()
}

// Start launches the dispatcher and the worker pool.
func (s *Scheduler) Start() {
	logrus.Infof("Scheduler started with %d workers", s.workers)

	s.wg.Add(1)
	go s.dispatch()

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.work()
	}
}

// Stop halts dispatch and waits for in-flight executions to return.
// Idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	close(s.done)
	s.wg.Wait()
	logrus.Info("Scheduler stopped")
}

// dispatch sleeps until the head of the heap is due, then hands the entry to
// a worker. A wake signal re-checks the head whenever the heap changed.
func (s *Scheduler) dispatch() {
	defer s.wg.Done()

	for {
		s.mu.Lock()
		head := s.pending.Peek()
		s.mu.Unlock()

		if head == nil {
			select {
			case <-s.wake:
				continue
			case <-s.done:
				return
			}
		}

		if wait := time.Until(head.fireAt); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-s.wake:
				timer.Stop()
			case <-s.done:
				timer.Stop()
				return
			}
			continue
		}

		s.mu.Lock()
		entry := s.pending.PopNext()
		s.mu.Unlock()
		if entry == nil {
			continue
		}

		select {
		case s.execCh <- entry:
		case <-s.done:
			return
		}
	}
}

func (s *Scheduler) work() {
	defer s.wg.Done()

	for {
		select {
		case entry := <-s.execCh:
			s.execute(entry)
		case <-s.done:
			return
		}
	}
}

// execute runs one fire inside the fault boundary, then re-enqueues the
// entry at its next nominal fire time.
func (s *Scheduler) execute(entry *taskEntry) {
	s.runGuarded(entry.task)

	next := entry.fireAt.Add(entry.period)
	if !next.After(time.Now()) {
		metrics.TaskOverruns.Inc()
	}
	entry.fireAt = next

	s.mu.Lock()
	if !s.stopped {
		s.seq++
		entry.seq = s.seq
		s.pending.Schedule(entry)
	}
	s.mu.Unlock()

	s.signalWake()
}

// runGuarded is the fault boundary around a task body. An uncaught panic
// here would otherwise terminate the worker and, with it, every task it
// would have served.
func (s *Scheduler) runGuarded(t *Task) {
	defer func() {
		if r := recover(); r != nil {
			metrics.TaskFaults.Inc()
			logrus.Errorf("Task %s: recovered fault for patient %d: %v", t.Name, t.PatientID, r)
		}
	}()
	t.Body()
}

func (s *Scheduler) signalWake() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}
