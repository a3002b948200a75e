// Package scheduler runs delayed one-shot tasks keyed by an owner id.
// At most one task is pending per key; scheduling again replaces it.
package scheduler

import (
	"sync"
	"time"
)

type pending struct {
	timer *time.Timer
	seq   uint64
}

// Scheduler holds pending delayed tasks. The zero value is not usable; use New.
type Scheduler struct {
	mu     sync.Mutex
	tasks  map[string]pending
	seq    uint64
	closed bool
}

// New creates an empty Scheduler.
func New() *Scheduler {
	return &Scheduler{tasks: make(map[string]pending)}
}

// Schedule runs fn after delay unless the key is cancelled or rescheduled first.
// It returns false if the scheduler has been stopped.
func (s *Scheduler) Schedule(key string, delay time.Duration, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	if p, ok := s.tasks[key]; ok {
		p.timer.Stop()
	}

	s.seq++
	seq := s.seq
	s.tasks[key] = pending{
		seq:   seq,
		timer: time.AfterFunc(delay, func() { s.fire(key, seq, fn) }),
	}
	return true
}

// fire runs fn only if the task is still the current one for key.
// A timer that already fired before Stop must not run a replaced task.
func (s *Scheduler) fire(key string, seq uint64, fn func()) {
	s.mu.Lock()
	p, ok := s.tasks[key]
	if !ok || p.seq != seq {
		s.mu.Unlock()
		return
	}
	delete(s.tasks, key)
	s.mu.Unlock()

	fn()
}

// Cancel drops the pending task for key. It reports whether one existed.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.tasks[key]
	if !ok {
		return false
	}
	p.timer.Stop()
	delete(s.tasks, key)
	return true
}

// Pending reports whether key has a task waiting to run.
func (s *Scheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.tasks[key]
	return ok
}

// Len returns the number of pending tasks.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.tasks)
}

// Stop cancels every pending task and rejects new ones.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, p := range s.tasks {
		p.timer.Stop()
		delete(s.tasks, key)
	}
	s.closed = true
}
