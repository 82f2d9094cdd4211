// internal/sched/scheduler.go

package sched

import (
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/pkg/errors"

	"cfsched/internal/llrb"
)

// Handle is a stable index into the scheduler's task registry.
type Handle int

// NoTask marks an empty current-task slot.
const NoTask Handle = -1

// Scheduler simulates a single-CPU CFS run one tick at a time.
//
// The registry owns every task. The run queue and the current slot only hold
// handles, and a task sits in at most one of them at a time.
type Scheduler struct {
	tasks       *arraylist.List                  // registry of *Task in (Start, ID) order; completed slots are nil
	total       int                              // number of tasks ever registered
	next        int                              // registry index of the next task to admit
	rq          *llrb.Multimap[Vruntime, Handle] // runnable tasks keyed by vruntime, FIFO within a key
	current     Handle                           // running task, or NoTask
	minVruntime Vruntime                         // baseline for admissions, never decreases
	completed   int
	clock       *TickClock

	observers []Observer
	metrics   *Metrics
}

// New creates a scheduler over tasks, which must already be in admission
// order (see NewTasks).
func New(cfg Config, tasks []*Task) *Scheduler {
	reg := arraylist.New()
	for _, t := range tasks {
		reg.Add(t)
	}

	s := &Scheduler{
		tasks:   reg,
		total:   len(tasks),
		rq:      llrb.New[Vruntime, Handle](),
		current: NoTask,
		clock:   NewTickClock(cfg.TickInterval()),
		metrics: newMetrics(),
	}
	s.Subscribe(ObserverFunc(logEvent))
	s.Subscribe(s.metrics)
	return s
}

// Subscribe registers o to receive every event from now on.
func (s *Scheduler) Subscribe(o Observer) {
	s.observers = append(s.observers, o)
}

// Run steps the simulation until every task has completed.
func (s *Scheduler) Run() error {
	defer s.clock.Stop()

	for !s.Done() {
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Done reports whether every registered task has completed.
func (s *Scheduler) Done() bool { return s.completed == s.total }

// Step runs one tick. The order of the phases is fixed; it decides both the
// FIFO order among equal vruntimes and what the status line shows.
func (s *Scheduler) Step() error {
	if err := s.admit(); err != nil {
		return err
	}
	if err := s.preempt(); err != nil {
		return err
	}
	if err := s.dispatch(); err != nil {
		return err
	}

	var running *Task
	if s.current != NoTask {
		running = s.task(s.current)
		running.Tick()
	}

	if err := s.observe(running); err != nil {
		return err
	}
	if err := s.reclaim(running); err != nil {
		return err
	}

	s.clock.Advance()
	return nil
}

// 1) admit every task arriving on this tick, in registry order
func (s *Scheduler) admit() error {
	now := s.clock.Count()
	for ; s.next < s.tasks.Size(); s.next++ {
		t := s.task(Handle(s.next))
		if t.Start > now {
			break
		}
		if t.Start < now {
			// registry is sorted, so this can only mean a caller bypassed NewTasks
			return errors.Errorf("task %s arrives at tick %d, already past", t.ID, t.Start)
		}
		if t.Duration <= 0 {
			return errors.Errorf("task %s has non-positive duration %d", t.ID, t.Duration)
		}
		t.Rebase(s.minVruntime)
		s.rq.Insert(t.Vruntime, Handle(s.next))
		if err := s.emit(StatusEnqueue, t); err != nil {
			return err
		}
	}
	return nil
}

// 2) put the running task back once it has pulled ahead of the pack
func (s *Scheduler) preempt() error {
	if s.current == NoTask || s.rq.Empty() {
		return nil
	}
	t := s.task(s.current)
	if t.Vruntime <= s.minVruntime {
		return nil
	}
	s.rq.Insert(t.Vruntime, s.current)
	s.current = NoTask
	return s.emit(StatusPreempt, t)
}

// 3) pick the leftmost task when the CPU is free
func (s *Scheduler) dispatch() error {
	if s.current != NoTask || s.rq.Empty() {
		return nil
	}
	key, err := s.rq.Min()
	if err != nil {
		return errors.Wrap(err, "dispatch")
	}
	h, err := s.rq.Get(key)
	if err != nil {
		return errors.Wrap(err, "dispatch")
	}
	s.rq.Remove(key)
	s.current = h

	if next, err := s.rq.Min(); err == nil {
		s.minVruntime = next
	}
	return s.emit(StatusDispatch, s.task(h))
}

// 5) report the tick
func (s *Scheduler) observe(running *Task) error {
	ev := StatusEvent{
		Tick:        s.clock.Count(),
		Kind:        StatusTick,
		Alive:       s.Alive(),
		MinVruntime: s.minVruntime,
	}
	if running != nil {
		ev.Running = true
		ev.TaskID = running.ID
		ev.Vruntime = running.Vruntime
		ev.Runtime = running.Runtime
		ev.Final = running.Complete()
	} else if err := s.emit(StatusIdle, nil); err != nil {
		return err
	}
	return s.broadcast(ev)
}

// 6) drop the running task from the system once it is done
func (s *Scheduler) reclaim(running *Task) error {
	if running == nil || !running.Complete() {
		return nil
	}
	s.completed++
	s.tasks.Set(int(s.current), nil)
	s.current = NoTask
	return s.emit(StatusFinish, running)
}

func (s *Scheduler) emit(kind StatusKind, t *Task) error {
	ev := StatusEvent{
		Tick:        s.clock.Count(),
		Kind:        kind,
		Alive:       s.Alive(),
		MinVruntime: s.minVruntime,
	}
	if t != nil {
		ev.Running = true
		ev.TaskID = t.ID
		ev.Vruntime = t.Vruntime
		ev.Runtime = t.Runtime
		ev.Final = t.Complete()
	}
	return s.broadcast(ev)
}

func (s *Scheduler) broadcast(ev StatusEvent) error {
	for _, o := range s.observers {
		if err := o.Observe(ev); err != nil {
			return errors.Wrapf(err, "tick %d: %s event", ev.Tick, ev.Kind)
		}
	}
	return nil
}

func (s *Scheduler) task(h Handle) *Task {
	v, _ := s.tasks.Get(int(h))
	t, _ := v.(*Task)
	return t
}

// Tick returns the current tick.
func (s *Scheduler) Tick() int64 { return s.clock.Count() }

// MinVruntime returns the admission baseline.
func (s *Scheduler) MinVruntime() Vruntime { return s.minVruntime }

// Completed returns how many tasks have finished.
func (s *Scheduler) Completed() int { return s.completed }

// Alive counts queued tasks plus the running one.
func (s *Scheduler) Alive() int {
	n := s.rq.Size()
	if s.current != NoTask {
		n++
	}
	return n
}

// Current returns the running task, or nil when the CPU is idle.
func (s *Scheduler) Current() *Task {
	if s.current == NoTask {
		return nil
	}
	return s.task(s.current)
}

// Metrics exposes the run counters.
func (s *Scheduler) Metrics() *Metrics { return s.metrics }
