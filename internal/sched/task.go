package sched

import (
	"fmt"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/utils"

	"cfsched/internal/job"
)

// TaskID uniquely identifies a task in the scheduler.
type TaskID rune

func (id TaskID) String() string { return string(rune(id)) }

// Vruntime is the virtual time a task has been charged. With no weighting,
// one tick of CPU time costs exactly one unit.
type Vruntime int64

// Task represents one schedulable task unit.
type Task struct {
	ID       TaskID
	Start    int64    // tick at which the task arrives
	Duration int64    // ticks of CPU time needed to finish
	Runtime  int64    // ticks actually run so far
	Vruntime Vruntime // set on every (re)admission, then charged per tick

	seq int // position in the input, breaks (Start, ID) ties
}

// NewTask creates a task with zeroed runtime accounting.
// NOTE: Vruntime is only meaningful once the scheduler rebases it on admission.
func NewTask(id TaskID, start, duration int64) *Task {
	return &Task{
		ID:       id,
		Start:    start,
		Duration: duration,
	}
}

// Tick charges one tick of CPU time.
func (t *Task) Tick() {
	t.Runtime++
	t.Vruntime++
}

// Rebase moves the task onto the global minimum so it neither starves the
// tasks already runnable nor jumps ahead of them.
func (t *Task) Rebase(min Vruntime) {
	t.Vruntime = min
}

// Complete reports whether the task has run for its whole duration.
func (t *Task) Complete() bool { return t.Runtime == t.Duration }

// Remaining returns the ticks still needed.
func (t *Task) Remaining() int64 { return t.Duration - t.Runtime }

func (t *Task) String() string {
	return fmt.Sprintf("%s start=%d duration=%d runtime=%d vruntime=%d",
		t.ID, t.Start, t.Duration, t.Runtime, t.Vruntime)
}

// NewTasks builds tasks from loader records, ordered by arrival tick and then
// by id. Records tying on both keep their input order.
func NewTasks(specs []job.Spec) []*Task {
	list := arraylist.New()
	for i, sp := range specs {
		t := NewTask(TaskID(sp.ID), sp.Start, sp.Duration)
		t.seq = i
		list.Add(t)
	}
	list.Sort(taskOrder)

	tasks := make([]*Task, 0, list.Size())
	list.Each(func(_ int, v interface{}) {
		tasks = append(tasks, v.(*Task))
	})
	return tasks
}

// taskOrder is the pre-simulation ordering: (Start, ID, input position).
func taskOrder(a, b interface{}) int {
	ta, tb := a.(*Task), b.(*Task)
	if c := utils.Int64Comparator(ta.Start, tb.Start); c != 0 {
		return c
	}
	if c := utils.RuneComparator(rune(ta.ID), rune(tb.ID)); c != 0 {
		return c
	}
	return utils.IntComparator(ta.seq, tb.seq)
}
