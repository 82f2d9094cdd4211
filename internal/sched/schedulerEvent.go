// internal/sched/schedulerEvent.go

package sched

// StatusKind represents the type of scheduler event
type StatusKind int

const (
	StatusIdle StatusKind = iota
	StatusEnqueue
	StatusDispatch
	StatusPreempt
	StatusFinish
	StatusTick
)

// StatusEvent is emitted every tick or on key actions
type StatusEvent struct {
	Tick        int64
	Kind        StatusKind
	TaskID      TaskID
	Running     bool     // TaskID is meaningful
	Vruntime    Vruntime // of TaskID when the event fired
	Runtime     int64    // of TaskID when the event fired
	Alive       int      // queued tasks plus the running one
	Final       bool     // TaskID ran its last tick this tick
	MinVruntime Vruntime
}

func (sk StatusKind) String() string {
	switch sk {
	case StatusIdle:
		return "Idle"
	case StatusEnqueue:
		return "Enqueued"
	case StatusDispatch:
		return "Dispatch"
	case StatusPreempt:
		return "Preempt"
	case StatusFinish:
		return "Finish"
	case StatusTick:
		return "Tick"
	default:
		return "Unknown"
	}
}

// Observer receives every event synchronously, in emission order.
type Observer interface {
	Observe(ev StatusEvent) error
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(ev StatusEvent) error

func (f ObserverFunc) Observe(ev StatusEvent) error { return f(ev) }
