package sched

import (
	"io"

	"github.com/rcrowley/go-metrics"
)

// Metrics keeps per-run counters in a go-metrics registry. It is fed from the
// scheduler's own event stream.
type Metrics struct {
	registry metrics.Registry

	Enqueued    metrics.Counter
	Dispatched  metrics.Counter
	Preempted   metrics.Counter
	Finished    metrics.Counter
	IdleTicks   metrics.Counter
	Ticks       metrics.Counter
	MinVruntime metrics.Gauge
	Alive       metrics.Histogram
}

func newMetrics() *Metrics {
	r := metrics.NewRegistry()
	return &Metrics{
		registry:    r,
		Enqueued:    metrics.GetOrRegisterCounter("sched.enqueue", r),
		Dispatched:  metrics.GetOrRegisterCounter("sched.dispatch", r),
		Preempted:   metrics.GetOrRegisterCounter("sched.preempt", r),
		Finished:    metrics.GetOrRegisterCounter("sched.finish", r),
		IdleTicks:   metrics.GetOrRegisterCounter("sched.idle", r),
		Ticks:       metrics.GetOrRegisterCounter("sched.ticks", r),
		MinVruntime: metrics.GetOrRegisterGauge("sched.min_vruntime", r),
		Alive:       metrics.GetOrRegisterHistogram("sched.alive", r, metrics.NewUniformSample(1028)),
	}
}

// Observe implements Observer.
func (m *Metrics) Observe(ev StatusEvent) error {
	switch ev.Kind {
	case StatusEnqueue:
		m.Enqueued.Inc(1)
	case StatusDispatch:
		m.Dispatched.Inc(1)
	case StatusPreempt:
		m.Preempted.Inc(1)
	case StatusFinish:
		m.Finished.Inc(1)
	case StatusIdle:
		m.IdleTicks.Inc(1)
	case StatusTick:
		m.Ticks.Inc(1)
		m.Alive.Update(int64(ev.Alive))
		m.MinVruntime.Update(int64(ev.MinVruntime))
	}
	return nil
}

// Dump writes every metric in go-metrics' plain text format.
func (m *Metrics) Dump(w io.Writer) {
	metrics.WriteOnce(m.registry, w)
}
