// internal/sched/trace.go

package sched

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var traceHeader = []string{"tick", "event", "task_id", "runtime", "vruntime", "min_vruntime", "alive"}

// TraceWriter records every scheduler event as a CSV row.
type TraceWriter struct {
	closer io.Closer
	w      *csv.Writer
}

// CreateTrace opens the given file path for CSV logging of events.
func CreateTrace(path string) (*TraceWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "creating trace %s", path)
	}
	tw, err := NewTraceWriter(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	tw.closer = f
	return tw, nil
}

// NewTraceWriter writes the header to w and returns a writer for the rows.
func NewTraceWriter(w io.Writer) (*TraceWriter, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(traceHeader); err != nil {
		return nil, errors.Wrap(err, "writing trace header")
	}
	return &TraceWriter{w: cw}, nil
}

// Observe implements Observer.
func (tw *TraceWriter) Observe(ev StatusEvent) error {
	id := ""
	if ev.Running {
		id = ev.TaskID.String()
	}
	rec := []string{
		strconv.FormatInt(ev.Tick, 10),
		ev.Kind.String(),
		id,
		strconv.FormatInt(ev.Runtime, 10),
		strconv.FormatInt(int64(ev.Vruntime), 10),
		strconv.FormatInt(int64(ev.MinVruntime), 10),
		strconv.Itoa(ev.Alive),
	}
	return tw.w.Write(rec)
}

// Close flushes buffered rows and closes the file opened by CreateTrace.
func (tw *TraceWriter) Close() error {
	tw.w.Flush()
	err := tw.w.Error()
	if tw.closer != nil {
		if cerr := tw.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// logEvent mirrors key actions to the debug log. Tick events are skipped for
// the brevity of output; the status printer already covers them.
func logEvent(ev StatusEvent) error {
	if ev.Kind == StatusTick || !logrus.IsLevelEnabled(logrus.DebugLevel) {
		return nil
	}

	// an auxiliary function to center the event kind in the output
	center := func(str string, width int) string {
		spaces := (width - len(str)) / 2
		return strings.Repeat(" ", spaces) + str + strings.Repeat(" ", width-(spaces+len(str)))
	}

	id := "_"
	if ev.Running {
		id = ev.TaskID.String()
	}
	logrus.Debugf("Tick: %07d [%s] => Task: %s, ran: %04d ticks, vruntime=%d, min_vruntime=%d",
		ev.Tick, center(ev.Kind.String(), 10), id, ev.Runtime, ev.Vruntime, ev.MinVruntime)
	return nil
}
