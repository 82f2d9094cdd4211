package sched

import (
	"bufio"
	"fmt"
	"io"
)

// StatusPrinter writes one status line per tick:
//
//	<tick> [<alive>]: <id or _>[*]
//
// where the trailing '*' marks the running task's final tick.
type StatusPrinter struct {
	w *bufio.Writer
}

// NewStatusPrinter buffers output to w; call Flush when the run ends.
func NewStatusPrinter(w io.Writer) *StatusPrinter {
	return &StatusPrinter{w: bufio.NewWriter(w)}
}

// Observe implements Observer. Events other than StatusTick are ignored.
func (p *StatusPrinter) Observe(ev StatusEvent) error {
	if ev.Kind != StatusTick {
		return nil
	}
	_, err := io.WriteString(p.w, FormatStatus(ev))
	return err
}

// Flush writes any buffered lines.
func (p *StatusPrinter) Flush() error {
	return p.w.Flush()
}

// FormatStatus renders a StatusTick event as a newline-terminated line.
func FormatStatus(ev StatusEvent) string {
	running := "_"
	if ev.Running {
		running = ev.TaskID.String()
		if ev.Final {
			running += "*"
		}
	}
	return fmt.Sprintf("%d [%d]: %s\n", ev.Tick, ev.Alive, running)
}
