// internal/sched/tickclock.go

package sched

import (
	"time"
)

// TickClock counts simulated ticks. With a positive interval every Advance
// also waits for the next wall-clock tick so a run can be watched live; the
// simulated output is the same either way.
type TickClock struct {
	count  int64
	ticker *time.Ticker
}

// NewTickClock creates a clock at tick 0. A zero interval never blocks.
func NewTickClock(interval time.Duration) *TickClock {
	c := &TickClock{}
	if interval > 0 {
		c.ticker = time.NewTicker(interval)
	}
	return c
}

// Advance moves to the next tick.
func (c *TickClock) Advance() {
	if c.ticker != nil {
		<-c.ticker.C
	}
	c.count++
}

// Stop releases the underlying ticker, if any.
func (c *TickClock) Stop() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
}

// Count returns the current tick.
func (c *TickClock) Count() int64 {
	return c.count
}
