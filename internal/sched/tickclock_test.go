package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickClock_Unpaced(t *testing.T) {
	c := NewTickClock(0)
	defer c.Stop()

	c.Advance()
	c.Advance()

	assert.Equal(t, int64(2), c.Count())
}

func TestTickClock_Paced(t *testing.T) {
	c := NewTickClock(time.Millisecond)
	defer c.Stop()

	start := time.Now()
	for i := 0; i < 3; i++ {
		c.Advance()
	}

	assert.Equal(t, int64(3), c.Count())
	assert.GreaterOrEqual(t, time.Since(start), 2*time.Millisecond)
}
