// SPDX-License-Identifier: GPL-2.0-or-later

package qtime

import (
	"testing"
	"time"
)

func TestClock(t *testing.T) {
	var now time.Duration
	c := newClock(func() time.Duration { return now })

	now += 20 * time.Millisecond
	if got := c.Tick(); got < 0.0199 || got > 0.0201 {
		t.Errorf("Tick() = %v, want 0.02", got)
	}
	for i := 0; i < 24; i++ {
		now += 20 * time.Millisecond
		c.Tick()
	}
	if got := c.FPS(); got < 49.9 || got > 50.1 {
		t.Errorf("FPS() = %v, want 50", got)
	}

	now += 5 * time.Second
	if got := c.Tick(); got != MaxFrameTime {
		t.Errorf("Tick() after stall = %v, want %v", got, MaxFrameTime)
	}
}

func TestQTimeMonotonic(t *testing.T) {
	a := QTime()
	b := QTime()
	if b < a {
		t.Errorf("QTime went backwards: %v then %v", a, b)
	}
}
