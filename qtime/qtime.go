// SPDX-License-Identifier: GPL-2.0-or-later

package qtime

import (
	"time"
)

var (
	startTime = time.Now()
)

func QTime() time.Duration {
	return time.Now().Sub(startTime)
}

// MaxFrameTime caps a single frame step, so a stall does not throw the
// animation far ahead.
const MaxFrameTime = 0.1

// Clock measures frame times and a smoothed frame rate.
type Clock struct {
	now    func() time.Duration
	last   time.Duration
	frames int
	window time.Duration
	fps    float32
}

func NewClock() *Clock {
	return newClock(QTime)
}

func newClock(now func() time.Duration) *Clock {
	return &Clock{now: now, last: now()}
}

// Tick returns the seconds since the previous tick, capped at MaxFrameTime.
func (c *Clock) Tick() float32 {
	t := c.now()
	d := t - c.last
	c.last = t
	c.frames++
	c.window += d
	if c.window >= time.Second/2 {
		c.fps = float32(c.frames) / float32(c.window.Seconds())
		c.frames = 0
		c.window = 0
	}
	return min(float32(d.Seconds()), MaxFrameTime)
}

// FPS is the frame rate over the last half second.
func (c *Clock) FPS() float32 {
	return c.fps
}
