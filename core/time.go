// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"time"
)

// NewTime creates a new time service
func NewTime(cfg TimeConfiguration) *Time {
	var interval time.Duration
	if cfg.FramesPerSecond <= 0 {
		interval = time.Nanosecond
	} else {
		interval = time.Second / (time.Duration)(cfg.FramesPerSecond)
	}

	return &Time{
		fps:       cfg.FramesPerSecond,
		interval:  interval,
		fpsTicker: time.NewTicker(interval),
		last:      time.Now(),
	}
}

// Time paces the frame loop and measures the time between frames
type Time struct {
	fps       int
	interval  time.Duration
	fpsTicker *time.Ticker
	last      time.Time
}

// Fps gets the set frames per second
func (t *Time) Fps() int {
	return t.fps
}

// Interval is the time budget of one frame
func (t *Time) Interval() time.Duration {
	return t.interval
}

// FpsTicker gets the initialized fps ticker
func (t *Time) FpsTicker() *time.Ticker {
	return t.fpsTicker
}

// Delta returns the seconds passed since the previous call,
// or since the Time was created.
func (t *Time) Delta() float64 {
	now := time.Now()
	dt := now.Sub(t.last).Seconds()
	t.last = now
	return dt
}

// Stop releases the ticker
func (t *Time) Stop() {
	t.fpsTicker.Stop()
}
