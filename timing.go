// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vgaprobe

import (
	"time"

	"github.com/pkg/errors"
)

// Axis describes the timing of one scan axis, in clock cycles for the
// horizontal axis and in scanlines for the vertical one.
//
type Axis struct {
	Visible int
	Front   int
	Sync    int
	Back    int
}

// SyncStart returns the first cycle (or line) of the sync pulse.
//
func (a Axis) SyncStart() int { return a.Visible + a.Front }

// SyncEnd returns the first cycle (or line) after the sync pulse.
//
func (a Axis) SyncEnd() int { return a.Visible + a.Front + a.Sync }

// Total returns the total number of cycles (or lines) on that axis.
//
func (a Axis) Total() int { return a.Visible + a.Front + a.Sync + a.Back }

// InSync returns true if i is within the sync pulse window [SyncStart, SyncEnd).
//
func (a Axis) InSync(i int) bool { return i >= a.SyncStart() && i < a.SyncEnd() }

func (a Axis) validate(name string) error {
	switch {
	case a.Visible <= 0:
		return errors.Errorf("%s: visible size must be positive, got %d", name, a.Visible)
	case a.Sync <= 0:
		return errors.Errorf("%s: sync width must be positive, got %d", name, a.Sync)
	case a.Front < 0 || a.Back < 0:
		return errors.Errorf("%s: negative porch (front %d, back %d)", name, a.Front, a.Back)
	}
	return nil
}

// Timing is a video timing profile.
//
type Timing struct {
	Name        string
	H           Axis // pixels
	V           Axis // lines
	ClockPeriod time.Duration
}

// VGA640x480 is the standard 640x480@60Hz mode with a 25MHz pixel clock.
//
var VGA640x480 = Timing{
	Name:        "640x480",
	H:           Axis{Visible: 640, Front: 16, Sync: 96, Back: 48},
	V:           Axis{Visible: 480, Front: 10, Sync: 2, Back: 33},
	ClockPeriod: 40 * time.Nanosecond,
}

// Validate checks that t describes a usable timing.
//
func (t *Timing) Validate() error {
	if err := t.H.validate("horizontal"); err != nil {
		return errors.Wrap(err, t.Name)
	}
	if err := t.V.validate("vertical"); err != nil {
		return errors.Wrap(err, t.Name)
	}
	return nil
}

// FrameCycles returns the number of clock cycles in a whole frame.
//
func (t *Timing) FrameCycles() int {
	return t.H.Total() * t.V.Total()
}

// FrameDuration returns the duration of a frame at the nominal clock rate.
//
func (t *Timing) FrameDuration() time.Duration {
	return time.Duration(t.FrameCycles()) * t.ClockPeriod
}
