// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vgaprobe

import "fmt"

// Phase identifies a section of the vertical scan.
//
type Phase int

// Vertical scan phases, in scan order.
//
const (
	Display Phase = iota
	FrontPorch
	SyncPulse
	BackPorch
)

var phaseNames = [...]string{
	Display:    "display",
	FrontPorch: "front porch",
	SyncPulse:  "sync pulse",
	BackPorch:  "back porch",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// A TimingViolation reports a sync signal that does not match the timing
// profile.
//
type TimingViolation struct {
	Signal string // "hsync" or "vsync"
	Cycle  int    // cycle index within the scanline
	Line   int    // scanline index within the frame, -1 if unknown
	Phase  Phase  // valid if Line >= 0
	Want   bool
	Got    bool
	Tick   uint64 // absolute cycle count since the decoder was created
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (v *TimingViolation) Error() string {
	if v.Line < 0 {
		return fmt.Sprintf("unexpected %s pattern at cycle %d: expected %d, got %d",
			v.Signal, v.Cycle, b2i(v.Want), b2i(v.Got))
	}
	return fmt.Sprintf("unexpected %s pattern at line %d (%s), cycle %d: expected %d, got %d",
		v.Signal, v.Line, v.Phase, v.Cycle, b2i(v.Want), b2i(v.Got))
}
