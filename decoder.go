// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vgaprobe

import (
	"log"

	"github.com/pkg/errors"
)

// Mode selects how much of a frame is captured and checked.
//
type Mode int

// Capture modes.
//
const (
	// Verify captures the display lines and checks the sync signals on every
	// cycle of the frame.
	Verify Mode = iota
	// DisplayOnly captures and checks the display lines. Blanking lines are
	// consumed without any check.
	DisplayOnly
	// SkipFrame consumes a whole frame without any check.
	SkipFrame
)

func (m Mode) String() string {
	switch m {
	case Verify:
		return "verify"
	case DisplayOnly:
		return "display-only"
	case SkipFrame:
		return "skip"
	}
	return "Mode(?)"
}

// A Decoder checks the timing of a video signal and rebuilds frames from it.
//
// A Decoder pulls exactly one sample per clock cycle from its source and never
// reads ahead. It is not safe for concurrent use.
//
type Decoder struct {
	src     Source
	t       Timing
	log     *log.Logger
	verbose bool
	ticks   uint64
	frames  int
}

// NewDecoder returns a new Decoder for samples from src. If logger is not nil,
// progress is reported to it.
//
func NewDecoder(src Source, t Timing, logger *log.Logger) *Decoder {
	return &Decoder{src: src, t: t, log: logger}
}

// SetVerbose enables logging of every scanline.
//
func (d *Decoder) SetVerbose(v bool) { d.verbose = v }

// Timing returns the decoder's timing profile.
//
func (d *Decoder) Timing() Timing { return d.t }

// Cycles returns the number of samples consumed so far.
//
func (d *Decoder) Cycles() uint64 { return d.ticks }

// Frames returns the number of frames decoded or skipped so far.
//
func (d *Decoder) Frames() int { return d.frames }

func (d *Decoder) logf(format string, args ...interface{}) {
	if d.log != nil {
		d.log.Printf(format, args...)
	}
}

// ScanLine consumes one scanline worth of samples.
//
// The hsync signal must be high exactly within the horizontal sync window and
// the vsync signal must stay at the given level during the whole line. If dst
// is not nil, the colors of the visible pixels are written to it, 3 bytes per
// pixel; its length must be 3 times the visible width.
//
// ScanLine stops at the first violation and returns it as a *TimingViolation.
//
func (d *Decoder) ScanLine(vsync bool, dst []uint8) error {
	h := &d.t.H
	if dst != nil && len(dst) != 3*h.Visible {
		return errors.Errorf("scanline buffer size %d, expected %d", len(dst), 3*h.Visible)
	}
	for i, n := 0, h.Total(); i < n; i++ {
		s, err := d.src.Next()
		if err != nil {
			return errors.Wrapf(err, "cycle %d", i)
		}
		d.ticks++
		if want := h.InSync(i); s.HSync != want {
			return d.violation("hsync", i, want, s.HSync)
		}
		if s.VSync != vsync {
			return d.violation("vsync", i, vsync, s.VSync)
		}
		if dst != nil && i < h.Visible {
			c := &Palette[s.Color]
			copy(dst[3*i:3*i+3], c[:])
		}
	}
	return nil
}

func (d *Decoder) violation(signal string, cycle int, want, got bool) error {
	return &TimingViolation{
		Signal: signal,
		Cycle:  cycle,
		Line:   -1,
		Want:   want,
		Got:    got,
		Tick:   d.ticks - 1,
	}
}

func (d *Decoder) scan(line int, p Phase, vsync bool, dst []uint8) error {
	if d.verbose {
		d.logf("frame %d, line %d (%s)", d.frames, line, p)
	}
	err := d.ScanLine(vsync, dst)
	if v, ok := err.(*TimingViolation); ok {
		v.Line = line
		v.Phase = p
	}
	return err
}

// Frame captures the visible part of a frame. The first sample must be the
// first cycle of the first display line.
//
// On error, no frame is returned. Timing violations are returned as a
// *TimingViolation with the faulty line number.
//
// In SkipFrame mode, Frame behaves like Skip and returns a nil frame.
//
func (d *Decoder) Frame(mode Mode) (*Frame, error) {
	if mode == SkipFrame {
		return nil, d.Skip()
	}

	t := &d.t
	f := NewFrame(t.H.Visible, t.V.Visible)
	d.logf("frame %d: capturing %d display lines", d.frames, t.V.Visible)
	y := 0
	for ; y < t.V.Visible; y++ {
		if err := d.scan(y, Display, false, f.Row(y)); err != nil {
			return nil, err
		}
	}

	if mode == DisplayOnly {
		d.logf("frame %d: skipping non-display lines", d.frames)
		if err := d.discard(t.H.Total() * (t.V.Total() - t.V.Visible)); err != nil {
			return nil, err
		}
		d.frames++
		return f, nil
	}

	blanking := [...]struct {
		p     Phase
		lines int
		vsync bool
	}{
		{FrontPorch, t.V.Front, false},
		{SyncPulse, t.V.Sync, true},
		{BackPorch, t.V.Back, false},
	}
	for _, b := range blanking {
		d.logf("frame %d: checking %d lines (%s)", d.frames, b.lines, b.p)
		for end := y + b.lines; y < end; y++ {
			if err := d.scan(y, b.p, b.vsync, nil); err != nil {
				return nil, err
			}
		}
	}
	d.frames++
	return f, nil
}

// Skip consumes a whole frame worth of samples without checking them.
//
func (d *Decoder) Skip() error {
	d.logf("skipping frame %d", d.frames)
	if err := d.discard(d.t.FrameCycles()); err != nil {
		return err
	}
	d.frames++
	return nil
}

func (d *Decoder) discard(n int) error {
	if sk, ok := d.src.(Skipper); ok {
		if err := sk.Skip(n); err != nil {
			return errors.Wrap(err, "skip")
		}
		d.ticks += uint64(n)
		return nil
	}
	for i := 0; i < n; i++ {
		if _, err := d.src.Next(); err != nil {
			return errors.Wrapf(err, "skip cycle %d", i)
		}
		d.ticks++
	}
	return nil
}
