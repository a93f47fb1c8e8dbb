// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest

import (
	"github.com/db47h/vgaprobe"
	"github.com/db47h/vgaprobe/hwlib"
)

// Signal generates the ideal output of a design displaying a pattern, without
// running any simulation. It starts at the first cycle of a frame.
//
type Signal struct {
	t    vgaprobe.Timing
	p    hwlib.Pattern
	ui   uint8
	h, v int
}

// NewSignal returns a new Signal for pattern p with ui_in set to ui.
//
func NewSignal(t vgaprobe.Timing, p hwlib.Pattern, ui uint8) *Signal {
	return &Signal{t: t, p: p, ui: ui}
}

// Position returns the current beam position.
//
func (s *Signal) Position() (h, v int) { return s.h, s.v }

// Next implements vgaprobe.Source.
//
func (s *Signal) Next() (vgaprobe.Sample, error) {
	out := hwlib.Encode(s.t, s.p, s.h, s.v, s.ui)
	s.advance(1)
	return vgaprobe.NewSample(out), nil
}

// Skip implements vgaprobe.Skipper.
//
func (s *Signal) Skip(n int) error {
	s.advance(n)
	return nil
}

func (s *Signal) advance(n int) {
	ht, vt := s.t.H.Total(), s.t.V.Total()
	pos := (s.v*ht + s.h + n) % (ht * vt)
	s.h, s.v = pos%ht, pos/ht
}
