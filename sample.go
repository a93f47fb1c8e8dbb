// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vgaprobe

// Pin assignments on the 8 bits output port of the design.
//
const (
	HSyncBit = 7
	VSyncBit = 3

	// ColorMask selects the color bits of a packed output value.
	ColorMask uint8 = ^uint8(1<<HSyncBit | 1<<VSyncBit)
)

// A Sample is the state of the design's video outputs during one clock cycle.
//
type Sample struct {
	HSync bool
	VSync bool
	Color uint8 // packed RGB222, sync bits cleared
}

// NewSample decodes the raw value of the output port.
//
func NewSample(out uint8) Sample {
	return Sample{
		HSync: out&(1<<HSyncBit) != 0,
		VSync: out&(1<<VSyncBit) != 0,
		Color: out & ColorMask,
	}
}

// Pack returns the raw output port value for s.
//
func (s Sample) Pack() uint8 {
	out := s.Color & ColorMask
	if s.HSync {
		out |= 1 << HSyncBit
	}
	if s.VSync {
		out |= 1 << VSyncBit
	}
	return out
}

// A Source produces one Sample per clock cycle. Each call to Next consumes
// exactly one cycle. Sources are not rewindable: restarting requires a new
// capture session.
//
type Source interface {
	Next() (Sample, error)
}

// A Skipper is a Source that can discard n cycles faster than by calling Next
// n times.
//
type Skipper interface {
	Skip(n int) error
}

// SourceFunc is an adapter to use ordinary functions as a Source.
//
type SourceFunc func() (Sample, error)

// Next implements Source.
//
func (f SourceFunc) Next() (Sample, error) { return f() }
