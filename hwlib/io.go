// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/vgaprobe/hwsim"
)

// Uint64 returns the state of pins as an unsigned integer. Pin 0 is lsb.
//
func Uint64(c *hwsim.Circuit, pins []int) uint64 {
	var out uint64
	for bit, p := range pins {
		if c.Get(p) {
			out |= 1 << uint(bit)
		}
	}
	return out
}

// SetUint64 sets the pins to the given value. Pin 0 is lsb.
//
func SetUint64(c *hwsim.Circuit, pins []int, v uint64) {
	for bit, p := range pins {
		c.Set(p, v&(1<<uint(bit)) != 0)
	}
}

// Input creates a function based input.
//
//	Outputs: out
//	Function: out = f()
//
func Input(f func() bool) hwsim.NewPartFn {
	p := &hwsim.PartSpec{
		Name:    "Input",
		Outputs: hwsim.Outputs{pOut},
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			pin := s.Pin(pOut)
			return []hwsim.Component{
				func(c *hwsim.Circuit) { c.Set(pin, f()) },
			}
		},
	}
	return p.NewPart
}

// Output creates an output or probe. The fn function is called with the named
// pin state on every circuit step.
//
//	Inputs: in
//	Function: f(in)
//
func Output(f func(bool)) hwsim.NewPartFn {
	p := &hwsim.PartSpec{
		Name:   "Output",
		Inputs: hwsim.Inputs{pIn},
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in := s.Pin(pIn)
			return []hwsim.Component{
				func(c *hwsim.Circuit) { f(c.Get(in)) },
			}
		},
	}
	return p.NewPart
}

// InputN creates an input bus of the given bits size.
//
//	Outputs: out[bits]
//	Function: out = f()
//
func InputN(bits int, f func() uint64) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    "INPUT" + strconv.Itoa(bits),
		Outputs: bus(bits, pOut),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			pins := s.Bus(pOut, bits)
			return []hwsim.Component{
				func(c *hwsim.Circuit) { SetUint64(c, pins, f()) },
			}
		}}).NewPart
}

// OutputN creates an output bus of the given bits size. f is called with the
// bus value on every circuit step.
//
//	Inputs: in[bits]
//	Function: f(in)
//
func OutputN(bits int, f func(uint64)) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:   "OUTPUT" + strconv.Itoa(bits),
		Inputs: bus(bits, pIn),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			pins := s.Bus(pIn, bits)
			return []hwsim.Component{
				func(c *hwsim.Circuit) { f(Uint64(c, pins)) },
			}
		}}).NewPart
}
