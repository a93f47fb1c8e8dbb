// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/vgaprobe/hwsim"
)

// AdderN returns a N-bits adder.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits], c
//	Function: out = lsb(a + b), c = carry out
//
func AdderN(bits int) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    "ADDER" + strconv.Itoa(bits),
		Inputs:  bus(bits, pA, pB),
		Outputs: append(bus(bits, pOut), "c"),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			a, b := s.Bus(pA, bits), s.Bus(pB, bits)
			out, cout := s.Bus(pOut, bits), s.Pin("c")
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					cc := false
					for i, o := range out {
						va, vb := c.Get(a[i]), c.Get(b[i])
						s0 := va != vb
						c.Set(o, s0 != cc)
						cc = va && vb || s0 && cc
					}
					c.Set(cout, cc)
				}}
		}}).NewPart
}

// Window returns a range comparator.
//
//	Inputs: in[bits]
//	Outputs: out
//	Function: out = lo <= in && in < hi
//
func Window(bits, lo, hi int) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    "WINDOW" + strconv.Itoa(bits) + "_" + strconv.Itoa(lo) + "_" + strconv.Itoa(hi),
		Inputs:  bus(bits, pIn),
		Outputs: hwsim.Outputs{pOut},
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in, out := s.Bus(pIn, bits), s.Pin(pOut)
			l, h := uint64(lo), uint64(hi)
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					v := Uint64(c, in)
					c.Set(out, v >= l && v < h)
				}}
		}}).NewPart
}
