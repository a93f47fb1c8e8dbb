// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/vgaprobe/hwsim"
)

// DFF returns a clocked data flip flop.
//
//	Inputs: in
//	Outputs: out
//	Function: out(t) = in(t-1) // where t is the current clock cycle.
//
func DFF(w string) hwsim.Part { return dff(w) }

var dff = dffSpec("DFF", []string{pIn}, []string{pOut})

// DFFN returns a bank of bits data flip flops sharing the same clock.
//
//	Inputs: in[bits]
//	Outputs: out[bits]
//	Function: out(t) = in(t-1)
//
func DFFN(bits int) hwsim.NewPartFn {
	return dffSpec("DFF"+strconv.Itoa(bits), bus(bits, pIn), bus(bits, pOut))
}

func dffSpec(name string, ins, outs []string) hwsim.NewPartFn {
	bits := len(ins)
	return (&hwsim.PartSpec{
		Name:    name,
		Inputs:  ins,
		Outputs: outs,
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			in, out := make([]int, bits), make([]int, bits)
			for i := range in {
				in[i], out[i] = s.Pin(ins[i]), s.Pin(outs[i])
			}
			cur := make([]bool, bits)
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					// raising edge?
					if c.AtTick() {
						for i, p := range in {
							cur[i] = c.Get(p)
						}
					}
					for i, p := range out {
						c.Set(p, cur[i])
					}
				}}
		}}).NewPart
}
