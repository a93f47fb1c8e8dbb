// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"strconv"

	"github.com/pkg/errors"
)

type chip struct {
	PartSpec             // PartSpec for this chip
	parts    []*PartSpec // sub parts
	// wires maps pins used in a chip to the internal wire name which may be the
	// name of any input of the chip or dynamically allocated (__0, __1, etc.)
	wires map[pin]string
}

func (c *chip) mount(s *Socket) []Component {
	var cs []Component

	for i, p := range c.parts {
		sub := newSocket(s.c)
		// k is the exported pin name (always an input or output name)
		// subK is the pin name in the part's namespace
		for _, k := range p.Inputs {
			subK := p.Pinout[k]
			if subK == "" {
				continue
			}
			if n := c.wires[pin{i, k}]; n != "" {
				sub.m[subK] = s.PinOrNew(n)
			} else {
				// unconnected inputs are wired to False.
				sub.m[subK] = cstFalse
			}
		}
		for _, k := range p.Outputs {
			subK := p.Pinout[k]
			if subK == "" {
				continue
			}
			n := s.PinOrNew(c.wires[pin{i, k}])
			src, ok := sub.m[subK]
			if !ok {
				sub.m[subK] = n
				continue
			}
			// the part drives several of its outputs from the same wire.
			cs = append(cs, func(c *Circuit) { c.Set(n, c.Get(src)) })
		}
		cs = append(cs, p.Mount(sub)...)
	}
	return cs
}

// Chip composes existing parts into a new part packaged into a chip.
// The pin names specified as inputs and outputs will be the inputs
// and outputs of the chip.
//
// A half adder could be created like this:
//
//	ha, err := Chip("HalfAdder", In("a, b"), Out("s, c"), Parts{
//		hwlib.Xor("a=a, b=b, out=s"),
//		hwlib.And("a=a, b=b, out=c"),
//	})
//
// The returned value is a NewPartFn that can be used to compose the new part
// with others into other chips.
//
func Chip(name string, inputs Inputs, outputs Outputs, parts Parts) (NewPartFn, error) {
	wr := newWiring()
	spcs := make([]*PartSpec, len(parts))

	chipIn := make(map[string]bool, len(inputs)+3)
	chipIn[True], chipIn[False], chipIn[Clk] = true, true, true
	for _, i := range inputs {
		chipIn[i] = true
	}
	chipOut := make(map[string]bool, len(outputs))
	for _, o := range outputs {
		if chipIn[o] {
			return nil, errors.New("pin " + o + " declared as both input and output")
		}
		chipOut[o] = true
	}

	partOut := make([]map[string]bool, len(parts))
	for pnum, p := range parts {
		sp := p.PartSpec
		spcs[pnum] = sp
		isIn := make(map[string]bool, len(sp.Inputs))
		for _, i := range sp.Inputs {
			isIn[i] = true
		}
		partOut[pnum] = make(map[string]bool, len(sp.Outputs))
		for _, o := range sp.Outputs {
			partOut[pnum][o] = true
		}

		for _, conn := range p.Conns {
			if _, ok := sp.Pinout[conn.PP]; !ok {
				return nil, errors.New("invalid pin name " + conn.PP + " for part " + sp.Name)
			}
			pp := pin{pnum, conn.PP}
			if isIn[conn.PP] {
				if len(conn.CP) > 1 || wr.has(pp) {
					return nil, errors.New(pinName(spcs, pp) + ": input pin connected to more than one wire")
				}
				wr.connect(pin{-1, conn.CP[0]}, pp)
				continue
			}
			for _, v := range conn.CP {
				wr.connect(pin{-1, v}, pp)
			}
		}
	}

	isDriver := func(p pin) bool {
		if p.isChipPin() {
			return chipIn[p.name]
		}
		return partOut[p.p][p.name]
	}
	isChipOut := func(p pin) bool {
		return p.isChipPin() && chipOut[p.name]
	}
	wires, err := wr.resolve(spcs, isDriver, isChipOut)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}

	// unconnected part outputs still need a wire of their own.
	n := 0
	for pnum, sp := range spcs {
		for _, o := range sp.Outputs {
			p := pin{pnum, o}
			if _, ok := wires[p]; !ok {
				wires[p] = "__nc" + strconv.Itoa(n)
				n++
			}
		}
	}

	pinout := make(map[string]string, len(inputs)+len(outputs))
	for _, i := range inputs {
		pinout[i] = i
	}
	for _, o := range outputs {
		if w, ok := wires[pin{-1, o}]; ok {
			pinout[o] = w
		} else {
			pinout[o] = "__nc" + strconv.Itoa(n)
			n++
		}
	}

	c := &chip{
		PartSpec{
			Name:    name,
			Inputs:  inputs,
			Outputs: outputs,
			Pinout:  pinout,
		},
		spcs,
		wires,
	}
	c.PartSpec.Mount = c.mount
	return c.PartSpec.NewPart, nil
}
