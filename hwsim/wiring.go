// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"sort"
	"strconv"

	"github.com/pkg/errors"
)

// a pin is identified by the part it belongs to and its name in that part's
// interface. Pins of the host chip have p < 0.
type pin struct {
	p    int
	name string
}

func (p pin) isChipPin() bool { return p.p < 0 }

func isConstant(name string) bool {
	return name == True || name == False || name == Clk
}

// wiring groups connected pins into nets using a disjoint set.
type wiring struct {
	parent map[pin]pin
	order  []pin // insertion order, keeps naming deterministic
}

func newWiring() *wiring {
	return &wiring{parent: make(map[pin]pin)}
}

func (w *wiring) find(p pin) pin {
	r, ok := w.parent[p]
	if !ok {
		w.parent[p] = p
		w.order = append(w.order, p)
		return p
	}
	if r == p {
		return p
	}
	r = w.find(r)
	w.parent[p] = r
	return r
}

func (w *wiring) has(p pin) bool {
	_, ok := w.parent[p]
	return ok
}

func (w *wiring) connect(a, b pin) {
	ra, rb := w.find(a), w.find(b)
	if ra != rb {
		w.parent[rb] = ra
	}
}

// net is a set of connected pins.
type net struct {
	pins    []pin
	drivers []pin
	name    string
}

func (n *net) chipPin() string {
	for _, p := range n.pins {
		if p.isChipPin() {
			return p.name
		}
	}
	return ""
}

func (n *net) has(test func(p pin) bool) bool {
	for _, p := range n.pins {
		if test(p) {
			return true
		}
	}
	return false
}

// resolve checks the wiring of a chip and returns the wire name of every pin
// in use. isDriver reports whether a pin drives its net (chip inputs, constants
// and part outputs), isChipOut whether it is one of the chip's outputs.
func (w *wiring) resolve(spcs []*PartSpec, isDriver, isChipOut func(p pin) bool) (map[pin]string, error) {
	nets := make(map[pin]*net)
	var roots []pin
	for _, p := range w.order {
		r := w.find(p)
		n := nets[r]
		if n == nil {
			n = &net{}
			nets[r] = n
			roots = append(roots, r)
		}
		n.pins = append(n.pins, p)
		if isDriver(p) {
			n.drivers = append(n.drivers, p)
		}
	}

	wires := make(map[pin]string, len(w.order))
	wireNum := 0
	for _, r := range roots {
		n := nets[r]
		switch len(n.drivers) {
		case 0:
			if n.has(func(p pin) bool { return !p.isChipPin() }) {
				return nil, errors.New("pin " + n.chipPin() + " not connected to any output")
			}
		case 1:
			d := n.drivers[0]
			if d.isChipPin() {
				n.name = d.name
				break
			}
			if !n.has(func(p pin) bool { return !p.isChipPin() && p != d || isChipOut(p) }) {
				return nil, errors.New("pin " + n.chipPin() + " not connected to any input")
			}
		default:
			return nil, driverError(spcs, n)
		}
		if n.name == "" {
			n.name = "__" + strconv.Itoa(wireNum)
			wireNum++
		}
		for _, p := range n.pins {
			wires[p] = n.name
		}
	}
	return wires, nil
}

func driverError(spcs []*PartSpec, n *net) error {
	// report part outputs first, sorted for stable messages.
	ds := append([]pin(nil), n.drivers...)
	sort.Slice(ds, func(i, j int) bool {
		if ds[i].isChipPin() != ds[j].isChipPin() {
			return !ds[i].isChipPin()
		}
		if ds[i].p != ds[j].p {
			return ds[i].p < ds[j].p
		}
		return ds[i].name < ds[j].name
	})
	out := pinName(spcs, ds[0])
	w := n.chipPin()
	for _, d := range ds {
		if d.isChipPin() {
			if isConstant(d.name) {
				return errors.New(out + ":" + d.name + ": output pin connected to constant " + d.name + " input")
			}
			return errors.New(out + ":" + d.name + ": chip input pin used as output")
		}
	}
	return errors.New(pinName(spcs, ds[1]) + ":" + w + ": output pin already used as output")
}

func pinName(sp []*PartSpec, p pin) string {
	if p.isChipPin() {
		return p.name
	}
	return sp[p.p].Name + "." + p.name
}
