// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest

import (
	"github.com/db47h/vgaprobe"
	"github.com/db47h/vgaprobe/hwlib"
	"github.com/db47h/vgaprobe/hwsim"
	"github.com/pkg/errors"
)

// DefaultTPC is the number of simulation steps per clock cycle used by NewProbe
// when none is given. It is enough for hwlib.Project to settle.
//
const DefaultTPC = 8

// A Probe runs a design under test in a circuit and samples its uo_out port
// once per clock cycle. It implements vgaprobe.Source and vgaprobe.Skipper.
//
// The design must have the pins ui_in[8], rst_n and uo_out[8], like
// hwlib.Project.
//
type Probe struct {
	c      *hwsim.Circuit
	ui     uint64
	rstN   bool
	uo     uint64
	cycles uint64
}

// NewProbe mounts dut in a new circuit. See hwsim.NewCircuit for the workers
// and tpc arguments; if tpc is 0, DefaultTPC is used.
//
// Callers must call Dispose once done with the probe.
//
func NewProbe(workers int, tpc uint, dut hwsim.NewPartFn) (*Probe, error) {
	if tpc == 0 {
		tpc = DefaultTPC
	}
	p := &Probe{rstN: true}
	c, err := hwsim.NewCircuit(workers, tpc, hwsim.Parts{
		hwlib.InputN(8, func() uint64 { return p.ui })("out[0..7]=ui[0..7]"),
		hwlib.Input(func() bool { return p.rstN })("out=rst_n"),
		dut("ui_in[0..7]=ui[0..7], rst_n=rst_n, uo_out[0..7]=uo[0..7]"),
		hwlib.OutputN(8, func(v uint64) { p.uo = v })("in[0..7]=uo[0..7]"),
	})
	if err != nil {
		return nil, errors.Wrap(err, "probe")
	}
	p.c = c
	return p, nil
}

// Reset holds rst_n low for the given number of cycles, then releases it and
// runs one more cycle for the design to come out of reset. The next sample is
// the first cycle after reset.
//
func (p *Probe) Reset(hold int) {
	p.rstN = false
	for i := 0; i < hold; i++ {
		p.c.TickTock()
	}
	p.rstN = true
	p.c.TickTock()
	p.cycles = 0
}

// SetInputs sets the value of the ui_in port.
//
func (p *Probe) SetInputs(ui uint8) { p.ui = uint64(ui) }

// Out returns the current value of the uo_out port.
//
func (p *Probe) Out() uint8 { return uint8(p.uo) }

// Next implements vgaprobe.Source. It samples uo_out then advances the
// simulation by one clock cycle.
//
func (p *Probe) Next() (vgaprobe.Sample, error) {
	s := vgaprobe.NewSample(uint8(p.uo))
	p.c.TickTock()
	p.cycles++
	return s, nil
}

// Skip implements vgaprobe.Skipper.
//
func (p *Probe) Skip(n int) error {
	for i := 0; i < n; i++ {
		p.c.TickTock()
	}
	p.cycles += uint64(n)
	return nil
}

// Cycles returns the number of cycles sampled or skipped since the last reset.
//
func (p *Probe) Cycles() uint64 { return p.cycles }

// Circuit returns the underlying circuit.
//
func (p *Probe) Circuit() *hwsim.Circuit { return p.c }

// Dispose releases the circuit's resources.
//
func (p *Probe) Dispose() { p.c.Dispose() }
