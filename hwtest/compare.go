// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides a test harness for designs simulated with hwsim.
//
// A Probe turns a design under test into a vgaprobe.Source, Signal produces
// the ideal output of such a design without simulation, and ComparePart checks
// two implementations of the same part against each other.
//
package hwtest

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/db47h/vgaprobe/hwlib"
	"github.com/db47h/vgaprobe/hwsim"
)

// An InputFn returns the state of the input pin name during the given cycle.
//
type InputFn func(cycle int, name string) bool

// RandomInputs returns an InputFn that sets every pin to a random value.
//
func RandomInputs(seed int64) InputFn {
	r := rand.New(rand.NewSource(seed))
	return func(int, string) bool { return r.Int63()&(1<<62) != 0 }
}

func connString(pins ...[]string) string {
	var b strings.Builder
	for _, l := range pins {
		for _, n := range l {
			if b.Len() > 0 {
				b.WriteRune(',')
			}
			b.WriteString(n)
			b.WriteRune('=')
			b.WriteString(n)
		}
	}
	return b.String()
}

// ComparePart takes two parts and compares their outputs over the given
// number of clock cycles when driven by the same inputs. Both parts must have
// the same input/output interface. If gen is nil, random inputs are used.
//
func ComparePart(t testing.TB, tpc uint, cycles int, part1, part2 hwsim.NewPartFn, gen InputFn) {
	t.Helper()

	if gen == nil {
		gen = RandomInputs(time.Now().UnixNano())
	}

	ps1, ps2 := part1(""), part2("")
	if len(ps1.Inputs) != len(ps2.Inputs) || len(ps1.Outputs) != len(ps2.Outputs) {
		t.Fatalf("interface mismatch: %s has %d/%d pins, %s has %d/%d",
			ps1.Name, len(ps1.Inputs), len(ps1.Outputs), ps2.Name, len(ps2.Inputs), len(ps2.Outputs))
	}
	for i := range ps1.Inputs {
		if ps1.Inputs[i] != ps2.Inputs[i] {
			t.Fatalf("ps1.Inputs[%d] = %q != ps2.Inputs[%d] = %q", i, ps1.Inputs[i], i, ps2.Inputs[i])
		}
	}
	for i := range ps1.Outputs {
		if ps1.Outputs[i] != ps2.Outputs[i] {
			t.Fatalf("ps1.Outputs[%d] = %q != ps2.Outputs[%d] = %q", i, ps1.Outputs[i], i, ps2.Outputs[i])
		}
	}

	inputs := make([]bool, len(ps1.Inputs))
	outputs := make([][2]bool, len(ps1.Outputs))

	// build two wrappers with their own set of outputs
	conns := connString(ps1.Inputs, ps1.Outputs)
	parts1 := hwsim.Parts{part1(conns)}
	parts2 := hwsim.Parts{part2(conns)}
	for i, o := range ps1.Outputs {
		n := i
		parts1 = append(parts1, hwlib.Output(func(b bool) { outputs[n][0] = b })("in="+o))
		parts2 = append(parts2, hwlib.Output(func(b bool) { outputs[n][1] = b })("in="+o))
	}
	w1, err := hwsim.Chip("wrapper1", ps1.Inputs, nil, parts1)
	if err != nil {
		t.Fatal(err)
	}
	w2, err := hwsim.Chip("wrapper2", ps2.Inputs, nil, parts2)
	if err != nil {
		t.Fatal(err)
	}

	var parts hwsim.Parts
	for i, n := range ps1.Inputs {
		k := i
		parts = append(parts, hwlib.Input(func() bool { return inputs[k] })("out="+n))
	}
	in := connString(ps1.Inputs)
	parts = append(parts, w1(in), w2(in))

	c, err := hwsim.NewCircuit(1, tpc, parts)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	errString := func(cycle int, oname string, ex, got bool) string {
		var b strings.Builder
		for i, n := range ps1.Inputs {
			if b.Len() > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", n, inputs[i])
		}
		return fmt.Sprintf("cycle %d: with %s\nexpected %s=%v, got %v", cycle, b.String(), oname, ex, got)
	}

	start := time.Now()
	for cycle := 0; cycle < cycles; cycle++ {
		for i, n := range ps1.Inputs {
			inputs[i] = gen(cycle, n)
		}
		c.TickTock()
		for o, out := range outputs {
			if out[0] != out[1] {
				t.Fatal(errString(cycle, ps1.Outputs[o], out[0], out[1]))
			}
		}
	}

	elapsed := time.Since(start)
	t.Logf("%d components. %d steps in %v. %d clock ticks => %.2f Hz",
		c.Size(), c.Steps(), elapsed, cycles, float64(cycles)/elapsed.Seconds())
}
