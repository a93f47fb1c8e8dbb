package hwlib_test

import (
	"strings"
	"testing"
	"testing/quick"

	hl "github.com/db47h/vgaprobe/hwlib"
	hw "github.com/db47h/vgaprobe/hwsim"
)

const testTPC = 8

func testGate(t *testing.T, gate hw.NewPartFn, result [][]bool) {
	t.Helper()
	part := gate("").PartSpec // build dummy gate just to get to the partspec
	inputs := make([]bool, len(part.Inputs))
	outputs := make([]bool, len(part.Outputs))
	var w []string
	parts := make(hw.Parts, 0, len(part.Inputs)+len(part.Outputs)+1)
	for i, n := range part.Inputs {
		w = append(w, n+"="+n)
		in := &inputs[i]
		parts = append(parts, hl.Input(func() bool { return *in })("out="+n))
	}
	for i, n := range part.Outputs {
		w = append(w, n+"="+n)
		out := &outputs[i]
		parts = append(parts, hl.Output(func(v bool) { *out = v })("in="+n))
	}
	parts = append(parts, gate(strings.Join(w, ",")))
	c, err := hw.NewCircuit(0, testTPC, parts)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	tot := 1 << uint(len(part.Inputs))
	for i := 0; i < tot; i++ {
		for bit := range inputs {
			inputs[len(inputs)-bit-1] = (i & (1 << uint(bit))) != 0
		}
		c.TickTock()
		for o, out := range outputs {
			exp := result[o][i]
			if exp != out {
				t.Errorf("%s %v = %v, got %v", part.Name, inputs, exp, out)
			}
		}
	}
}

func Test_gate_builtin(t *testing.T) {
	tr, err := hw.Chip("TRUE", hw.In("a"), hw.Out("out"), hw.Parts{
		hl.And("a=true, b=true, out=out"),
	})
	if err != nil {
		t.Fatal(err)
	}
	fa, err := hw.Chip("FALSE", hw.In("a"), hw.Out("out"), hw.Parts{
		hl.Or("a=false, b=false, out=out"),
	})
	if err != nil {
		t.Fatal(err)
	}
	td := []struct {
		name   string
		gate   hw.NewPartFn
		result [][]bool // a=0 && b=0, a=0 && b=1, a=1 && b=0, a=1 && b=1
	}{
		{"NOT", hl.Not, [][]bool{{true, false}}},
		{"AND", hl.And, [][]bool{{false, false, false, true}}},
		{"NAND", hl.Nand, [][]bool{{true, true, true, false}}},
		{"OR", hl.Or, [][]bool{{false, true, true, true}}},
		{"NOR", hl.Nor, [][]bool{{true, false, false, false}}},
		{"XOR", hl.Xor, [][]bool{{false, true, true, false}}},
		{"TRUE", tr, [][]bool{{true, true}}},
		{"FALSE", fa, [][]bool{{false, false}}},
		{"MUX", hl.Mux, [][]bool{{false, false, false, true, true, false, true, true}}},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			testGate(t, d.gate, d.result)
		})
	}
}

func TestInputN(t *testing.T) {
	var in, out uint64
	c, err := hw.NewCircuit(0, testTPC, hw.Parts{
		hl.InputN(16, func() uint64 { return in })("out[0..15]= t[0..15]"),
		hl.OutputN(16, func(n uint64) { out = n })("in[0..15] = t[0..15]"),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	f := func(v uint16) bool {
		in = uint64(v)
		c.TickTock()
		return out == in
	}
	if err = quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}
