package hwsim_test

import (
	"testing"

	"github.com/db47h/vgaprobe/hwlib"
	hw "github.com/db47h/vgaprobe/hwsim"
)

func TestChip_errors(t *testing.T) {
	unkChip, err := hw.Chip("TESTCHIP", hw.In("a, b"), hw.Out("out"), hw.Parts{
		// chip input a is unused
		hwlib.Nand("a=b, b=b, out=out"),
	})
	if err != nil {
		t.Fatal(err)
	}
	data := []struct {
		name  string
		in    hw.Inputs
		out   hw.Outputs
		parts hw.Parts
		err   string
	}{
		{"true_out", hw.In("a, b"), hw.Out("out"), hw.Parts{
			hwlib.Nand("a=a, b=b, out=true"),
			hwlib.Nand("a=a, b=b, out=out"),
		}, "true_out: NAND.out:true: output pin connected to constant true input"},
		{"false_out", hw.In("a, b"), hw.Out("out"), hw.Parts{
			hwlib.Nand("a=a, b=b, out=false"),
			hwlib.Nand("a=a, b=b, out=out"),
		}, "false_out: NAND.out:false: output pin connected to constant false input"},
		{"multi_out", hw.In("a, b"), hw.Out("out"), hw.Parts{
			hwlib.Nand("a=a, b=b, out=a"),
			hwlib.Nand("a=a, b=b, out=out"),
		}, "multi_out: NAND.out:a: chip input pin used as output"},
		{"multi_out2", hw.In("a, b"), hw.Out("out"), hw.Parts{
			hwlib.Nand("a=a, b=b, out=x"),
			hwlib.Nand("a=a, b=b, out=x"),
			hwlib.Not("in=x, out=out"),
		}, "multi_out2: NAND.out:x: output pin already used as output"},
		{"no_output", hw.In("a, b"), hw.Out("out"), hw.Parts{
			hwlib.Nand("a=a, b=wx, out=out"),
		}, "no_output: pin wx not connected to any output"},
		{"no_input", hw.In("a, b"), hw.Out("out"), hw.Parts{
			hwlib.Nand("a=a, b=b, out=foo"),
			hwlib.Nand("a=a, b=b, out=out"),
		}, "no_input: pin foo not connected to any input"},
		{"multi_in", hw.In("a, b"), hw.Out("out"), hw.Parts{
			hwlib.Nand("a=a, a=b, b=b, out=out"),
		}, "NAND.a: input pin connected to more than one wire"},
		{"in_out", hw.In("a, b"), hw.Out("a"), hw.Parts{}, "pin a declared as both input and output"},
		{"unconnected_in", hw.In("a, b"), hw.Out("out"), hw.Parts{}, ""},
		{"unknown_pin", hw.In("a, b"), hw.Out("out"), hw.Parts{
			hwlib.Nand("a=a, typo=b, out=out"),
		}, "invalid pin name typo for part NAND"},
		{"unknown_chip_pin", hw.In("a, b"), hw.Out("out"), hw.Parts{
			unkChip("a=a, typo=b, out=out"),
		}, "invalid pin name typo for part TESTCHIP"},
		{"chip", hw.In("a, b"), hw.Out("out"), hw.Parts{
			unkChip("a=a, b=b, out=out"),
		}, ""},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			_, err := hw.Chip(d.name, d.in, d.out, d.parts)
			if err == nil && d.err != "" || err != nil && err.Error() != d.err {
				t.Errorf("Got error %q, expected %q", err, d.err)
				return
			}
		})
	}
}

func TestChip_omitted_pins(t *testing.T) {
	var a, b, c, tr, f, o0, o1 int
	dummy := (&hw.PartSpec{
		Name:    "dummy",
		Inputs:  hw.In("a, b, c, t, f"),
		Outputs: hw.Out("o0, o1"),
		Mount: func(s *hw.Socket) []hw.Component {
			a, b, c, tr, f, o0, o1 = s.Pin("a"), s.Pin("b"), s.Pin("c"), s.Pin("t"), s.Pin("f"), s.Pin("o0"), s.Pin("o1")
			return nil
		}}).NewPart
	// inspecting o0 and o1 shows that another dummy wire was allocated for dummy.o0:wo0
	wrapper, err := hw.Chip("wrapper", hw.In("wa, wb"), hw.Out("wo0, wo1"), hw.Parts{
		dummy("a=wa, c=clk, t=true, f=false, o0=wo0"),
	})
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}

	c0, err := hw.NewCircuit(1, 0, hw.Parts{wrapper("")})
	if err != nil {
		t.Fatal(err)
	}
	defer c0.Dispose()

	if a != 0 || b != 0 || f != 0 { // 0 = cstFalse
		t.Errorf("a = %v, b = %v, f = %v, all must be 0", a, b, f)
	}
	if tr != 1 { // 1 = cstTrue
		t.Errorf("t = %v, must be 1", tr)
	}
	if c != 2 { // 2 = cstClk
		t.Errorf("c = %v, must be 2", c)
	}
	if o0 < 3 || o1 < 3 || o0 == o1 { // 3 = cstCount
		t.Errorf("o0 = %v, o1 = %v, both must be >= 3 and distinct", o0, o1)
	}
}

func TestChip_fanout_to_outputs(t *testing.T) {
	gate, err := hw.Chip("FANOUT", hw.In("in"), hw.Out("a, b, bus[2]"), hw.Parts{
		hwlib.Or("a=in, b=in, out=a, out=b, out=bus[0..1]"),
	})
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}
	wrapper1, err := hw.Chip("FANOUT_Wrapper", hw.In("in"), hw.Out("o[8]"), hw.Parts{
		gate("in=in, a=o[0..1], b=o[2..3], bus[0]=o[4..5], bus[1]=o[6..7]"),
	})
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}
	var out uint64
	c, err := hw.NewCircuit(0, testTPC, hw.Parts{
		wrapper1("in=true, o[0..7]=wrapOut[0..7]"),
		hwlib.OutputN(8, func(v uint64) { out = v })("in[0..7]=wrapOut[0..7]"),
	})
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}
	defer c.Dispose()
	c.TickTock()
	if out != 255 {
		t.Fatalf("out = %d != 255", out)
	}
}

func TestParseConnections(t *testing.T) {
	td := []struct {
		in    string
		conns []hw.Connection
		err   bool
	}{
		{"a=b", []hw.Connection{{"a", []string{"b"}}}, false},
		{" a = b , c=d ", []hw.Connection{{"a", []string{"b"}}, {"c", []string{"d"}}}, false},
		{"a[0..1]=w[2..3]", []hw.Connection{{"a[0]", []string{"w[2]"}}, {"a[1]", []string{"w[3]"}}}, false},
		{"a[0..1]=false", []hw.Connection{{"a[0]", []string{"false"}}, {"a[1]", []string{"false"}}}, false},
		{"out[3]=x", []hw.Connection{{"out[3]", []string{"x"}}}, false},
		{"a", nil, true},
		{"a[0..2]=b[0..1]", nil, true},
		{"a[2..0]=b", nil, true},
		{"a[0..1=b", nil, true},
		{"1a=b", nil, true},
	}
	for _, d := range td {
		conns, err := hw.ParseConnections(d.in)
		if d.err {
			if err == nil {
				t.Errorf("%q: expected error", d.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error %v", d.in, err)
			continue
		}
		if len(conns) != len(d.conns) {
			t.Errorf("%q: got %v, expected %v", d.in, conns, d.conns)
			continue
		}
		for i := range conns {
			if conns[i].PP != d.conns[i].PP || len(conns[i].CP) != 1 || conns[i].CP[0] != d.conns[i].CP[0] {
				t.Errorf("%q: got %v, expected %v", d.in, conns, d.conns)
				break
			}
		}
	}
}

func TestIO(t *testing.T) {
	pins, err := hw.IO("a, bus[3], sel")
	if err != nil {
		t.Fatal(err)
	}
	exp := []string{"a", "bus[0]", "bus[1]", "bus[2]", "sel"}
	if len(pins) != len(exp) {
		t.Fatalf("got %v, expected %v", pins, exp)
	}
	for i := range exp {
		if pins[i] != exp[i] {
			t.Fatalf("got %v, expected %v", pins, exp)
		}
	}
	for _, bad := range []string{"a b", "bus[0]", "bus[x]", "bus[2"} {
		if _, err := hw.IO(bad); err == nil {
			t.Errorf("IO(%q): expected error", bad)
		}
	}
}
