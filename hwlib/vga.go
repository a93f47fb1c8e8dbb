// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/vgaprobe"
	"github.com/db47h/vgaprobe/hwsim"
)

// Counter returns a modulo counter.
//
//	Inputs: rst, en
//	Outputs: out[bits], wrap
//	Function: out(t) = rst(t-1) ? 0 : en(t-1) ? (out(t-1)+1) % modulo : out(t-1)
//	          wrap = en && out == modulo-1
//
func Counter(bits, modulo int) hwsim.NewPartFn {
	r := func(n string) string { return busRange(n, bits) }
	p, err := hwsim.Chip("COUNTER"+strconv.Itoa(modulo), hwsim.In("rst, en"), hwsim.Out("out["+strconv.Itoa(bits)+"], wrap"), hwsim.Parts{
		DFFN(bits)(r("in") + "=" + r("next") + ", " + r("out") + "=" + r("out")),
		AdderN(bits)(r("a") + "=" + r("out") + ", b[0]=en, " + r("out") + "=" + r("inc")),
		Window(bits, modulo-1, modulo)(r("in") + "=" + r("out") + ", out=last"),
		And("a=last, b=en, out=wrap"),
		Or("a=rst, b=wrap, out=clr"),
		MuxN(bits)(r("a") + "=" + r("inc") + ", " + r("b") + "=false, sel=clr, " + r("out") + "=" + r("next")),
	})
	if err != nil {
		panic(err)
	}
	return p
}

// HVSync returns a sync generator for the given timing.
//
//	Inputs: rst
//	Outputs: hpos[hbits], vpos[vbits], hsync, vsync, display_on
//
// where hbits and vbits are the number of bits needed to count up to the
// horizontal and vertical totals (see PosBits).
//
func HVSync(t vgaprobe.Timing) hwsim.NewPartFn {
	hb, vb := PosBits(t)
	h, v := busRange("hpos", hb), busRange("vpos", vb)
	in := func(bits int) string { return busRange("in", bits) }
	p, err := hwsim.Chip("HVSYNC", hwsim.In("rst"),
		hwsim.Out("hpos["+strconv.Itoa(hb)+"], vpos["+strconv.Itoa(vb)+"], hsync, vsync, display_on"),
		hwsim.Parts{
			Counter(hb, t.H.Total())("rst=rst, en=true, " + busRange("out", hb) + "=" + h + ", wrap=hwrap"),
			Counter(vb, t.V.Total())("rst=rst, en=hwrap, " + busRange("out", vb) + "=" + v),
			Window(hb, t.H.SyncStart(), t.H.SyncEnd())(in(hb) + "=" + h + ", out=hsync"),
			Window(vb, t.V.SyncStart(), t.V.SyncEnd())(in(vb) + "=" + v + ", out=vsync"),
			Window(hb, 0, t.H.Visible)(in(hb) + "=" + h + ", out=hde"),
			Window(vb, 0, t.V.Visible)(in(vb) + "=" + v + ", out=vde"),
			And("a=hde, b=vde, out=display_on"),
		})
	if err != nil {
		panic(err)
	}
	return p
}

// PosBits returns the width of the horizontal and vertical position buses
// for timing t.
//
func PosBits(t vgaprobe.Timing) (hbits, vbits int) {
	return widthFor(t.H.Total()), widthFor(t.V.Total())
}

// A Pattern returns the 2 bits red, green and blue levels of the visible pixel
// at (x, y). ui is the value of the design's ui_in port.
//
type Pattern func(x, y int, ui uint8) (r, g, b uint8)

// packed color bit positions, in rgb bus order.
var rgbBits = [6]uint{
	vgaprobe.RedHigh, vgaprobe.GreenHigh, vgaprobe.BlueHigh,
	vgaprobe.RedLow, vgaprobe.GreenLow, vgaprobe.BlueLow,
}

// PatternPart returns a part computing pattern p.
//
//	Inputs: x[xbits], y[ybits], ui[8]
//	Outputs: rgb[6]
//	Function: rgb = R1 G1 B1 R0 G0 B0 of p(x, y, ui)
//
func PatternPart(p Pattern, xbits, ybits int) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    "PATTERN",
		Inputs:  append(append(bus(xbits, "x"), bus(ybits, "y")...), bus(8, "ui")...),
		Outputs: bus(6, "rgb"),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			x, y, ui := s.Bus("x", xbits), s.Bus("y", ybits), s.Bus("ui", 8)
			out := s.Bus("rgb", 6)
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					r, g, b := p(int(Uint64(c, x)), int(Uint64(c, y)), uint8(Uint64(c, ui)))
					packed := vgaprobe.Pack222(r, g, b)
					for i, bit := range rgbBits {
						c.Set(out[i], packed&(1<<bit) != 0)
					}
				}}
		}}).NewPart
}

// Project returns a VGA design with a Tiny Tapeout style pinout, built from
// HVSync and PatternPart. Colors are forced to black outside of the display
// area.
//
//	Inputs: ui_in[8], rst_n
//	Outputs: uo_out[8]
//	Function: uo_out = {hsync, B0, G0, R0, vsync, B1, G1, R1} (msb first)
//
// The design needs 8 steps per cycle to settle.
//
func Project(t vgaprobe.Timing, p Pattern) hwsim.NewPartFn {
	hb, vb := PosBits(t)
	x, y := busRange("x", hb), busRange("y", vb)
	dut, err := hwsim.Chip("PROJECT", hwsim.In("ui_in[8], rst_n"), hwsim.Out("uo_out[8]"), hwsim.Parts{
		Not("in=rst_n, out=rst"),
		HVSync(t)("rst=rst, " + busRange("hpos", hb) + "=" + x + ", " + busRange("vpos", vb) + "=" + y +
			", hsync=uo_out[7], vsync=uo_out[3], display_on=de"),
		PatternPart(p, hb, vb)(x + "=" + x + ", " + y + "=" + y + ", ui[0..7]=ui_in[0..7], rgb[0..5]=color[0..5]"),
		MuxN(6)("a[0..5]=false, b[0..5]=color[0..5], sel=de, out[0..2]=uo_out[0..2], out[3..5]=uo_out[4..6]"),
	})
	if err != nil {
		panic(err)
	}
	return dut
}

// ProjectRef returns a behavioral model of Project as a single component.
//
func ProjectRef(t vgaprobe.Timing, p Pattern) hwsim.NewPartFn {
	return (&hwsim.PartSpec{
		Name:    "PROJECT_REF",
		Inputs:  append(bus(8, "ui_in"), "rst_n"),
		Outputs: bus(8, "uo_out"),
		Mount: func(s *hwsim.Socket) []hwsim.Component {
			ui, rstn, out := s.Bus("ui_in", 8), s.Pin("rst_n"), s.Bus("uo_out", 8)
			var h, v int
			return []hwsim.Component{
				func(c *hwsim.Circuit) {
					if c.AtTick() {
						if !c.Get(rstn) {
							h, v = 0, 0
						} else if h++; h == t.H.Total() {
							h = 0
							if v++; v == t.V.Total() {
								v = 0
							}
						}
					}
					SetUint64(c, out, uint64(Encode(t, p, h, v, uint8(Uint64(c, ui)))))
				}}
		}}).NewPart
}

// Encode returns the expected uo_out value of a design displaying p at beam
// position (h, v).
//
func Encode(t vgaprobe.Timing, p Pattern, h, v int, ui uint8) uint8 {
	s := vgaprobe.Sample{
		HSync: t.H.InSync(h),
		VSync: t.V.InSync(v),
	}
	if h < t.H.Visible && v < t.V.Visible {
		s.Color = vgaprobe.Pack222(p(h, v, ui))
	}
	return s.Pack()
}

// Render returns the frame that a design displaying p should produce.
//
func Render(t vgaprobe.Timing, p Pattern, ui uint8) *vgaprobe.Frame {
	f := vgaprobe.NewFrame(t.H.Visible, t.V.Visible)
	for y := 0; y < t.V.Visible; y++ {
		row := f.Row(y)
		for x := 0; x < t.H.Visible; x++ {
			c := vgaprobe.Decode(vgaprobe.Pack222(p(x, y, ui)))
			copy(row[3*x:3*x+3], c[:])
		}
	}
	return f
}

// Solid returns a single color pattern.
//
func Solid(r, g, b uint8) Pattern {
	return func(_, _ int, _ uint8) (uint8, uint8, uint8) { return r & 3, g & 3, b & 3 }
}

// Bars returns vertical color bars of the given width, cycling through the 8
// saturated colors.
//
func Bars(width int) Pattern {
	return func(x, _ int, _ uint8) (uint8, uint8, uint8) {
		i := uint8(x / width)
		return (i & 1) * 3, (i >> 1 & 1) * 3, (i >> 2 & 1) * 3
	}
}

// Checker returns a black and white checkerboard with squares of the given
// size.
//
func Checker(size int) Pattern {
	return func(x, y int, _ uint8) (uint8, uint8, uint8) {
		if (x/size+y/size)&1 != 0 {
			return 3, 3, 3
		}
		return 0, 0, 0
	}
}

// XorPattern returns the classic x^y pattern, offset by ui.
//
func XorPattern(x, y int, ui uint8) (r, g, b uint8) {
	v := uint8((x^y)>>3) + ui
	return v & 3, v >> 2 & 3, v >> 4 & 3
}
