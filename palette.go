// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vgaprobe

// RGB is a 24 bits color.
//
type RGB [3]uint8

// Bit positions of the two bits of each channel in a packed color. The high
// bit weighs 170 and the low bit 85, emulating a 2 bits resistor DAC.
//
const (
	RedHigh   = 0
	GreenHigh = 1
	BlueHigh  = 2
	RedLow    = 4
	GreenLow  = 5
	BlueLow   = 6
)

// Palette maps every packed output value to its color.
//
var Palette = newPalette()

func newPalette() (p [256]RGB) {
	level := func(v, hi, lo uint) uint8 {
		return uint8(170*(v>>hi&1) + 85*(v>>lo&1))
	}
	for i := range p {
		v := uint(i)
		p[i] = RGB{
			level(v, RedHigh, RedLow),
			level(v, GreenHigh, GreenLow),
			level(v, BlueHigh, BlueLow),
		}
	}
	return p
}

// Decode returns the color of a packed value.
//
func Decode(packed uint8) RGB { return Palette[packed] }

// Pack222 packs 2 bits red, green and blue levels (0-3) into an output value.
// It is the inverse of Decode for the color bits.
//
func Pack222(r, g, b uint8) uint8 {
	bits := func(v uint8, hi, lo uint) uint8 {
		return (v>>1&1)<<hi | (v&1)<<lo
	}
	return bits(r, RedHigh, RedLow) | bits(g, GreenHigh, GreenLow) | bits(b, BlueHigh, BlueLow)
}
