package vgaprobe_test

import (
	"testing"

	"github.com/db47h/vgaprobe"
	"github.com/stretchr/testify/require"
)

func TestPalette(t *testing.T) {
	for i := 0; i < 256; i++ {
		v := uint8(i)
		c := vgaprobe.Decode(v)
		require.Equal(t, c, vgaprobe.Palette[i])
		// sync bits do not affect color
		require.Equal(t, c, vgaprobe.Decode(v&vgaprobe.ColorMask), "value %08b", v)
		exp := vgaprobe.RGB{
			uint8(170*(i&1) + 85*(i>>4&1)),
			uint8(170*(i>>1&1) + 85*(i>>5&1)),
			uint8(170*(i>>2&1) + 85*(i>>6&1)),
		}
		require.Equal(t, exp, c, "value %08b", v)
		for _, ch := range c {
			require.Contains(t, []uint8{0, 85, 170, 255}, ch)
		}
	}
}

func TestPack222(t *testing.T) {
	levels := [4]uint8{0, 85, 170, 255}
	for r := uint8(0); r < 4; r++ {
		for g := uint8(0); g < 4; g++ {
			for b := uint8(0); b < 4; b++ {
				p := vgaprobe.Pack222(r, g, b)
				require.Zero(t, p&^vgaprobe.ColorMask)
				require.Equal(t, vgaprobe.RGB{levels[r], levels[g], levels[b]}, vgaprobe.Decode(p))
			}
		}
	}
	// red high is bit 0, blue low is bit 6
	require.Equal(t, uint8(1), vgaprobe.Pack222(2, 0, 0))
	require.Equal(t, uint8(1<<6), vgaprobe.Pack222(0, 0, 1))
}

func TestSample(t *testing.T) {
	s := vgaprobe.NewSample(0x88 | 0x05)
	require.True(t, s.HSync)
	require.True(t, s.VSync)
	require.Equal(t, uint8(0x05), s.Color)
	for i := 0; i < 256; i++ {
		require.Equal(t, uint8(i), vgaprobe.NewSample(uint8(i)).Pack())
	}
}
