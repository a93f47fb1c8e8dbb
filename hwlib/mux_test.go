package hwlib_test

import (
	"strconv"
	"testing"

	hl "github.com/db47h/vgaprobe/hwlib"
	hw "github.com/db47h/vgaprobe/hwsim"
	"github.com/db47h/vgaprobe/hwtest"
)

func itoa(i int) string { return strconv.Itoa(i) }

func TestMuxN(t *testing.T) {
	m, err := hw.Chip("myMux4", hw.In("a[4], b[4], sel"), hw.Out("out[4]"), hw.Parts{
		hl.Mux("a=a[0], b=b[0], sel=sel, out=out[0]"),
		hl.Mux("a=a[1], b=b[1], sel=sel, out=out[1]"),
		hl.Mux("a=a[2], b=b[2], sel=sel, out=out[2]"),
		hl.Mux("a=a[3], b=b[3], sel=sel, out=out[3]"),
	})

	if err != nil {
		t.Fatal(err)
	}

	hwtest.ComparePart(t, 4, 500, hl.MuxN(4), m, nil)
}
