package trace_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/db47h/vgaprobe"
	"github.com/db47h/vgaprobe/hwlib"
	"github.com/db47h/vgaprobe/hwtest"
	"github.com/db47h/vgaprobe/trace"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

var tiny = vgaprobe.Timing{
	Name: "tiny",
	H:    vgaprobe.Axis{Visible: 8, Front: 2, Sync: 3, Back: 3},
	V:    vgaprobe.Axis{Visible: 6, Front: 1, Sync: 2, Back: 1},
}

func TestRecordReplay(t *testing.T) {
	var buf bytes.Buffer
	rec, err := trace.NewRecorder(hwtest.NewSignal(tiny, hwlib.XorPattern, 3), &buf, tiny.Name)
	require.NoError(t, err)

	d := vgaprobe.NewDecoder(rec, tiny, nil)
	var frames []*vgaprobe.Frame
	for _, mode := range []vgaprobe.Mode{vgaprobe.Verify, vgaprobe.SkipFrame, vgaprobe.Verify} {
		f, err := d.Frame(mode)
		require.NoError(t, err)
		frames = append(frames, f)
	}
	require.NoError(t, rec.Close())
	require.Equal(t, uint64(3*tiny.FrameCycles()), rec.Samples())

	p, err := trace.NewPlayer(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer p.Close()
	require.Equal(t, "tiny", p.Timing())

	d = vgaprobe.NewDecoder(p, tiny, nil)
	for i, mode := range []vgaprobe.Mode{vgaprobe.Verify, vgaprobe.SkipFrame, vgaprobe.Verify} {
		f, err := d.Frame(mode)
		require.NoError(t, err)
		require.Equal(t, frames[i], f, "frame %d", i)
	}
	require.Equal(t, uint64(3*tiny.FrameCycles()), p.Samples())

	// end of trace
	_, err = p.Next()
	require.Equal(t, io.EOF, err)
	_, err = d.Frame(vgaprobe.Verify)
	require.Equal(t, io.EOF, errors.Cause(err))
	require.Equal(t, io.EOF, p.Skip(1))
}

func TestNewPlayer_errors(t *testing.T) {
	_, err := trace.NewPlayer(bytes.NewReader(nil))
	require.Equal(t, trace.ErrFormat, err)
	_, err = trace.NewPlayer(bytes.NewReader([]byte("RIFF\x01\x00")))
	require.Equal(t, trace.ErrFormat, err)
	_, err = trace.NewPlayer(bytes.NewReader([]byte("VGAT\x09\x00")))
	require.Error(t, err)
}

func TestRecorder_sourceError(t *testing.T) {
	boom := errors.New("boom")
	n := 0
	src := vgaprobe.SourceFunc(func() (vgaprobe.Sample, error) {
		if n == 10 {
			return vgaprobe.Sample{}, boom
		}
		n++
		return vgaprobe.NewSample(uint8(n)), nil
	})
	var buf bytes.Buffer
	rec, err := trace.NewRecorder(src, &buf, "x")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		_, err = rec.Next()
		require.NoError(t, err)
	}
	_, err = rec.Next()
	require.Equal(t, boom, err)
	require.NoError(t, rec.Close())

	p, err := trace.NewPlayer(&buf)
	require.NoError(t, err)
	defer p.Close()
	for i := 1; i <= 10; i++ {
		s, err := p.Next()
		require.NoError(t, err)
		require.Equal(t, vgaprobe.NewSample(uint8(i)), s)
	}
	_, err = p.Next()
	require.Equal(t, io.EOF, err)
}
