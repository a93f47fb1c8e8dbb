package capture_test

import (
	"bytes"
	"context"
	"log"
	"path/filepath"
	"testing"

	"github.com/db47h/vgaprobe"
	"github.com/db47h/vgaprobe/capture"
	"github.com/db47h/vgaprobe/compare"
	"github.com/db47h/vgaprobe/hwlib"
	"github.com/db47h/vgaprobe/hwtest"
	"github.com/db47h/vgaprobe/internal/raster"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

var tiny = vgaprobe.Timing{
	Name: "tiny",
	H:    vgaprobe.Axis{Visible: 8, Front: 2, Sync: 3, Back: 3},
	V:    vgaprobe.Axis{Visible: 6, Front: 1, Sync: 2, Back: 1},
}

func testConfig() capture.Config {
	cfg := capture.DefaultConfig()
	cfg.Workers = 2
	return cfg
}

// writeRefs renders the reference frames for pattern p.
func writeRefs(t *testing.T, fs afero.Fs, cfg capture.Config, p hwlib.Pattern, frames ...int) {
	t.Helper()
	f := hwlib.Render(tiny, p, 0)
	for _, i := range frames {
		require.NoError(t, raster.WriteFile(fs, filepath.Join(cfg.ReferenceDir, capture.FrameName(i, "."+cfg.Format)), f))
	}
}

func TestSession_match(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := testConfig()
	cfg.Skip = []int{1}
	writeRefs(t, fs, cfg, hwlib.Checker(2), 0, 2)

	var logBuf bytes.Buffer
	s, err := capture.New(fs, hwtest.NewSignal(tiny, hwlib.Checker(2), 0), tiny, cfg, log.New(&logBuf, "", 0))
	require.NoError(t, err)

	r, err := s.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, r.Err(), spew.Sdump(r))
	require.Len(t, r.Entries, 2)
	require.Equal(t, "frame0.png", r.Entries[0].Name)
	require.Equal(t, "frame2.png", r.Entries[1].Name)
	for _, e := range r.Entries {
		require.True(t, e.Result.Match())
	}
	require.Equal(t, uint64(3*tiny.FrameCycles()), s.Decoder().Cycles())
	require.Equal(t, 3, s.Decoder().Frames())

	ok, err := afero.Exists(fs, "output/frame1.png")
	require.NoError(t, err)
	require.False(t, ok, "skipped frames must not be saved")
	require.Contains(t, logBuf.String(), "frame 1: skipped")
}

func TestSession_mismatch(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := testConfig()
	cfg.Frames = 2
	cfg.Mode = vgaprobe.DisplayOnly
	cfg.DiffScale = 4
	writeRefs(t, fs, cfg, hwlib.Bars(1), 0)
	// one wrong pixel in frame 1
	ref := hwlib.Render(tiny, hwlib.Bars(1), 0)
	ref.SetRGB(3, 4, vgaprobe.RGB{1, 2, 3})
	require.NoError(t, raster.WriteFile(fs, "reference/frame1.png", ref))

	s, err := capture.New(fs, hwtest.NewSignal(tiny, hwlib.Bars(1), 0), tiny, cfg, nil)
	require.NoError(t, err)
	r, err := s.Run(context.Background())
	require.NoError(t, err)

	failed := r.Failed()
	require.Len(t, failed, 1)
	require.Equal(t, "frame1.png", failed[0].Name)
	var pm *compare.PixelMismatch
	require.True(t, errors.As(failed[0].Err, &pm))
	require.Equal(t, 1, pm.Count)
	require.Equal(t, "output/diff_frame1.png", pm.Diff)
	require.Error(t, r.Err())
	require.Contains(t, r.Err().Error(), "1 of 2 frame(s) failed")

	diff, err := raster.ReadFile(fs, "output/diff_frame1.png")
	require.NoError(t, err)
	require.Equal(t, 4*tiny.H.Visible, diff.Width())
	require.Equal(t, 4*tiny.V.Visible, diff.Height())
}

func TestSession_missingReference(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := testConfig()
	cfg.Frames = 1
	s, err := capture.New(fs, hwtest.NewSignal(tiny, hwlib.Solid(0, 0, 0), 0), tiny, cfg, nil)
	require.NoError(t, err)
	r, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, r.Failed(), 1)
	var ce *compare.ComparisonError
	require.True(t, errors.As(r.Entries[0].Err, &ce))
	require.Equal(t, "frame0.png", ce.Name)

	// wrong size
	require.NoError(t, raster.WriteFile(fs, "reference/frame0.png", vgaprobe.NewFrame(4, 4)))
	r, err = s.Compare(context.Background())
	require.NoError(t, err)
	require.True(t, errors.As(r.Entries[0].Err, &ce))
	require.Contains(t, ce.Error(), "size mismatch")
}

func TestSession_violation(t *testing.T) {
	sig := hwtest.NewSignal(tiny, hwlib.Solid(3, 3, 3), 0)
	// drop hsync on cycle 11 of line 2 of the second frame
	bad := tiny.FrameCycles() + 2*tiny.H.Total() + 11
	n := 0
	src := vgaprobe.SourceFunc(func() (vgaprobe.Sample, error) {
		s, err := sig.Next()
		if n == bad {
			s.HSync = false
		}
		n++
		return s, err
	})
	fs := afero.NewMemMapFs()
	cfg := testConfig()
	s, err := capture.New(fs, src, tiny, cfg, nil)
	require.NoError(t, err)
	names, err := s.Capture(context.Background())
	require.Error(t, err)
	require.Equal(t, []string{"output/frame0.png"}, names)

	v, ok := errors.Cause(err).(*vgaprobe.TimingViolation)
	require.True(t, ok, "%v", err)
	require.Equal(t, "hsync", v.Signal)
	require.Equal(t, 11, v.Cycle)
	require.Equal(t, 2, v.Line)
	require.Equal(t, vgaprobe.Display, v.Phase)
	require.True(t, v.Want)
	require.False(t, v.Got)
	require.Equal(t, uint64(bad), v.Tick)

	ok, err = afero.Exists(fs, "output/frame1.png")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSession_canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s, err := capture.New(afero.NewMemMapFs(), hwtest.NewSignal(tiny, hwlib.Solid(0, 0, 0), 0), tiny, testConfig(), nil)
	require.NoError(t, err)
	_, err = s.Capture(ctx)
	require.Equal(t, context.Canceled, errors.Cause(err))
}

func TestConfig_Validate(t *testing.T) {
	td := []struct {
		name string
		mod  func(c *capture.Config)
	}{
		{"frames", func(c *capture.Config) { c.Frames = 0 }},
		{"skip", func(c *capture.Config) { c.Skip = []int{3} }},
		{"mode", func(c *capture.Config) { c.Mode = vgaprobe.SkipFrame }},
		{"out", func(c *capture.Config) { c.OutputDir = "" }},
		{"ref", func(c *capture.Config) { c.ReferenceDir = "" }},
		{"format", func(c *capture.Config) { c.Format = "gif" }},
		{"scale", func(c *capture.Config) { c.DiffScale = 0 }},
		{"workers", func(c *capture.Config) { c.Workers = -1 }},
		{"cache", func(c *capture.Config) { c.CacheSize = 0 }},
	}
	def := capture.DefaultConfig()
	require.NoError(t, def.Validate())
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			c := capture.DefaultConfig()
			d.mod(&c)
			require.Error(t, c.Validate())
		})
	}

	_, err := capture.New(afero.NewMemMapFs(), nil, vgaprobe.Timing{Name: "bad"}, def, nil)
	require.Error(t, err)
}

func TestFrameName(t *testing.T) {
	require.Equal(t, "frame12.tiff", capture.FrameName(12, ".tiff"))
	require.Equal(t, "diff_frame0.png", capture.DiffName("output/frame0.png"))
}
