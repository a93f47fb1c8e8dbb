// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command vgaprobe captures frames from a simulated VGA design, checks their
// timing and compares them with reference images.
//
// Usage:
//
//	vgaprobe [flags]
//
// The design under test is selected with -model and -pattern. Samples can be
// recorded to a trace file with -record and verified again later with
// -replay. With -render, reference images are generated from the pattern
// instead.
//
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/db47h/vgaprobe"
	"github.com/db47h/vgaprobe/capture"
	"github.com/db47h/vgaprobe/hwlib"
	"github.com/db47h/vgaprobe/hwsim"
	"github.com/db47h/vgaprobe/hwtest"
	"github.com/db47h/vgaprobe/internal/raster"
	"github.com/db47h/vgaprobe/trace"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"golang.org/x/term"
)

var patterns = map[string]hwlib.Pattern{
	"black":   hwlib.Solid(0, 0, 0),
	"white":   hwlib.Solid(3, 3, 3),
	"bars":    hwlib.Bars(80),
	"checker": hwlib.Checker(32),
	"xor":     hwlib.XorPattern,
}

type options struct {
	cfg     capture.Config
	skip    string
	mode    string
	pattern string
	model   string
	ui      uint
	reset   int
	record  string
	replay  string
	render  bool
	timeout time.Duration
	verbose bool
}

func parseFlags() (*options, error) {
	o := &options{cfg: capture.DefaultConfig()}
	flag.IntVar(&o.cfg.Frames, "frames", o.cfg.Frames, "number of frames to capture")
	flag.StringVar(&o.skip, "skip", "", "comma separated `list` of frames to skip")
	flag.StringVar(&o.mode, "mode", vgaprobe.Verify.String(), "capture mode: verify or display-only")
	flag.StringVar(&o.cfg.OutputDir, "out", o.cfg.OutputDir, "output `directory`")
	flag.StringVar(&o.cfg.ReferenceDir, "ref", o.cfg.ReferenceDir, "reference images `directory`")
	flag.StringVar(&o.cfg.Format, "format", o.cfg.Format, "image format: png, bmp or tiff")
	flag.IntVar(&o.cfg.DiffScale, "diff-scale", o.cfg.DiffScale, "diff images scaling `factor`")
	flag.IntVar(&o.cfg.Workers, "workers", o.cfg.Workers, "max concurrent comparisons, 0 for GOMAXPROCS")
	flag.StringVar(&o.pattern, "pattern", "bars", "pattern displayed by the design: "+patternNames())
	flag.StringVar(&o.model, "model", "gates", "design model: gates (simulated chip), ref (behavioral) or signal (no simulation)")
	flag.UintVar(&o.ui, "ui", 0, "value of the design's ui_in port")
	flag.IntVar(&o.reset, "reset", 10, "reset duration in clock `cycles`")
	flag.StringVar(&o.record, "record", "", "record samples to trace `file`")
	flag.StringVar(&o.replay, "replay", "", "read samples from trace `file` instead of running the design")
	flag.BoolVar(&o.render, "render", false, "render reference images for the pattern and exit")
	flag.DurationVar(&o.timeout, "timeout", 0, "overall timeout, 0 for none")
	flag.BoolVar(&o.verbose, "v", false, "log every scanline")
	flag.Parse()

	if o.skip != "" {
		for _, s := range strings.Split(o.skip, ",") {
			i, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				return nil, errors.Wrap(err, "invalid -skip value")
			}
			o.cfg.Skip = append(o.cfg.Skip, i)
		}
	}
	switch o.mode {
	case vgaprobe.Verify.String():
		o.cfg.Mode = vgaprobe.Verify
	case vgaprobe.DisplayOnly.String():
		o.cfg.Mode = vgaprobe.DisplayOnly
	default:
		return nil, errors.Errorf("invalid mode %q", o.mode)
	}
	if _, ok := patterns[o.pattern]; !ok {
		return nil, errors.Errorf("unknown pattern %q", o.pattern)
	}
	if o.ui > 255 {
		return nil, errors.Errorf("ui value %d out of range", o.ui)
	}
	if o.record != "" && o.replay != "" {
		return nil, errors.New("-record and -replay are mutually exclusive")
	}
	return o, o.cfg.Validate()
}

func patternNames() string {
	var names []string
	for n := range patterns {
		names = append(names, n)
	}
	return strings.Join(names, ", ")
}

// source returns the sample source selected by the command line and a cleanup
// function.
func source(o *options, t vgaprobe.Timing) (vgaprobe.Source, func() error, error) {
	if o.replay != "" {
		f, err := os.Open(o.replay)
		if err != nil {
			return nil, nil, errors.WithStack(err)
		}
		p, err := trace.NewPlayer(f)
		if err != nil {
			f.Close()
			return nil, nil, errors.Wrap(err, o.replay)
		}
		if p.Timing() != t.Name {
			p.Close()
			f.Close()
			return nil, nil, errors.Errorf("%s: trace timing is %q, expected %q", o.replay, p.Timing(), t.Name)
		}
		return p, func() error { p.Close(); return f.Close() }, nil
	}

	p := patterns[o.pattern]
	var dut hwsim.NewPartFn
	switch o.model {
	case "signal":
		return hwtest.NewSignal(t, p, uint8(o.ui)), func() error { return nil }, nil
	case "gates":
		dut = hwlib.Project(t, p)
	case "ref":
		dut = hwlib.ProjectRef(t, p)
	default:
		return nil, nil, errors.Errorf("unknown model %q", o.model)
	}
	pr, err := hwtest.NewProbe(1, 0, dut)
	if err != nil {
		return nil, nil, err
	}
	pr.SetInputs(uint8(o.ui))
	pr.Reset(o.reset)
	return pr, func() error { pr.Dispose(); return nil }, nil
}

func render(fs afero.Fs, o *options, t vgaprobe.Timing) error {
	if err := fs.MkdirAll(o.cfg.ReferenceDir, 0755); err != nil {
		return errors.WithStack(err)
	}
	format, err := raster.ParseFormat(o.cfg.Format)
	if err != nil {
		return err
	}
	f := hwlib.Render(t, patterns[o.pattern], uint8(o.ui))
	for i := 0; i < o.cfg.Frames; i++ {
		name := filepath.Join(o.cfg.ReferenceDir, capture.FrameName(i, format.Ext()))
		if err := raster.WriteFile(fs, name, f); err != nil {
			return err
		}
		log.Printf("wrote %s", name)
	}
	return nil
}

func run(o *options) (err error) {
	t := vgaprobe.VGA640x480
	fs := afero.NewOsFs()
	if o.render {
		return render(fs, o, t)
	}

	src, done, err := source(o, t)
	if err != nil {
		return err
	}
	defer func() {
		if e := done(); err == nil && e != nil {
			err = e
		}
	}()

	if o.record != "" {
		f, err := os.Create(o.record)
		if err != nil {
			return errors.WithStack(err)
		}
		defer f.Close()
		rec, err := trace.NewRecorder(src, f, t.Name)
		if err != nil {
			return err
		}
		defer func() {
			if e := rec.Close(); e != nil {
				log.Printf("%s: %v", o.record, e)
			} else {
				log.Printf("%s: %d samples recorded", o.record, rec.Samples())
			}
		}()
		src = rec
	}

	ctx := context.Background()
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	s, err := capture.New(fs, src, t, o.cfg, logger)
	if err != nil {
		return err
	}
	s.Decoder().SetVerbose(o.verbose)

	start := time.Now()
	r, err := s.Run(ctx)
	if err != nil {
		return err
	}
	summary(os.Stdout, r, time.Since(start))
	return r.Err()
}

func summary(w io.Writer, r *capture.Report, d time.Duration) {
	pass, fail := "PASS", "FAIL"
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		pass, fail = "\x1b[32mPASS\x1b[0m", "\x1b[31mFAIL\x1b[0m"
	}
	for _, e := range r.Entries {
		if e.Err != nil {
			fmt.Fprintf(w, "%s %s\n", fail, e.Name)
		} else {
			fmt.Fprintf(w, "%s %s\n", pass, e.Name)
		}
	}
	fmt.Fprintf(w, "%d frame(s) compared in %v, %d failed\n", len(r.Entries), d.Round(time.Millisecond), len(r.Failed()))
}

func main() {
	o, err := parseFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}
	if err = run(o); err != nil {
		log.Fatal(err)
	}
}
