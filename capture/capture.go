// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package capture drives a frame decoder over a number of frames, saves the
// captured frames as image files and compares them with reference images.
//
// Output files are named frame<N>.<ext> where N is the frame index. Diff
// images for frames that do not match their reference are named
// diff_frame<N>.<ext>.
//
package capture

import (
	"context"
	"log"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/db47h/vgaprobe"
	"github.com/db47h/vgaprobe/compare"
	"github.com/db47h/vgaprobe/internal/raster"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// FrameName returns the file name of frame i for the given file extension.
//
func FrameName(i int, ext string) string {
	return "frame" + strconv.Itoa(i) + ext
}

// DiffName returns the file name of the diff image for the named frame.
//
func DiffName(frame string) string {
	return "diff_" + filepath.Base(frame)
}

// A Session captures frames from a single source.
//
type Session struct {
	fs     afero.Fs
	dec    *vgaprobe.Decoder
	cfg    Config
	format raster.Format
	skip   map[int]bool
	refs   *lru.Cache[string, *vgaprobe.Frame]
	log    *log.Logger
}

// New returns a new capture session reading samples from src. Files are read
// and written through fs. If logger is not nil, progress is reported to it.
//
func New(fs afero.Fs, src vgaprobe.Source, t vgaprobe.Timing, cfg Config, logger *log.Logger) (*Session, error) {
	if err := t.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid timing")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	format, _ := raster.ParseFormat(cfg.Format)
	refs, err := lru.New[string, *vgaprobe.Frame](cfg.CacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "reference cache")
	}
	s := &Session{
		fs:     fs,
		dec:    vgaprobe.NewDecoder(src, t, logger),
		cfg:    cfg,
		format: format,
		skip:   make(map[int]bool, len(cfg.Skip)),
		refs:   refs,
		log:    logger,
	}
	for _, i := range cfg.Skip {
		s.skip[i] = true
	}
	return s, nil
}

// Decoder returns the session's frame decoder.
//
func (s *Session) Decoder() *vgaprobe.Decoder { return s.dec }

func (s *Session) logf(format string, args ...interface{}) {
	if s.log != nil {
		s.log.Printf(format, args...)
	}
}

// Capture captures the configured number of frames and saves them to the
// output directory. It returns the paths of the saved frames.
//
// Capture stops at the first error. Timing violations are returned wrapped
// with the frame index; use errors.Cause to get the *vgaprobe.TimingViolation.
// ctx is checked between frames.
//
func (s *Session) Capture(ctx context.Context) ([]string, error) {
	if err := s.fs.MkdirAll(s.cfg.OutputDir, 0755); err != nil {
		return nil, errors.Wrap(err, "create output directory")
	}
	var names []string
	for i := 0; i < s.cfg.Frames; i++ {
		if err := ctx.Err(); err != nil {
			return names, errors.Wrapf(err, "frame %d", i)
		}
		if s.skip[i] {
			s.logf("frame %d: skipped", i)
			if err := s.dec.Skip(); err != nil {
				return names, errors.Wrapf(err, "frame %d", i)
			}
			continue
		}
		start := time.Now()
		f, err := s.dec.Frame(s.cfg.Mode)
		if err != nil {
			return names, errors.Wrapf(err, "frame %d", i)
		}
		name := filepath.Join(s.cfg.OutputDir, FrameName(i, s.format.Ext()))
		if err = raster.WriteFile(s.fs, name, f); err != nil {
			return names, errors.Wrapf(err, "frame %d", i)
		}
		s.logf("frame %d: captured in %v (%s), saved to %s", i, time.Since(start), s.cfg.Mode, name)
		names = append(names, name)
	}
	return names, nil
}

// Compare compares every frame file in the output directory with the
// reference image of the same name. Comparisons run concurrently.
//
// Per-frame failures never stop the remaining comparisons and are reported in
// the returned Report. The error is only set if the output directory cannot be
// listed or ctx is done.
//
func (s *Session) Compare(ctx context.Context) (*Report, error) {
	names, err := afero.Glob(s.fs, filepath.Join(s.cfg.OutputDir, "frame*"+s.format.Ext()))
	if err != nil {
		return nil, errors.Wrap(err, "list frames")
	}
	// natural order: frame2 before frame10
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) < len(names[j])
		}
		return names[i] < names[j]
	})

	r := &Report{Entries: make([]Entry, len(names))}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.workers())
	for i, name := range names {
		e := &r.Entries[i]
		e.Name = filepath.Base(name)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			e.Result, e.Err = s.compare(name)
			switch {
			case e.Err != nil:
				s.logf("%v", e.Err)
			case e.Result.Match():
				s.logf("%s: match", e.Name)
			}
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return r, errors.Wrap(err, "compare")
	}
	return r, nil
}

func (s *Session) reference(name string) (*vgaprobe.Frame, error) {
	path := filepath.Join(s.cfg.ReferenceDir, name)
	if f, ok := s.refs.Get(path); ok {
		return f, nil
	}
	f, err := raster.ReadFile(s.fs, path)
	if err != nil {
		return nil, err
	}
	s.refs.Add(path, f)
	return f, nil
}

func (s *Session) compare(path string) (*compare.Result, error) {
	name := filepath.Base(path)
	got, err := raster.ReadFile(s.fs, path)
	if err != nil {
		return nil, &compare.ComparisonError{Name: name, Err: err}
	}
	want, err := s.reference(name)
	if err != nil {
		return nil, &compare.ComparisonError{Name: name, Err: errors.Wrap(err, "reference")}
	}
	res, err := compare.Frames(got, want)
	if err != nil {
		if ce, ok := err.(*compare.ComparisonError); ok {
			ce.Name = name
		}
		return nil, err
	}
	if res.Match() {
		return res, nil
	}
	diff := filepath.Join(s.cfg.OutputDir, DiffName(name))
	if err = raster.WriteFile(s.fs, diff, raster.Scale(res.Diff, s.cfg.DiffScale)); err != nil {
		return res, errors.Wrapf(err, "%s: write diff", name)
	}
	m := res.Mismatch(name).(*compare.PixelMismatch)
	m.Diff = diff
	return res, m
}

// Run captures frames then compares them with their references.
//
func (s *Session) Run(ctx context.Context) (*Report, error) {
	if _, err := s.Capture(ctx); err != nil {
		return nil, err
	}
	return s.Compare(ctx)
}
