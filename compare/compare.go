// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package compare checks captured frames against reference images.
//
// Comparison is byte-exact on the RGB channels. Differences are reported as a
// diff map holding the absolute difference of each channel, black where the
// pixels are identical.
//
package compare

import (
	"bytes"
	"fmt"
	"image"

	"github.com/db47h/vgaprobe"
	"github.com/pkg/errors"
)

// A ComparisonError reports a comparison that could not be carried out: a
// missing or unreadable reference, or images of different sizes.
//
type ComparisonError struct {
	Name string // frame name, may be empty
	Err  error
}

func (e *ComparisonError) Error() string {
	if e.Name == "" {
		return "compare: " + e.Err.Error()
	}
	return "compare " + e.Name + ": " + e.Err.Error()
}

// Cause returns the underlying error.
//
func (e *ComparisonError) Cause() error { return e.Err }

// Unwrap returns the underlying error.
//
func (e *ComparisonError) Unwrap() error { return e.Err }

// A PixelMismatch reports a frame that differs from its reference.
//
type PixelMismatch struct {
	Name   string
	Count  int             // number of differing pixels
	Bounds image.Rectangle // bounding box of the differences
	Diff   string          // path of the diff image, if any
}

func (e *PixelMismatch) Error() string {
	s := fmt.Sprintf("%s: %d pixel(s) differ in %v", e.Name, e.Count, e.Bounds)
	if e.Diff != "" {
		s += ", see " + e.Diff
	}
	return s
}

// Result holds the outcome of a comparison.
//
type Result struct {
	// Diff is the difference map, nil if the images match.
	Diff *vgaprobe.Frame
	// Count is the number of pixels that differ.
	Count int
	// Bounds is the smallest rectangle containing all differing pixels, in
	// coordinates relative to the top left corner of the images. It is empty
	// if the images match.
	Bounds image.Rectangle
}

// Match reports whether the images are identical.
//
func (r *Result) Match() bool { return r.Count == 0 }

// Mismatch returns a *PixelMismatch for the frame name, or nil if r is a
// match.
//
func (r *Result) Mismatch(name string) error {
	if r.Match() {
		return nil
	}
	return &PixelMismatch{Name: name, Count: r.Count, Bounds: r.Bounds}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

// Frames compares got against want.
//
// It returns a *ComparisonError if the frames do not have the same size.
//
func Frames(got, want *vgaprobe.Frame) (*Result, error) {
	if got == nil || want == nil {
		return nil, &ComparisonError{Err: errors.New("nil frame")}
	}
	w, h := got.Width(), got.Height()
	if w != want.Width() || h != want.Height() {
		return nil, &ComparisonError{
			Err: errors.Errorf("size mismatch: got %dx%d, want %dx%d", w, h, want.Width(), want.Height()),
		}
	}

	r := new(Result)
	for y := 0; y < h; y++ {
		a, b := got.Row(y), want.Row(y)
		if bytes.Equal(a, b) {
			continue
		}
		if r.Diff == nil {
			r.Diff = vgaprobe.NewFrame(w, h)
		}
		d := r.Diff.Row(y)
		for x := 0; x < w; x++ {
			i := 3 * x
			d[i], d[i+1], d[i+2] = absDiff(a[i], b[i]), absDiff(a[i+1], b[i+1]), absDiff(a[i+2], b[i+2])
			if d[i]|d[i+1]|d[i+2] != 0 {
				r.Count++
				r.Bounds = r.Bounds.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return r, nil
}

// Images converts got and want to frames and compares them. See Frames.
//
func Images(got, want image.Image) (*Result, error) {
	if got == nil || want == nil {
		return nil, &ComparisonError{Err: errors.New("nil image")}
	}
	return Frames(vgaprobe.FrameOf(got), vgaprobe.FrameOf(want))
}
