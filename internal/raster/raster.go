// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package raster reads and writes frames as lossless image files.
//
package raster

import (
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/db47h/vgaprobe"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// Format is a lossless image file format.
//
type Format string

// Supported formats.
//
const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// ParseFormat returns the format with the given name. The name is case
// insensitive and may start with a dot.
//
func ParseFormat(name string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(name), ".") {
	case "png":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	}
	return "", errors.Errorf("unsupported image format %q", name)
}

// FormatOf returns the format matching the extension of a file name.
//
func FormatOf(name string) (Format, error) {
	return ParseFormat(filepath.Ext(name))
}

// Ext returns the file extension for format f, including the leading dot.
//
func (f Format) Ext() string { return "." + string(f) }

func rgba(img image.Image) image.Image {
	if f, ok := img.(*vgaprobe.Frame); ok {
		return f.RGBA()
	}
	return img
}

// Encode writes img to w in format f.
//
func Encode(w io.Writer, img image.Image, f Format) error {
	img = rgba(img)
	var err error
	switch f {
	case PNG:
		err = png.Encode(w, img)
	case BMP:
		err = bmp.Encode(w, img)
	case TIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return errors.Errorf("unsupported image format %q", string(f))
	}
	return errors.Wrap(err, string(f))
}

// Decode reads a png, bmp or tiff image from r.
//
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "decode image")
	}
	return img, nil
}

// WriteFile writes img to the named file. The format is selected by the file
// extension.
//
func WriteFile(fs afero.Fs, name string, img image.Image) (err error) {
	f, err := FormatOf(name)
	if err != nil {
		return err
	}
	w, err := fs.Create(name)
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() {
		if e := w.Close(); err == nil && e != nil {
			err = errors.WithStack(e)
		}
	}()
	return Encode(w, img, f)
}

// ReadFile reads the named image file and converts it to a frame.
//
func ReadFile(fs afero.Fs, name string) (*vgaprobe.Frame, error) {
	r, err := fs.Open(name)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer r.Close()
	img, err := Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	return vgaprobe.FrameOf(img), nil
}

// Scale enlarges img by an integer factor with nearest neighbor sampling.
// Factors less than 2 return img unchanged.
//
func Scale(img image.Image, factor int) image.Image {
	if factor < 2 {
		return img
	}
	b := img.Bounds()
	d := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(d, d.Bounds(), img, b, draw.Src, nil)
	return d
}
