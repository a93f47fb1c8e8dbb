// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vgaprobe

import (
	"image"
	"image/color"
	"image/draw"
)

// Frame is an RGB image, 3 bytes per pixel, rows top to bottom.
//
type Frame struct {
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

// NewFrame returns a black frame of the given size.
//
func NewFrame(w, h int) *Frame {
	return &Frame{
		Pix:    make([]uint8, 3*w*h),
		Stride: 3 * w,
		Rect:   image.Rect(0, 0, w, h),
	}
}

// FrameOf converts any image to a Frame. Alpha is ignored.
//
func FrameOf(img image.Image) *Frame {
	if f, ok := img.(*Frame); ok {
		return f
	}
	b := img.Bounds()
	f := NewFrame(b.Dx(), b.Dy())
	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	for y := 0; y < b.Dy(); y++ {
		src := rgba.Pix[y*rgba.Stride:]
		dst := f.Row(y)
		for x := 0; x < b.Dx(); x++ {
			copy(dst[3*x:3*x+3], src[4*x:4*x+3])
		}
	}
	return f
}

// Width returns the frame width in pixels.
//
func (f *Frame) Width() int { return f.Rect.Dx() }

// Height returns the frame height in pixels.
//
func (f *Frame) Height() int { return f.Rect.Dy() }

// Row returns the pixel data of line y. It is a view into f.Pix.
//
func (f *Frame) Row(y int) []uint8 {
	i := (y - f.Rect.Min.Y) * f.Stride
	return f.Pix[i : i+3*f.Rect.Dx()]
}

// PixOffset returns the index of the first byte of pixel (x, y) in Pix.
//
func (f *Frame) PixOffset(x, y int) int {
	return (y-f.Rect.Min.Y)*f.Stride + (x-f.Rect.Min.X)*3
}

// RGBAt returns the color of pixel (x, y).
//
func (f *Frame) RGBAt(x, y int) RGB {
	if !(image.Point{x, y}.In(f.Rect)) {
		return RGB{}
	}
	i := f.PixOffset(x, y)
	return RGB{f.Pix[i], f.Pix[i+1], f.Pix[i+2]}
}

// SetRGB sets the color of pixel (x, y).
//
func (f *Frame) SetRGB(x, y int, c RGB) {
	if !(image.Point{x, y}.In(f.Rect)) {
		return
	}
	i := f.PixOffset(x, y)
	copy(f.Pix[i:i+3], c[:])
}

// Fill sets all pixels to c.
//
func (f *Frame) Fill(c RGB) {
	for i := 0; i < len(f.Pix); i += 3 {
		copy(f.Pix[i:i+3], c[:])
	}
}

// ColorModel implements image.Image.
//
func (f *Frame) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
//
func (f *Frame) Bounds() image.Rectangle { return f.Rect }

// At implements image.Image.
//
func (f *Frame) At(x, y int) color.Color {
	c := f.RGBAt(x, y)
	return color.RGBA{c[0], c[1], c[2], 0xff}
}

// RGBA returns a copy of f as an *image.RGBA.
//
func (f *Frame) RGBA() *image.RGBA {
	w, h := f.Width(), f.Height()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := f.Row(y)
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			copy(dst[4*x:4*x+3], src[3*x:3*x+3])
			dst[4*x+3] = 0xff
		}
	}
	return img
}
