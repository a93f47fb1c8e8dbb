// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package capture

import (
	"runtime"

	"github.com/db47h/vgaprobe"
	"github.com/db47h/vgaprobe/internal/raster"
	"github.com/pkg/errors"
)

// Config holds the settings of a capture session.
//
type Config struct {
	// Frames is the number of frames to capture.
	Frames int
	// Skip lists the indices of frames that are consumed without being
	// checked nor saved.
	Skip []int
	// Mode is the capture mode of the frames that are not skipped. It must be
	// vgaprobe.Verify or vgaprobe.DisplayOnly.
	Mode vgaprobe.Mode
	// OutputDir receives the captured frames and diff images.
	OutputDir string
	// ReferenceDir holds the reference images, named like captured frames.
	ReferenceDir string
	// Format is the image file format: png, bmp or tiff.
	Format string
	// DiffScale enlarges diff images by an integer factor.
	DiffScale int
	// Workers is the maximum number of concurrent comparisons. If 0,
	// GOMAXPROCS is used.
	Workers int
	// CacheSize is the number of decoded reference images kept in memory.
	CacheSize int
}

// DefaultConfig returns the default session configuration: three verified
// frames saved as png files to "output" and checked against "reference".
//
func DefaultConfig() Config {
	return Config{
		Frames:       3,
		Mode:         vgaprobe.Verify,
		OutputDir:    "output",
		ReferenceDir: "reference",
		Format:       string(raster.PNG),
		DiffScale:    1,
		CacheSize:    16,
	}
}

// Validate checks the configuration.
//
func (c *Config) Validate() error {
	if c.Frames <= 0 {
		return errors.Errorf("frame count must be positive, got %d", c.Frames)
	}
	for _, i := range c.Skip {
		if i < 0 || i >= c.Frames {
			return errors.Errorf("skipped frame %d out of range [0, %d)", i, c.Frames)
		}
	}
	if c.Mode != vgaprobe.Verify && c.Mode != vgaprobe.DisplayOnly {
		return errors.Errorf("invalid capture mode %v", c.Mode)
	}
	if c.OutputDir == "" {
		return errors.New("no output directory")
	}
	if c.ReferenceDir == "" {
		return errors.New("no reference directory")
	}
	if _, err := raster.ParseFormat(c.Format); err != nil {
		return err
	}
	if c.DiffScale < 1 {
		return errors.Errorf("diff scale must be at least 1, got %d", c.DiffScale)
	}
	if c.Workers < 0 {
		return errors.Errorf("negative worker count %d", c.Workers)
	}
	if c.CacheSize < 1 {
		return errors.Errorf("reference cache size must be positive, got %d", c.CacheSize)
	}
	return nil
}

func (c *Config) workers() int {
	if c.Workers == 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Workers
}
