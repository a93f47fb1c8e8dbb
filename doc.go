// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package vgaprobe verifies the video signal of a hardware design.

A design under test is sampled once per clock cycle. Each sample carries the
horizontal and vertical sync levels and a packed RGB222 color value. A Decoder
pulls samples from a Source, checks the sync pulses against a Timing profile
down to the clock cycle and reconstructs the visible part of each frame:

	dec := vgaprobe.NewDecoder(src, vgaprobe.VGA640x480, nil)
	frame, err := dec.Frame(vgaprobe.Verify)
	if v, ok := errors.Cause(err).(*vgaprobe.TimingViolation); ok {
		// sync lost at v.Line, v.Cycle
	}

Any violation is fatal to the frame being captured: once the signal is out
of sync, subsequent samples are meaningless.

Captured frames are compared to reference images with package compare, and
package capture drives whole capture sessions.
*/
package vgaprobe
