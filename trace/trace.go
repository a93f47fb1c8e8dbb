// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package trace records raw video samples to a compressed stream and plays
// them back.
//
// A trace starts with a short header:
//
//	"VGAT"    magic
//	version   1 byte
//	len       1 byte
//	timing    len bytes, the name of the timing profile
//
// followed by a zstd stream of packed output bytes, one per clock cycle.
//
package trace

import (
	"bufio"
	"io"

	"github.com/db47h/vgaprobe"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

const (
	magic   = "VGAT"
	version = 1

	bufSize = 1 << 16
)

// ErrFormat is returned by NewPlayer when the input is not a trace.
//
var ErrFormat = errors.New("not a trace stream")

// A Recorder is a vgaprobe.Source that writes every sample it reads from
// another source to a trace.
//
type Recorder struct {
	src vgaprobe.Source
	zw  *zstd.Encoder
	buf []byte
	n   uint64
}

// NewRecorder returns a Recorder reading from src and writing to w. timing is
// the name of the timing profile of the recorded signal.
//
// Callers must call Close once done in order to flush the trace. Close does
// not close w.
//
func NewRecorder(src vgaprobe.Source, w io.Writer, timing string) (*Recorder, error) {
	if len(timing) > 255 {
		return nil, errors.Errorf("timing name too long: %d bytes", len(timing))
	}
	hdr := make([]byte, 0, len(magic)+2+len(timing))
	hdr = append(hdr, magic...)
	hdr = append(hdr, version, byte(len(timing)))
	hdr = append(hdr, timing...)
	if _, err := w.Write(hdr); err != nil {
		return nil, errors.Wrap(err, "write trace header")
	}
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, errors.Wrap(err, "zstd")
	}
	return &Recorder{src: src, zw: zw, buf: make([]byte, 0, bufSize)}, nil
}

// Next implements vgaprobe.Source.
//
func (r *Recorder) Next() (vgaprobe.Sample, error) {
	s, err := r.src.Next()
	if err != nil {
		return s, err
	}
	r.buf = append(r.buf, s.Pack())
	r.n++
	if len(r.buf) == cap(r.buf) {
		if err = r.flush(); err != nil {
			return s, err
		}
	}
	return s, nil
}

func (r *Recorder) flush() error {
	if len(r.buf) == 0 {
		return nil
	}
	_, err := r.zw.Write(r.buf)
	r.buf = r.buf[:0]
	return errors.Wrap(err, "write trace")
}

// Samples returns the number of samples recorded so far.
//
func (r *Recorder) Samples() uint64 { return r.n }

// Close flushes pending samples and terminates the compressed stream.
//
func (r *Recorder) Close() error {
	if err := r.flush(); err != nil {
		r.zw.Close()
		return err
	}
	return errors.Wrap(r.zw.Close(), "close trace")
}

// A Player replays a trace. It implements vgaprobe.Source and
// vgaprobe.Skipper.
//
type Player struct {
	zr     *zstd.Decoder
	br     *bufio.Reader
	timing string
	n      uint64
}

// NewPlayer reads the trace header from r and returns a Player for the samples
// that follow.
//
// Callers must call Close once done.
//
func NewPlayer(r io.Reader) (*Player, error) {
	var hdr [len(magic) + 2]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrFormat
		}
		return nil, errors.Wrap(err, "read trace header")
	}
	if string(hdr[:len(magic)]) != magic {
		return nil, ErrFormat
	}
	if v := hdr[len(magic)]; v != version {
		return nil, errors.Errorf("unsupported trace version %d", v)
	}
	name := make([]byte, hdr[len(magic)+1])
	if _, err := io.ReadFull(r, name); err != nil {
		return nil, errors.Wrap(err, "read trace header")
	}
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "zstd")
	}
	return &Player{zr: zr, br: bufio.NewReaderSize(zr, bufSize), timing: string(name)}, nil
}

// Timing returns the name of the timing profile stored in the trace header.
//
func (p *Player) Timing() string { return p.timing }

// Samples returns the number of samples read or skipped so far.
//
func (p *Player) Samples() uint64 { return p.n }

// Next implements vgaprobe.Source. It returns io.EOF at the end of the trace.
//
func (p *Player) Next() (vgaprobe.Sample, error) {
	b, err := p.br.ReadByte()
	if err != nil {
		if err == io.EOF {
			return vgaprobe.Sample{}, io.EOF
		}
		return vgaprobe.Sample{}, errors.Wrap(err, "read trace")
	}
	p.n++
	return vgaprobe.NewSample(b), nil
}

// Skip implements vgaprobe.Skipper. It returns io.EOF if the trace ends
// before n samples could be skipped.
//
func (p *Player) Skip(n int) error {
	d, err := p.br.Discard(n)
	p.n += uint64(d)
	if err != nil {
		if err == io.EOF {
			return io.EOF
		}
		return errors.Wrap(err, "read trace")
	}
	return nil
}

// Close releases the resources used by the decompressor.
//
func (p *Player) Close() { p.zr.Close() }
