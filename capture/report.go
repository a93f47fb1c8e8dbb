// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package capture

import (
	"strconv"
	"strings"

	"github.com/db47h/vgaprobe/compare"
	"github.com/pkg/errors"
)

// An Entry is the comparison outcome of a single frame.
//
type Entry struct {
	Name   string
	Result *compare.Result // nil if the comparison could not be carried out
	// Err is a *compare.PixelMismatch if the frame differs from its reference
	// or a *compare.ComparisonError if the comparison failed.
	Err error
}

// Report lists the comparison results of a session, in frame order.
//
type Report struct {
	Entries []Entry
}

// Failed returns the entries with an error.
//
func (r *Report) Failed() []Entry {
	var f []Entry
	for _, e := range r.Entries {
		if e.Err != nil {
			f = append(f, e)
		}
	}
	return f
}

// Err returns an error summarizing all failures, or nil if every frame
// matched. A report without entries is an error.
//
func (r *Report) Err() error {
	if len(r.Entries) == 0 {
		return errors.New("no frame to compare")
	}
	f := r.Failed()
	if len(f) == 0 {
		return nil
	}
	var b strings.Builder
	b.WriteString(strconv.Itoa(len(f)))
	b.WriteString(" of ")
	b.WriteString(strconv.Itoa(len(r.Entries)))
	b.WriteString(" frame(s) failed")
	for _, e := range f {
		b.WriteString("\n\t")
		b.WriteString(e.Err.Error())
	}
	return errors.New(b.String())
}
