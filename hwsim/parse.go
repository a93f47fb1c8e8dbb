// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Inputs is a list of input pin names.
//
type Inputs []string

// Outputs is a list of output pin names.
//
type Outputs []string

// In parses an input pin specification string and returns individual pin
// names. It panics on syntax errors. See IO.
//
func In(spec string) Inputs {
	pins, err := IO(spec)
	if err != nil {
		panic(err)
	}
	return pins
}

// Out parses an output pin specification string and returns individual pin
// names. It panics on syntax errors. See IO.
//
func Out(spec string) Outputs {
	pins, err := IO(spec)
	if err != nil {
		panic(err)
	}
	return pins
}

// BusPinName returns the pin name for the n-th bit of the named bus.
//
func BusPinName(bus string, bit int) string {
	return bus + "[" + strconv.Itoa(bit) + "]"
}

// IO parses a pin specification string and returns individual pin names,
// expanding bus declarations. For example:
//
//	IO("in[2], sel") // returns []string{"in[0]", "in[1]", "sel"}
//
func IO(spec string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(spec, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		i := strings.IndexByte(f, '[')
		if i < 0 {
			if !isIdent(f) {
				return nil, parseError(spec, f, "invalid pin name")
			}
			out = append(out, f)
			continue
		}
		name := f[:i]
		if !isIdent(name) || !strings.HasSuffix(f, "]") {
			return nil, parseError(spec, f, "invalid bus specification")
		}
		n, err := strconv.Atoi(f[i+1 : len(f)-1])
		if err != nil || n <= 0 {
			return nil, parseError(spec, f, "invalid bus size")
		}
		for b := 0; b < n; b++ {
			out = append(out, BusPinName(name, b))
		}
	}
	return out, nil
}

// A Connection represents a connection between the pin PP of a part and
// the pins CP in its host chip.
//
type Connection struct {
	PP string
	CP []string
}

// ParseConnections parses a connection configuration like "partPin1=chipPin1,
// partPin2=chipPin2" into a []Connection.
//
// Bus ranges are expanded on both sides: "a[0..3]=in[4..7]" connects the four
// lower bits of a to the four upper bits of in. A single chip pin can feed a
// whole range ("a[0..3]=false") and an output can fan out to several wires,
// either by listing it more than once ("out=x, out=y") or with a range
// ("out=x[0..3]").
//
func ParseConnections(c string) (conns []Connection, err error) {
	for _, f := range strings.Split(c, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		eq := strings.IndexByte(f, '=')
		if eq < 0 {
			return nil, parseError(c, f, "expected '='")
		}
		k, v := strings.TrimSpace(f[:eq]), strings.TrimSpace(f[eq+1:])
		ks, err := expandRange(k)
		if err != nil {
			return nil, errors.Wrap(err, "expand key "+k)
		}
		vs, err := expandRange(v)
		if err != nil {
			return nil, errors.Wrap(err, "expand value "+v)
		}
		switch {
		case len(ks) == len(vs):
			for i := range ks {
				conns = append(conns, Connection{ks[i], []string{vs[i]}})
			}
		case len(vs) == 1:
			for _, k := range ks {
				conns = append(conns, Connection{k, vs})
			}
		case len(ks) == 1:
			conns = append(conns, Connection{ks[0], vs})
		default:
			return nil, parseError(c, f, "pin count mismatch")
		}
	}
	return conns, nil
}

func expandRange(name string) ([]string, error) {
	if name == "" {
		return nil, errors.New("empty pin name")
	}
	i := strings.IndexByte(name, '[')
	if i < 0 {
		if !isIdent(name) {
			return nil, errors.Errorf("invalid pin name %q", name)
		}
		return []string{name}, nil
	}
	bus := name[:i]
	if !isIdent(bus) {
		return nil, errors.Errorf("invalid bus name %q", bus)
	}
	if !strings.HasSuffix(name, "]") {
		return nil, errors.New("no terminating ] in bus range")
	}
	n := name[i+1 : len(name)-1]
	i = strings.Index(n, "..")
	if i < 0 {
		bit, err := strconv.Atoi(n)
		if err != nil {
			return nil, errors.Wrap(err, "bus index")
		}
		return []string{BusPinName(bus, bit)}, nil
	}
	start, err := strconv.Atoi(n[:i])
	if err != nil {
		return nil, errors.Wrap(err, "range start")
	}
	end, err := strconv.Atoi(n[i+2:])
	if err != nil {
		return nil, errors.Wrap(err, "range end")
	}
	if end < start {
		return nil, errors.Errorf("invalid bus range %d..%d", start, end)
	}
	r := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		r = append(r, BusPinName(bus, i))
	}
	return r, nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

func parseError(in, at, msg string) error {
	return errors.Errorf("in %q at %q: %s", in, at, msg)
}
