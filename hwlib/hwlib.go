// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwlib provides a library of reusable parts for hwsim, up to a
// complete VGA signal generator used as a design under test.
//
package hwlib

import (
	"math/bits"
	"strconv"
)

// common pin names
const (
	pA   = "a"
	pB   = "b"
	pIn  = "in"
	pSel = "sel"
	pOut = "out"
)

// make a bus name
func bus(bits int, names ...string) []string {
	b := make([]string, len(names)*bits)
	for i, n := range names {
		for j := 0; j < bits; j++ {
			b[i*bits+j] = n + "[" + strconv.Itoa(j) + "]"
		}
	}
	return b
}

// busRange returns "name[0..bits-1]".
func busRange(name string, bits int) string {
	return name + "[0.." + strconv.Itoa(bits-1) + "]"
}

// widthFor returns the number of bits needed to count from 0 to n-1.
func widthFor(n int) int {
	if n <= 1 {
		return 1
	}
	return bits.Len(uint(n - 1))
}
