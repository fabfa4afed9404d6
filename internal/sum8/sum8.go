// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sum8 implements the 8-bit running-sum checksum used throughout
// the E Ink waveform formats.
package sum8 // import "github.com/go-lpc/inkwave/internal/sum8"

import (
	"hash"
)

// Size of a sum8 checksum in bytes.
const Size = 1

// Hash8 is the common interface implemented by 8-bit checksums.
type Hash8 interface {
	hash.Hash
	Sum8() uint8
}

type digest struct {
	seed uint8
	sum  uint8
}

// New creates a new Hash8 computing the running sum of its input,
// starting at seed.
func New(seed uint8) Hash8 {
	return &digest{seed: seed, sum: seed}
}

// Checksum returns the running sum of p, starting at seed.
func Checksum(seed uint8, p []byte) uint8 {
	return update(seed, p)
}

func update(sum uint8, p []byte) uint8 {
	for _, v := range p {
		sum += v
	}
	return sum
}

func (d *digest) Size() int      { return Size }
func (d *digest) BlockSize() int { return 1 }
func (d *digest) Reset()         { d.sum = d.seed }
func (d *digest) Sum8() uint8    { return d.sum }

func (d *digest) Write(p []byte) (int, error) {
	d.sum = update(d.sum, p)
	return len(p), nil
}

func (d *digest) Sum(in []byte) []byte {
	return append(in, d.sum)
}

var (
	_ Hash8 = (*digest)(nil)
)
