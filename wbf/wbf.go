// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wbf reads, validates and writes E Ink .wbf waveform files.
//
// A .wbf file starts with a fixed 48-byte header, followed by the
// temperature range table. The header points to an optional extra
// waveform info string (XWIA) and to the mode table. Each mode points
// to a block of temperature ranges, each range points to a run-length
// coded waveform segment. Every pointer carries an 8-bit checksum of
// its address.
package wbf // import "github.com/go-lpc/inkwave/wbf"

import (
	"encoding/binary"
)

const (
	HeaderSize  = 48 // size of the fixed header, in bytes
	PointerSize = 4  // size of a checksummed pointer, in bytes

	MaxWaveforms = 4096 // maximum number of waveform addresses, file size included
	MaxModes     = 256  // maximum number of modes
	MaxRanges    = 256  // maximum number of temperature ranges per mode

	// TrailerSize is the number of unidentified bytes ending each
	// waveform segment.
	TrailerSize = 2
)

func u16le(p []byte) uint16 { return binary.LittleEndian.Uint16(p) }
func u32le(p []byte) uint32 { return binary.LittleEndian.Uint32(p) }

func u24le(p []byte) uint32 {
	return uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16
}

func putU24le(p []byte, v uint32) {
	p[0] = byte(v)
	p[1] = byte(v >> 8)
	p[2] = byte(v >> 16)
}

// BCD decodes a packed binary-coded decimal byte, tens in the high nibble.
// BCD reports false if any nibble is not a decimal digit.
func BCD(b byte) (int, bool) {
	hi, lo := b>>4, b&0xf
	if hi > 9 || lo > 9 {
		return 0, false
	}
	return int(hi)*10 + int(lo), true
}
