// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wbf

import (
	"fmt"
)

// ChecksumKind identifies the checksummed structure that failed verification.
type ChecksumKind uint8

const (
	HeaderCRC  ChecksumKind = iota + 1 // whole-header CRC-32
	FieldSum                           // 8-bit sum of header bytes [7,30)
	PointerSum                         // 8-bit sum of a pointer address
	RangeTable                         // temperature range table
	XwiaSum                            // extra waveform info string
)

func (k ChecksumKind) String() string {
	switch k {
	case HeaderCRC:
		return "header CRC"
	case FieldSum:
		return "header field sum"
	case PointerSum:
		return "pointer"
	case RangeTable:
		return "temperature range table"
	case XwiaSum:
		return "xwia"
	}
	return fmt.Sprintf("ChecksumKind(%d)", uint8(k))
}

// ChecksumError describes a checksum mismatch.
// Offset is the file offset of the stored checksum.
type ChecksumError struct {
	Kind   ChecksumKind
	Offset int
	Got    uint32 // stored value
	Want   uint32 // computed value
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf(
		"wbf: invalid %v checksum at 0x%x (got=0x%x, want=0x%x)",
		e.Kind, e.Offset, e.Got, e.Want,
	)
}

// ValidationKind identifies a structural validation failure.
type ValidationKind uint8

const (
	UnsupportedBitsPerPixel ValidationKind = iota + 1
	FileSizeMismatch
	UnknownFormat
	OutOfBounds
	Truncated
)

func (k ValidationKind) String() string {
	switch k {
	case UnsupportedBitsPerPixel:
		return "unsupported bits per pixel"
	case FileSizeMismatch:
		return "file size mismatch"
	case UnknownFormat:
		return "unknown format"
	case OutOfBounds:
		return "out of bounds"
	case Truncated:
		return "truncated"
	}
	return fmt.Sprintf("ValidationKind(%d)", uint8(k))
}

// ValidationError describes a structural inconsistency of a file.
type ValidationError struct {
	Kind   ValidationKind
	Offset int    // offset of the failing element, if any
	Msg    string // details
}

func (e *ValidationError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("wbf: %v at 0x%x", e.Kind, e.Offset)
	}
	return fmt.Sprintf("wbf: %v: %s", e.Kind, e.Msg)
}

// DecodeKind identifies a waveform segment decoding failure.
type DecodeKind uint8

const (
	LengthUnresolved DecodeKind = iota + 1
)

func (k DecodeKind) String() string {
	switch k {
	case LengthUnresolved:
		return "length unresolved"
	}
	return fmt.Sprintf("DecodeKind(%d)", uint8(k))
}

// DecodeError describes a waveform segment that could not be decoded.
type DecodeError struct {
	Kind  DecodeKind
	Mode  int
	Range int
	Addr  uint32 // segment start address
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf(
		"wbf: mode %d: range %d: waveform at 0x%x: %v",
		e.Mode, e.Range, e.Addr, e.Kind,
	)
}

// CapacityKind identifies a bounded address table.
type CapacityKind uint8

const (
	Waveforms CapacityKind = iota + 1
	Modes
	Ranges
)

func (k CapacityKind) String() string {
	switch k {
	case Waveforms:
		return "waveforms"
	case Modes:
		return "modes"
	case Ranges:
		return "ranges"
	}
	return fmt.Sprintf("CapacityKind(%d)", uint8(k))
}

// CapacityError reports more distinct addresses than a table can hold.
type CapacityError struct {
	Kind CapacityKind
	Max  int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("wbf: too many %v (max=%d)", e.Kind, e.Max)
}
