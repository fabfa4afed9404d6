// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wbf

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/go-lpc/inkwave/internal/sum8"
)

// Format is the format of a waveform file.
type Format uint8

const (
	WBF Format = iota + 1 // flash-resident waveform file
	WRF                   // runtime waveform file
)

func (f Format) String() string {
	switch f {
	case WBF:
		return "wbf"
	case WRF:
		return "wrf"
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// ParseFormat parses a format name, "wbf" or "wrf".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "wbf":
		return WBF, nil
	case "wrf":
		return WRF, nil
	}
	return 0, &ValidationError{
		Kind: UnknownFormat,
		Msg:  fmt.Sprintf("only wbf and wrf formats are supported (got=%q)", name),
	}
}

// FormatOf infers the format of a file from its extension.
func FormatOf(fname string) (Format, error) {
	ext := filepath.Ext(fname)
	switch ext {
	case ".wbf":
		return WBF, nil
	case ".wrf":
		return WRF, nil
	}
	return 0, &ValidationError{
		Kind: UnknownFormat,
		Msg:  fmt.Sprintf("file %q has neither .wbf nor .wrf extension", fname),
	}
}

// File is a validated view over the bytes of a waveform file.
type File struct {
	Header *Header
	Format Format

	data []byte
}

// Open validates the header of a waveform file.
//
// For the WBF format, data must hold the whole file: its length must
// match the declared size and the whole-header CRC-32 is verified.
// For the WRF format, only the header is parsed.
func Open(data []byte, format Format) (*File, error) {
	switch format {
	case WBF, WRF:
	default:
		return nil, &ValidationError{
			Kind: UnknownFormat,
			Msg:  fmt.Sprintf("invalid format %v", format),
		}
	}

	hdr, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	f := &File{Header: hdr, Format: format, data: data}
	if format == WRF {
		return f, nil
	}

	if uint64(hdr.Size) != uint64(len(data)) {
		return nil, &ValidationError{
			Kind:   FileSizeMismatch,
			Offset: 4,
			Msg: fmt.Sprintf(
				"actual file size does not match declared size (got=%d, want=%d)",
				len(data), hdr.Size,
			),
		}
	}

	err = hdr.VerifyCRC(data)
	if err != nil {
		return nil, err
	}

	return f, nil
}

// Bytes returns the file content.
func (f *File) Bytes() []byte { return f.data }

// Size returns the number of bytes of the file.
func (f *File) Size() int { return len(f.data) }

func (f *File) slice(off, n int) ([]byte, error) {
	if off < 0 || n < 0 || off > len(f.data) || n > len(f.data)-off {
		return nil, &ValidationError{
			Kind:   OutOfBounds,
			Offset: off,
			Msg: fmt.Sprintf(
				"[0x%x, 0x%x) is outside file (size=0x%x)",
				off, off+n, len(f.data),
			),
		}
	}
	return f.data[off : off+n], nil
}

// Pointer reads and validates the checksummed pointer at off.
func (f *File) Pointer(off int) (Pointer, error) {
	p, err := f.slice(off, PointerSize)
	if err != nil {
		return Pointer{}, err
	}
	ptr, ok := DecodePointer(u32le(p))
	if !ok {
		return ptr, &ChecksumError{
			Kind:   PointerSum,
			Offset: off + 3,
			Got:    uint32(ptr.Sum),
			Want:   uint32(pointerSum(ptr.Addr)),
		}
	}
	return ptr, nil
}

// TempRangeTable holds the temperature boundaries of a waveform file.
// Range i spans [Bounds[i], Bounds[i+1]).
type TempRangeTable struct {
	Bounds []uint8
	Sum    uint8
}

// Len returns the number of temperature ranges.
func (tbl TempRangeTable) Len() int {
	if len(tbl.Bounds) == 0 {
		return 0
	}
	return len(tbl.Bounds) - 1
}

// Range returns the boundaries of the i-th temperature range.
func (tbl TempRangeTable) Range(i int) (lo, hi uint8) {
	return tbl.Bounds[i], tbl.Bounds[i+1]
}

// TempRanges reads and validates the temperature range table,
// located right after the header.
func (f *File) TempRanges() (TempRangeTable, error) {
	n := f.Header.NumRanges() + 1
	p, err := f.slice(HeaderSize, n+1)
	if err != nil {
		return TempRangeTable{}, err
	}

	tbl := TempRangeTable{
		Bounds: p[:n:n],
		Sum:    p[n],
	}
	if want := sum8.Checksum(0, tbl.Bounds); tbl.Sum != want {
		return tbl, &ChecksumError{
			Kind:   RangeTable,
			Offset: HeaderSize + n,
			Got:    uint32(tbl.Sum),
			Want:   uint32(want),
		}
	}
	return tbl, nil
}

// Xwia is the extra waveform info, usually the name of the original
// waveform file.
type Xwia struct {
	Data []byte
	Sum  uint8
}

// String returns the raw info.
func (x Xwia) String() string { return string(x.Data) }

// Printable reports whether the info only holds printable ASCII characters,
// and the number of characters that are not.
func (x Xwia) Printable() (bool, int) {
	n := 0
	for _, c := range x.Data {
		if c > unicode.MaxASCII || !unicode.IsPrint(rune(c)) {
			n++
		}
	}
	return n == 0, n
}

// xwiaSum computes the checksum of an extra waveform info string.
func xwiaSum(p []byte) uint8 {
	return sum8.Checksum(uint8(len(p)), p)
}

// Xwia reads and validates the extra waveform info.
// A zero address means the file carries none.
func (f *File) Xwia() (Xwia, error) {
	addr := int(f.Header.XwiaAddr)
	if addr == 0 {
		return Xwia{}, nil
	}

	p, err := f.slice(addr, 1)
	if err != nil {
		return Xwia{}, err
	}
	n := int(p[0])
	p, err = f.slice(addr+1, n+1)
	if err != nil {
		return Xwia{}, err
	}

	x := Xwia{Data: p[:n:n], Sum: p[n]}
	if want := xwiaSum(x.Data); x.Sum != want {
		return x, &ChecksumError{
			Kind:   XwiaSum,
			Offset: addr + 1 + n,
			Got:    uint32(x.Sum),
			Want:   uint32(want),
		}
	}
	return x, nil
}
