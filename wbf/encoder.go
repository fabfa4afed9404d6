// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wbf

import (
	"encoding/binary"
	"io"

	"github.com/go-lpc/inkwave/internal/sum8"
	"github.com/go-lpc/inkwave/rle"
	"golang.org/x/xerrors"
)

// Image is the content of a .wbf file.
type Image struct {
	// Header holds the header field values.
	// Counts, addresses, checksums and file size are computed
	// by the Encoder.
	Header Header

	Bounds []uint8 // temperature boundaries, one more than the number of ranges
	Xwia   []byte  // extra waveform info, if any

	// Waveforms holds the run-length coded payload of each
	// waveform segment, indexed by mode and temperature range.
	// Identical payloads are stored once.
	Waveforms [][][]byte
}

// Encoder writes .wbf files to an output stream.
type Encoder struct {
	w io.Writer
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes the .wbf encoding of img to the stream.
//
// The temperature range table follows the header, then come the extra
// waveform info, the mode table, the temperature ranges blocks and the
// waveform segments. Each segment ends with rle.Trailer.
func (enc *Encoder) Encode(img *Image) error {
	raw, err := Marshal(img)
	if err != nil {
		return err
	}
	_, err = enc.w.Write(raw)
	if err != nil {
		return xerrors.Errorf("wbf: could not write file: %w", err)
	}
	return nil
}

// Marshal returns the .wbf encoding of img.
func Marshal(img *Image) ([]byte, error) {
	nmodes := len(img.Waveforms)
	if nmodes == 0 || nmodes > MaxModes {
		return nil, xerrors.Errorf("wbf: invalid number of modes (%d)", nmodes)
	}
	nranges := len(img.Waveforms[0])
	if nranges == 0 || nranges > MaxRanges {
		return nil, xerrors.Errorf("wbf: invalid number of temperature ranges (%d)", nranges)
	}
	for i, mode := range img.Waveforms {
		if len(mode) != nranges {
			return nil, xerrors.Errorf(
				"wbf: mode %d has %d temperature ranges, want %d",
				i, len(mode), nranges,
			)
		}
	}
	if len(img.Bounds) != nranges+1 {
		return nil, xerrors.Errorf(
			"wbf: invalid number of temperature boundaries (got=%d, want=%d)",
			len(img.Bounds), nranges+1,
		)
	}
	if len(img.Xwia) > 0xff {
		return nil, xerrors.Errorf("wbf: xwia too long (%d bytes)", len(img.Xwia))
	}

	hdr := img.Header
	hdr.ModeCount = uint8(nmodes - 1)
	hdr.TempRangeCount = uint8(nranges - 1)

	buf := make([]byte, HeaderSize, 1024)

	sum := sum8.New(0)
	buf = append(buf, img.Bounds...)
	_, _ = sum.Write(img.Bounds)
	buf = sum.Sum(buf)

	hdr.XwiaAddr = 0
	if len(img.Xwia) > 0 {
		hdr.XwiaAddr = uint32(len(buf))
		sum = sum8.New(uint8(len(img.Xwia)))
		buf = append(buf, uint8(len(img.Xwia)))
		buf = append(buf, img.Xwia...)
		_, _ = sum.Write(img.Xwia)
		buf = sum.Sum(buf)
	}

	hdr.ModeTable = uint32(len(buf))
	var (
		modeTable = len(buf)
		blocks    = modeTable + nmodes*PointerSize
		segments  = blocks + nmodes*nranges*PointerSize
	)
	buf = append(buf, make([]byte, segments-modeTable)...)

	offsets := make(map[string]uint32)
	for i, mode := range img.Waveforms {
		block := blocks + i*nranges*PointerSize
		err := putPointer(buf[modeTable+i*PointerSize:], uint32(block))
		if err != nil {
			return nil, xerrors.Errorf("wbf: mode %d: %w", i, err)
		}
		for j, wav := range mode {
			addr, dup := offsets[string(wav)]
			if !dup {
				addr = uint32(len(buf))
				offsets[string(wav)] = addr
				buf = append(buf, wav...)
				buf = append(buf, rle.Trailer[:]...)
			}
			err := putPointer(buf[block+j*PointerSize:], addr)
			if err != nil {
				return nil, xerrors.Errorf("wbf: mode %d, range %d: %w", i, j, err)
			}
		}
	}

	hdr.Size = uint32(len(buf))
	raw, err := hdr.MarshalBinary()
	if err != nil {
		return nil, err
	}
	copy(buf, raw)

	buf[fieldSumOff] = SumFields(buf)
	binary.LittleEndian.PutUint32(buf[0:], CRC(buf, hdr.Size))

	return buf, nil
}

func putPointer(p []byte, addr uint32) error {
	if addr > 0xffffff {
		return xerrors.Errorf("wbf: address 0x%x overflows 24 bits", addr)
	}
	binary.LittleEndian.PutUint32(p, MakePointer(addr).Uint32())
	return nil
}
