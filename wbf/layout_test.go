// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wbf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/go-lpc/inkwave/rle"
)

func TestDiscover(t *testing.T) {
	img := testImage(t)
	raw, err := Marshal(img)
	if err != nil {
		t.Fatalf("could not marshal image: %+v", err)
	}

	f, err := Open(raw, WBF)
	if err != nil {
		t.Fatalf("could not open file: %+v", err)
	}

	lay, err := Discover(f)
	if err != nil {
		t.Fatalf("could not discover layout: %+v", err)
	}

	if got, want := lay.NumModes(), 2; got != want {
		t.Fatalf("invalid number of modes: got=%d, want=%d", got, want)
	}
	if got, want := lay.NumRanges(), 3; got != want {
		t.Fatalf("invalid number of ranges: got=%d, want=%d", got, want)
	}
	if got, want := lay.UniqueWaveforms(), 5; got != want {
		t.Fatalf("invalid number of unique waveforms: got=%d, want=%d", got, want)
	}
	if got, want := lay.Addrs()[5], uint32(len(raw)); got != want {
		t.Fatalf("invalid sentinel: got=%d, want=%d", got, want)
	}

	for i := 0; i < lay.NumModes(); i++ {
		mode := lay.Mode(i)
		if !mode.Ptr.Valid() {
			t.Fatalf("invalid mode %d pointer %v", i, mode.Ptr)
		}
		for j := 0; j < lay.NumRanges(); j++ {
			seg, err := lay.Segment(i, j)
			if err != nil {
				t.Fatalf("could not resolve segment (%d,%d): %+v", i, j, err)
			}
			if got, want := seg.Data, img.Waveforms[i][j]; !bytes.Equal(got, want) {
				t.Fatalf("invalid segment (%d,%d):\ngot= % x\nwant=% x", i, j, got, want)
			}
			if got, want := seg.Trailer, rle.Trailer[:]; !bytes.Equal(got, want) {
				t.Fatalf("invalid trailer (%d,%d): got=% x, want=% x", i, j, got, want)
			}
			if got, want := seg.Len, uint32(len(seg.Data)+TrailerSize); got != want {
				t.Fatalf("invalid length (%d,%d): got=%d, want=%d", i, j, got, want)
			}
		}
	}

	a, _ := lay.Segment(0, 0)
	b, _ := lay.Segment(1, 2)
	if a.Addr != b.Addr {
		t.Fatalf("identical payloads should share an address: 0x%x != 0x%x", a.Addr, b.Addr)
	}
}

func TestDiscoverErrors(t *testing.T) {
	orig := testFile(t)
	hdr, err := ParseHeader(orig)
	if err != nil {
		t.Fatalf("could not parse header: %+v", err)
	}
	var (
		modeTable = int(hdr.ModeTable)
		block0    = modeTable + 2*PointerSize
	)

	for _, tc := range []struct {
		name  string
		patch func(p []byte)
		check func(err error) bool
	}{
		{
			name: "mode-pointer-checksum",
			patch: func(p []byte) {
				p[modeTable+PointerSize] ^= 0xff
			},
			check: func(err error) bool {
				var cerr *ChecksumError
				return errors.As(err, &cerr) && cerr.Kind == PointerSum &&
					cerr.Offset == modeTable+PointerSize+3
			},
		},
		{
			name: "range-pointer-checksum",
			patch: func(p []byte) {
				p[block0+2*PointerSize+3] ^= 0x01
			},
			check: func(err error) bool {
				var cerr *ChecksumError
				return errors.As(err, &cerr) && cerr.Kind == PointerSum &&
					cerr.Offset == block0+2*PointerSize+3
			},
		},
		{
			name: "mode-pointer-out-of-bounds",
			patch: func(p []byte) {
				ptr := MakePointer(uint32(len(p)))
				binary.LittleEndian.PutUint32(p[modeTable:], ptr.Uint32())
			},
			check: func(err error) bool {
				var verr *ValidationError
				return errors.As(err, &verr) && verr.Kind == OutOfBounds
			},
		},
		{
			name: "mode-table-out-of-bounds",
			patch: func(p []byte) {
				putU24le(p[32:], uint32(len(p)-2))
			},
			check: func(err error) bool {
				var verr *ValidationError
				return errors.As(err, &verr) && verr.Kind == OutOfBounds
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			raw := append([]byte(nil), orig...)
			tc.patch(raw)
			refresh(raw)

			f, err := Open(raw, WBF)
			if err != nil {
				t.Fatalf("could not open file: %+v", err)
			}
			_, err = Discover(f)
			if !tc.check(err) {
				t.Fatalf("invalid error: %+v", err)
			}
		})
	}

	f, err := Open(orig[:HeaderSize], WRF)
	if err != nil {
		t.Fatalf("could not open wrf: %+v", err)
	}
	_, err = Discover(f)
	if err == nil {
		t.Fatalf("expected an error discovering a wrf file")
	}
}

func TestSegmentLengthUnresolved(t *testing.T) {
	orig := testFile(t)
	hdr, err := ParseHeader(orig)
	if err != nil {
		t.Fatalf("could not parse header: %+v", err)
	}
	block0 := int(hdr.ModeTable) + 2*PointerSize

	for _, tc := range []struct {
		name string
		addr uint32
	}{
		{"end-of-file", uint32(len(orig))},
		{"past-end-of-file", uint32(len(orig)) + 10},
		{"too-short", uint32(len(orig)) - 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			raw := append([]byte(nil), orig...)
			binary.LittleEndian.PutUint32(raw[block0+PointerSize:], MakePointer(tc.addr).Uint32())
			refresh(raw)

			f, err := Open(raw, WBF)
			if err != nil {
				t.Fatalf("could not open file: %+v", err)
			}
			lay, err := Discover(f)
			if err != nil {
				t.Fatalf("could not discover layout: %+v", err)
			}

			_, err = lay.Segment(0, 0)
			if err != nil {
				t.Fatalf("could not resolve segment (0,0): %+v", err)
			}

			_, err = lay.Segment(0, 1)
			var derr *DecodeError
			if !errors.As(err, &derr) {
				t.Fatalf("invalid error: %+v", err)
			}
			want := DecodeError{Kind: LengthUnresolved, Mode: 0, Range: 1, Addr: tc.addr}
			if *derr != want {
				t.Fatalf("invalid decode error: got=%+v, want=%+v", *derr, want)
			}
		})
	}
}

func TestDiscoverCapacity(t *testing.T) {
	const (
		nmodes  = 16
		nranges = 256
	)
	img := &Image{
		Header:    Header{FPLPlatform: 3},
		Bounds:    make([]uint8, nranges+1),
		Waveforms: make([][][]byte, nmodes),
	}
	for i := range img.Waveforms {
		img.Waveforms[i] = make([][]byte, nranges)
		for j := range img.Waveforms[i] {
			img.Waveforms[i][j] = []byte{byte(i), 0x00, byte(j), 0x00}
		}
	}

	raw, err := Marshal(img)
	if err != nil {
		t.Fatalf("could not marshal image: %+v", err)
	}
	f, err := Open(raw, WBF)
	if err != nil {
		t.Fatalf("could not open file: %+v", err)
	}

	_, err = Discover(f)
	var cerr *CapacityError
	if !errors.As(err, &cerr) {
		t.Fatalf("invalid error: %+v", err)
	}
	if got, want := *cerr, (CapacityError{Kind: Waveforms, Max: MaxWaveforms}); got != want {
		t.Fatalf("invalid capacity error: got=%+v, want=%+v", got, want)
	}

	// one waveform less fits.
	img.Waveforms[nmodes-1][nranges-1] = img.Waveforms[0][0]
	raw, err = Marshal(img)
	if err != nil {
		t.Fatalf("could not marshal image: %+v", err)
	}
	f, err = Open(raw, WBF)
	if err != nil {
		t.Fatalf("could not open file: %+v", err)
	}
	lay, err := Discover(f)
	if err != nil {
		t.Fatalf("could not discover layout: %+v", err)
	}
	if got, want := lay.UniqueWaveforms(), MaxWaveforms-1; got != want {
		t.Fatalf("invalid number of unique waveforms: got=%d, want=%d", got, want)
	}
}
