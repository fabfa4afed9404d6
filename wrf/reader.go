// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wrf

import (
	"encoding/binary"
	"fmt"

	"github.com/go-lpc/inkwave/internal/addrtab"
	"github.com/go-lpc/inkwave/wbf"
	"golang.org/x/xerrors"
)

// File is a decoded .wrf file.
type File struct {
	Header *wbf.Header
	Bounds []uint8 // temperature boundaries
	Modes  []Mode
}

// Mode holds the waveforms of a mode, one per temperature range.
type Mode struct {
	Offset int64 // offset of the temperature ranges table
	Ranges []Waveform
}

// Waveform is a decoded waveform record.
type Waveform struct {
	Offset     int64 // offset of the record
	StateCount uint16
	States     []byte // expanded channel states
}

// Read decodes a .wrf file.
// The length of each waveform record is the distance to the next
// known table or record offset.
func Read(p []byte) (*File, error) {
	hdr, err := wbf.ParseHeader(p)
	if err != nil {
		return nil, xerrors.Errorf("wrf: could not parse header: %w", err)
	}

	var (
		nmodes  = hdr.NumModes()
		nranges = hdr.NumRanges()
		beg     = int64(wbf.HeaderSize)
		f       = &File{Header: hdr, Modes: make([]Mode, nmodes)}
	)

	bounds, err := slice(p, beg, nranges+1)
	if err != nil {
		return nil, xerrors.Errorf("wrf: could not read temperature boundaries: %w", err)
	}
	f.Bounds = bounds

	modes, err := readTable(p, beg+int64(nranges+1), nmodes)
	if err != nil {
		return nil, xerrors.Errorf("wrf: could not read mode table: %w", err)
	}

	offsets := addrtab.New(0)
	add := func(off int64) {
		_, _ = offsets.Add(uint32(off)) // can not fail without capacity.
	}
	add(int64(len(p)))
	for _, off := range modes {
		add(off)
	}

	recs := make([][]int64, nmodes)
	for i, off := range modes {
		f.Modes[i].Offset = off
		recs[i], err = readTable(p, off, nranges)
		if err != nil {
			return nil, xerrors.Errorf("wrf: could not read ranges of mode %d: %w", i, err)
		}
		for _, off := range recs[i] {
			add(off)
		}
	}

	for i := range f.Modes {
		f.Modes[i].Ranges = make([]Waveform, nranges)
		for j, off := range recs[i] {
			wf, err := readRecord(p, off, offsets)
			if err != nil {
				return nil, xerrors.Errorf("wrf: could not read waveform of mode %d, range %d: %w", i, j, err)
			}
			f.Modes[i].Ranges[j] = wf
		}
	}

	return f, nil
}

func slice(p []byte, off int64, n int) ([]byte, error) {
	if off < 0 || n < 0 || off > int64(len(p)) || int64(n) > int64(len(p))-off {
		return nil, &wbf.ValidationError{
			Kind:   wbf.OutOfBounds,
			Offset: int(off),
			Msg: fmt.Sprintf(
				"[0x%x, 0x%x) is outside file (size=0x%x)",
				off, off+int64(n), len(p),
			),
		}
	}
	return p[off : off+int64(n)], nil
}

// readTable reads n table entries at off, and returns the offsets
// they point to.
func readTable(p []byte, off int64, n int) ([]int64, error) {
	tbl, err := slice(p, off, n*SlotSize)
	if err != nil {
		return nil, err
	}
	offs := make([]int64, n)
	for i := range offs {
		offs[i] = int64(binary.LittleEndian.Uint32(tbl[i*SlotSize:]) + MysteriousOffset)
	}
	return offs, nil
}

func readRecord(p []byte, off int64, offsets *addrtab.Table) (Waveform, error) {
	n, ok := offsets.Len(uint32(off))
	if !ok || n < SlotSize {
		return Waveform{}, xerrors.Errorf("wrf: could not resolve length of record at 0x%x", off)
	}
	rec, err := slice(p, off, int(n))
	if err != nil {
		return Waveform{}, err
	}

	wf := Waveform{
		Offset:     off,
		StateCount: binary.BigEndian.Uint16(rec),
		States:     rec[SlotSize:],
	}
	if uint16(len(wf.States)) != wf.StateCount || len(wf.States)%4 != 0 {
		return wf, xerrors.Errorf(
			"wrf: invalid record at 0x%x (states=%d, state-count=%d)",
			off, len(wf.States), wf.StateCount,
		)
	}
	return wf, nil
}
