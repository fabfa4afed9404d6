// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wbf

import (
	"errors"

	"github.com/go-lpc/inkwave/internal/addrtab"
	"golang.org/x/xerrors"
)

// ModeEntry holds the pointers of a mode.
type ModeEntry struct {
	Ptr    Pointer   // temperature ranges block of the mode
	Ranges []Pointer // waveform segment of each temperature range
}

// Segment is a waveform segment with a resolved length.
type Segment struct {
	Mode  int
	Range int
	Addr  uint32
	Len   uint32 // length of the segment, trailing bytes included

	Data    []byte // run-length coded payload
	Trailer []byte // unidentified trailing bytes
}

// Layout is the complete set of waveform addresses of a file.
// A Layout is created by Discover, once every pointer of the file has
// been read and validated.
type Layout struct {
	f     *File
	modes []ModeEntry
	addrs *addrtab.Table
}

// Discover walks the mode table and the temperature ranges of every mode,
// validating each pointer and collecting the waveform addresses.
// No waveform is decoded.
func Discover(f *File) (*Layout, error) {
	if f.Format != WBF {
		return nil, xerrors.Errorf("wbf: can not discover waveforms of a %v file", f.Format)
	}

	var (
		hdr   = f.Header
		addrs = addrtab.New(MaxWaveforms)
		modes = make([]ModeEntry, hdr.NumModes())
	)

	// the end of the file bounds the last waveform.
	err := addWaveform(addrs, uint32(f.Size()))
	if err != nil {
		return nil, err
	}

	for i := range modes {
		ptr, err := f.Pointer(int(hdr.ModeTable) + i*PointerSize)
		if err != nil {
			return nil, xerrors.Errorf("wbf: could not read pointer of mode %d: %w", i, err)
		}

		ranges := make([]Pointer, hdr.NumRanges())
		for j := range ranges {
			wav, err := f.Pointer(int(ptr.Addr) + j*PointerSize)
			if err != nil {
				return nil, xerrors.Errorf(
					"wbf: could not read waveform pointer of mode %d, range %d: %w",
					i, j, err,
				)
			}
			err = addWaveform(addrs, wav.Addr)
			if err != nil {
				return nil, err
			}
			ranges[j] = wav
		}
		modes[i] = ModeEntry{Ptr: ptr, Ranges: ranges}
	}

	return &Layout{f: f, modes: modes, addrs: addrs}, nil
}

func addWaveform(tbl *addrtab.Table, addr uint32) error {
	_, err := tbl.Add(addr)
	if err != nil {
		var cerr *addrtab.CapacityError
		if errors.As(err, &cerr) {
			return &CapacityError{Kind: Waveforms, Max: cerr.Max}
		}
		return err
	}
	return nil
}

// File returns the underlying waveform file.
func (lay *Layout) File() *File { return lay.f }

// NumModes returns the number of modes.
func (lay *Layout) NumModes() int { return len(lay.modes) }

// NumRanges returns the number of temperature ranges of each mode.
func (lay *Layout) NumRanges() int { return lay.f.Header.NumRanges() }

// Mode returns the pointers of the i-th mode.
func (lay *Layout) Mode(i int) ModeEntry { return lay.modes[i] }

// UniqueWaveforms returns the number of distinct waveform addresses.
func (lay *Layout) UniqueWaveforms() int { return lay.addrs.Count() - 1 }

// Addrs returns the sorted waveform addresses, the file size included.
func (lay *Layout) Addrs() []uint32 { return lay.addrs.Addrs() }

// Segment returns the waveform segment of a mode and temperature range.
// Its length is the distance to the next known waveform address.
func (lay *Layout) Segment(mode, rng int) (Segment, error) {
	addr := lay.modes[mode].Ranges[rng].Addr
	n, ok := lay.addrs.Len(addr)
	if !ok || n < TrailerSize {
		return Segment{}, &DecodeError{
			Kind:  LengthUnresolved,
			Mode:  mode,
			Range: rng,
			Addr:  addr,
		}
	}

	p, err := lay.f.slice(int(addr), int(n))
	if err != nil {
		return Segment{}, xerrors.Errorf(
			"wbf: could not read waveform of mode %d, range %d: %w",
			mode, rng, err,
		)
	}

	end := n - TrailerSize
	return Segment{
		Mode:    mode,
		Range:   rng,
		Addr:    addr,
		Len:     n,
		Data:    p[:end:end],
		Trailer: p[end:],
	}, nil
}
