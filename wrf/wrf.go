// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wrf writes and reads E Ink .wrf runtime waveform files.
//
// A .wrf file starts with the header of the .wbf file it was converted
// from, followed by the temperature boundaries and the mode table.
// Each mode table entry points to a table of temperature ranges, each
// range table entry points to a waveform record: a 2-byte big-endian
// state count, followed by the expanded channel states.
// Table entries are stored MysteriousOffset bytes before the offset
// they point to.
package wrf // import "github.com/go-lpc/inkwave/wrf"

import (
	"encoding/binary"
	"errors"
	"io"

	"golang.org/x/xerrors"
)

const (
	// MysteriousOffset is subtracted from every table entry.
	// The display controller driver expects it, its origin is unknown.
	MysteriousOffset = 63

	// SlotSize is the size of a table entry and of a waveform record
	// header, in bytes.
	SlotSize = 8
)

// ErrTableFull is returned when a table is given more addresses than
// it can hold.
var ErrTableFull = errors.New("wrf: table full")

// Writer writes a .wrf file to a random-access output.
type Writer struct {
	w   io.WriteSeeker
	buf []byte
}

// NewWriter returns a new writer that writes to w.
func NewWriter(w io.WriteSeeker) *Writer {
	return &Writer{w: w, buf: make([]byte, SlotSize)}
}

// Tell returns the current write offset.
func (w *Writer) Tell() (int64, error) {
	pos, err := w.w.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, xerrors.Errorf("wrf: could not get write offset: %w", err)
	}
	return pos, nil
}

// Reserve skips n bytes and returns the offset of the reserved region.
// The region must be filled later on with WriteAt or WriteTable.
func (w *Writer) Reserve(n int) (int64, error) {
	pos, err := w.Tell()
	if err != nil {
		return 0, err
	}
	_, err = w.w.Seek(int64(n), io.SeekCurrent)
	if err != nil {
		return 0, xerrors.Errorf("wrf: could not reserve %d bytes at 0x%x: %w", n, pos, err)
	}
	return pos, nil
}

// Write writes p at the current offset.
func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	if err != nil {
		return n, xerrors.Errorf("wrf: could not write: %w", err)
	}
	return n, nil
}

// WriteAt writes p at offset off and restores the write offset.
func (w *Writer) WriteAt(p []byte, off int64) (int, error) {
	cur, err := w.Tell()
	if err != nil {
		return 0, err
	}

	_, err = w.w.Seek(off, io.SeekStart)
	if err != nil {
		return 0, xerrors.Errorf("wrf: could not seek to 0x%x: %w", off, err)
	}

	n, err := w.w.Write(p)
	if err != nil {
		return n, xerrors.Errorf("wrf: could not write at 0x%x: %w", off, err)
	}

	_, err = w.w.Seek(cur, io.SeekStart)
	if err != nil {
		return n, xerrors.Errorf("wrf: could not restore offset 0x%x: %w", cur, err)
	}
	return n, nil
}

// WriteTable writes addrs as a table at offset off and restores the
// write offset.
// Each address is stored as a 4-byte little-endian value in a SlotSize
// slot. A zero address is a valid entry: the table ends with addrs.
// WriteTable fails with ErrTableFull if there are more than max
// addresses to write.
func (w *Writer) WriteTable(off int64, addrs []uint32, max int) error {
	n := len(addrs)
	if n > max {
		return xerrors.Errorf("wrf: could not write %d addresses (max=%d): %w", n, max, ErrTableFull)
	}

	tbl := make([]byte, n*SlotSize)
	for i, addr := range addrs {
		binary.LittleEndian.PutUint32(tbl[i*SlotSize:], addr)
	}

	_, err := w.WriteAt(tbl, off)
	if err != nil {
		return xerrors.Errorf("wrf: could not write table at 0x%x: %w", off, err)
	}
	return nil
}

// WriteRecord writes a waveform record at the current offset:
// the state count in a SlotSize slot, followed by the expanded states.
func (w *Writer) WriteRecord(stateCount uint16, states []byte) error {
	for i := range w.buf {
		w.buf[i] = 0
	}
	binary.BigEndian.PutUint16(w.buf, stateCount)

	_, err := w.Write(w.buf)
	if err != nil {
		return xerrors.Errorf("wrf: could not write state count: %w", err)
	}
	_, err = w.Write(states)
	if err != nil {
		return xerrors.Errorf("wrf: could not write states: %w", err)
	}
	return nil
}
