// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xcnv provides tools to convert E Ink waveform files from
// the .wbf format to the .wrf format, and to inspect them.
package xcnv // import "github.com/go-lpc/inkwave/internal/xcnv"

import (
	"github.com/go-lpc/inkwave/wbf"
)

// Report describes an inspected or converted waveform file.
type Report struct {
	Header *wbf.Header
	Format wbf.Format

	Temps wbf.TempRangeTable
	Xwia  wbf.Xwia
	Modes []ModeReport

	UniqueWaveforms int
}

// ModeReport describes the waveforms of a mode.
type ModeReport struct {
	Addr   uint32 // address of the temperature ranges block
	Ranges []SegmentReport
}

// SegmentReport describes a decoded waveform segment.
type SegmentReport struct {
	Addr       uint32 // segment start address
	Len        uint32 // segment length, trailing bytes included
	Runs       int    // number of runs
	StateCount uint16
	Phases     int
}
