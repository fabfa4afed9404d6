// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xcnv

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/go-lpc/inkwave/rle"
	"github.com/go-lpc/inkwave/wbf"
	"github.com/go-lpc/inkwave/wrf"
	"github.com/golang/glog"
)

// Convert validates and decodes f, and writes its .wrf conversion to dst.
// With a nil dst, f is only inspected: every waveform is still decoded
// to report its number of phases.
//
// All the waveform addresses are collected before any waveform is
// decoded. A failed conversion leaves dst in an unspecified state.
func Convert(f *wbf.File, dst io.WriteSeeker, msg *log.Logger) (*Report, error) {
	if msg == nil {
		msg = log.New(io.Discard, "", 0)
	}

	rep := &Report{Header: f.Header, Format: f.Format}
	if f.Format == wbf.WRF {
		if dst != nil {
			return nil, fmt.Errorf("conversion from .wrf format not supported")
		}
		return rep, nil
	}

	if dst != nil && f.Header.BitsPerPixel() != 4 {
		return nil, &wbf.ValidationError{
			Kind:   wbf.UnsupportedBitsPerPixel,
			Offset: 36,
			Msg: fmt.Sprintf(
				"waveform uses %d bits per pixel, only 4 is supported",
				f.Header.BitsPerPixel(),
			),
		}
	}

	var err error
	rep.Temps, err = f.TempRanges()
	if err != nil {
		return nil, fmt.Errorf("could not read temperature ranges: %w", err)
	}

	rep.Xwia, err = f.Xwia()
	if err != nil {
		return nil, fmt.Errorf("could not read xwia: %w", err)
	}

	lay, err := wbf.Discover(f)
	if err != nil {
		return nil, fmt.Errorf("could not discover waveforms: %w", err)
	}
	rep.UniqueWaveforms = lay.UniqueWaveforms()
	msg.Printf("modes: %d, temperature ranges: %d, unique waveforms: %d",
		lay.NumModes(), lay.NumRanges(), rep.UniqueWaveforms,
	)

	var w *wrf.Writer
	if dst != nil {
		w = wrf.NewWriter(dst)
	}

	err = materialize(rep, lay, w)
	if err != nil {
		return nil, err
	}

	return rep, nil
}

// materialize decodes every waveform of lay, and writes them to w,
// if any.
func materialize(rep *Report, lay *wbf.Layout, w *wrf.Writer) error {
	var (
		hdr   = lay.File().Header
		modes int64
		err   error
	)

	if w != nil {
		_, err = w.Write(hdr.Bytes())
		if err != nil {
			return fmt.Errorf("could not write header: %w", err)
		}
		_, err = w.Write(rep.Temps.Bounds)
		if err != nil {
			return fmt.Errorf("could not write temperature boundaries: %w", err)
		}
		modes, err = w.Reserve(lay.NumModes() * wrf.SlotSize)
		if err != nil {
			return fmt.Errorf("could not reserve mode table: %w", err)
		}
	}

	rep.Modes = make([]ModeReport, lay.NumModes())
	maddrs := make([]uint32, 0, lay.NumModes())
	for i := range rep.Modes {
		var (
			mode   = &rep.Modes[i]
			ranges int64
			raddrs = make([]uint32, 0, lay.NumRanges())
		)
		mode.Addr = lay.Mode(i).Ptr.Addr
		mode.Ranges = make([]SegmentReport, lay.NumRanges())

		if w != nil {
			addr, err := tableAddr(w)
			if err != nil {
				return fmt.Errorf("could not locate ranges of mode %d: %w", i, err)
			}
			maddrs = append(maddrs, addr)
			ranges, err = w.Reserve(lay.NumRanges() * wrf.SlotSize)
			if err != nil {
				return fmt.Errorf("could not reserve ranges of mode %d: %w", i, err)
			}
		}

		for j := range mode.Ranges {
			seg, err := lay.Segment(i, j)
			if err != nil {
				return fmt.Errorf("could not resolve waveform: %w", err)
			}

			wf := rle.Decode(seg.Data)
			mode.Ranges[j] = SegmentReport{
				Addr:       seg.Addr,
				Len:        seg.Len,
				Runs:       len(wf.Runs),
				StateCount: wf.StateCount,
				Phases:     wf.Phases(),
			}
			glog.V(2).Infof(
				"mode %d, range %d: addr=0x%x len=%d runs=%d repeats=%d phases=%d",
				i, j, seg.Addr, seg.Len, len(wf.Runs), wf.Repeats(), wf.Phases(),
			)

			if w == nil {
				continue
			}

			addr, err := tableAddr(w)
			if err != nil {
				return fmt.Errorf("could not locate waveform of mode %d, range %d: %w", i, j, err)
			}
			raddrs = append(raddrs, addr)

			err = w.WriteRecord(wf.StateCount, rle.Expand(wf.Runs))
			if err != nil {
				return fmt.Errorf("could not write waveform of mode %d, range %d: %w", i, j, err)
			}
		}

		if w != nil {
			err = w.WriteTable(ranges, raddrs, wbf.MaxRanges)
			if err != nil {
				return tableError(wbf.Ranges, wbf.MaxRanges, err)
			}
		}
	}

	if w != nil {
		err = w.WriteTable(modes, maddrs, wbf.MaxModes)
		if err != nil {
			return tableError(wbf.Modes, wbf.MaxModes, err)
		}
	}

	return nil
}

// tableAddr returns the table entry pointing at the current write offset.
func tableAddr(w *wrf.Writer) (uint32, error) {
	pos, err := w.Tell()
	if err != nil {
		return 0, err
	}
	return uint32(pos) - wrf.MysteriousOffset, nil
}

func tableError(kind wbf.CapacityKind, max int, err error) error {
	if errors.Is(err, wrf.ErrTableFull) {
		return &wbf.CapacityError{Kind: kind, Max: max}
	}
	return fmt.Errorf("could not write %v table: %w", kind, err)
}
