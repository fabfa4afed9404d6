// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xcnv

import (
	"bufio"
	"fmt"
	"io"

	"github.com/go-lpc/inkwave/wbf"
)

// Print displays the report in a human readable form.
func (rep *Report) Print(w io.Writer) error {
	wbuf := bufio.NewWriter(w)

	PrintHeader(wbuf, rep.Header, rep.Format)
	if rep.Format != wbf.WBF {
		return wbuf.Flush()
	}

	PrintTemps(wbuf, rep.Temps)
	PrintXwia(wbuf, rep.Xwia)
	fmt.Fprintf(wbuf, "Number of unique waveforms: %d\n\n", rep.UniqueWaveforms)
	PrintModes(wbuf, rep.Header, rep.Modes)

	return wbuf.Flush()
}

// PrintHeader displays the header fields.
// The declared file size is only meaningful for the .wbf format.
func PrintHeader(w io.Writer, hdr *wbf.Header, format wbf.Format) {
	fmt.Fprintf(w, "Header info:\n")
	if format == wbf.WBF {
		fmt.Fprintf(w, "\tFile size (according to header): %d bytes\n", hdr.Size)
	}
	fmt.Fprintf(w, "\tSerial number: %d\n", hdr.Serial)
	fmt.Fprintf(w, "\tRun type: 0x%x\n", hdr.RunType)
	fmt.Fprintf(w, "\tManufacturer code: 0x%x\n", hdr.MfgCode)
	fmt.Fprintf(w, "\tFrontplane Laminate (FPL) platform: 0x%x\n", hdr.FPLPlatform)
	fmt.Fprintf(w, "\tFrontplane Laminate (FPL) lot: %d\n", hdr.FPLLot)
	fmt.Fprintf(w, "\tFrontplane Laminate (FPL) size: 0x%x\n", hdr.FPLSize)
	switch rate, ok := hdr.FPLRate(); {
	case ok:
		fmt.Fprintf(w, "\tFrontplane Laminate (FPL) rate: 0x%02x | %dHz\n", hdr.FPLRateBCD, rate)
	default:
		fmt.Fprintf(w, "\tFrontplane Laminate (FPL) rate: 0x%02x | Invalid\n", hdr.FPLRateBCD)
	}
	fmt.Fprintf(w, "\tWaveform version: %d\n", hdr.WaveformVersion)
	fmt.Fprintf(w, "\tWaveform sub-version: %d\n", hdr.WaveformSubVersion)
	fmt.Fprintf(w, "\tWaveform type: 0x%x\n", hdr.WaveformType)

	if v, ok := hdr.TuningBias(); ok {
		fmt.Fprintf(w, "\tWaveform tuning bias: 0x%x\n", v)
	} else {
		fmt.Fprintf(w, "\tWaveform tuning bias: Unknown\n")
	}
	if v, ok := hdr.Revision(); ok {
		fmt.Fprintf(w, "\tWaveform revision: %d\n", v)
	} else {
		fmt.Fprintf(w, "\tWaveform revision: Unknown\n")
	}

	if v, ok := hdr.AdhesiveRunNumber(); ok {
		fmt.Fprintf(w, "\tAdhesive run number: %d\n", v)
		fmt.Fprintf(w, "\tMode version: Unknown\n")
	}
	if v, ok := hdr.ModeVersion(); ok {
		fmt.Fprintf(w, "\tAdhesive run number: Unknown\n")
		fmt.Fprintf(w, "\tMode version: 0x%x\n", v)
	}

	fmt.Fprintf(w, "\tNumber of modes in this waveform: %d\n", hdr.NumModes())
	fmt.Fprintf(w, "\tNumber of temperature ranges in this waveform: %d\n", hdr.NumRanges())
	fmt.Fprintf(w, "\t4 or 5-bits per pixel: %d\n", hdr.BitsPerPixel())
	fmt.Fprintf(w, "\tunknown0: 0x%x\n", hdr.Unknown0)
	fmt.Fprintf(w, "\tvcom_shifted: %d\n", hdr.VCOMShifted)
	fmt.Fprintf(w, "\textra waveform info (xwia) offset: 0x%x\n", hdr.XwiaAddr)
	fmt.Fprintf(w, "\tcs1: 0x%x\n", hdr.FieldSum)
	fmt.Fprintf(w, "\twaveform modes table offset: 0x%x\n", hdr.ModeTable)
	fmt.Fprintf(w, "\tfvsn: 0x%x\n", hdr.FVSN)
	fmt.Fprintf(w, "\tluts: 0x%x\n", hdr.LUTs)
	fmt.Fprintf(w, "\tadvanced_wfm_flags: 0x%x | voltage control: %v, algorithm control: %v\n",
		uint8(hdr.AdvancedFlags),
		hdr.AdvancedFlags.VoltageControl(), hdr.AdvancedFlags.AlgorithmControl(),
	)
	fmt.Fprintf(w, "\teb: 0x%x\n", hdr.EB)
	fmt.Fprintf(w, "\tsb: 0x%x\n", hdr.SB)
	fmt.Fprintf(w, "\treserved_or_unkn: % x\n", hdr.Reserved[:])
	fmt.Fprintf(w, "\tcs2: 0x%x\n", hdr.CS2)
	fmt.Fprintf(w, "\n")

	if !hdr.HasModeVersion() {
		fmt.Fprintf(w, "Modes: Unknown (no mode version specified)\n\n")
		return
	}
	fmt.Fprintf(w, "Modes in file:\n")
	for i := 0; i < hdr.NumModes(); i++ {
		fmt.Fprintf(w, "\t%2d: %v\n", i, wbf.UpdateMode(i))
	}
	fmt.Fprintf(w, "\n")
}

// PrintTemps displays the supported temperature ranges.
func PrintTemps(w io.Writer, tbl wbf.TempRangeTable) {
	fmt.Fprintf(w, "Supported temperature ranges:\n")
	for i := 0; i < tbl.Len(); i++ {
		lo, hi := tbl.Range(i)
		fmt.Fprintf(w, "\t%d - %d °C\n", lo, hi)
	}
	fmt.Fprintf(w, "\n")
}

// PrintXwia displays the extra waveform info.
func PrintXwia(w io.Writer, x wbf.Xwia) {
	fmt.Fprintf(w, "Extra waveform info: ")
	switch ok, n := x.Printable(); {
	case len(x.Data) == 0:
		fmt.Fprintf(w, "None\n")
	case !ok:
		fmt.Fprintf(w, "(%d bytes containing %d unprintable characters)\n", len(x.Data), n)
	default:
		fmt.Fprintf(w, "%s\n", x.String())
	}
	fmt.Fprintf(w, "\n")
}

// PrintModes displays the number of phases of every waveform.
func PrintModes(w io.Writer, hdr *wbf.Header, modes []ModeReport) {
	fmt.Fprintf(w, "Modes:\n")
	for i, mode := range modes {
		name := ""
		if hdr.HasModeVersion() {
			name = " (" + wbf.UpdateMode(i).String() + ")"
		}
		fmt.Fprintf(w, "\tMode %2d%s at 0x%06x:\n", i, name, mode.Addr)
		for j, seg := range mode.Ranges {
			fmt.Fprintf(w, "\t\tRange %2d: %4d phases (0x%06x)\n", j, seg.Phases, seg.Addr)
		}
	}
	fmt.Fprintf(w, "\n")
}
