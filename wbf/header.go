// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wbf

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/go-lpc/inkwave/internal/sum8"
	"golang.org/x/xerrors"
)

const (
	fieldSumBeg = 7
	fieldSumEnd = 30
	fieldSumOff = 31
)

// crcSeed is the CRC-32 of the 4 zero bytes standing in for the
// stored CRC.
var crcSeed = crc32.ChecksumIEEE(make([]byte, 4))

// Header is the fixed-layout header of a waveform file.
type Header struct {
	CRC32       uint32 // CRC-32 of the whole file, past this field
	Size        uint32 // declared file size
	Serial      uint32
	RunType     uint8
	FPLPlatform uint8
	FPLLot      uint16

	// ModeVersionOrAdhesiveRun holds the adhesive run number when
	// FPLPlatform < 3, the mode version otherwise.
	ModeVersionOrAdhesiveRun uint8

	WaveformVersion    uint8
	WaveformSubVersion uint8
	WaveformType       uint8
	FPLSize            uint8
	MfgCode            uint8

	// TuningBiasOrRev is interpreted according to WaveformType.
	TuningBiasOrRev uint8

	FPLRateBCD  uint8
	Unknown0    uint8
	VCOMShifted uint8
	Unknown1    uint16
	XwiaAddr    uint32 // 24-bit address of the extra waveform info
	FieldSum    uint8  // 8-bit sum of bytes [7,30)
	ModeTable   uint32 // 24-bit address of the mode table
	FVSN        uint8
	LUTs        uint8

	ModeCount      uint8 // number of modes, minus one
	TempRangeCount uint8 // number of temperature ranges, minus one

	AdvancedFlags AdvancedFlags
	EB            uint8
	SB            uint8
	Reserved      [5]uint8
	CS2           uint8

	raw [HeaderSize]byte
}

// ParseHeader decodes and validates the fixed header at the start of p.
func ParseHeader(p []byte) (*Header, error) {
	var hdr Header
	err := hdr.UnmarshalBinary(p)
	if err != nil {
		return nil, err
	}

	want := SumFields(p)
	if hdr.FieldSum != want {
		return nil, &ChecksumError{
			Kind:   FieldSum,
			Offset: fieldSumOff,
			Got:    uint32(hdr.FieldSum),
			Want:   uint32(want),
		}
	}

	return &hdr, nil
}

// UnmarshalBinary decodes the header fields from p, without any
// checksum verification.
func (hdr *Header) UnmarshalBinary(p []byte) error {
	if len(p) < HeaderSize {
		return &ValidationError{
			Kind: Truncated,
			Msg:  fmt.Sprintf("header needs %d bytes, got %d", HeaderSize, len(p)),
		}
	}
	p = p[:HeaderSize]
	copy(hdr.raw[:], p)

	hdr.CRC32 = u32le(p[0:])
	hdr.Size = u32le(p[4:])
	hdr.Serial = u32le(p[8:])
	hdr.RunType = p[12]
	hdr.FPLPlatform = p[13]
	hdr.FPLLot = u16le(p[14:])
	hdr.ModeVersionOrAdhesiveRun = p[16]
	hdr.WaveformVersion = p[17]
	hdr.WaveformSubVersion = p[18]
	hdr.WaveformType = p[19]
	hdr.FPLSize = p[20]
	hdr.MfgCode = p[21]
	hdr.TuningBiasOrRev = p[22]
	hdr.FPLRateBCD = p[23]
	hdr.Unknown0 = p[24]
	hdr.VCOMShifted = p[25]
	hdr.Unknown1 = u16le(p[26:])
	hdr.XwiaAddr = u24le(p[28:])
	hdr.FieldSum = p[31]
	hdr.ModeTable = u24le(p[32:])
	hdr.FVSN = p[35]
	hdr.LUTs = p[36]
	hdr.ModeCount = p[37]
	hdr.TempRangeCount = p[38]
	hdr.AdvancedFlags = AdvancedFlags(p[39])
	hdr.EB = p[40]
	hdr.SB = p[41]
	copy(hdr.Reserved[:], p[42:47])
	hdr.CS2 = p[47]

	return nil
}

// MarshalBinary encodes the header fields.
// Stored checksums are written as they are: see Writer for a way to
// compute them.
func (hdr *Header) MarshalBinary() ([]byte, error) {
	p := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(p[0:], hdr.CRC32)
	binary.LittleEndian.PutUint32(p[4:], hdr.Size)
	binary.LittleEndian.PutUint32(p[8:], hdr.Serial)
	p[12] = hdr.RunType
	p[13] = hdr.FPLPlatform
	binary.LittleEndian.PutUint16(p[14:], hdr.FPLLot)
	p[16] = hdr.ModeVersionOrAdhesiveRun
	p[17] = hdr.WaveformVersion
	p[18] = hdr.WaveformSubVersion
	p[19] = hdr.WaveformType
	p[20] = hdr.FPLSize
	p[21] = hdr.MfgCode
	p[22] = hdr.TuningBiasOrRev
	p[23] = hdr.FPLRateBCD
	p[24] = hdr.Unknown0
	p[25] = hdr.VCOMShifted
	binary.LittleEndian.PutUint16(p[26:], hdr.Unknown1)
	if hdr.XwiaAddr > 0xffffff {
		return nil, xerrors.Errorf("wbf: xwia address 0x%x overflows 24 bits", hdr.XwiaAddr)
	}
	putU24le(p[28:], hdr.XwiaAddr)
	p[31] = hdr.FieldSum
	if hdr.ModeTable > 0xffffff {
		return nil, xerrors.Errorf("wbf: mode table address 0x%x overflows 24 bits", hdr.ModeTable)
	}
	putU24le(p[32:], hdr.ModeTable)
	p[35] = hdr.FVSN
	p[36] = hdr.LUTs
	p[37] = hdr.ModeCount
	p[38] = hdr.TempRangeCount
	p[39] = uint8(hdr.AdvancedFlags)
	p[40] = hdr.EB
	p[41] = hdr.SB
	copy(p[42:47], hdr.Reserved[:])
	p[47] = hdr.CS2
	return p, nil
}

// Bytes returns the header bytes as they were decoded.
func (hdr *Header) Bytes() []byte {
	return hdr.raw[:]
}

// NumModes returns the number of modes.
func (hdr *Header) NumModes() int { return int(hdr.ModeCount) + 1 }

// NumRanges returns the number of temperature ranges.
func (hdr *Header) NumRanges() int { return int(hdr.TempRangeCount) + 1 }

// BitsPerPixel returns the number of bits per pixel of the waveforms.
func (hdr *Header) BitsPerPixel() int {
	if hdr.LUTs&0xc == 4 {
		return 5
	}
	return 4
}

// ModeVersion returns the mode version, if the FPL platform has one.
func (hdr *Header) ModeVersion() (uint8, bool) {
	if !hdr.HasModeVersion() {
		return 0, false
	}
	return hdr.ModeVersionOrAdhesiveRun, true
}

// AdhesiveRunNumber returns the adhesive run number, if the FPL
// platform has one.
func (hdr *Header) AdhesiveRunNumber() (uint8, bool) {
	if hdr.HasModeVersion() {
		return 0, false
	}
	return hdr.ModeVersionOrAdhesiveRun, true
}

// FPLRate returns the FPL rate, in Hz.
func (hdr *Header) FPLRate() (int, bool) {
	return BCD(hdr.FPLRateBCD)
}

// TuningKind describes the meaning of the waveform-type dependent byte.
type TuningKind uint8

const (
	TuningUnknown TuningKind = iota
	TuningBias
	TuningRevision
)

func (k TuningKind) String() string {
	switch k {
	case TuningBias:
		return "tuning bias"
	case TuningRevision:
		return "revision"
	}
	return "unknown"
}

// Tuning is the waveform-type dependent header byte.
type Tuning struct {
	Kind  TuningKind
	Value uint8
}

// Tuning returns the waveform-type dependent header byte, tagged with
// its meaning.
func (hdr *Header) Tuning() Tuning {
	t := Tuning{Value: hdr.TuningBiasOrRev}
	switch {
	case hdr.WaveformType <= 0x15:
		t.Kind = TuningBias
	case hdr.WaveformType >= 0x2b:
		t.Kind = TuningRevision
	}
	return t
}

// TuningBias returns the waveform tuning bias, if any.
func (hdr *Header) TuningBias() (uint8, bool) {
	t := hdr.Tuning()
	return t.Value, t.Kind == TuningBias
}

// Revision returns the waveform revision, if any.
func (hdr *Header) Revision() (uint8, bool) {
	t := hdr.Tuning()
	return t.Value, t.Kind == TuningRevision
}

// VerifyCRC checks the whole-header CRC-32 against the first Size
// bytes of data.
func (hdr *Header) VerifyCRC(data []byte) error {
	if uint64(len(data)) < uint64(hdr.Size) || hdr.Size < 4 {
		return &ValidationError{
			Kind: Truncated,
			Msg:  fmt.Sprintf("CRC needs %d bytes, got %d", hdr.Size, len(data)),
		}
	}
	want := CRC(data, hdr.Size)
	if hdr.CRC32 != want {
		return &ChecksumError{Kind: HeaderCRC, Offset: 0, Got: hdr.CRC32, Want: want}
	}
	return nil
}

// CRC computes the whole-header CRC-32 of data[4:size].
func CRC(data []byte, size uint32) uint32 {
	return crc32.Update(crcSeed, crc32.IEEETable, data[4:size])
}

// SumFields computes the 8-bit sum of the header bytes [7,30).
func SumFields(hdr []byte) uint8 {
	return sum8.Checksum(0, hdr[fieldSumBeg:fieldSumEnd])
}

// AdvancedFlags holds the advanced waveform flags.
type AdvancedFlags uint8

// VoltageControl reports whether advanced voltage control is enabled.
func (f AdvancedFlags) VoltageControl() bool { return f&0x1 != 0 }

// AlgorithmControl reports whether advanced algorithm control is enabled.
func (f AdvancedFlags) AlgorithmControl() bool { return f&0x2 != 0 }
