// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rle decodes and encodes the run-length coded payload of a single
// E Ink waveform segment.
//
// A segment is a sequence of packed states, each holding four 2-bit channel
// values. In the normal state, a packed state is followed by a count byte
// holding the number of repetitions minus one. The Terminator byte toggles
// a block of packed states with an implicit count of one.
package rle // import "github.com/go-lpc/inkwave/rle"

import (
	"golang.org/x/xerrors"
)

const (
	// Terminator starts and ends a block of one-byte runs.
	Terminator = 0xfc

	// MaxCount is the largest repetition count a single run pair can encode.
	MaxCount = 256

	// StatesPerRepeat is the number of output bytes per repetition of a
	// packed state.
	StatesPerRepeat = 4
)

// Trailer is written after every encoded segment in place of the two
// trailing bytes whose meaning is unknown.
// The first one is always 0xff, the second one can not be reconstructed.
var Trailer = [2]byte{0xff, 0x00}

// PackedState holds four 2-bit channel values.
type PackedState uint8

func (s PackedState) S0() uint8 { return uint8(s) & 3 }
func (s PackedState) S1() uint8 { return uint8(s>>2) & 3 }
func (s PackedState) S2() uint8 { return uint8(s>>4) & 3 }
func (s PackedState) S3() uint8 { return uint8(s>>6) & 3 }

// Channels returns the four channel values, s0 first.
func (s PackedState) Channels() [4]uint8 {
	return [4]uint8{s.S0(), s.S1(), s.S2(), s.S3()}
}

// Pack packs four channel values into a state.
func Pack(s0, s1, s2, s3 uint8) PackedState {
	return PackedState(s0&3 | (s1&3)<<2 | (s2&3)<<4 | (s3&3)<<6)
}

// Run is a packed state repeated Count times.
type Run struct {
	State PackedState
	Count int
}

// Waveform is a decoded segment.
type Waveform struct {
	Runs []Run

	// StateCount is 4 times the number of repetitions, truncated
	// to 16 bits as in the .wrf format.
	StateCount uint16
}

// Phases returns the number of phases of the waveform.
func (wf Waveform) Phases() int {
	return int(wf.StateCount >> 8)
}

// Repeats returns the total number of repetitions.
func (wf Waveform) Repeats() int {
	n := 0
	for _, run := range wf.Runs {
		n += run.Count
	}
	return n
}

// Decode decodes a segment payload.
// p must not contain the two trailing bytes of the segment.
func Decode(p []byte) Waveform {
	var (
		wf Waveform
		fc bool // inside a terminator block
	)
	wf.Runs = make([]Run, 0, len(p)/2)

	for i := 0; i < len(p); i++ {
		v := p[i]
		if v == Terminator {
			fc = !fc
			continue
		}

		n := 1
		if !fc && i+1 < len(p) {
			i++
			n = int(p[i]) + 1
		}
		wf.Runs = append(wf.Runs, Run{State: PackedState(v), Count: n})
		wf.StateCount += uint16(n * StatesPerRepeat)
	}

	return wf
}

// Encode encodes runs into a segment payload, without the trailer.
//
// Maximal sequences of two or more runs of count one are written inside a
// terminator block. Other runs are written as (state, count-1) pairs,
// split in chunks of at most MaxCount repetitions.
// Encode fails if a run has a non-positive count or if its state is
// the Terminator.
func Encode(runs []Run) ([]byte, error) {
	out := make([]byte, 0, 2*len(runs))
	for i := 0; i < len(runs); {
		run := runs[i]
		if err := check(i, run); err != nil {
			return nil, err
		}

		if run.Count == 1 {
			j := i + 1
			for j < len(runs) && runs[j].Count == 1 {
				if err := check(j, runs[j]); err != nil {
					return nil, err
				}
				j++
			}
			if j-i > 1 {
				out = append(out, Terminator)
				for _, run := range runs[i:j] {
					out = append(out, byte(run.State))
				}
				out = append(out, Terminator)
				i = j
				continue
			}
		}

		for n := run.Count; n > 0; {
			c := n
			switch {
			case n-MaxCount == 1:
				// the last chunk holds at least 2 repetitions.
				c = MaxCount - 1
			case n > MaxCount:
				c = MaxCount
			}
			out = append(out, byte(run.State), byte(c-1))
			n -= c
		}
		i++
	}
	return out, nil
}

func check(i int, run Run) error {
	if run.State == Terminator {
		return xerrors.Errorf("rle: run %d: state 0x%02x can not be encoded", i, byte(run.State))
	}
	if run.Count < 1 {
		return xerrors.Errorf("rle: run %d: invalid count %d", i, run.Count)
	}
	return nil
}

// Expand returns the channel values of runs, StatesPerRepeat bytes
// per repetition.
func Expand(runs []Run) []byte {
	n := 0
	for _, run := range runs {
		n += run.Count
	}
	out := make([]byte, 0, n*StatesPerRepeat)
	for _, run := range runs {
		ch := run.State.Channels()
		for j := 0; j < run.Count; j++ {
			out = append(out, ch[:]...)
		}
	}
	return out
}

// Compress is the inverse of Expand.
// Consecutive identical states are merged into a single run.
func Compress(states []byte) ([]Run, error) {
	if len(states)%StatesPerRepeat != 0 {
		return nil, xerrors.Errorf("rle: invalid number of channel values (%d)", len(states))
	}

	var runs []Run
	for i := 0; i < len(states); i += StatesPerRepeat {
		ch := states[i : i+StatesPerRepeat]
		for j, v := range ch {
			if v > 3 {
				return nil, xerrors.Errorf("rle: invalid channel value 0x%x at index %d", v, i+j)
			}
		}
		s := Pack(ch[0], ch[1], ch[2], ch[3])
		if n := len(runs); n > 0 && runs[n-1].State == s {
			runs[n-1].Count++
			continue
		}
		runs = append(runs, Run{State: s, Count: 1})
	}
	return runs, nil
}
