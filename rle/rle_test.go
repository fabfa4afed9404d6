// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rle

import (
	"bytes"
	"math/rand"
	"reflect"
	"testing"
)

func TestPackedState(t *testing.T) {
	s := PackedState(0x05)
	if got, want := s.Channels(), [4]uint8{1, 1, 0, 0}; got != want {
		t.Fatalf("invalid channels: got=%v, want=%v", got, want)
	}

	s = PackedState(0xe4) // 0b11_10_01_00
	if got, want := s.Channels(), [4]uint8{0, 1, 2, 3}; got != want {
		t.Fatalf("invalid channels: got=%v, want=%v", got, want)
	}

	if got, want := Pack(0, 1, 2, 3), s; got != want {
		t.Fatalf("invalid packed state: got=0x%x, want=0x%x", got, want)
	}
}

func TestDecode(t *testing.T) {
	for _, tc := range []struct {
		name string
		raw  []byte
		want Waveform
	}{
		{
			name: "empty",
			raw:  nil,
			want: Waveform{Runs: []Run{}},
		},
		{
			name: "single-byte",
			raw:  []byte{0x05},
			want: Waveform{
				Runs:       []Run{{0x05, 1}},
				StateCount: 4,
			},
		},
		{
			name: "pairs",
			raw:  []byte{0x05, 0x00, 0xaa, 0x09},
			want: Waveform{
				Runs:       []Run{{0x05, 1}, {0xaa, 10}},
				StateCount: 44,
			},
		},
		{
			name: "count-byte-is-terminator",
			raw:  []byte{0x05, 0xfc, 0x81},
			want: Waveform{
				Runs:       []Run{{0x05, 253}, {0x81, 1}},
				StateCount: 254 * 4,
			},
		},
		{
			name: "terminator-block",
			raw:  []byte{0x05, 0x00, 0xfc, 0x81, 0x42, 0xfc, 0x11, 0x02},
			want: Waveform{
				Runs:       []Run{{0x05, 1}, {0x81, 1}, {0x42, 1}, {0x11, 3}},
				StateCount: 24,
			},
		},
		{
			name: "unterminated-block",
			raw:  []byte{0xfc, 0x01, 0x02, 0x03},
			want: Waveform{
				Runs:       []Run{{0x01, 1}, {0x02, 1}, {0x03, 1}},
				StateCount: 12,
			},
		},
		{
			name: "last-byte-forced-count",
			raw:  []byte{0x01, 0x10, 0x02},
			want: Waveform{
				Runs:       []Run{{0x01, 17}, {0x02, 1}},
				StateCount: 72,
			},
		},
		{
			name: "state-count-wraps",
			raw:  bytes.Repeat([]byte{0x55, 0xff}, 65),
			want: Waveform{
				Runs:       repeat(Run{0x55, 256}, 65),
				StateCount: uint16((65 * 256 * 4) & 0xffff),
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := Decode(tc.raw)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("invalid waveform:\ngot= %+v\nwant=%+v", got, tc.want)
			}
		})
	}
}

func TestPhases(t *testing.T) {
	wf := Decode([]byte{0x01, 0xff, 0x02, 0x3f})
	if got, want := wf.Repeats(), 256+64; got != want {
		t.Fatalf("invalid repeats: got=%d, want=%d", got, want)
	}
	if got, want := wf.Phases(), 5; got != want {
		t.Fatalf("invalid phases: got=%d, want=%d", got, want)
	}
}

func TestEncode(t *testing.T) {
	for _, tc := range []struct {
		name string
		runs []Run
		want []byte
		err  string
	}{
		{
			name: "empty",
			runs: nil,
			want: []byte{},
		},
		{
			name: "lone-count-1",
			runs: []Run{{0x05, 1}},
			want: []byte{0x05, 0x00},
		},
		{
			name: "group",
			runs: []Run{{0x05, 2}, {0x81, 1}, {0x42, 1}, {0x11, 3}},
			want: []byte{0x05, 0x01, 0xfc, 0x81, 0x42, 0xfc, 0x11, 0x02},
		},
		{
			name: "split-256",
			runs: []Run{{0x01, 256}, {0x02, 512}},
			want: []byte{0x01, 0xff, 0x02, 0xff, 0x02, 0xff},
		},
		{
			name: "split-257",
			runs: []Run{{0x01, 257}},
			want: []byte{0x01, 0xfe, 0x01, 0x01},
		},
		{
			name: "terminator-state",
			runs: []Run{{0x01, 2}, {Terminator, 1}},
			err:  "rle: run 1: state 0xfc can not be encoded",
		},
		{
			name: "terminator-state-in-group",
			runs: []Run{{0x01, 1}, {Terminator, 1}},
			err:  "rle: run 1: state 0xfc can not be encoded",
		},
		{
			name: "zero-count",
			runs: []Run{{0x01, 0}},
			err:  "rle: run 0: invalid count 0",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Encode(tc.runs)
			switch {
			case err != nil && tc.err != "":
				if got, want := err.Error(), tc.err; got != want {
					t.Fatalf("invalid error:\ngot= %v\nwant=%v", got, want)
				}
				return
			case err != nil:
				t.Fatalf("could not encode runs: %+v", err)
			case tc.err != "":
				t.Fatalf("expected an error: %s", tc.err)
			}
			if !bytes.Equal(got, tc.want) {
				t.Fatalf("invalid encoding:\ngot= % x\nwant=% x", got, tc.want)
			}
		})
	}
}

func TestIdempotence(t *testing.T) {
	for _, seg := range [][]byte{
		{},
		{0x05, 0x00},
		{0x05, 0x01, 0xfc, 0x81, 0x42, 0xfc, 0x11, 0x02},
		{0xfc, 0x01, 0x02, 0x03, 0xfc},
		{0x01, 0xff, 0x01, 0xfb, 0xfc, 0x02, 0x03, 0xfc, 0x04, 0x01},
	} {
		got, err := Encode(Decode(seg).Runs)
		if err != nil {
			t.Fatalf("could not encode % x: %+v", seg, err)
		}
		if !bytes.Equal(got, seg) {
			t.Fatalf("invalid round-trip:\ngot= % x\nwant=% x", got, seg)
		}
	}
}

func TestRoundTripRandom(t *testing.T) {
	rnd := rand.New(rand.NewSource(1234))
	for i := 0; i < 200; i++ {
		runs := make([]Run, rnd.Intn(64))
		for j := range runs {
			s := PackedState(rnd.Intn(256))
			if s == Terminator {
				s = 0
			}
			n := 1
			switch rnd.Intn(3) {
			case 0:
				n = 1 + rnd.Intn(4)
			case 1:
				n = 1 + rnd.Intn(700)
			}
			runs[j] = Run{State: s, Count: n}
		}

		seg, err := Encode(runs)
		if err != nil {
			t.Fatalf("could not encode runs: %+v", err)
		}
		wf := Decode(seg)
		if got, want := Expand(wf.Runs), Expand(runs); !bytes.Equal(got, want) {
			t.Fatalf("invalid expanded states after round-trip")
		}

		again, err := Encode(wf.Runs)
		if err != nil {
			t.Fatalf("could not re-encode runs: %+v", err)
		}
		if !bytes.Equal(again, seg) {
			t.Fatalf("canonical encoding is not a fixed point:\ngot= % x\nwant=% x", again, seg)
		}
	}
}

func TestExpandCompress(t *testing.T) {
	runs := []Run{{0x05, 2}, {0x05, 1}, {0xe4, 1}}
	states := Expand(runs)
	want := []byte{
		1, 1, 0, 0,
		1, 1, 0, 0,
		1, 1, 0, 0,
		0, 1, 2, 3,
	}
	if !bytes.Equal(states, want) {
		t.Fatalf("invalid expanded states:\ngot= %v\nwant=%v", states, want)
	}

	got, err := Compress(states)
	if err != nil {
		t.Fatalf("could not compress states: %+v", err)
	}
	if want := []Run{{0x05, 3}, {0xe4, 1}}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid runs:\ngot= %+v\nwant=%+v", got, want)
	}

	_, err = Compress([]byte{1, 2, 3})
	if err == nil {
		t.Fatalf("expected an error for a truncated state")
	}
	_, err = Compress([]byte{1, 2, 3, 4})
	if got, want := err.Error(), "rle: invalid channel value 0x4 at index 3"; got != want {
		t.Fatalf("invalid error:\ngot= %v\nwant=%v", got, want)
	}
}

func repeat(run Run, n int) []Run {
	out := make([]Run, n)
	for i := range out {
		out[i] = run
	}
	return out
}
