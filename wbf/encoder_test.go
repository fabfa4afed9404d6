// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wbf

import (
	"bytes"
	"testing"
)

func TestEncoder(t *testing.T) {
	img := testImage(t)

	want, err := Marshal(img)
	if err != nil {
		t.Fatalf("could not marshal image: %+v", err)
	}

	buf := new(bytes.Buffer)
	err = NewEncoder(buf).Encode(img)
	if err != nil {
		t.Fatalf("could not encode image: %+v", err)
	}

	if got := buf.Bytes(); !bytes.Equal(got, want) {
		t.Fatalf("invalid encoded image")
	}

	hdr, err := ParseHeader(want)
	if err != nil {
		t.Fatalf("could not parse header: %+v", err)
	}
	if got, want := hdr.XwiaAddr, uint32(HeaderSize+len(img.Bounds)+1); got != want {
		t.Fatalf("invalid xwia address: got=0x%x, want=0x%x", got, want)
	}
	if got, want := hdr.ModeTable, hdr.XwiaAddr+uint32(len(img.Xwia))+2; got != want {
		t.Fatalf("invalid mode table address: got=0x%x, want=0x%x", got, want)
	}

	// the input image is left untouched.
	if img.Header.Size != 0 || img.Header.ModeTable != 0 {
		t.Fatalf("image header was modified: %+v", img.Header)
	}
}

func TestMarshalErrors(t *testing.T) {
	for _, tc := range []struct {
		name  string
		patch func(img *Image)
		err   string
	}{
		{
			name:  "no-modes",
			patch: func(img *Image) { img.Waveforms = nil },
			err:   "wbf: invalid number of modes (0)",
		},
		{
			name:  "no-ranges",
			patch: func(img *Image) { img.Waveforms[0] = nil },
			err:   "wbf: invalid number of temperature ranges (0)",
		},
		{
			name:  "ragged-ranges",
			patch: func(img *Image) { img.Waveforms[1] = img.Waveforms[1][:2] },
			err:   "wbf: mode 1 has 2 temperature ranges, want 3",
		},
		{
			name:  "bounds",
			patch: func(img *Image) { img.Bounds = img.Bounds[:3] },
			err:   "wbf: invalid number of temperature boundaries (got=3, want=4)",
		},
		{
			name:  "xwia-too-long",
			patch: func(img *Image) { img.Xwia = make([]byte, 256) },
			err:   "wbf: xwia too long (256 bytes)",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			img := testImage(t)
			tc.patch(img)
			_, err := Marshal(img)
			if err == nil {
				t.Fatalf("expected an error")
			}
			if got, want := err.Error(), tc.err; got != want {
				t.Fatalf("invalid error:\ngot= %v\nwant=%v", got, want)
			}
		})
	}
}
