// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wbf

import "fmt"

// UpdateMode is the index of a display update mode in the mode table.
type UpdateMode uint8

const (
	ModeINIT     UpdateMode = iota // panel initialization
	ModeDU                         // direct update, 1bpp
	ModeGC16                       // high fidelity, flashing, 4bpp
	ModeGC16Fast                   // medium fidelity, 4bpp
	ModeA2                         // animation update
	ModeGL16                       // high fidelity from white transition, 4bpp
	ModeGL16Fast                   // medium fidelity from white transition, 4bpp
	ModeDU4                        // direct update, text to text, 2bpp
	ModeREAGL                      // non-flashing, ghost-compensation
	ModeREAGLD                     // non-flashing, ghost-compensation with dithering
	ModeGL4                        // 2-bit from white transition, 2bpp
	ModeGL16Inv                    // high fidelity for black transition, 4bpp
)

var modeNames = [...]string{
	ModeINIT:     "INIT",
	ModeDU:       "DU",
	ModeGC16:     "GC16",
	ModeGC16Fast: "GC16_FAST",
	ModeA2:       "A2",
	ModeGL16:     "GL16",
	ModeGL16Fast: "GL16_FAST",
	ModeDU4:      "DU4",
	ModeREAGL:    "REAGL",
	ModeREAGLD:   "REAGLD",
	ModeGL4:      "GL4",
	ModeGL16Inv:  "GL16_INV",
}

func (m UpdateMode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("UpdateMode(%d)", uint8(m))
}

// HasModeVersion reports whether the update modes of the file follow
// the UpdateMode numbering.
// Files from FPL platforms before 3 do not carry a mode version.
func (hdr *Header) HasModeVersion() bool {
	return hdr.FPLPlatform >= 3
}
