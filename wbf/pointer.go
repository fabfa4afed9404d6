// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wbf

import (
	"fmt"
)

// Pointer is a 24-bit address stored with an 8-bit checksum of its
// three address bytes in the most significant byte.
type Pointer struct {
	Addr uint32
	Sum  uint8
}

// DecodePointer decodes a pointer from its 32-bit little-endian word.
// DecodePointer reports whether the stored checksum is valid.
func DecodePointer(v uint32) (Pointer, bool) {
	ptr := Pointer{
		Addr: v & 0xffffff,
		Sum:  uint8(v >> 24),
	}
	return ptr, ptr.Valid()
}

// MakePointer returns a valid pointer to addr.
// Only the 24 low bits of addr are kept.
func MakePointer(addr uint32) Pointer {
	addr &= 0xffffff
	return Pointer{Addr: addr, Sum: pointerSum(addr)}
}

func pointerSum(addr uint32) uint8 {
	return uint8(addr) + uint8(addr>>8) + uint8(addr>>16)
}

// Valid reports whether the checksum matches the address.
func (ptr Pointer) Valid() bool {
	return ptr.Addr <= 0xffffff && ptr.Sum == pointerSum(ptr.Addr)
}

// Uint32 returns the 32-bit word encoding the pointer.
func (ptr Pointer) Uint32() uint32 {
	return uint32(ptr.Sum)<<24 | ptr.Addr&0xffffff
}

func (ptr Pointer) String() string {
	return fmt.Sprintf("0x%06x[0x%02x]", ptr.Addr, ptr.Sum)
}
