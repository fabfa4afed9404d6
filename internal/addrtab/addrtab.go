// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package addrtab holds a sorted, deduplicated table of file offsets.
//
// A table is used to infer the length of a variable-sized block as the
// distance to the next known offset. All the offsets must be known
// before any length is queried.
package addrtab // import "github.com/go-lpc/inkwave/internal/addrtab"

import (
	"fmt"
	"sort"
)

// CapacityError is returned when a table is asked to hold more distinct
// addresses than its capacity.
type CapacityError struct {
	Max  int    // capacity of the table
	Addr uint32 // address that could not be inserted
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("addrtab: too many addresses (max=%d, addr=0x%x)", e.Max, e.Addr)
}

// Table is a sorted set of addresses.
type Table struct {
	max   int
	addrs []uint32
}

// New returns an empty table holding at most max addresses.
// A zero or negative max means no limit.
func New(max int) *Table {
	tbl := &Table{max: max}
	if max > 0 && max <= 4096 {
		tbl.addrs = make([]uint32, 0, max)
	}
	return tbl
}

func (tbl *Table) search(addr uint32) int {
	return sort.Search(len(tbl.addrs), func(i int) bool {
		return tbl.addrs[i] >= addr
	})
}

// Add inserts addr in the table.
// Add returns false if addr was already present.
func (tbl *Table) Add(addr uint32) (bool, error) {
	i := tbl.search(addr)
	if i < len(tbl.addrs) && tbl.addrs[i] == addr {
		return false, nil
	}
	if tbl.max > 0 && len(tbl.addrs) >= tbl.max {
		return false, &CapacityError{Max: tbl.max, Addr: addr}
	}

	tbl.addrs = append(tbl.addrs, 0)
	copy(tbl.addrs[i+1:], tbl.addrs[i:])
	tbl.addrs[i] = addr
	return true, nil
}

// Len returns the distance between addr and the next address in the table.
// Len returns false if addr is not in the table or if it is the last one.
func (tbl *Table) Len(addr uint32) (uint32, bool) {
	i := tbl.search(addr)
	if i >= len(tbl.addrs)-1 || tbl.addrs[i] != addr {
		return 0, false
	}
	return tbl.addrs[i+1] - addr, true
}

// Count returns the number of addresses in the table.
func (tbl *Table) Count() int { return len(tbl.addrs) }

// Addrs returns a copy of the sorted addresses.
func (tbl *Table) Addrs() []uint32 {
	out := make([]uint32, len(tbl.addrs))
	copy(out, tbl.addrs)
	return out
}
