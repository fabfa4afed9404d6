// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package addrtab

import (
	"errors"
	"math/rand"
	"reflect"
	"sort"
	"testing"
)

func TestTable(t *testing.T) {
	tbl := New(0)
	for _, addr := range []uint32{0x300, 0x100, 0x200, 0x100, 0x400, 0x200} {
		_, err := tbl.Add(addr)
		if err != nil {
			t.Fatalf("could not add 0x%x: %+v", addr, err)
		}
	}

	if got, want := tbl.Addrs(), []uint32{0x100, 0x200, 0x300, 0x400}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid addresses:\ngot= %#x\nwant=%#x", got, want)
	}

	for _, tc := range []struct {
		addr uint32
		n    uint32
		ok   bool
	}{
		{0x100, 0x100, true},
		{0x200, 0x100, true},
		{0x300, 0x100, true},
		{0x400, 0, false}, // last entry has no successor
		{0x150, 0, false}, // not present
		{0x000, 0, false},
		{0x500, 0, false},
	} {
		n, ok := tbl.Len(tc.addr)
		if n != tc.n || ok != tc.ok {
			t.Fatalf("invalid len(0x%x): got=(0x%x, %v), want=(0x%x, %v)", tc.addr, n, ok, tc.n, tc.ok)
		}
	}
}

func TestAddDuplicate(t *testing.T) {
	tbl := New(2)
	added, err := tbl.Add(10)
	if err != nil || !added {
		t.Fatalf("could not add first address: added=%v err=%+v", added, err)
	}
	added, err = tbl.Add(10)
	if err != nil || added {
		t.Fatalf("duplicate should not be added: added=%v err=%+v", added, err)
	}
	if got, want := tbl.Count(), 1; got != want {
		t.Fatalf("invalid count: got=%d, want=%d", got, want)
	}
}

func TestCapacity(t *testing.T) {
	tbl := New(3)
	for _, addr := range []uint32{1, 2, 3} {
		if _, err := tbl.Add(addr); err != nil {
			t.Fatalf("could not add %d: %+v", addr, err)
		}
	}

	// duplicates never exceed the capacity.
	if _, err := tbl.Add(2); err != nil {
		t.Fatalf("could not re-add 2: %+v", err)
	}

	_, err := tbl.Add(4)
	var cerr *CapacityError
	if !errors.As(err, &cerr) {
		t.Fatalf("invalid error: got=%+v, want a capacity error", err)
	}
	if got, want := cerr.Max, 3; got != want {
		t.Fatalf("invalid capacity: got=%d, want=%d", got, want)
	}
	if got, want := err.Error(), "addrtab: too many addresses (max=3, addr=0x4)"; got != want {
		t.Fatalf("invalid error message:\ngot= %q\nwant=%q", got, want)
	}
}

func TestInsertionOrder(t *testing.T) {
	const end = 0x10000
	addrs := []uint32{0x30, 0x1000, 0x2a0, 0x44, 0x9000, 0x31, 0x800}
	sorted := append([]uint32(nil), addrs...)
	sorted = append(sorted, end)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	want := make(map[uint32]uint32, len(addrs))
	for i, addr := range sorted[:len(sorted)-1] {
		want[addr] = sorted[i+1] - addr
	}

	rnd := rand.New(rand.NewSource(1234))
	for i := 0; i < 50; i++ {
		perm := rnd.Perm(len(addrs))
		tbl := New(len(addrs) + 1)
		if _, err := tbl.Add(end); err != nil {
			t.Fatalf("could not add sentinel: %+v", err)
		}
		for _, j := range perm {
			if _, err := tbl.Add(addrs[j]); err != nil {
				t.Fatalf("could not add 0x%x: %+v", addrs[j], err)
			}
		}
		for addr, n := range want {
			got, ok := tbl.Len(addr)
			if !ok || got != n {
				t.Fatalf("perm=%v: invalid len(0x%x): got=(%d, %v), want=%d", perm, addr, got, ok, n)
			}
		}
	}
}
