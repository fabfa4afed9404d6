// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wrf

import (
	"io"

	"golang.org/x/xerrors"
)

// Buffer is an in-memory io.WriteSeeker.
// Writing past the end of the buffer zero-fills the gap.
type Buffer struct {
	p []byte
	c int64
}

// Bytes returns the content of the buffer.
func (w *Buffer) Bytes() []byte { return w.p }

// Len returns the number of bytes of the buffer.
func (w *Buffer) Len() int { return len(w.p) }

func (w *Buffer) Write(p []byte) (int, error) {
	end := int(w.c) + len(p)
	if end > len(w.p) {
		if end > cap(w.p) {
			buf := make([]byte, end, 2*end)
			copy(buf, w.p)
			w.p = buf
		} else {
			n := len(w.p)
			w.p = w.p[:end]
			for i := n; i < end; i++ {
				w.p[i] = 0
			}
		}
	}
	n := copy(w.p[w.c:], p)
	w.c += int64(n)
	return n, nil
}

func (w *Buffer) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = w.c + offset
	case io.SeekEnd:
		pos = int64(len(w.p)) + offset
	default:
		return w.c, xerrors.Errorf("wrf: invalid whence %d", whence)
	}
	if pos < 0 {
		return w.c, xerrors.Errorf("wrf: negative position %d", pos)
	}
	w.c = pos
	return pos, nil
}

var (
	_ io.WriteSeeker = (*Buffer)(nil)
)
