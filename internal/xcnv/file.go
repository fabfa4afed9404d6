// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xcnv

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/go-lpc/inkwave/internal/mmap"
	"github.com/go-lpc/inkwave/wbf"
)

// ConvertFile inspects the named waveform file, and converts it to the
// .wrf file oname, if oname is not empty.
// A zero format is inferred from the extension of fname.
//
// The output is written to a temporary file, renamed to oname once the
// conversion succeeded.
func ConvertFile(oname, fname string, format wbf.Format, msg *log.Logger) (*Report, error) {
	if format == 0 {
		var err error
		format, err = wbf.FormatOf(fname)
		if err != nil {
			return nil, fmt.Errorf("could not detect format of %q: %w", fname, err)
		}
	}

	n := int64(-1)
	if format == wbf.WRF {
		n = wbf.HeaderSize
	}
	h, err := mmap.Open(fname, n)
	if err != nil {
		return nil, fmt.Errorf("could not open input file: %w", err)
	}
	defer h.Close()

	f, err := wbf.Open(h.Bytes(), format)
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %w", fname, err)
	}

	if oname == "" {
		return Convert(f, nil, msg)
	}

	o, err := os.CreateTemp(filepath.Dir(oname), "."+filepath.Base(oname)+"-")
	if err != nil {
		return nil, fmt.Errorf("could not create output file: %w", err)
	}
	defer func() {
		_ = o.Close()
		_ = os.Remove(o.Name())
	}()

	rep, err := Convert(f, o, msg)
	if err != nil {
		return nil, fmt.Errorf("could not convert %q: %w", fname, err)
	}

	err = o.Chmod(0644)
	if err != nil {
		return nil, fmt.Errorf("could not set output file mode: %w", err)
	}

	err = o.Close()
	if err != nil {
		return nil, fmt.Errorf("could not close output file: %w", err)
	}

	err = os.Rename(o.Name(), oname)
	if err != nil {
		return nil, fmt.Errorf("could not rename output file: %w", err)
	}

	return rep, nil
}
