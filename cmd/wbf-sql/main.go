// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// wbf-sql records E Ink waveform files into the waveform catalog
// database, and lists the recorded files.
//
// Usage: wbf-sql [OPTIONS] [FILE1 [FILE2 ...]]
//
// Example:
//
//	$> wbf-sql ./testdata/ED060XC3.wbf
//	$> wbf-sql -list
//	$> wbf-sql -serial 42
package main // import "github.com/go-lpc/inkwave/cmd/wbf-sql"

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-lpc/inkwave/catalog"
	"github.com/go-lpc/inkwave/internal/xcnv"
)

func main() {
	log.SetPrefix("wbf-sql: ")
	log.SetFlags(0)

	var (
		dbname = flag.String("db", "inkwave", "name of the catalog database")
		list   = flag.Bool("list", false, "list recorded waveform files")
		serial = flag.Uint("serial", 0, "list recorded waveform files with this serial number")
	)

	flag.Parse()

	if flag.NArg() == 0 && !*list && *serial == 0 {
		flag.Usage()
		log.Fatalf("missing path to input waveform file")
	}

	db, err := catalog.Open(*dbname)
	if err != nil {
		log.Fatalf("could not open catalog db: %+v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	msg := log.New(os.Stdout, "wbf-sql: ", 0)
	err = record(ctx, db, flag.Args(), msg)
	if err != nil {
		log.Fatalf("could not record waveform files: %+v", err)
	}

	switch {
	case *serial != 0:
		err = display(ctx, os.Stdout, db, uint32(*serial))
	case *list:
		err = display(ctx, os.Stdout, db, 0)
	}
	if err != nil {
		log.Fatalf("could not list waveform files: %+v", err)
	}
}

func record(ctx context.Context, db *catalog.DB, fnames []string, msg *log.Logger) error {
	for _, fname := range fnames {
		rep, err := xcnv.ConvertFile("", fname, 0, nil)
		if err != nil {
			return fmt.Errorf("could not inspect %q: %w", fname, err)
		}

		e := catalog.EntryFrom(filepath.Base(fname), rep)
		err = db.Insert(ctx, e)
		if err != nil {
			return fmt.Errorf("could not record %q: %w", fname, err)
		}
		msg.Printf("recorded %q (serial=%d, modes=%d, ranges=%d)", e.Name, e.Serial, e.Modes, e.Ranges)
	}
	return nil
}

// display lists the recorded waveform files.
// A zero serial lists all of them.
func display(ctx context.Context, w io.Writer, db *catalog.DB, serial uint32) error {
	var (
		entries []catalog.Entry
		err     error
	)
	switch serial {
	case 0:
		entries, err = db.List(ctx)
	default:
		entries, err = db.BySerial(ctx, serial)
	}
	if err != nil {
		return fmt.Errorf("could not retrieve catalog entries: %w", err)
	}

	for _, e := range entries {
		fmt.Fprintf(w,
			"%-24s serial=%-8d mfg=0x%02x lot=%-5d type=0x%02x modes=%-3d ranges=%-3d waveforms=%-4d bpp=%d crc=0x%08x xwia=%q\n",
			e.Name, e.Serial, e.MfgCode, e.FPLLot, e.WaveformType,
			e.Modes, e.Ranges, e.UniqueWaveforms, e.BitsPerPixel, e.CRC32, e.Xwia,
		)
	}
	return nil
}
