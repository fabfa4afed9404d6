// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// inkwave inspects E Ink waveform files and converts them from the
// .wbf format to the .wrf format.
//
// Usage: inkwave [OPTIONS] FILE1 [FILE2 [FILE3 ...]]
//
// Without -o, inkwave displays the content of each input file.
// With -o and a single input file, the input is converted to the named
// .wrf file. With several input files, -o names the output directory and
// the files are converted concurrently.
//
// Example:
//
//	$> inkwave ./testdata/ED060XC3.wbf
//	$> inkwave -o ED060XC3.wrf ./testdata/ED060XC3.wbf
//	$> inkwave -o ./out ./testdata/*.wbf
package main // import "github.com/go-lpc/inkwave/cmd/inkwave"

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-lpc/inkwave"
	"github.com/go-lpc/inkwave/internal/xcnv"
	"github.com/go-lpc/inkwave/wbf"
	"golang.org/x/sync/errgroup"
)

func main() {
	log.SetPrefix("inkwave: ")
	log.SetFlags(0)

	err := xmain(os.Stdout, os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("%+v", err)
	}
}

func xmain(w io.Writer, args []string) error {
	fset := flag.NewFlagSet("inkwave", flag.ContinueOnError)

	var (
		fmtName = fset.String("f", "", "force the input format (wbf|wrf)")
		oname   = fset.String("o", "", "path to the output .wrf file, or output directory")
		doPrint = fset.Bool("p", false, "display the input files even when converting")
		trace   = fset.Bool("t", false, "trace decoded waveforms")
		vers    = fset.Bool("version", false, "display version and exit")
	)

	fset.Usage = func() {
		fmt.Fprintf(fset.Output(), `inkwave inspects and converts E Ink waveform files.

Usage: inkwave [OPTIONS] FILE1 [FILE2 [FILE3 ...]]

Example:

 $> inkwave ./testdata/ED060XC3.wbf
 $> inkwave -o ED060XC3.wrf ./testdata/ED060XC3.wbf
 $> inkwave -o ./out ./testdata/*.wbf

Options:
`)
		fset.PrintDefaults()
	}

	err := fset.Parse(args)
	if err != nil {
		return err
	}

	if *vers {
		version, sum := inkwave.Version()
		if version == "" {
			version = "(devel)"
		}
		fmt.Fprintf(w, "inkwave %s %s\n", version, sum)
		return nil
	}

	if fset.NArg() == 0 {
		fset.Usage()
		return fmt.Errorf("missing path to input waveform file")
	}

	var format wbf.Format
	if *fmtName != "" {
		format, err = wbf.ParseFormat(*fmtName)
		if err != nil {
			return fmt.Errorf("could not parse input format: %w", err)
		}
	}

	if *trace {
		_ = flag.Set("logtostderr", "true")
		_ = flag.Set("v", "2")
	}

	var (
		fnames = fset.Args()
		outs   []string
	)
	outs, err = outputsOf(*oname, fnames)
	if err != nil {
		return fmt.Errorf("could not setup outputs: %w", err)
	}

	var (
		grp  errgroup.Group
		msg  = log.New(os.Stderr, "inkwave: ", 0)
		bufs = make([]bytes.Buffer, len(fnames))
		show = *doPrint || *oname == ""
	)
	for i := range fnames {
		i := i
		grp.Go(func() error {
			return process(&bufs[i], outs[i], fnames[i], format, show, msg)
		})
	}
	err = grp.Wait()

	for i := range bufs {
		_, werr := bufs[i].WriteTo(w)
		if werr != nil && err == nil {
			err = fmt.Errorf("could not write report of %q: %w", fnames[i], werr)
		}
	}

	return err
}

// outputsOf returns the output file of each input file.
// A single input is converted to oname, unless oname is a directory.
func outputsOf(oname string, fnames []string) ([]string, error) {
	outs := make([]string, len(fnames))
	if oname == "" {
		return outs, nil
	}

	fi, err := os.Stat(oname)
	switch {
	case err == nil && fi.IsDir():
		// ok.
	case len(fnames) == 1:
		outs[0] = oname
		return outs, nil
	case errors.Is(err, os.ErrNotExist):
		err = os.MkdirAll(oname, 0755)
		if err != nil {
			return nil, fmt.Errorf("could not create output directory: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("could not stat output directory: %w", err)
	default:
		return nil, fmt.Errorf("output %q is not a directory", oname)
	}

	seen := make(map[string]string, len(fnames))
	for i, fname := range fnames {
		base := filepath.Base(fname)
		base = strings.TrimSuffix(base, filepath.Ext(base)) + ".wrf"
		outs[i] = filepath.Join(oname, base)
		if prev, dup := seen[outs[i]]; dup {
			return nil, fmt.Errorf("inputs %q and %q both convert to %q", prev, fname, outs[i])
		}
		seen[outs[i]] = fname
	}
	return outs, nil
}

func process(w io.Writer, oname, fname string, format wbf.Format, show bool, msg *log.Logger) error {
	fi, err := os.Stat(fname)
	if err != nil {
		return fmt.Errorf("could not stat %q: %w", fname, err)
	}

	rep, err := xcnv.ConvertFile(oname, fname, format, msg)
	if err != nil {
		return fmt.Errorf("could not process %q: %w", fname, err)
	}

	if oname != "" {
		msg.Printf("converted %q to %q", fname, oname)
	}

	if !show {
		return nil
	}

	fmt.Fprintf(w, "\nFile size: %d bytes\n\n", fi.Size())
	err = rep.Print(w)
	if err != nil {
		return fmt.Errorf("could not display %q: %w", fname, err)
	}

	return nil
}
