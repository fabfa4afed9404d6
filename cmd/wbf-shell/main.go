// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// wbf-shell is an interactive explorer of E Ink waveform files.
//
// Usage: wbf-shell [OPTIONS] FILE
//
// Example:
//
//	$> wbf-shell ./testdata/ED060XC3.wbf
//	wbf> modes
//	wbf> seg 2 5
//	wbf> runs 2 5
//	wbf> quit
package main // import "github.com/go-lpc/inkwave/cmd/wbf-shell"

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/go-lpc/inkwave/internal/mmap"
	"github.com/go-lpc/inkwave/internal/xcnv"
	"github.com/go-lpc/inkwave/rle"
	"github.com/go-lpc/inkwave/wbf"
	"github.com/peterh/liner"
)

func main() {
	log.SetPrefix("wbf-shell: ")
	log.SetFlags(0)

	fmtName := flag.String("f", "", "force the input format (wbf|wrf)")

	flag.Usage = func() {
		fmt.Printf(`wbf-shell is an interactive explorer of E Ink waveform files.

Usage: wbf-shell [OPTIONS] FILE

Options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		log.Fatalf("missing path to input waveform file")
	}

	var format wbf.Format
	if *fmtName != "" {
		var err error
		format, err = wbf.ParseFormat(*fmtName)
		if err != nil {
			log.Fatalf("could not parse input format: %+v", err)
		}
	}

	sh, err := newShell(os.Stdout, flag.Arg(0), format)
	if err != nil {
		log.Fatalf("could not open waveform file: %+v", err)
	}
	defer sh.Close()

	err = sh.run()
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

var cmds = []struct {
	name string
	args string
	help string
}{
	{"header", "", "display the header"},
	{"temps", "", "display the temperature ranges"},
	{"xwia", "", "display the extra waveform info"},
	{"modes", "", "display the modes table"},
	{"mode", "M", "display the waveforms of mode M"},
	{"seg", "M R", "display the waveform of mode M and temperature range R"},
	{"runs", "M R", "display the decoded runs of mode M and temperature range R"},
	{"help", "", "display this help message"},
	{"quit", "", "leave the shell"},
}

type shell struct {
	w io.Writer
	h *mmap.Handle
	f *wbf.File

	lay *wbf.Layout // lazily discovered
}

func newShell(w io.Writer, fname string, format wbf.Format) (*shell, error) {
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

	f, err := wbf.Open(h.Bytes(), format)
	if err != nil {
		_ = h.Close()
		return nil, fmt.Errorf("could not open %q: %w", fname, err)
	}

	return &shell{w: w, h: h, f: f}, nil
}

func (sh *shell) Close() error {
	return sh.h.Close()
}

func (sh *shell) run() error {
	term := liner.NewLiner()
	defer term.Close()

	term.SetCtrlCAborts(true)
	term.SetCompleter(complete)

	for {
		line, err := term.Prompt("wbf> ")
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintf(sh.w, "\n")
				return nil
			}
			return fmt.Errorf("could not read command: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		term.AppendHistory(line)

		quit, err := sh.exec(line)
		if err != nil {
			fmt.Fprintf(sh.w, "error: %+v\n", err)
			continue
		}
		if quit {
			return nil
		}
	}
}

func complete(line string) []string {
	var out []string
	for _, cmd := range cmds {
		if strings.HasPrefix(cmd.name, line) {
			out = append(out, cmd.name)
		}
	}
	return out
}

// exec runs a single command line.
func (sh *shell) exec(line string) (quit bool, err error) {
	toks := strings.Fields(line)
	if len(toks) == 0 {
		return false, nil
	}

	name, args := toks[0], toks[1:]
	switch name {
	case "quit", "exit", "q":
		return true, nil
	case "help", "h", "?":
		sh.help()
		return false, nil
	case "header":
		xcnv.PrintHeader(sh.w, sh.f.Header, sh.f.Format)
		return false, nil
	}

	if sh.f.Format != wbf.WBF {
		return false, fmt.Errorf("command %q not available for %v files", name, sh.f.Format)
	}

	switch name {
	case "temps":
		tbl, err := sh.f.TempRanges()
		if err != nil {
			return false, fmt.Errorf("could not read temperature ranges: %w", err)
		}
		xcnv.PrintTemps(sh.w, tbl)
	case "xwia":
		x, err := sh.f.Xwia()
		if err != nil {
			return false, fmt.Errorf("could not read xwia: %w", err)
		}
		xcnv.PrintXwia(sh.w, x)
	case "modes":
		lay, err := sh.layout()
		if err != nil {
			return false, err
		}
		fmt.Fprintf(sh.w, "mode table: 0x%06x\n", sh.f.Header.ModeTable)
		for i := 0; i < lay.NumModes(); i++ {
			fmt.Fprintf(sh.w, "\tmode %2d: %v %v\n", i, lay.Mode(i).Ptr, sh.modeName(i))
		}
		fmt.Fprintf(sh.w, "unique waveforms: %d\n", lay.UniqueWaveforms())
	case "mode":
		lay, err := sh.layout()
		if err != nil {
			return false, err
		}
		m, err := sh.index(args, lay.NumModes())
		if err != nil {
			return false, err
		}
		mode := lay.Mode(m)
		fmt.Fprintf(sh.w, "mode %d %v: %v\n", m, sh.modeName(m), mode.Ptr)
		for j := range mode.Ranges {
			seg, err := lay.Segment(m, j)
			if err != nil {
				return false, err
			}
			fmt.Fprintf(sh.w, "\trange %2d: %v len=%d\n", j, mode.Ranges[j], seg.Len)
		}
	case "seg", "runs":
		lay, err := sh.layout()
		if err != nil {
			return false, err
		}
		if len(args) != 2 {
			return false, fmt.Errorf("command %q needs 2 arguments", name)
		}
		m, err := sh.index(args[:1], lay.NumModes())
		if err != nil {
			return false, err
		}
		r, err := sh.index(args[1:], lay.NumRanges())
		if err != nil {
			return false, err
		}
		seg, err := lay.Segment(m, r)
		if err != nil {
			return false, err
		}
		wf := rle.Decode(seg.Data)
		if name == "seg" {
			fmt.Fprintf(sh.w, "addr:    0x%06x\n", seg.Addr)
			fmt.Fprintf(sh.w, "len:     %d\n", seg.Len)
			fmt.Fprintf(sh.w, "trailer: % x\n", seg.Trailer)
			fmt.Fprintf(sh.w, "runs:    %d\n", len(wf.Runs))
			fmt.Fprintf(sh.w, "states:  %d\n", wf.StateCount)
			fmt.Fprintf(sh.w, "phases:  %d\n", wf.Phases())
			return false, nil
		}
		for i, run := range wf.Runs {
			fmt.Fprintf(sh.w, "%4d: state=0x%02x channels=%v count=%d\n",
				i, uint8(run.State), run.State.Channels(), run.Count,
			)
		}
	default:
		return false, fmt.Errorf("unknown command %q", name)
	}

	return false, nil
}

func (sh *shell) help() {
	fmt.Fprintf(sh.w, "commands:\n")
	for _, cmd := range cmds {
		fmt.Fprintf(sh.w, "  %-14s %s\n", strings.TrimSpace(cmd.name+" "+cmd.args), cmd.help)
	}
}

func (sh *shell) layout() (*wbf.Layout, error) {
	if sh.lay != nil {
		return sh.lay, nil
	}
	lay, err := wbf.Discover(sh.f)
	if err != nil {
		return nil, fmt.Errorf("could not discover waveforms: %w", err)
	}
	sh.lay = lay
	return lay, nil
}

func (sh *shell) modeName(i int) string {
	if !sh.f.Header.HasModeVersion() {
		return "(unknown)"
	}
	return "(" + wbf.UpdateMode(i).String() + ")"
}

func (sh *shell) index(args []string, n int) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("invalid number of arguments (%d)", len(args))
	}
	i, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("could not parse index %q: %w", args[0], err)
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("index %d out of range [0, %d)", i, n)
	}
	return i, nil
}
