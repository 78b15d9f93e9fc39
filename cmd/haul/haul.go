// Copyright ©2026 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// haul extracts fasta records named in a list.
//
// Names are read from the -ids file, one per line, and from the -names
// flag. By default names are matched exactly against the record ID and
// records are written in list order. With -exclude, records matching
// the list are dropped and all others are written in input order.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/kortschak/cutlass/proteome"
	"github.com/kortschak/cutlass/stage"
)

var (
	in         = flag.String("in", "", "input fasta file (required)")
	ids        = flag.String("ids", "", "file containing sequence names, one per line")
	names      = flag.String("names", "", "comma or space separated sequence names")
	out        = flag.String("out", "extracted.faa", "output fasta file (- for stdout)")
	substring  = flag.Bool("substring", false, "match names anywhere in the header")
	ignoreCase = flag.Bool("ignore-case", false, "case insensitive matching")
	fastaOrder = flag.Bool("fasta-order", false, "write matches in input order rather than list order")
	exclude    = flag.Bool("exclude", false, "write records that do not match the list")
	wrap       = flag.Int("wrap", 0, "sequence line width (0 for unwrapped)")
	level      = flag.String("log-level", "info", "logging level: debug, info, warning or error")
)

func main() {
	flag.Parse()
	if *in == "" || (*ids == "" && *names == "") {
		fmt.Fprintln(os.Stderr, "invalid argument: must have in and at least one of ids or names set")
		flag.Usage()
		os.Exit(2)
	}
	logger, err := stage.NewLogger(os.Stderr, *level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	files := []string{*in}
	if *ids != "" {
		files = append(files, *ids)
	}
	err = stage.RequireFiles(files...)
	if err != nil {
		logger.Fatal("cannot start", "err", err)
	}

	var list []string
	if *ids != "" {
		f, err := os.Open(*ids)
		if err != nil {
			logger.Fatal("failed to open name list", "path", *ids, "err", err)
		}
		list, err = proteome.ReadNames(f)
		f.Close()
		if err != nil {
			logger.Fatal("failed to read name list", "path", *ids, "err", err)
		}
	}
	list = append(list, proteome.ParseNames(*names)...)
	if len(list) == 0 {
		logger.Fatal("no sequence names provided")
	}

	src, err := os.Open(*in)
	if err != nil {
		logger.Fatal("failed to open input", "path", *in, "err", err)
	}
	defer src.Close()

	var dst io.Writer = os.Stdout
	if *out != "-" {
		f, err := os.Create(*out)
		if err != nil {
			logger.Fatal("failed to create output", "path", *out, "err", err)
		}
		defer f.Close()
		dst = f
	}

	sel := proteome.Selection{
		Substring:  *substring,
		IgnoreCase: *ignoreCase,
		FastaOrder: *fastaOrder,
	}
	w := proteome.NewWriterWidth(dst, *wrap)
	r := proteome.NewReader(src)
	if *exclude {
		n, dropped, err := sel.Exclude(w, r, list)
		if err != nil {
			logger.Fatal("failed to filter records", "err", err)
		}
		err = w.Flush()
		if err != nil {
			logger.Fatal("failed to write records", "err", err)
		}
		logger.Info("done", "written", n, "dropped", dropped, "out", *out)
		return
	}

	n, missing, err := sel.Select(w, r, list)
	if err != nil {
		logger.Fatal("failed to select records", "err", err)
	}
	err = w.Flush()
	if err != nil {
		logger.Fatal("failed to write records", "err", err)
	}
	if len(missing) != 0 {
		logger.Warn("names not found", "n", len(missing), "names", missing)
	}
	logger.Info("done", "written", n, "out", *out)
}
