// Copyright ©2026 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// carve extracts subsequences of fasta records by position.
//
// Positions are 1-based inclusive ranges, A-B or lists A-B,C-D, with
// - selecting the whole record. They are given either globally with
// -positions or in a file with -positions-file holding id:ranges lines,
// one line of ranges per record in input order or a single global line.
// Records without ranges or with an empty extraction are skipped.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kortschak/cutlass/proteome"
	"github.com/kortschak/cutlass/segment"
	"github.com/kortschak/cutlass/stage"
)

var (
	positions = flag.String("positions", "", "global positions, e.g. 32-33 or 10-20,40-50")
	posFile   = flag.String("positions-file", "", "positions file")
	in        = flag.String("in", "", "input fasta file (required)")
	out       = flag.String("out", "positions_extracted.faa", "output fasta file")
	tail      = flag.Bool("tail", false, "interpret each range A-B as B to the end of the record")
	wrap      = flag.Int("wrap", 0, "sequence line width (0 for unwrapped)")
	level     = flag.String("log-level", "info", "logging level: debug, info, warning or error")
)

func main() {
	flag.Parse()
	if *in == "" || (*positions == "") == (*posFile == "") {
		fmt.Fprintln(os.Stderr, "invalid argument: must have in and exactly one of positions or positions-file set")
		flag.Usage()
		os.Exit(2)
	}
	logger, err := stage.NewLogger(os.Stderr, *level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var pos *segment.Positions
	if *posFile != "" {
		err = stage.RequireFiles(*in, *posFile)
		if err != nil {
			logger.Fatal("cannot start", "err", err)
		}
		pos, err = segment.ReadPositionsFile(*posFile)
		if err != nil {
			logger.Fatal("failed to read positions", "path", *posFile, "err", err)
		}
	} else {
		err = stage.RequireFiles(*in)
		if err != nil {
			logger.Fatal("cannot start", "err", err)
		}
		s, err := segment.ParseSet(*positions)
		if err != nil {
			logger.Fatal("invalid positions", "positions", *positions, "err", err)
		}
		pos = &segment.Positions{Mode: segment.Global, Global: s}
	}
	logger.Debug("positions", "mode", pos.Mode)

	src, err := os.Open(*in)
	if err != nil {
		logger.Fatal("failed to open input", "path", *in, "err", err)
	}
	defer src.Close()
	dst, err := os.Create(*out)
	if err != nil {
		logger.Fatal("failed to create output", "path", *out, "err", err)
	}
	defer dst.Close()

	w := proteome.NewWriterWidth(dst, *wrap)
	r := proteome.NewReader(src)
	var written, skipped int
	for i := 0; r.Next(); i++ {
		rec := r.Record()
		set := pos.For(i, rec.ID)
		if set.Empty() {
			logger.Debug("no ranges: skipping", "id", rec.ID)
			skipped++
			continue
		}
		sub := segment.Extract(rec.Seq, set, *tail)
		if len(sub) == 0 {
			logger.Warn("empty extraction: skipping", "id", rec.ID, "ranges", set)
			skipped++
			continue
		}
		err = w.Write(rec.Header, sub)
		if err != nil {
			logger.Fatal("failed to write record", "id", rec.ID, "err", err)
		}
		written++
	}
	if err := r.Error(); err != nil {
		logger.Fatal("failed to read input", "path", *in, "err", err)
	}
	err = w.Flush()
	if err != nil {
		logger.Fatal("failed to write output", "path", *out, "err", err)
	}
	logger.Info("done", "written", written, "skipped", skipped, "out", *out)
}
