// Copyright ©2026 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// cutlass removes predicted signal peptides from protein sequences.
//
// Records with a signal peptide span in the coordinate table are
// written without their signal peptide to <out>_signalp_trimmed.fasta
// and summarised in <out>_signalP_summary.tsv. Records without a span
// are written unchanged to <out>_no_signalp.fasta. Records with no
// residues after their signal peptide are dropped.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kortschak/cutlass/cleave"
	"github.com/kortschak/cutlass/proteome"
	"github.com/kortschak/cutlass/stage"
)

var (
	in       = flag.String("in", "", "input protein fasta file name (required)")
	coords   = flag.String("coords", "", "signal peptide coordinate table: id<TAB>start<TAB>end")
	gffIn    = flag.String("gff", "", "SignalP 6 GFF3 prediction file, used in place of -coords")
	dir      = flag.String("dir", ".", "output directory")
	out      = flag.String("out", "", "output file name prefix (default input base name)")
	keepBoth = flag.Bool("keep-both", false, "also write trimmed and untrimmed records to <out>_signalp_kept.fasta")
	level    = flag.String("log-level", "info", "logging level: debug, info, warning or error")
)

func main() {
	flag.Parse()
	if *in == "" || (*coords == "") == (*gffIn == "") {
		fmt.Fprintln(os.Stderr, "invalid argument: must have in and exactly one of coords or gff set")
		flag.Usage()
		os.Exit(2)
	}
	logger, err := stage.NewLogger(os.Stderr, *level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	table := *coords
	if table == "" {
		table = *gffIn
	}
	err = stage.RequireFiles(*in, table)
	if err != nil {
		logger.Fatal("cannot start", "err", err)
	}

	prefix := *out
	if prefix == "" {
		prefix = strings.TrimSuffix(filepath.Base(*in), filepath.Ext(*in))
	}
	err = os.MkdirAll(*dir, 0o755)
	if err != nil {
		logger.Fatal("failed to create output directory", "dir", *dir, "err", err)
	}

	var t cleave.Table
	if *coords != "" {
		t, err = cleave.ReadTableFile(*coords)
		if err != nil {
			logger.Fatal("failed to read coordinate table", "path", *coords, "err", err)
		}
	} else {
		entries, err := cleave.TableFromGFFFile(*gffIn)
		if err != nil {
			logger.Fatal("failed to read gff", "path", *gffIn, "err", err)
		}
		path := cleave.CoordsPath(*dir, prefix)
		err = cleave.WriteTableFile(path, entries)
		if err != nil {
			logger.Fatal("failed to write coordinate table", "path", path, "err", err)
		}
		t = cleave.Tabulate(entries)
	}
	if len(t) == 0 {
		logger.Warn("no signal peptides in table: all records pass through", "table", table)
	}

	f, err := os.Open(*in)
	if err != nil {
		logger.Fatal("failed to open input", "path", *in, "err", err)
	}
	defer f.Close()

	paths := cleave.PathsFor(*dir, prefix, *keepBoth)
	n, err := paths.Cleave(proteome.NewReader(f), t)
	if err != nil {
		logger.Fatal("failed to cleave signal peptides", "err", err)
	}
	logger.Info("done", "trimmed", n.Trimmed, "no_signal", n.NoSignal, "dropped", n.Dropped,
		"trimmed_fasta", paths.Trimmed, "summary", paths.Summary)
}
