// Copyright ©2026 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// tally writes a CSV summary of the cutinase candidates retained by
// the pipeline stages.
//
// One row is written for each sequence in results/03_pfam/*/<s>_pfam_filtered.fasta,
// joined with its hmmsearch hit, SignalP cleavage and Pfam domain hit.
// Candidates with similar final sequences are assigned a shared group.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kortschak/cutlass/stage"
	"github.com/kortschak/cutlass/tally"
)

var (
	pfam   = flag.String("pfam", "PF01083", "Pfam accession used for selection")
	out    = flag.String("out", "", "output CSV file (default results/summary/cutinase_candidates_summary.csv)")
	hist   = flag.String("hist", "", "write a histogram of final lengths to this image file")
	k      = flag.Int("k", 3, "k-mer length for candidate grouping (0 disables grouping)")
	thresh = flag.Float64("group-thresh", 0.5, "minimum k-mer Jaccard similarity for candidates to share a group")

	config = flag.String("config", "", "JSON configuration file")
	root   = flag.String("root", "", "pipeline root directory (overrides config)")
	level  = flag.String("log-level", "", "logging level: debug, info, warning or error")
)

func main() {
	flag.Parse()
	if *thresh <= 0 || *thresh > 1 {
		fmt.Fprintln(os.Stderr, "invalid argument: group-thresh must be in (0, 1]")
		flag.Usage()
		os.Exit(2)
	}

	cfg, logger, err := stage.Setup(os.Stderr, *config, *root, *level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	rows, err := tally.Builder{Config: cfg, Pfam: *pfam, Logger: logger}.Rows()
	if err != nil {
		logger.Fatal("failed to collect candidates", "err", err)
	}
	if *k > 0 {
		n := tally.Group(rows, *k, *thresh)
		logger.Info("grouped candidates", "groups", n, "k", *k, "thresh", *thresh)
	}

	path := *out
	if path == "" {
		path = filepath.Join(cfg.StageDir(stage.Summary, ""), "cutinase_candidates_summary.csv")
	}
	err = os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		logger.Fatal("failed to create output directory", "path", path, "err", err)
	}
	f, err := os.Create(path)
	if err != nil {
		logger.Fatal("failed to create summary", "path", path, "err", err)
	}
	err = tally.WriteCSV(f, rows)
	if err != nil {
		logger.Fatal("failed to write summary", "path", path, "err", err)
	}
	err = f.Close()
	if err != nil {
		logger.Fatal("failed to close summary", "path", path, "err", err)
	}

	lengths := tally.FinalLengths(rows)
	logger.Info("final lengths", "stats", tally.Stats(lengths))
	if *hist != "" {
		err = tally.Histogram(lengths, "Final candidate lengths", *hist)
		switch {
		case errors.Is(err, tally.ErrNoData):
			logger.Warn("no candidates: histogram not written", "path", *hist)
		case err != nil:
			logger.Fatal("failed to write histogram", "path", *hist, "err", err)
		}
	}
	logger.Info("done", "candidates", len(rows), "summary", path)
}
