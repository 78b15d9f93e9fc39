// Copyright ©2026 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// lash aligns the Pfam filtered candidates of all samples with MAFFT.
//
// The candidates in results/03_pfam/*/<s>_pfam_filtered.fasta are
// collected into results/04_alignment/<out>.fasta with each ID prefixed
// by its sample name, and the alignment is written to
// results/04_alignment/<out>_aligned.fasta.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/kortschak/cutlass/mafft"
	"github.com/kortschak/cutlass/proteome"
	"github.com/kortschak/cutlass/stage"
	"github.com/kortschak/cutlass/tally"
)

var (
	out      = flag.String("out", "cutinase_candidates", "output file name prefix")
	strategy = flag.String("strategy", "auto", "MAFFT strategy: auto, localpair or globalpair")
	iter     = flag.Int("maxiterate", 0, "MAFFT iterative refinement cycles")
	threads  = flag.Int("threads", 0, "number of MAFFT threads (0 for MAFFT default)")
	sep      = flag.String("sep", "|", "separator between sample name and sequence ID")
	run      = flag.Bool("run-mafft", true, `actually run mafft
    	false is useful to validate an existing alignment`,
	)

	config = flag.String("config", "", "JSON configuration file")
	root   = flag.String("root", "", "pipeline root directory (overrides config)")
	level  = flag.String("log-level", "", "logging level: debug, info, warning or error")
)

func main() {
	flag.Parse()
	switch *strategy {
	case "auto", "localpair", "globalpair":
	default:
		fmt.Fprintf(os.Stderr, "invalid argument: unknown strategy %q\n", *strategy)
		flag.Usage()
		os.Exit(2)
	}

	cfg, logger, err := stage.Setup(os.Stderr, *config, *root, *level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	tools := make(map[string]string)
	if *run {
		tools, err = cfg.LookTools("mafft")
		if err != nil {
			logger.Fatal("cannot start", "err", err)
		}
	}
	paths, err := tally.Builder{Config: cfg}.SelectedPaths()
	if err != nil {
		logger.Fatal("cannot start", "err", err)
	}

	dir := cfg.StageDir(stage.Alignment, "")
	err = os.MkdirAll(dir, 0o755)
	if err != nil {
		logger.Fatal("failed to create output directory", "dir", dir, "err", err)
	}
	base := filepath.Join(dir, *out)
	in := base + ".fasta"
	aligned := base + "_aligned.fasta"

	if *run {
		n, err := collect(in, paths, *sep)
		if err != nil {
			logger.Fatal("failed to collect candidates", "path", in, "err", err)
		}
		logger.Info("collected candidates", "samples", len(paths), "sequences", n)
		switch n {
		case 0:
			logger.Warn("no candidates to align: writing empty alignment", "path", aligned)
			err = os.WriteFile(aligned, nil, 0o644)
			if err != nil {
				logger.Fatal("failed to write alignment", "path", aligned, "err", err)
			}
		case 1:
			logger.Warn("single candidate: alignment is the input sequence", "path", aligned)
			err = copyFile(aligned, in)
			if err != nil {
				logger.Fatal("failed to write alignment", "path", aligned, "err", err)
			}
		default:
			err = align(logger, tools["mafft"], in, aligned)
			if err != nil {
				logger.Fatal("failed to align candidates", "err", err)
			}
		}
	}

	err = stage.RequireFiles(aligned)
	if err != nil {
		logger.Fatal("no alignment", "err", err)
	}
	recs, err := proteome.ReadFile(aligned)
	if err != nil {
		logger.Fatal("failed to read alignment", "path", aligned, "err", err)
	}
	width, err := mafft.Width(recs)
	if err != nil {
		logger.Fatal("invalid alignment", "path", aligned, "err", err)
	}
	logger.Info("done", "sequences", len(recs), "columns", width, "alignment", aligned)
}

// collect writes the records of the files in paths to dst with
// each ID prefixed by its sample name and sep. Samples are written
// in name order.
func collect(dst string, paths map[string]string, sep string) (int, error) {
	samples := make([]string, 0, len(paths))
	for s := range paths {
		samples = append(samples, s)
	}
	sort.Strings(samples)

	f, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	w := proteome.NewWriter(f)
	var n int
	for _, s := range samples {
		recs, err := proteome.ReadFile(paths[s])
		if err != nil {
			return n, err
		}
		for _, r := range recs {
			err = w.Write(s+sep+r.Header, r.Seq)
			if err != nil {
				return n, err
			}
			n++
		}
	}
	err = w.Flush()
	if err != nil {
		return n, err
	}
	return n, f.Close()
}

func align(logger *log.Logger, path, in, dst string) error {
	cmd, err := mafft.MAFFT{
		Cmd:        path,
		Auto:       *strategy == "auto",
		LocalPair:  *strategy == "localpair",
		GlobalPair: *strategy == "globalpair",
		MaxIterate: *iter,
		Amino:      true,
		Quiet:      true,
		Threads:    *threads,
		In:         in,
	}.BuildCommand()
	if err != nil {
		return err
	}
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	cmd.Stdout = f
	err = stage.Run(logger, cmd)
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func copyFile(dst, src string) error {
	s, err := os.Open(src)
	if err != nil {
		return err
	}
	defer s.Close()
	d, err := os.Create(dst)
	if err != nil {
		return err
	}
	_, err = io.Copy(d, s)
	if err != nil {
		d.Close()
		return err
	}
	return d.Close()
}
