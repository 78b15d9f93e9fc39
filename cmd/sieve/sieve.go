// Copyright ©2026 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// sieve retains signal peptide trimmed candidates that carry a Pfam
// domain.
//
// For each sample <s> sieve scans results/02_signalp/<s>/<s>_signalp_trimmed.fasta
// against a pressed Pfam database with hmmscan and writes <s>_pfam.domtblout,
// <s>_pfam_ids.txt and <s>_pfam_filtered.fasta to results/03_pfam/<s>.
// Only sequences with a domain of the requested accession are retained.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/kortschak/cutlass/cleave"
	"github.com/kortschak/cutlass/hmmer"
	"github.com/kortschak/cutlass/proteome"
	"github.com/kortschak/cutlass/seqkit"
	"github.com/kortschak/cutlass/stage"
)

var (
	db      = flag.String("pfam-db", "", "pressed Pfam-A.hmm database (required)")
	pfam    = flag.String("pfam", "PF01083", "Pfam accession to retain")
	samples = flag.String("samples", "", "comma separated sample names (default all proteomes)")
	evalue  = flag.Float64("evalue", 1e-5, "maximum independent domain E-value of retained domains")
	cutGA   = flag.Bool("cut-ga", false, "use Pfam gathering thresholds for reporting")
	cpu     = flag.Int("cpu", 0, "number of hmmscan worker threads (0 for hmmscan default)")
	kept    = flag.Bool("kept", false, "scan <s>_signalp_kept.fasta instead of the trimmed records")
	run     = flag.Bool("run-hmmscan", true, `actually run hmmscan
    	false is useful to reconstruct filtered output from
    	existing domain tables`,
	)

	config = flag.String("config", "", "JSON configuration file")
	root   = flag.String("root", "", "pipeline root directory (overrides config)")
	level  = flag.String("log-level", "", "logging level: debug, info, warning or error")
)

func main() {
	flag.Parse()
	if *db == "" && *run {
		fmt.Fprintln(os.Stderr, "invalid argument: must have pfam-db set")
		flag.Usage()
		os.Exit(2)
	}

	cfg, logger, err := stage.Setup(os.Stderr, *config, *root, *level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	need := []string{"seqkit"}
	if *run {
		err = stage.RequireFiles(*db)
		if err != nil {
			logger.Fatal("cannot start", "err", err)
		}
		need = append(need, "hmmscan")
	}
	tools, err := cfg.LookTools(need...)
	if err != nil {
		logger.Fatal("cannot start", "err", err)
	}
	set, err := cfg.SelectSamples(proteome.ParseNames(*samples)...)
	if err != nil {
		logger.Fatal("cannot start", "err", err)
	}

	failed := stage.Batch(logger, set, func(s stage.Sample) error {
		return sieve(logger, cfg, tools, s.Name)
	})
	if len(failed) == len(set) {
		logger.Fatal("all samples failed", "samples", failed)
	}
	if len(failed) != 0 {
		logger.Warn("some samples failed", "samples", failed)
	}
}

func sieve(logger *log.Logger, cfg *stage.Config, tools map[string]string, sample string) error {
	paths := cleave.PathsFor(cfg.StageDir(stage.SignalP, sample), sample, *kept)
	in := paths.Trimmed
	if *kept {
		in = paths.Kept
	}
	err := stage.RequireFiles(in)
	if err != nil {
		return err
	}
	dir := cfg.StageDir(stage.Pfam, sample)
	err = os.MkdirAll(dir, 0o755)
	if err != nil {
		return err
	}
	base := filepath.Join(dir, sample)
	domtbl := base + "_pfam.domtblout"
	filtered := base + "_pfam_filtered.fasta"

	fi, err := os.Stat(in)
	if err != nil {
		return err
	}
	if fi.Size() == 0 {
		logger.Warn("no signal peptide trimmed records: writing empty outputs", "sample", sample)
		for _, p := range []string{domtbl, base + "_pfam_ids.txt", filtered} {
			err = os.WriteFile(p, nil, 0o644)
			if err != nil {
				return err
			}
		}
		return nil
	}

	if *run {
		cmd, err := hmmer.Scan{
			Cmd:       tools["hmmscan"],
			Out:       base + "_pfam.hmmscan.txt",
			DomTblOut: domtbl,
			NoAlign:   true,
			CutGA:     *cutGA,
			CPU:       *cpu,
			HMMDB:     *db,
			Seq:       in,
		}.BuildCommand()
		if err != nil {
			return err
		}
		err = stage.Run(logger, cmd)
		if err != nil {
			return err
		}
	}

	hits, err := hmmer.ReadDomainsFile(domtbl)
	if err != nil {
		return err
	}
	ids := hmmer.Queries(hits, *pfam, *evalue)
	logger.Info("pfam domains", "sample", sample, "accession", *pfam, "domains", len(hits), "sequences", len(ids))

	idPath := base + "_pfam_ids.txt"
	err = seqkit.WriteIDsFile(idPath, ids)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return os.WriteFile(filtered, nil, 0o644)
	}
	cmd, err := seqkit.Grep{
		Cmd:         tools["seqkit"],
		PatternFile: idPath,
		Out:         filtered,
		In:          in,
	}.BuildCommand()
	if err != nil {
		return err
	}
	return stage.Run(logger, cmd)
}
