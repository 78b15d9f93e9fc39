// Copyright ©2026 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// trawl searches proteomes with a profile HMM and extracts the
// sequences of the hits.
//
// For each sample <s> in the proteome directory trawl writes
// <s>.domtblout, <s>.tblout, <s>_hits.txt and <s>_hits.fasta to
// results/01_hmmsearch/<s>.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/kortschak/cutlass/hmmer"
	"github.com/kortschak/cutlass/proteome"
	"github.com/kortschak/cutlass/seqkit"
	"github.com/kortschak/cutlass/stage"
)

var (
	hmm     = flag.String("hmm", "", "profile HMM file (required)")
	samples = flag.String("samples", "", "comma separated sample names (default all proteomes)")
	evalue  = flag.Float64("evalue", 1e-5, "maximum full sequence E-value of retained hits")
	cpu     = flag.Int("cpu", 0, "number of hmmsearch worker threads (0 for hmmsearch default)")
	run     = flag.Bool("run-hmmsearch", true, `actually run hmmsearch
    	false is useful to reconstruct hit output from
    	existing domain tables`,
	)

	config = flag.String("config", "", "JSON configuration file")
	root   = flag.String("root", "", "pipeline root directory (overrides config)")
	level  = flag.String("log-level", "", "logging level: debug, info, warning or error")
)

func main() {
	flag.Parse()
	if *hmm == "" {
		fmt.Fprintln(os.Stderr, "invalid argument: must have hmm set")
		flag.Usage()
		os.Exit(2)
	}

	cfg, logger, err := stage.Setup(os.Stderr, *config, *root, *level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	err = stage.RequireFiles(*hmm)
	if err != nil {
		logger.Fatal("cannot start", "err", err)
	}
	need := []string{"seqkit"}
	if *run {
		need = append(need, "hmmsearch")
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
		return trawl(logger, cfg, tools, s)
	})
	if len(failed) == len(set) {
		logger.Fatal("all samples failed", "samples", failed)
	}
	if len(failed) != 0 {
		logger.Warn("some samples failed", "samples", failed)
	}
}

func trawl(logger *log.Logger, cfg *stage.Config, tools map[string]string, s stage.Sample) error {
	dir := cfg.StageDir(stage.HMMSearch, s.Name)
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return err
	}
	base := filepath.Join(dir, s.Name)

	if *run {
		cmd, err := hmmer.Search{
			Cmd:       tools["hmmsearch"],
			Out:       base + ".hmmsearch.txt",
			TblOut:    base + ".tblout",
			DomTblOut: base + ".domtblout",
			NoAlign:   true,
			CPU:       *cpu,
			HMM:       *hmm,
			Seq:       s.Path,
		}.BuildCommand()
		if err != nil {
			return err
		}
		err = stage.Run(logger, cmd)
		if err != nil {
			return err
		}
	}

	hits, err := hmmer.ReadDomainsFile(base + ".domtblout")
	if err != nil {
		return err
	}
	ids := hmmer.Targets(hits, *evalue)
	logger.Info("hmmsearch hits", "sample", s.Name, "domains", len(hits), "sequences", len(ids))

	idPath := base + "_hits.txt"
	err = seqkit.WriteIDsFile(idPath, ids)
	if err != nil {
		return err
	}
	fasta := base + "_hits.fasta"
	if len(ids) == 0 {
		// Leave an empty hit file for the next stage.
		return os.WriteFile(fasta, nil, 0o644)
	}
	cmd, err := seqkit.Grep{
		Cmd:         tools["seqkit"],
		PatternFile: idPath,
		Out:         fasta,
		In:          s.Path,
	}.BuildCommand()
	if err != nil {
		return err
	}
	return stage.Run(logger, cmd)
}
