// Copyright ©2026 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// flense predicts signal peptides in profile HMM hits with SignalP 6
// and removes them.
//
// For each sample <s> flense reads results/01_hmmsearch/<s>/<s>_hits.fasta
// and writes the SignalP output to results/02_signalp/<s>/signalp6 and
// <s>_signalp_coords.tsv, <s>_signalp_trimmed.fasta, <s>_no_signalp.fasta
// and <s>_signalP_summary.tsv to results/02_signalp/<s>.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/kortschak/cutlass/cleave"
	"github.com/kortschak/cutlass/proteome"
	"github.com/kortschak/cutlass/signalp"
	"github.com/kortschak/cutlass/stage"
)

var (
	samples  = flag.String("samples", "", "comma separated sample names (default all proteomes)")
	organism = flag.String("organism", "eukarya", "SignalP organism group: eukarya or other")
	mode     = flag.String("mode", "fast", "SignalP model mode: fast, slow or slow-sequential")
	batch    = flag.Int("bsize", 0, "SignalP batch size (0 for SignalP default)")
	keepBoth = flag.Bool("keep-both", false, "also write trimmed and untrimmed records to <s>_signalp_kept.fasta")
	run      = flag.Bool("run-signalp", true, `actually run signalp6
    	false is useful to reconstruct cleaved output from
    	existing SignalP predictions`,
	)

	config = flag.String("config", "", "JSON configuration file")
	root   = flag.String("root", "", "pipeline root directory (overrides config)")
	level  = flag.String("log-level", "", "logging level: debug, info, warning or error")
)

func main() {
	flag.Parse()

	cfg, logger, err := stage.Setup(os.Stderr, *config, *root, *level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	tools := make(map[string]string)
	if *run {
		tools, err = cfg.LookTools("signalp6")
		if err != nil {
			logger.Fatal("cannot start", "err", err)
		}
	}
	set, err := cfg.SelectSamples(proteome.ParseNames(*samples)...)
	if err != nil {
		logger.Fatal("cannot start", "err", err)
	}

	failed := stage.Batch(logger, set, func(s stage.Sample) error {
		return flense(logger, cfg, tools, s.Name)
	})
	if len(failed) == len(set) {
		logger.Fatal("all samples failed", "samples", failed)
	}
	if len(failed) != 0 {
		logger.Warn("some samples failed", "samples", failed)
	}
}

func flense(logger *log.Logger, cfg *stage.Config, tools map[string]string, sample string) error {
	hits := filepath.Join(cfg.StageDir(stage.HMMSearch, sample), sample+"_hits.fasta")
	err := stage.RequireFiles(hits)
	if err != nil {
		return err
	}
	dir := cfg.StageDir(stage.SignalP, sample)
	predictions := filepath.Join(dir, "signalp6")
	err = os.MkdirAll(predictions, 0o755)
	if err != nil {
		return err
	}

	fi, err := os.Stat(hits)
	if err != nil {
		return err
	}
	var entries []cleave.Entry
	if fi.Size() == 0 {
		logger.Warn("no hmmsearch hits: writing empty outputs", "sample", sample)
	} else {
		if *run {
			cmd, err := signalp.SignalP{
				Cmd:       tools["signalp6"],
				In:        hits,
				OutDir:    predictions,
				Format:    "txt",
				Organism:  *organism,
				Mode:      *mode,
				BatchSize: *batch,
			}.BuildCommand()
			if err != nil {
				return err
			}
			err = stage.Run(logger, cmd)
			if err != nil {
				return err
			}
		}
		gff := signalp.GFF(predictions)
		err = stage.RequireFiles(gff)
		if err != nil {
			return err
		}
		entries, err = cleave.TableFromGFFFile(gff)
		if err != nil {
			return err
		}
	}

	coords := cleave.CoordsPath(dir, sample)
	err = cleave.WriteTableFile(coords, entries)
	if err != nil {
		return err
	}
	t, err := cleave.ReadTableFile(coords)
	if err != nil {
		return err
	}

	f, err := os.Open(hits)
	if err != nil {
		return err
	}
	defer f.Close()
	n, err := cleave.PathsFor(dir, sample, *keepBoth).Cleave(proteome.NewReader(f), t)
	if err != nil {
		return err
	}
	logger.Info("signal peptides removed", "sample", sample, "trimmed", n.Trimmed, "no_signal", n.NoSignal, "dropped", n.Dropped)
	return nil
}
