// Copyright ©2026 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tally joins the per-sample results of the cutinase
// pipeline stages into a single candidate table.
package tally

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/charmbracelet/log"

	"github.com/kortschak/cutlass/cleave"
	"github.com/kortschak/cutlass/hmmer"
	"github.com/kortschak/cutlass/proteome"
	"github.com/kortschak/cutlass/stage"
)

// ErrNoSamples is returned when no stage 03 results are found.
var ErrNoSamples = errors.New("tally: no pfam filtered fasta files found")

// Columns is the header of the candidate table.
var Columns = []string{
	"sample", "sequence_id",
	"length_original_aa", "length_secreted_trimmed_aa", "length_final_selected_aa",

	"hmm_query", "hmm_full_evalue", "hmm_full_bitscore", "hmm_domain_ievalue", "hmm_domain_bitscore",
	"hmm_ali_from", "hmm_ali_to", "hmm_hmm_from", "hmm_hmm_to", "hmm_acc",

	"has_signal_peptide", "signalp_start", "signalp_end", "signalp_cleavage_after_aa", "signalp_mature_length_aa",

	"pfam_accession", "pfam_hit", "pfam_evalue_full", "pfam_bitscore_full", "pfam_domain_ievalue", "pfam_domain_bitscore",
	"pfam_ali_from", "pfam_ali_to", "pfam_desc",

	"hmm_overlaps_signal_peptide", "candidate_group",
}

// Row is a single candidate. Negative lengths are missing values.
type Row struct {
	Sample string
	ID     string

	OriginalLen int
	TrimmedLen  int
	FinalLen    int

	// HMM is the best hmmsearch domain hit.
	HMM *hmmer.Hit

	// SignalP is the signal peptide cleavage summary.
	SignalP *cleave.Summary

	PfamAccession string
	// Pfam is the best hmmscan domain hit for PfamAccession.
	Pfam *hmmer.Hit

	// Overlap is the signal peptide overlap state of the
	// hmmsearch domain envelopes.
	Overlap Overlap

	// Group is the 1-based candidate group index.
	// Zero indicates the row is not grouped.
	Group int

	// Seq is the final selected sequence.
	Seq alphabet.Letters
}

// Record returns the CSV record for r in Columns order.
func (r *Row) Record() []string {
	rec := make([]string, 0, len(Columns))
	rec = append(rec, r.Sample, r.ID, length(r.OriginalLen), length(r.TrimmedLen), length(r.FinalLen))

	if h := r.HMM; h != nil {
		rec = append(rec,
			h.QueryName, float(h.FullEValue), float(h.FullScore), float(h.DomIEValue), float(h.DomScore),
			strconv.Itoa(h.AliFrom), strconv.Itoa(h.AliTo), strconv.Itoa(h.HMMFrom), strconv.Itoa(h.HMMTo), float(h.Acc),
		)
	} else {
		rec = append(rec, make([]string, 10)...)
	}

	if s := r.SignalP; s != nil {
		rec = append(rec, "yes",
			strconv.Itoa(s.Start), strconv.Itoa(s.End), strconv.Itoa(s.CleavageAfter), strconv.Itoa(s.NewLen),
		)
	} else {
		rec = append(rec, "no", "", "", "", "")
	}

	rec = append(rec, r.PfamAccession)
	if h := r.Pfam; h != nil {
		rec = append(rec,
			h.TargetName, float(h.FullEValue), float(h.FullScore), float(h.DomIEValue), float(h.DomScore),
			strconv.Itoa(h.AliFrom), strconv.Itoa(h.AliTo), h.Desc,
		)
	} else {
		rec = append(rec, make([]string, 8)...)
	}

	rec = append(rec, r.Overlap.String())
	if r.Group > 0 {
		rec = append(rec, strconv.Itoa(r.Group))
	} else {
		rec = append(rec, "")
	}
	return rec
}

func length(n int) string {
	if n < 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func float(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// WriteCSV writes the header and rows to w.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	err := cw.Write(Columns)
	if err != nil {
		return err
	}
	for i := range rows {
		err = cw.Write(rows[i].Record())
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Builder collects candidate rows from the stage result layout
// described by Config.
type Builder struct {
	Config *stage.Config

	// Pfam is the Pfam accession used for selection.
	Pfam string

	Logger *log.Logger
}

// SelectedPaths returns the stage 03 selected fasta files
// keyed by sample name.
func (b Builder) SelectedPaths() (map[string]string, error) {
	pattern := filepath.Join(b.Config.StageDir(stage.Pfam, ""), "*", "*_pfam_filtered.fasta")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSamples, pattern)
	}
	paths := make(map[string]string, len(matches))
	for _, m := range matches {
		paths[filepath.Base(filepath.Dir(m))] = m
	}
	return paths, nil
}

// Rows returns the candidate rows of all samples ordered by
// sample name and then by order in the selected fasta file.
func (b Builder) Rows() ([]Row, error) {
	paths, err := b.SelectedPaths()
	if err != nil {
		return nil, err
	}
	samples := make([]string, 0, len(paths))
	for s := range paths {
		samples = append(samples, s)
	}
	sort.Strings(samples)

	var rows []Row
	for _, s := range samples {
		r, err := b.sampleRows(s, paths[s])
		if err != nil {
			return nil, fmt.Errorf("tally: sample %s: %w", s, err)
		}
		if b.Logger != nil {
			b.Logger.Info("collected candidates", "sample", s, "n", len(r))
		}
		rows = append(rows, r...)
	}
	return rows, nil
}

func (b Builder) sampleRows(sample, selected string) ([]Row, error) {
	c := b.Config

	recs, err := proteome.ReadFile(selected)
	if err != nil {
		return nil, err
	}

	trimmedLen, err := optionalLengths(cleave.PathsFor(c.StageDir(stage.SignalP, sample), sample, false).Trimmed)
	if err != nil {
		return nil, err
	}
	var originalLen map[string]int
	if orig, err := stage.FindSample(c.ProteomeDir(), sample); err == nil {
		originalLen, err = proteome.Lengths(orig.Path)
		if err != nil {
			return nil, err
		}
	}

	sig := make(map[string]cleave.Summary)
	sigPath := cleave.PathsFor(c.StageDir(stage.SignalP, sample), sample, false).Summary
	if exists(sigPath) {
		sig, err = cleave.ReadSummaryFile(sigPath)
		if err != nil {
			return nil, err
		}
	}

	var hmmHits []hmmer.Hit
	hmmPath := filepath.Join(c.StageDir(stage.HMMSearch, sample), sample+".domtblout")
	if exists(hmmPath) {
		hmmHits, err = hmmer.ReadDomainsFile(hmmPath)
		if err != nil {
			return nil, err
		}
	}
	hmmBest := hmmer.BestPerTarget(hmmHits)
	envelopes := envelopeTrees(hmmHits)

	pfamBest := make(map[string]hmmer.Hit)
	pfamPath := filepath.Join(c.StageDir(stage.Pfam, sample), sample+"_pfam.domtblout")
	if exists(pfamPath) {
		hits, err := hmmer.ReadDomainsFile(pfamPath)
		if err != nil {
			return nil, err
		}
		pfamBest = hmmer.BestPerQuery(hits, b.Pfam)
	}

	seen := make(map[string]bool)
	var rows []Row
	for _, rec := range recs {
		if seen[rec.ID] {
			continue
		}
		seen[rec.ID] = true

		row := Row{
			Sample:        sample,
			ID:            rec.ID,
			OriginalLen:   lookup(originalLen, rec.ID),
			TrimmedLen:    lookup(trimmedLen, rec.ID),
			FinalLen:      rec.Len(),
			PfamAccession: strings.TrimSpace(b.Pfam),
			Seq:           rec.Seq,
		}
		if h, ok := hmmBest[rec.ID]; ok {
			row.HMM = &h
		}
		if s, ok := sig[rec.ID]; ok {
			row.SignalP = &s
			if row.OriginalLen < 0 {
				row.OriginalLen = s.OriginalLen
			}
		}
		if h, ok := pfamBest[rec.ID]; ok {
			row.Pfam = &h
		}
		row.Overlap = envelopes.overlap(rec.ID, row.SignalP)
		rows = append(rows, row)
	}
	return rows, nil
}

func optionalLengths(path string) (map[string]int, error) {
	if !exists(path) {
		return nil, nil
	}
	return proteome.Lengths(path)
}

func lookup(m map[string]int, id string) int {
	n, ok := m[id]
	if !ok {
		return -1
	}
	return n
}

func exists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
