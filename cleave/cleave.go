// Copyright ©2026 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cleave removes predicted signal peptides from protein sequences.
package cleave

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kortschak/cutlass/proteome"
)

// Header annotation tags.
const (
	CleavedTag  = "signalp_cleaved"
	NoSignalTag = "no_signal_peptide"
)

// Annotate returns header with the given tag appended.
func Annotate(header, tag string) string {
	return header + " | " + tag
}

// Fate is the outcome of classifying a record against a Table.
type Fate int

const (
	// Passthrough records have no signal peptide entry.
	Passthrough Fate = iota
	// Trimmed records have had their signal peptide removed.
	Trimmed
	// Dropped records have no residues after their signal peptide.
	Dropped
)

func (f Fate) String() string {
	switch f {
	case Passthrough:
		return "passthrough"
	case Trimmed:
		return "trimmed"
	case Dropped:
		return "dropped"
	default:
		return fmt.Sprintf("Fate(%d)", int(f))
	}
}

// SummaryHeader is the header row of a cleavage summary table.
const SummaryHeader = "seqid\tsp_start\tsp_end\tcleavage_after_aa\toriginal_len\tnew_len"

// Summary describes a single trimmed sequence.
type Summary struct {
	ID            string
	Start, End    int
	CleavageAfter int
	OriginalLen   int
	NewLen        int
}

// String returns the summary table row for s without a line terminator.
func (s Summary) String() string {
	return fmt.Sprintf("%s\t%d\t%d\t%d\t%d\t%d", s.ID, s.Start, s.End, s.CleavageAfter, s.OriginalLen, s.NewLen)
}

// Result is the classification of a single record.
type Result struct {
	Fate Fate

	// Record is the annotated record to write.
	// It is nil for dropped records.
	Record *proteome.Record

	// Summary is non-nil only for trimmed records.
	Summary *Summary
}

// Classify returns the fate of r given the signal peptide spans in t.
// The residues after the end of the signal peptide are retained.
func Classify(r *proteome.Record, t Table) Result {
	e, ok := t[r.ID]
	if !ok {
		return Result{
			Fate:   Passthrough,
			Record: &proteome.Record{ID: r.ID, Header: Annotate(r.Header, NoSignalTag), Seq: r.Seq},
		}
	}
	if e.End >= len(r.Seq) {
		return Result{Fate: Dropped}
	}
	mature := r.Seq[e.End:]
	return Result{
		Fate:   Trimmed,
		Record: &proteome.Record{ID: r.ID, Header: Annotate(r.Header, CleavedTag), Seq: mature},
		Summary: &Summary{
			ID:            r.ID,
			Start:         e.Start,
			End:           e.End,
			CleavageAfter: e.End,
			OriginalLen:   len(r.Seq),
			NewLen:        len(mature),
		},
	}
}

// Counts holds the number of records of each fate.
type Counts struct {
	Trimmed  int
	NoSignal int
	Dropped  int
}

// Cleaver writes classified records to their destinations.
type Cleaver struct {
	Trimmed  io.Writer
	NoSignal io.Writer

	// Kept receives every written record when non-nil.
	Kept io.Writer

	Summary io.Writer
}

// Run classifies each record read from r and writes it to the
// destinations of c in input order. The summary header is always
// written, even when no record is trimmed.
func (c Cleaver) Run(r *proteome.Reader, t Table) (Counts, error) {
	var n Counts

	trimmed := proteome.NewWriter(c.Trimmed)
	noSignal := proteome.NewWriter(c.NoSignal)
	var kept *proteome.Writer
	if c.Kept != nil {
		kept = proteome.NewWriter(c.Kept)
	}
	summary := bufio.NewWriter(c.Summary)
	_, err := fmt.Fprintln(summary, SummaryHeader)
	if err != nil {
		return n, err
	}

	for r.Next() {
		res := Classify(r.Record(), t)
		switch res.Fate {
		case Dropped:
			n.Dropped++
			continue
		case Trimmed:
			n.Trimmed++
			err = trimmed.WriteRecord(res.Record)
			if err != nil {
				return n, err
			}
			_, err = fmt.Fprintln(summary, res.Summary)
		case Passthrough:
			n.NoSignal++
			err = noSignal.WriteRecord(res.Record)
		}
		if err != nil {
			return n, err
		}
		if kept != nil {
			err = kept.WriteRecord(res.Record)
			if err != nil {
				return n, err
			}
		}
	}
	if err := r.Error(); err != nil {
		return n, err
	}

	for _, f := range []interface{ Flush() error }{trimmed, noSignal, summary} {
		err = f.Flush()
		if err != nil {
			return n, err
		}
	}
	if kept != nil {
		err = kept.Flush()
	}
	return n, err
}

// Paths holds the output paths of a cleavage run.
type Paths struct {
	Trimmed  string
	NoSignal string

	// Kept is empty unless both trimmed and
	// untrimmed records are to be merged.
	Kept string

	Summary string
}

// PathsFor returns the conventional output paths for sample in dir.
func PathsFor(dir, sample string, keepBoth bool) Paths {
	p := Paths{
		Trimmed:  filepath.Join(dir, sample+"_signalp_trimmed.fasta"),
		NoSignal: filepath.Join(dir, sample+"_no_signalp.fasta"),
		Summary:  filepath.Join(dir, sample+"_signalP_summary.tsv"),
	}
	if keepBoth {
		p.Kept = filepath.Join(dir, sample+"_signalp_kept.fasta")
	}
	return p
}

// CoordsPath returns the conventional coordinate table path for sample in dir.
func CoordsPath(dir, sample string) string {
	return filepath.Join(dir, sample+"_signalp_coords.tsv")
}

// Cleave creates all the files named in p and runs a Cleaver over
// the records in r. All files are created before any record is read.
func (p Paths) Cleave(r *proteome.Reader, t Table) (n Counts, err error) {
	var c Cleaver
	var files []*os.File
	defer func() {
		for _, f := range files {
			cerr := f.Close()
			if err == nil {
				err = cerr
			}
		}
	}()
	for _, d := range []struct {
		path string
		dst  *io.Writer
	}{
		{p.Trimmed, &c.Trimmed},
		{p.NoSignal, &c.NoSignal},
		{p.Kept, &c.Kept},
		{p.Summary, &c.Summary},
	} {
		if d.path == "" {
			continue
		}
		f, err := os.Create(d.path)
		if err != nil {
			return n, err
		}
		files = append(files, f)
		*d.dst = f
	}
	if c.Trimmed == nil || c.NoSignal == nil || c.Summary == nil {
		return n, fmt.Errorf("cleave: missing output path in %+v", p)
	}
	return c.Run(r, t)
}

// ReadSummary reads a summary table written by a Cleaver keyed by
// sequence ID. The header row is skipped.
func ReadSummary(r io.Reader) (map[string]Summary, error) {
	m := make(map[string]Summary)
	sc := bufio.NewScanner(r)
	var line int
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if text == "" || text == SummaryHeader {
			continue
		}
		f := strings.Split(text, "\t")
		if len(f) != 6 {
			return nil, &RowError{Line: line, Text: text, Err: ErrFieldCount}
		}
		var v [5]int
		for i := range v {
			var err error
			v[i], err = strconv.Atoi(f[i+1])
			if err != nil {
				return nil, &RowError{Line: line, Text: text, Err: err}
			}
		}
		id := strings.Fields(f[0])
		if len(id) == 0 {
			continue
		}
		m[id[0]] = Summary{
			ID:            id[0],
			Start:         v[0],
			End:           v[1],
			CleavageAfter: v[2],
			OriginalLen:   v[3],
			NewLen:        v[4],
		}
	}
	return m, sc.Err()
}

// ReadSummaryFile reads a summary table from the named file.
func ReadSummaryFile(path string) (map[string]Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSummary(f)
}
