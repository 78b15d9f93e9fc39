// Copyright ©2026 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tally

import (
	"bytes"
	"encoding/csv"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/biogo/biogo/alphabet"

	"github.com/kortschak/cutlass/cleave"
	"github.com/kortschak/cutlass/hmmer"
	"github.com/kortschak/cutlass/stage"
)

const (
	hmmsearchTable = `# hmmsearch domain table
prot1                -            230 cutinase             -            200   1e-40  140.0   0.1   1   2   1e-42   1e-38  130.0   0.1     5   190    25   215    15   220 0.95 -
prot1                -            230 cutinase             -            200   1e-40  140.0   0.1   2   2   1e-42   1e-20   60.0   0.1    20   100   120   200   118   205 0.90 -
prot2                -            200 cutinase             -            200   1e-30  100.0   0.0   1   1   1e-32   1e-29   99.0   0.0     1   180    40   190    38   195 0.93 -
`
	pfamTable = `# hmmscan domain table
Cutinase             PF01083.25   179 prot1                -            210   2.1e-45  152.3   0.1   1   1   3.2e-49   4.5e-45  151.2   0.1     2   178    10   190     9   191 0.97 Cutinase
Cutinase             PF01083.25   179 prot2                -            200   1e-20   70.0   0.0   1   1   1e-24   1e-20   69.0   0.0    10   170    20   180    18   182 0.91 Cutinase
`
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = os.WriteFile(path, []byte(content), 0o644)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func layout(t *testing.T) *stage.Config {
	c := stage.Default()
	c.Root = t.TempDir()

	prot1 := strings.Repeat("M", 20) + strings.Repeat("K", 210)
	prot2 := strings.Repeat("L", 200)
	writeFile(t, filepath.Join(c.ProteomeDir(), "s1.faa"), ">prot1 first\n"+prot1+"\n>prot2\n"+prot2+"\n>prot3\nMMM\n")

	writeFile(t, filepath.Join(c.StageDir(stage.HMMSearch, "s1"), "s1.domtblout"), hmmsearchTable)

	sp := cleave.PathsFor(c.StageDir(stage.SignalP, "s1"), "s1", false)
	writeFile(t, sp.Summary, cleave.SummaryHeader+"\nprot1\t1\t20\t20\t230\t210\n")
	writeFile(t, sp.Trimmed, ">prot1 first | signalp_cleaved\n"+prot1[20:]+"\n")

	writeFile(t, filepath.Join(c.StageDir(stage.Pfam, "s1"), "s1_pfam.domtblout"), pfamTable)
	writeFile(t, filepath.Join(c.StageDir(stage.Pfam, "s1"), "s1_pfam_filtered.fasta"),
		">prot1 first | signalp_cleaved\n"+prot1[20:]+"\n>prot2 | no_signal_peptide\n"+prot2+"\n")
	return c
}

func TestRows(t *testing.T) {
	c := layout(t)
	rows, err := Builder{Config: c, Pfam: "PF01083"}.Rows()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("unexpected number of rows: got:%d want:2", len(rows))
	}
	Group(rows, 3, 0.5)

	var buf bytes.Buffer
	err = WriteCSV(&buf, rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	recs, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("unexpected number of records: %d", len(recs))
	}
	col := make(map[string]int)
	for i, name := range recs[0] {
		col[name] = i
	}
	if len(col) != len(Columns) {
		t.Fatalf("unexpected header: %v", recs[0])
	}

	checks := []struct {
		row    int
		column string
		want   string
	}{
		{1, "sample", "s1"},
		{1, "sequence_id", "prot1"},
		{1, "length_original_aa", "230"},
		{1, "length_secreted_trimmed_aa", "210"},
		{1, "length_final_selected_aa", "210"},
		{1, "hmm_query", "cutinase"},
		{1, "hmm_domain_ievalue", "1e-38"},
		{1, "hmm_ali_from", "25"},
		{1, "has_signal_peptide", "yes"},
		{1, "signalp_cleavage_after_aa", "20"},
		{1, "signalp_mature_length_aa", "210"},
		{1, "pfam_accession", "PF01083"},
		{1, "pfam_hit", "Cutinase"},
		{1, "pfam_domain_bitscore", "151.2"},
		{1, "pfam_desc", "Cutinase"},
		{1, "hmm_overlaps_signal_peptide", "yes"},
		{1, "candidate_group", "1"},

		{2, "sequence_id", "prot2"},
		{2, "length_original_aa", "200"},
		{2, "length_secreted_trimmed_aa", ""},
		{2, "has_signal_peptide", "no"},
		{2, "signalp_start", ""},
		{2, "hmm_full_bitscore", "100"},
		{2, "pfam_evalue_full", "1e-20"},
		{2, "hmm_overlaps_signal_peptide", ""},
		{2, "candidate_group", "2"},
	}
	for _, c := range checks {
		got := recs[c.row][col[c.column]]
		if got != c.want {
			t.Errorf("unexpected value for row %d %s: got:%q want:%q", c.row, c.column, got, c.want)
		}
	}
}

func TestRowsNoSamples(t *testing.T) {
	c := stage.Default()
	c.Root = t.TempDir()
	_, err := Builder{Config: c, Pfam: "PF01083"}.Rows()
	if !errors.Is(err, ErrNoSamples) {
		t.Errorf("expected no samples error, got: %v", err)
	}
}

func TestOriginalLengthFallback(t *testing.T) {
	c := layout(t)
	err := os.Remove(filepath.Join(c.ProteomeDir(), "s1.faa"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows, err := Builder{Config: c, Pfam: "PF01083"}.Rows()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].OriginalLen != 230 {
		t.Errorf("unexpected fallback length: got:%d want:230", rows[0].OriginalLen)
	}
	if rows[1].OriginalLen >= 0 {
		t.Errorf("unexpected original length for prot2: %d", rows[1].OriginalLen)
	}
}

func TestOverlap(t *testing.T) {
	trees := envelopeTrees(nil)
	if got := trees.overlap("x", &cleave.Summary{Start: 1, End: 20}); got != Unknown {
		t.Errorf("unexpected overlap without envelopes: %v", got)
	}

	hits, err := hmmer.ReadDomains(strings.NewReader(hmmsearchTable))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	trees = envelopeTrees(hits)

	// The prot1 envelopes start at residues 15 and 118.
	for _, test := range []struct {
		start, end int
		want       Overlap
	}{
		{start: 1, end: 14, want: NoOverlap},
		{start: 1, end: 15, want: Overlapping},
		{start: 100, end: 117, want: Overlapping},
	} {
		got := trees.overlap("prot1", &cleave.Summary{Start: test.start, End: test.end})
		if got != test.want {
			t.Errorf("unexpected overlap for %d-%d: got:%v want:%v", test.start, test.end, got, test.want)
		}
	}
	if got := trees.overlap("prot1", nil); got != Unknown {
		t.Errorf("unexpected overlap without signal peptide: %v", got)
	}
}

func TestGroup(t *testing.T) {
	rows := []Row{
		{Seq: alphabet.Letters("MKVLAAGLLW")},
		{Seq: alphabet.Letters("WWWWPPPPQQ")},
		{Seq: alphabet.Letters("mkvlaagllw")},
		{Seq: alphabet.Letters("WWWWPPPPQQR")},
		{Seq: alphabet.Letters("ACDEFGHIKL")},
	}
	n := Group(rows, 3, 0.8)
	if n != 3 {
		t.Errorf("unexpected number of groups: got:%d want:3", n)
	}
	want := []int{1, 2, 1, 2, 3}
	for i, r := range rows {
		if r.Group != want[i] {
			t.Errorf("unexpected group for row %d: got:%d want:%d", i, r.Group, want[i])
		}
	}
}

func TestStats(t *testing.T) {
	s := Stats([]float64{210, 200, 190})
	if s.N != 3 || s.Mean != 200 || s.Median != 200 || s.Min != 190 || s.Max != 210 {
		t.Errorf("unexpected summary: %+v", s)
	}
	if math.Abs(s.StdDev-10) > 1e-9 {
		t.Errorf("unexpected standard deviation: %v", s.StdDev)
	}
	if s := Stats([]float64{42}); s.N != 1 || s.Mean != 42 || s.StdDev != 0 {
		t.Errorf("unexpected summary for single value: %+v", s)
	}
	for _, test := range []struct {
		x    []float64
		want float64
	}{
		{x: []float64{100, 200}, want: 150},
		{x: []float64{4, 1, 3, 2}, want: 2.5},
		{x: []float64{5, 1, 3}, want: 3},
	} {
		if got := Stats(test.x).Median; got != test.want {
			t.Errorf("unexpected median of %v: got:%v want:%v", test.x, got, test.want)
		}
	}
	if s := Stats(nil); s.N != 0 {
		t.Errorf("unexpected summary for no values: %+v", s)
	}
}

func TestHistogram(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lengths.png")
	err := Histogram([]float64{180, 190, 200, 210, 210, 250}, "final lengths", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fi, err := os.Stat(path)
	if err != nil || fi.Size() == 0 {
		t.Errorf("missing histogram image: %v", err)
	}
	if err := Histogram(nil, "", path); !errors.Is(err, ErrNoData) {
		t.Errorf("expected no data error, got: %v", err)
	}
}
