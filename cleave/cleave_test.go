// Copyright ©2026 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cleave

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/biogo/biogo/alphabet"

	"github.com/kortschak/cutlass/proteome"
)

func TestReadTable(t *testing.T) {
	got, err := ReadTable(strings.NewReader("A\t1\t20\n\nB\t2\t25\r\nA\t5\t30\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Table{
		"A": {ID: "A", Start: 1, End: 20},
		"B": {ID: "B", Start: 2, End: 25},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected table:\ngot: %v\nwant:%v", got, want)
	}

	got, err = ReadTable(strings.NewReader("Q1 some cutinase\t1\t20\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want = Table{"Q1": {ID: "Q1", Start: 1, End: 20}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected table for full header:\ngot: %v\nwant:%v", got, want)
	}
}

var badRowTests = []struct {
	in   string
	line int
	err  error
}{
	{in: "A\t1\n", line: 1, err: ErrFieldCount},
	{in: "A\t1\t20\nB\t1\t2\t3\n", line: 2, err: ErrFieldCount},
	{in: "A\t0\t20\n", line: 1, err: ErrBadRange},
	{in: "A\t21\t20\n", line: 1, err: ErrBadRange},
	{in: "A 1 20\n", line: 1, err: ErrFieldCount},
	{in: "A\tone\t20\n", line: 1},
	{in: " \t1\t20\n", line: 1},
}

func TestReadTableErrors(t *testing.T) {
	for _, test := range badRowTests {
		_, err := ReadTable(strings.NewReader(test.in))
		var rerr *RowError
		if !errors.As(err, &rerr) {
			t.Errorf("expected row error for %q, got: %v", test.in, err)
			continue
		}
		if rerr.Line != test.line {
			t.Errorf("unexpected line number for %q: got:%d want:%d", test.in, rerr.Line, test.line)
		}
		if test.err != nil && !errors.Is(err, test.err) {
			t.Errorf("unexpected error for %q: got:%v want:%v", test.in, err, test.err)
		}
	}
}

func TestWriteTable(t *testing.T) {
	entries := []Entry{{ID: "A", Start: 1, End: 20}, {ID: "B", Start: 1, End: 18}}
	var buf bytes.Buffer
	err := WriteTable(&buf, entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "A\t1\t20\nB\t1\t18\n"
	if buf.String() != want {
		t.Errorf("unexpected table: got:%q want:%q", buf.String(), want)
	}
}

func record(id string, n int) *proteome.Record {
	return &proteome.Record{ID: id, Header: id, Seq: alphabet.Letters(strings.Repeat("M", n))}
}

func TestClassify(t *testing.T) {
	tab := Table{"A": {ID: "A", Start: 1, End: 20}, "C": {ID: "C", Start: 1, End: 50}}

	res := Classify(record("A", 50), tab)
	if res.Fate != Trimmed {
		t.Errorf("unexpected fate for A: %v", res.Fate)
	}
	if res.Record.Len() != 30 || res.Record.Header != "A | signalp_cleaved" {
		t.Errorf("unexpected record for A: %+v", res.Record)
	}
	if got, want := res.Summary.String(), "A\t1\t20\t20\t50\t30"; got != want {
		t.Errorf("unexpected summary for A: got:%q want:%q", got, want)
	}

	res = Classify(record("B", 30), tab)
	if res.Fate != Passthrough || res.Summary != nil {
		t.Errorf("unexpected result for B: %+v", res)
	}
	if res.Record.Len() != 30 || res.Record.Header != "B | no_signal_peptide" {
		t.Errorf("unexpected record for B: %+v", res.Record)
	}

	res = Classify(record("C", 50), tab)
	if res.Fate != Dropped || res.Record != nil || res.Summary != nil {
		t.Errorf("unexpected result for C: %+v", res)
	}

	res = Classify(record("C", 40), tab)
	if res.Fate != Dropped {
		t.Errorf("unexpected fate for short C: %v", res.Fate)
	}
}

func TestClassifyLength(t *testing.T) {
	const n = 80
	for end := 1; end <= n; end++ {
		res := Classify(record("X", n), Table{"X": {ID: "X", Start: 1, End: end}})
		if end == n {
			if res.Fate != Dropped {
				t.Errorf("expected drop for end=%d", end)
			}
			continue
		}
		if res.Record.Len() != n-end {
			t.Errorf("unexpected length for end=%d: got:%d want:%d", end, res.Record.Len(), n-end)
		}
	}
}

func TestCleaver(t *testing.T) {
	in := ">A first\n" + strings.Repeat("M", 20) + strings.Repeat("K", 30) + "\n" +
		">B second\n" + strings.Repeat("L", 30) + "\n" +
		">C third\n" + strings.Repeat("W", 50) + "\n"
	tab := Table{"A": {ID: "A", Start: 1, End: 20}, "C": {ID: "C", Start: 1, End: 50}}

	var trimmed, noSignal, kept, summary bytes.Buffer
	c := Cleaver{Trimmed: &trimmed, NoSignal: &noSignal, Kept: &kept, Summary: &summary}
	n, err := c.Run(proteome.NewReader(strings.NewReader(in)), tab)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := (Counts{Trimmed: 1, NoSignal: 1, Dropped: 1}); n != want {
		t.Errorf("unexpected counts: got:%+v want:%+v", n, want)
	}

	wantTrimmed := ">A first | signalp_cleaved\n" + strings.Repeat("K", 30) + "\n"
	if trimmed.String() != wantTrimmed {
		t.Errorf("unexpected trimmed output:\ngot: %q\nwant:%q", trimmed.String(), wantTrimmed)
	}
	wantNoSignal := ">B second | no_signal_peptide\n" + strings.Repeat("L", 30) + "\n"
	if noSignal.String() != wantNoSignal {
		t.Errorf("unexpected no signal output:\ngot: %q\nwant:%q", noSignal.String(), wantNoSignal)
	}
	if kept.String() != wantTrimmed+wantNoSignal {
		t.Errorf("unexpected kept output:\ngot: %q\nwant:%q", kept.String(), wantTrimmed+wantNoSignal)
	}
	wantSummary := SummaryHeader + "\nA\t1\t20\t20\t50\t30\n"
	if summary.String() != wantSummary {
		t.Errorf("unexpected summary:\ngot: %q\nwant:%q", summary.String(), wantSummary)
	}
}

func TestCleaveEmptyTable(t *testing.T) {
	dir := t.TempDir()
	p := PathsFor(dir, "s1", false)
	in := ">x\nMKV\n>y\nLLA\n"
	n, err := p.Cleave(proteome.NewReader(strings.NewReader(in)), Table{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.NoSignal != 2 || n.Trimmed != 0 {
		t.Errorf("unexpected counts: %+v", n)
	}
	if p.Kept != "" {
		t.Errorf("unexpected kept path: %q", p.Kept)
	}

	for path, want := range map[string]string{
		p.Trimmed:  "",
		p.Summary:  SummaryHeader + "\n",
		p.NoSignal: ">x | no_signal_peptide\nMKV\n>y | no_signal_peptide\nLLA\n",
	} {
		got, err := os.ReadFile(path)
		if err != nil {
			t.Errorf("missing output: %v", err)
			continue
		}
		if string(got) != want {
			t.Errorf("unexpected content of %s:\ngot: %q\nwant:%q", filepath.Base(path), got, want)
		}
	}
}

func TestReadSummary(t *testing.T) {
	in := SummaryHeader + "\nA\t1\t20\t20\t50\t30\nB\t1\t18\t18\t200\t182\n"
	got, err := ReadSummary(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]Summary{
		"A": {ID: "A", Start: 1, End: 20, CleavageAfter: 20, OriginalLen: 50, NewLen: 30},
		"B": {ID: "B", Start: 1, End: 18, CleavageAfter: 18, OriginalLen: 200, NewLen: 182},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected summary:\ngot: %v\nwant:%v", got, want)
	}

	_, err = ReadSummary(strings.NewReader(SummaryHeader + "\nA\t1\n"))
	if !errors.Is(err, ErrFieldCount) {
		t.Errorf("expected field count error, got: %v", err)
	}
}

func TestTableFromGFF(t *testing.T) {
	const in = `## gff-version 3
sp|P1|CUT1 putative cutinase	SignalP-6.0	signal_peptide	1	20	0.98	.	.	.
sp|P2|CUT2	SignalP-6.0	signal_peptide	1	17	0.91	.	.	.
sp|P1|CUT1 putative cutinase	SignalP-6.0	signal_peptide	1	22	0.50	.	.	.
sp|P3|LIP	SignalP-6.0	lipoprotein_signal_peptide	1	19	0.7	.	.	.
`
	entries, err := TableFromGFF(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Entry{
		{ID: "sp|P1|CUT1", Start: 1, End: 20},
		{ID: "sp|P2|CUT2", Start: 1, End: 17},
		{ID: "sp|P1|CUT1", Start: 1, End: 22},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("unexpected entries:\ngot: %v\nwant:%v", entries, want)
	}
	tab := Tabulate(entries)
	if len(tab) != 2 || tab["sp|P1|CUT1"].End != 20 {
		t.Errorf("unexpected table: %v", tab)
	}

	for _, in := range []string{
		"##gff-version 3\nQ1 some cutinase\tSignalP-6.0\tsignal_peptide\t1\t20\t0.9997\t.\t.\t.\n",
		"Q1 some cutinase\tSignalP-6.0\tsignal_peptide\t1\t20\t0.9997\t.\t.\t.\r\n",
		"Q1\tSignalP-6.0\tsignal_peptide\t1\t20\t0.9997\t.\t.\n",
	} {
		entries, err := TableFromGFF(strings.NewReader(in))
		if err != nil {
			t.Errorf("unexpected error for %q: %v", in, err)
			continue
		}
		want := []Entry{{ID: "Q1", Start: 1, End: 20}}
		if !reflect.DeepEqual(entries, want) {
			t.Errorf("unexpected entries for %q: got:%v want:%v", in, entries, want)
		}
	}
}
