// Copyright ©2026 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/kortschak/cutlass/cleave"
	"github.com/kortschak/cutlass/proteome"
	"github.com/kortschak/cutlass/stage"
)

// fakeSignalP writes a SignalP 6 style output.gff3 predicting a
// signal peptide at 1-20 for every record without "nosig" in its
// header.
const fakeSignalP = `#!/bin/sh
while [ $# -gt 0 ]; do
	case "$1" in
	--fastafile) in="$2"; shift;;
	--output_dir) out="$2"; shift;;
	esac
	shift
done
printf '## gff-version 3\n' > "$out/output.gff3"
grep '^>' "$in" | sed 's/^>//' | while read -r h; do
	case "$h" in
	*nosig*) ;;
	*) printf '%s\tSignalP-6.0\tsignal_peptide\t1\t20\t0.9997\t.\t.\t.\n' "$h" >> "$out/output.gff3";;
	esac
done
`

func writeFile(t *testing.T, path, content string, perm os.FileMode) {
	t.Helper()
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = os.WriteFile(path, []byte(content), perm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func setup(t *testing.T, signalp string) (*stage.Config, map[string]string) {
	t.Helper()
	cfg := stage.Default()
	cfg.Root = t.TempDir()
	tool := filepath.Join(cfg.Root, "bin", "signalp6")
	writeFile(t, tool, signalp, 0o755)
	cfg.Tools = map[string]string{"signalp6": tool}
	tools, err := cfg.LookTools("signalp6")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return cfg, tools
}

func ids(t *testing.T, path string) []string {
	t.Helper()
	recs, err := proteome.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var ids []string
	for _, r := range recs {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestFlense(t *testing.T) {
	cfg, tools := setup(t, fakeSignalP)
	mature := strings.Repeat("K", 20)
	hits := filepath.Join(cfg.StageDir(stage.HMMSearch, "s1"), "s1_hits.fasta")
	writeFile(t, hits, ">p1 some cutinase\n"+strings.Repeat("M", 20)+mature+"\n"+
		">p2 nosig protein\nMKVLLA\n"+
		">p3 short\n"+strings.Repeat("M", 20)+"\n", 0o644)

	logger, err := stage.NewLogger(io.Discard, "error")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = flense(logger, cfg, tools, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dir := cfg.StageDir(stage.SignalP, "s1")
	tab, err := cleave.ReadTableFile(cleave.CoordsPath(dir, "s1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantTab := cleave.Table{
		"p1": {ID: "p1", Start: 1, End: 20},
		"p3": {ID: "p3", Start: 1, End: 20},
	}
	if !reflect.DeepEqual(tab, wantTab) {
		t.Errorf("unexpected coordinate table:\ngot: %v\nwant:%v", tab, wantTab)
	}

	paths := cleave.PathsFor(dir, "s1", false)
	recs, err := proteome.ReadFile(paths.Trimmed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 || recs[0].Header != "p1 some cutinase | signalp_cleaved" || string(recs[0].Seq) != mature {
		t.Errorf("unexpected trimmed records: %+v", recs)
	}
	if got := ids(t, paths.NoSignal); !reflect.DeepEqual(got, []string{"p2"}) {
		t.Errorf("unexpected no signal records: %v", got)
	}
	sum, err := cleave.ReadSummaryFile(paths.Summary)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantSum := map[string]cleave.Summary{
		"p1": {ID: "p1", Start: 1, End: 20, CleavageAfter: 20, OriginalLen: 40, NewLen: 20},
	}
	if !reflect.DeepEqual(sum, wantSum) {
		t.Errorf("unexpected summary:\ngot: %v\nwant:%v", sum, wantSum)
	}
}

func TestFlenseNoHits(t *testing.T) {
	// SignalP must not be run for an empty hit file.
	cfg, tools := setup(t, "#!/bin/sh\nexit 1\n")
	hits := filepath.Join(cfg.StageDir(stage.HMMSearch, "s1"), "s1_hits.fasta")
	writeFile(t, hits, "", 0o644)

	logger, err := stage.NewLogger(io.Discard, "error")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = flense(logger, cfg, tools, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dir := cfg.StageDir(stage.SignalP, "s1")
	paths := cleave.PathsFor(dir, "s1", false)
	for _, p := range []string{paths.Trimmed, paths.NoSignal, cleave.CoordsPath(dir, "s1")} {
		fi, err := os.Stat(p)
		if err != nil || fi.Size() != 0 {
			t.Errorf("expected empty file %s: %v", p, err)
		}
	}
	b, err := os.ReadFile(paths.Summary)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != cleave.SummaryHeader+"\n" {
		t.Errorf("unexpected summary: %q", b)
	}
}

func TestFlenseMissingHits(t *testing.T) {
	cfg, tools := setup(t, fakeSignalP)
	logger, err := stage.NewLogger(io.Discard, "error")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = flense(logger, cfg, tools, "s1")
	if _, ok := err.(*stage.MissingError); !ok {
		t.Errorf("expected missing file error, got: %v", err)
	}
}
