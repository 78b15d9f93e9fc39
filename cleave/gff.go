// Copyright ©2026 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cleave

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/biogo/biogo/feat"
	"github.com/biogo/biogo/io/featio"
	"github.com/biogo/biogo/io/featio/gff"
)

// SignalPeptide is the GFF feature type of a predicted signal peptide.
const SignalPeptide = "signal_peptide"

// TableFromGFF returns the signal peptide spans described by
// signal_peptide features in the GFF read from r, in file order.
// Only the first word of the sequence name column is used as the ID.
func TableFromGFF(r io.Reader) ([]Entry, error) {
	body, err := stripComments(r)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	sc := featio.NewScanner(gff.NewReader(body))
	for sc.Next() {
		f := sc.Feat().(*gff.Feature)
		if f.Feature != SignalPeptide {
			continue
		}
		id := strings.Fields(f.SeqName)
		if len(id) == 0 {
			continue
		}
		entries = append(entries, Entry{
			ID:    id[0],
			Start: feat.ZeroToOne(f.FeatStart),
			End:   f.FeatEnd,
		})
	}
	return entries, sc.Error()
}

// TableFromGFFFile returns the signal peptide spans in the named GFF file.
func TableFromGFFFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return TableFromGFF(f)
}

// stripComments removes blank lines and lines starting with '#'.
// An empty attribute column, written by SignalP as ".", is removed
// since the gff reader does not accept it as an attribute list.
func stripComments(r io.Reader) (io.Reader, error) {
	var buf bytes.Buffer
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, 1<<20)
	for sc.Scan() {
		line := sc.Bytes()
		if len(bytes.TrimSpace(line)) == 0 || line[0] == '#' {
			continue
		}
		fields := bytes.Split(bytes.TrimRight(line, "\r"), []byte{'\t'})
		if len(fields) == attributeColumn+1 && string(bytes.TrimSpace(fields[attributeColumn])) == "." {
			fields = fields[:attributeColumn]
		}
		buf.Write(bytes.Join(fields, []byte{'\t'}))
		buf.WriteByte('\n')
	}
	return &buf, sc.Err()
}

// attributeColumn is the 0-based index of the GFF attribute column.
const attributeColumn = 8

// Tabulate returns a Table from entries, retaining the first
// entry for each ID.
func Tabulate(entries []Entry) Table {
	t := make(Table, len(entries))
	for _, e := range entries {
		if _, ok := t[e.ID]; ok {
			continue
		}
		t[e.ID] = e
	}
	return t
}
