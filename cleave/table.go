// Copyright ©2026 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cleave

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var (
	ErrFieldCount = errors.New("cleave: wrong number of fields")
	ErrBadRange   = errors.New("cleave: invalid signal peptide range")
)

// Entry is a predicted signal peptide span. Start and End
// are 1-based and inclusive; End is the last residue of the
// signal peptide.
type Entry struct {
	ID         string
	Start, End int
}

// Table maps sequence IDs to signal peptide spans.
type Table map[string]Entry

// RowError is returned for malformed coordinate table rows.
type RowError struct {
	Line int
	Text string
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("cleave: line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Table field indexes.
const (
	idField = iota
	startField
	endField

	tableFields
)

// ReadTable reads a three column tab-separated table of
// sequence ID, signal peptide start and signal peptide end.
// Only the first word of the ID column is used, so full fasta
// headers match their record IDs. Blank lines are ignored. When an ID occurs more than once
// the first row is retained.
func ReadTable(r io.Reader) (Table, error) {
	t := make(Table)
	sc := bufio.NewScanner(r)
	var line int
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		e, err := parseEntry(text)
		if err != nil {
			return nil, &RowError{Line: line, Text: text, Err: err}
		}
		if _, ok := t[e.ID]; ok {
			continue
		}
		t[e.ID] = e
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

func parseEntry(text string) (Entry, error) {
	f := strings.Split(text, "\t")
	if len(f) != tableFields {
		return Entry{}, fmt.Errorf("%w: got %d", ErrFieldCount, len(f))
	}
	id := strings.Fields(f[idField])
	if len(id) == 0 {
		return Entry{}, errors.New("cleave: empty sequence id")
	}
	e := Entry{ID: id[0]}
	var err error
	e.Start, err = strconv.Atoi(strings.TrimSpace(f[startField]))
	if err != nil {
		return Entry{}, err
	}
	e.End, err = strconv.Atoi(strings.TrimSpace(f[endField]))
	if err != nil {
		return Entry{}, err
	}
	if e.Start < 1 || e.Start > e.End {
		return Entry{}, fmt.Errorf("%w: %d-%d", ErrBadRange, e.Start, e.End)
	}
	return e, nil
}

// ReadTableFile reads a coordinate table from the named file.
func ReadTableFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTable(f)
}

// WriteTable writes entries to w in the format read by ReadTable.
func WriteTable(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		_, err := fmt.Fprintf(bw, "%s\t%d\t%d\n", e.ID, e.Start, e.End)
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteTableFile writes entries to the named file.
func WriteTableFile(path string, entries []Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = WriteTable(f, entries)
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
