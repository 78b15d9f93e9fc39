// Copyright ©2026 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package segment extracts position ranges from sequences.
package segment

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/biogo/biogo/alphabet"
)

// Range is a 1-based inclusive position range.
type Range struct {
	Start, End int
}

// ParseRange parses a range in the form A-B.
func ParseRange(s string) (Range, error) {
	a, b, ok := strings.Cut(s, "-")
	if !ok {
		return Range{}, fmt.Errorf("segment: bad range format: %q (expected A-B)", s)
	}
	var (
		r   Range
		err error
	)
	r.Start, err = strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return Range{}, fmt.Errorf("segment: bad range start: %q: %w", s, err)
	}
	r.End, err = strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return Range{}, fmt.Errorf("segment: bad range end: %q: %w", s, err)
	}
	return r, nil
}

// Set is a set of ranges to extract from a sequence.
type Set struct {
	// All indicates the sequence is taken whole.
	All bool

	Ranges []Range
}

// Empty returns whether s selects nothing.
func (s Set) Empty() bool { return !s.All && len(s.Ranges) == 0 }

func (s Set) String() string {
	if s.All {
		return "-"
	}
	parts := make([]string, len(s.Ranges))
	for i, r := range s.Ranges {
		parts[i] = fmt.Sprintf("%d-%d", r.Start, r.End)
	}
	return strings.Join(parts, ",")
}

// ParseSet parses a comma separated list of ranges. An element
// of "-" selects the whole sequence.
func ParseSet(s string) (Set, error) {
	var set Set
	for _, piece := range strings.Split(s, ",") {
		piece = strings.TrimSpace(piece)
		switch piece {
		case "":
			continue
		case "-":
			set.All = true
			continue
		}
		r, err := ParseRange(piece)
		if err != nil {
			return Set{}, err
		}
		set.Ranges = append(set.Ranges, r)
	}
	return set, nil
}

// Mode is the interpretation of a positions file.
type Mode int

const (
	// Global positions apply to every record.
	Global Mode = iota
	// PerID positions apply to the record with the matching ID.
	PerID
	// Ordered positions apply to records in file order.
	Ordered
)

func (m Mode) String() string {
	switch m {
	case Global:
		return "global"
	case PerID:
		return "per-id"
	case Ordered:
		return "ordered"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Positions holds the ranges to extract from a set of records.
type Positions struct {
	Mode Mode

	Global  Set
	ByID    map[string]Set
	Ordered []Set
}

// ReadPositions reads a positions file. Blank lines and lines
// starting with '#' are ignored. If any line holds an "id:ranges"
// pair the file is read in PerID mode and lines without an ID are
// ignored. Otherwise a single line is read as Global positions and
// multiple lines as Ordered positions.
func ReadPositions(r io.Reader) (*Positions, error) {
	var (
		lines []string
		perID bool
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		perID = perID || strings.Contains(line, ":")
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	switch {
	case perID:
		p := &Positions{Mode: PerID, ByID: make(map[string]Set)}
		for _, l := range lines {
			id, rest, ok := strings.Cut(l, ":")
			if !ok {
				continue
			}
			rest = strings.TrimSpace(rest)
			if rest == "" {
				continue
			}
			s, err := ParseSet(rest)
			if err != nil {
				return nil, err
			}
			p.ByID[strings.TrimSpace(id)] = s
		}
		return p, nil
	case len(lines) == 0:
		return &Positions{Mode: Global}, nil
	case len(lines) == 1:
		s, err := ParseSet(lines[0])
		if err != nil {
			return nil, err
		}
		return &Positions{Mode: Global, Global: s}, nil
	default:
		p := &Positions{Mode: Ordered, Ordered: make([]Set, len(lines))}
		for i, l := range lines {
			s, err := ParseSet(l)
			if err != nil {
				return nil, err
			}
			p.Ordered[i] = s
		}
		return p, nil
	}
}

// ReadPositionsFile reads a positions file from the named path.
func ReadPositionsFile(path string) (*Positions, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadPositions(f)
}

// For returns the ranges for the record with the given 0-based
// index and ID.
func (p *Positions) For(index int, id string) Set {
	switch p.Mode {
	case PerID:
		return p.ByID[id]
	case Ordered:
		if index < len(p.Ordered) {
			return p.Ordered[index]
		}
		return Set{}
	default:
		return p.Global
	}
}

// Extract returns the concatenation of the ranges of seq selected
// by s. Ranges are clamped to the sequence and empty pieces are
// skipped. In tail mode a range A-B selects from B to the end of
// the sequence.
func Extract(seq alphabet.Letters, s Set, tail bool) alphabet.Letters {
	if s.All {
		return seq
	}
	var out alphabet.Letters
	for _, r := range s.Ranges {
		var start, end int
		if tail {
			start = max(1, r.End)
			end = len(seq)
		} else {
			start = max(1, r.Start)
			end = min(len(seq), r.End)
		}
		if start > end {
			continue
		}
		out = append(out, seq[start-1:end]...)
	}
	return out
}
