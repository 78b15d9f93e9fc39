// Copyright ©2026 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tally

import (
	"github.com/biogo/store/interval"

	"github.com/kortschak/cutlass/cleave"
	"github.com/kortschak/cutlass/hmmer"
)

// Overlap is the overlap state between a signal peptide and
// the profile domain envelopes of a sequence.
type Overlap int

const (
	// Unknown indicates either the signal peptide
	// or the domain envelopes are absent.
	Unknown Overlap = iota
	NoOverlap
	Overlapping
)

func (o Overlap) String() string {
	switch o {
	case NoOverlap:
		return "no"
	case Overlapping:
		return "yes"
	default:
		return ""
	}
}

// envelopes holds an interval tree of domain envelopes for each target.
type envelopes map[string]*interval.IntTree

func envelopeTrees(hits []hmmer.Hit) envelopes {
	trees := make(envelopes)
	for i := range hits {
		h := &hits[i]
		t, ok := trees[h.TargetName]
		if !ok {
			t = &interval.IntTree{}
			trees[h.TargetName] = t
		}
		t.Insert(envInterval{start: h.EnvFrom - 1, end: h.EnvTo, id: uintptr(i + 1)}, true)
	}
	for _, t := range trees {
		t.AdjustRanges()
	}
	return trees
}

// overlap returns whether the signal peptide described by sp
// overlaps any domain envelope of the named sequence.
func (e envelopes) overlap(id string, sp *cleave.Summary) Overlap {
	t, ok := e[id]
	if !ok || sp == nil {
		return Unknown
	}
	if len(t.Get(envInterval{start: sp.Start - 1, end: sp.End})) != 0 {
		return Overlapping
	}
	return NoOverlap
}

// envInterval is a zero-based half-open sequence interval.
type envInterval struct {
	start, end int
	id         uintptr
}

func (i envInterval) ID() uintptr { return i.id }
func (i envInterval) Range() interval.IntRange {
	return interval.IntRange{Start: i.start, End: i.end}
}
func (i envInterval) Overlap(b interval.IntRange) bool {
	// Half-open interval indexing.
	return i.end > b.Start && i.start < b.End
}
