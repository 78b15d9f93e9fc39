// Copyright ©2026 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mafft provides interaction with the MAFFT multiple sequence aligner.
package mafft

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/biogo/external"

	"github.com/kortschak/cutlass/proteome"
)

var ErrMissingRequired = errors.New("mafft: missing required argument")

// MAFFT defines parameters for the mafft aligner. The alignment
// is written to the standard output of the command.
type MAFFT struct {
	// Usage: mafft [options] <in>
	//
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}mafft{{end}}"` // mafft

	// Strategy options:
	Auto       bool `buildarg:"{{if .}}--auto{{end}}"`                     // --auto: choose strategy by data size
	LocalPair  bool `buildarg:"{{if .}}--localpair{{end}}"`                // --localpair: L-INS-i
	GlobalPair bool `buildarg:"{{if .}}--globalpair{{end}}"`               // --globalpair: G-INS-i
	MaxIterate int  `buildarg:"{{if .}}--maxiterate{{split}}{{.}}{{end}}"` // --maxiterate: iterative refinement cycles

	// Sequence options:
	Amino bool `buildarg:"{{if .}}--amino{{end}}"` // --amino: input is protein
	Quiet bool `buildarg:"{{if .}}--quiet{{end}}"` // --quiet: no progress report

	Threads int `buildarg:"{{if .}}--thread{{split}}{{.}}{{end}}"` // --thread: number of threads

	// Input file:
	In string `buildarg:"{{.}}"` // "<in>"
}

// BuildCommand returns an exec.Cmd built from the parameters in m.
func (m MAFFT) BuildCommand() (*exec.Cmd, error) {
	if m.In == "" {
		return nil, ErrMissingRequired
	}
	if btoi(m.Auto)+btoi(m.LocalPair)+btoi(m.GlobalPair) > 1 {
		return nil, errors.New("mafft: conflicting alignment strategies")
	}
	cl := external.Must(external.Build(m))
	return exec.Command(cl[0], cl[1:]...), nil
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}

// ErrRagged is returned by Width when aligned records differ in length.
var ErrRagged = errors.New("mafft: aligned records differ in length")

// Width returns the common length of the aligned records in recs.
func Width(recs []*proteome.Record) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}
	w := recs[0].Len()
	for _, r := range recs[1:] {
		if r.Len() != w {
			return 0, fmt.Errorf("%w: %s has %d columns, %s has %d", ErrRagged, recs[0].ID, w, r.ID, r.Len())
		}
	}
	return w, nil
}
