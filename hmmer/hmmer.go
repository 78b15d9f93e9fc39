// Copyright ©2026 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hmmer provides interaction with the HMMER profile search tools.
package hmmer

import (
	"errors"
	"os/exec"

	"github.com/biogo/external"
)

var ErrMissingRequired = errors.New("hmmer: missing required argument")

// Search defines parameters for hmmsearch.
type Search struct {
	// Usage: hmmsearch [options] <hmmfile> <seqdb>
	//
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}hmmsearch{{end}}"` // hmmsearch

	// Output options:
	Out        string `buildarg:"{{if .}}-o{{split}}{{.}}{{end}}"`          // -o: direct output to file, not stdout
	TblOut     string `buildarg:"{{if .}}--tblout{{split}}{{.}}{{end}}"`    // --tblout: per-sequence hits table
	DomTblOut  string `buildarg:"{{if .}}--domtblout{{split}}{{.}}{{end}}"` // --domtblout: per-domain hits table
	NoAlign    bool   `buildarg:"{{if .}}--noali{{end}}"`                   // --noali: don't output alignments
	Acc        bool   `buildarg:"{{if .}}--acc{{end}}"`                     // --acc: prefer accessions over names
	NoTextWrap bool   `buildarg:"{{if .}}--notextw{{end}}"`                 // --notextw: unlimit ASCII text output line width

	// Reporting and inclusion thresholds:
	EValue    float64 `buildarg:"{{if .}}-E{{split}}{{.}}{{end}}"`     // -E: report sequences <= this E-value
	DomEValue float64 `buildarg:"{{if .}}--domE{{split}}{{.}}{{end}}"` // --domE: report domains <= this E-value
	IncEValue float64 `buildarg:"{{if .}}--incE{{split}}{{.}}{{end}}"` // --incE: include sequences <= this E-value
	CutGA     bool    `buildarg:"{{if .}}--cut_ga{{end}}"`             // --cut_ga: use profile's GA gathering cutoffs
	CPU       int     `buildarg:"{{if .}}--cpu{{split}}{{.}}{{end}}"`  // --cpu: number of parallel CPU workers
	Seed      int     `buildarg:"{{if .}}--seed{{split}}{{.}}{{end}}"` // --seed: RNG seed

	// Input files:
	HMM string `buildarg:"{{.}}"` // "<hmmfile>"
	Seq string `buildarg:"{{.}}"` // "<seqdb>"
}

// BuildCommand returns an exec.Cmd built from the parameters in s.
func (s Search) BuildCommand() (*exec.Cmd, error) {
	if s.HMM == "" || s.Seq == "" {
		return nil, ErrMissingRequired
	}
	cl := external.Must(external.Build(s))
	return exec.Command(cl[0], cl[1:]...), nil
}

// Scan defines parameters for hmmscan.
type Scan struct {
	// Usage: hmmscan [options] <hmmdb> <seqfile>
	//
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}hmmscan{{end}}"` // hmmscan

	// Output options:
	Out        string `buildarg:"{{if .}}-o{{split}}{{.}}{{end}}"`          // -o: direct output to file, not stdout
	TblOut     string `buildarg:"{{if .}}--tblout{{split}}{{.}}{{end}}"`    // --tblout: per-sequence hits table
	DomTblOut  string `buildarg:"{{if .}}--domtblout{{split}}{{.}}{{end}}"` // --domtblout: per-domain hits table
	NoAlign    bool   `buildarg:"{{if .}}--noali{{end}}"`                   // --noali: don't output alignments
	Acc        bool   `buildarg:"{{if .}}--acc{{end}}"`                     // --acc: prefer accessions over names
	NoTextWrap bool   `buildarg:"{{if .}}--notextw{{end}}"`                 // --notextw: unlimit ASCII text output line width

	// Reporting and inclusion thresholds:
	EValue    float64 `buildarg:"{{if .}}-E{{split}}{{.}}{{end}}"`     // -E: report models <= this E-value
	DomEValue float64 `buildarg:"{{if .}}--domE{{split}}{{.}}{{end}}"` // --domE: report domains <= this E-value
	CutGA     bool    `buildarg:"{{if .}}--cut_ga{{end}}"`             // --cut_ga: use profile's GA gathering cutoffs
	CPU       int     `buildarg:"{{if .}}--cpu{{split}}{{.}}{{end}}"`  // --cpu: number of parallel CPU workers

	// Input files:
	HMMDB string `buildarg:"{{.}}"` // "<hmmdb>" pressed with hmmpress
	Seq   string `buildarg:"{{.}}"` // "<seqfile>"
}

// BuildCommand returns an exec.Cmd built from the parameters in s.
func (s Scan) BuildCommand() (*exec.Cmd, error) {
	if s.HMMDB == "" || s.Seq == "" {
		return nil, ErrMissingRequired
	}
	cl := external.Must(external.Build(s))
	return exec.Command(cl[0], cl[1:]...), nil
}
