// Copyright ©2026 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package signalp provides interaction with the SignalP 6 signal peptide predictor.
package signalp

import (
	"errors"
	"os/exec"
	"path/filepath"

	"github.com/biogo/external"
)

var ErrMissingRequired = errors.New("signalp: missing required argument")

// GFFName is the name of the GFF3 prediction file written to the output directory.
const GFFName = "output.gff3"

// GFF returns the path of the GFF3 prediction file in the output directory dir.
func GFF(dir string) string {
	return filepath.Join(dir, GFFName)
}

// SignalP defines parameters for signalp6.
type SignalP struct {
	// Usage: signalp6 --fastafile <in> --output_dir <dir> [options]
	//
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}signalp6{{end}}"` // signalp6

	// Input and output:
	In     string `buildarg:"{{if .}}--fastafile{{split}}{{.}}{{end}}"`  // --fastafile: input protein fasta
	OutDir string `buildarg:"{{if .}}--output_dir{{split}}{{.}}{{end}}"` // --output_dir: prediction output directory
	Format string `buildarg:"{{if .}}--format{{split}}{{.}}{{end}}"`     // --format: txt, png, eps or all
	Models string `buildarg:"{{if .}}--model_dir{{split}}{{.}}{{end}}"`  // --model_dir: model weights directory

	// Prediction options:
	Organism string `buildarg:"{{if .}}--organism{{split}}{{.}}{{end}}"` // --organism: eukarya or other
	Mode     string `buildarg:"{{if .}}--mode{{split}}{{.}}{{end}}"`     // --mode: fast, slow or slow-sequential

	// Resource options:
	BatchSize    int `buildarg:"{{if .}}--bsize{{split}}{{.}}{{end}}"`             // --bsize: sequences per batch
	WriteProcs   int `buildarg:"{{if .}}--write_procs{{split}}{{.}}{{end}}"`       // --write_procs: output writer processes
	TorchThreads int `buildarg:"{{if .}}--torch_num_threads{{split}}{{.}}{{end}}"` // --torch_num_threads: torch CPU threads
}

// BuildCommand returns an exec.Cmd built from the parameters in s.
func (s SignalP) BuildCommand() (*exec.Cmd, error) {
	if s.In == "" || s.OutDir == "" {
		return nil, ErrMissingRequired
	}
	cl := external.Must(external.Build(s))
	return exec.Command(cl[0], cl[1:]...), nil
}
