// Copyright ©2026 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package seqkit provides interaction with the seqkit sequence toolkit.
package seqkit

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/biogo/external"
)

var ErrMissingRequired = errors.New("seqkit: missing required argument")

// Grep defines parameters for seqkit grep.
type Grep struct {
	// Usage: seqkit grep [flags] <in>
	//
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}seqkit{{end}}{{split}}grep"` // seqkit grep

	// Pattern options:
	PatternFile string   `buildarg:"{{if .}}-f{{split}}{{.}}{{end}}"`                                        // -f: pattern file, one per line
	Patterns    []string `buildarg:"{{range $i, $p := .}}{{if $i}}{{split}}{{end}}-p{{split}}{{$p}}{{end}}"` // -p: search patterns
	ByName      bool     `buildarg:"{{if .}}-n{{end}}"`                                                      // -n: match full name rather than ID
	Regexp      bool     `buildarg:"{{if .}}-r{{end}}"`                                                      // -r: patterns are regular expressions
	IgnoreCase  bool     `buildarg:"{{if .}}-i{{end}}"`                                                      // -i: ignore case
	Invert      bool     `buildarg:"{{if .}}-v{{end}}"`                                                      // -v: invert match

	Threads int    `buildarg:"{{if .}}-j{{split}}{{.}}{{end}}"` // -j: number of CPUs
	Out     string `buildarg:"{{if .}}-o{{split}}{{.}}{{end}}"` // -o: output file, stdout if empty

	// Input file:
	In string `buildarg:"{{.}}"` // "<in>"
}

// BuildCommand returns an exec.Cmd built from the parameters in g.
func (g Grep) BuildCommand() (*exec.Cmd, error) {
	if g.In == "" || (g.PatternFile == "" && len(g.Patterns) == 0) {
		return nil, ErrMissingRequired
	}
	cl := external.Must(external.Build(g))
	return exec.Command(cl[0], cl[1:]...), nil
}

// WriteIDs writes ids one per line to w in the format read by
// seqkit grep -f.
func WriteIDs(w io.Writer, ids []string) error {
	bw := bufio.NewWriter(w)
	for _, id := range ids {
		_, err := fmt.Fprintln(bw, id)
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteIDsFile writes ids to the named file in the format read
// by seqkit grep -f.
func WriteIDsFile(path string, ids []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = WriteIDs(f, ids)
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
