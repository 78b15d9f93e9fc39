// Copyright ©2026 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"
)

// MissingError is returned when required input files are absent.
type MissingError struct {
	Paths []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("missing input file: %s", strings.Join(e.Paths, ", "))
}

// RequireFiles returns a *MissingError listing every path that
// does not name an existing regular file.
func RequireFiles(paths ...string) error {
	var missing []string
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil || !fi.Mode().IsRegular() {
			missing = append(missing, p)
		}
	}
	if missing != nil {
		return &MissingError{Paths: missing}
	}
	return nil
}

// ToolError is returned when a required external tool cannot be found.
type ToolError struct {
	Name string
	Err  error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("missing required tool %q: %v", e.Name, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

// LookTool returns the path of the executable for the named tool.
// If override is not empty it is used in place of a PATH search
// and must name an executable file.
func LookTool(name, override string) (string, error) {
	if override == "" {
		path, err := exec.LookPath(name)
		if err != nil {
			return "", &ToolError{Name: name, Err: err}
		}
		return path, nil
	}
	fi, err := os.Stat(override)
	if err != nil {
		return "", &ToolError{Name: name, Err: err}
	}
	if fi.IsDir() || fi.Mode()&0o111 == 0 {
		return "", &ToolError{Name: name, Err: fs.ErrPermission}
	}
	return override, nil
}

// LookTools returns the paths of the named tools, using overrides
// from c where present. All missing tools are reported.
func (c *Config) LookTools(names ...string) (map[string]string, error) {
	paths := make(map[string]string)
	var errs []error
	for _, n := range names {
		p, err := LookTool(n, c.Tool(n))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		paths[n] = p
	}
	return paths, errors.Join(errs...)
}
