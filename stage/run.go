// Copyright ©2026 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stage

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
)

// ExitError is returned when an external tool fails.
type ExitError struct {
	Cmd  string
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Code < 0 {
		return fmt.Sprintf("%s failed: %v", e.Cmd, e.Err)
	}
	return fmt.Sprintf("%s exited with status %d", e.Cmd, e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Run runs cmd to completion. Unless already set, the command's
// standard output and standard error are directed to os.Stderr.
// A failure to start or a non-zero exit status is returned as an
// *ExitError.
func Run(logger *log.Logger, cmd *exec.Cmd) error {
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stderr
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	logger.Debug("running", "cmd", strings.Join(cmd.Args, " "))
	err := cmd.Run()
	if err == nil {
		return nil
	}
	name := cmd.Path
	if len(cmd.Args) != 0 {
		name = cmd.Args[0]
	}
	code := -1
	var exit *exec.ExitError
	if errors.As(err, &exit) {
		code = exit.ExitCode()
	}
	return &ExitError{Cmd: name, Code: code, Err: err}
}
