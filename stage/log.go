// Copyright ©2026 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stage

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// NewLogger returns a logger writing to w at the named level.
// Valid levels are debug, info, warn or warning, and error.
// An empty level is treated as info.
func NewLogger(w io.Writer, level string) (*log.Logger, error) {
	logger := log.New(w)

	styles := log.DefaultStyles()
	for lvl, label := range map[log.Level]string{
		log.DebugLevel: "DEBUG",
		log.InfoLevel:  "INFO",
		log.WarnLevel:  "WARNING",
		log.ErrorLevel: "ERROR",
		log.FatalLevel: "ERROR",
	} {
		styles.Levels[lvl] = lipgloss.NewStyle().SetString(label).Bold(true).Foreground(styles.Levels[lvl].GetForeground())
	}
	logger.SetStyles(styles)

	switch strings.ToLower(level) {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info", "":
		logger.SetLevel(log.InfoLevel)
	case "warn", "warning":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		return nil, fmt.Errorf("stage: unknown log level: %q", level)
	}
	return logger, nil
}
