// Copyright ©2026 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stage provides shared support for pipeline stage commands.
package stage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Pipeline stage result directory names.
const (
	HMMSearch = "01_hmmsearch"
	SignalP   = "02_signalp"
	Pfam      = "03_pfam"
	Alignment = "04_alignment"
	Summary   = "summary"
)

// Config is the layout and tool configuration shared by stages.
// Relative directories are resolved against Root.
type Config struct {
	Root       string `json:"root"`
	DataDir    string `json:"data_dir"`
	ResultsDir string `json:"results_dir"`
	LogLevel   string `json:"log_level"`

	// Tools maps tool names to executable paths
	// used in place of a PATH search.
	Tools map[string]string `json:"tools"`
}

// Default returns the default configuration rooted at the
// current working directory.
func Default() *Config {
	return &Config{
		Root:       ".",
		DataDir:    "data",
		ResultsDir: "results",
		LogLevel:   "info",
	}
}

// LoadConfig loads a JSON config from the given path. Fields
// absent from the file retain their default values. If path is
// empty the default configuration is returned.
func LoadConfig(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) path(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.Root, dir)
}

// Data returns the data directory.
func (c *Config) Data() string { return c.path(c.DataDir) }

// Results returns the results directory.
func (c *Config) Results() string { return c.path(c.ResultsDir) }

// ProteomeDir returns the directory holding input proteomes.
func (c *Config) ProteomeDir() string {
	return filepath.Join(c.Data(), "proteomes")
}

// StageDir returns the result directory for sample in the given
// stage. If sample is empty the stage directory is returned.
func (c *Config) StageDir(stage, sample string) string {
	return filepath.Join(c.Results(), stage, sample)
}

// Tool returns the configured executable for the named tool, or
// the empty string if none is configured.
func (c *Config) Tool(name string) string {
	return c.Tools[name]
}

// Setup loads the configuration at path, applying root and level
// when they are not empty, and returns it with a logger writing
// to w at the configured level.
func Setup(w io.Writer, path, root, level string) (*Config, *log.Logger, error) {
	c, err := LoadConfig(path)
	if err != nil {
		return nil, nil, fmt.Errorf("stage: failed to load config: %w", err)
	}
	if root != "" {
		c.Root = root
	}
	if level != "" {
		c.LogLevel = level
	}
	logger, err := NewLogger(w, c.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("loaded config", "path", path, "root", c.Root, "data_dir", c.Data(), "results_dir", c.Results())
	return c, logger, nil
}
