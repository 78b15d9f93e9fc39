// Copyright ©2026 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stage

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
)

// Extensions are the recognised proteome file extensions
// in order of preference.
var Extensions = []string{".faa", ".fasta", ".fa", ".fna"}

// Sample is a named input proteome.
type Sample struct {
	Name string
	Path string
}

// Samples returns the proteomes in dir sorted by name. When a
// sample has files with more than one recognised extension the
// earliest in Extensions is used.
func Samples(dir string) ([]Sample, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	rank := make(map[string]int)
	byName := make(map[string]Sample)
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		r := extRank(ext)
		if r < 0 {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ext)
		if prev, ok := rank[name]; ok && prev <= r {
			continue
		}
		rank[name] = r
		byName[name] = Sample{Name: name, Path: filepath.Join(dir, e.Name())}
	}
	samples := make([]Sample, 0, len(byName))
	for _, s := range byName {
		samples = append(samples, s)
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i].Name < samples[j].Name })
	return samples, nil
}

func extRank(ext string) int {
	for i, e := range Extensions {
		if e == ext {
			return i
		}
	}
	return -1
}

// FindSample returns the proteome for the named sample in dir.
func FindSample(dir, name string) (Sample, error) {
	var paths []string
	for _, ext := range Extensions {
		p := filepath.Join(dir, name+ext)
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
			return Sample{Name: name, Path: p}, nil
		}
		paths = append(paths, p)
	}
	return Sample{}, &MissingError{Paths: paths}
}

// Batch calls fn for each sample in order. Failing samples are
// logged as warnings and skipped. The names of failed samples
// are returned.
func Batch(logger *log.Logger, samples []Sample, fn func(Sample) error) (failed []string) {
	for _, s := range samples {
		logger.Info("processing", "sample", s.Name)
		err := fn(s)
		if err != nil {
			logger.Warn("skipping sample", "sample", s.Name, "err", err)
			failed = append(failed, s.Name)
		}
	}
	return failed
}

// SelectSamples returns the named proteomes in the proteome
// directory of c, or all of them if no names are given.
func (c *Config) SelectSamples(names ...string) ([]Sample, error) {
	if len(names) == 0 {
		samples, err := Samples(c.ProteomeDir())
		if err != nil {
			return nil, err
		}
		if len(samples) == 0 {
			return nil, &MissingError{Paths: []string{c.ProteomeDir()}}
		}
		return samples, nil
	}
	samples := make([]Sample, 0, len(names))
	for _, n := range names {
		s, err := FindSample(c.ProteomeDir(), n)
		if err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, nil
}
